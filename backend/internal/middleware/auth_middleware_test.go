package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	userdomain "github.com/LerianStudio/lerian-usa-site/backend/internal/domain/user"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/infra/token"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type stubParser struct {
	claims token.Claims
	err    error
	seen   string
}

func (s *stubParser) Parse(raw string) (token.Claims, error) {
	s.seen = raw
	return s.claims, s.err
}

type stubUsers struct {
	byID map[uint]*userdomain.User
	err  error
}

func (s *stubUsers) FindByID(_ context.Context, id uint) (*userdomain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func usersWith(list ...*userdomain.User) *stubUsers {
	s := &stubUsers{byID: map[uint]*userdomain.User{}}
	for _, u := range list {
		s.byID[u.ID] = u
	}
	return s
}

func newIdentityRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  c.GetUint(ContextUserID),
			"is_admin": c.GetBool(ContextIsAdmin),
		})
	})
	r.GET("/whoami", handlers...)
	return r
}

func doGet(r http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandleRejectsMissingHeader(t *testing.T) {
	mw := NewAuthMiddleware(&stubParser{}, usersWith())
	w := doGet(newIdentityRouter(mw.Handle()), "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandleRejectsInvalidToken(t *testing.T) {
	mw := NewAuthMiddleware(&stubParser{err: errors.New("bad")}, usersWith())
	w := doGet(newIdentityRouter(mw.Handle()), "Bearer nope")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandleInjectsIdentity(t *testing.T) {
	parser := &stubParser{claims: token.Claims{UserID: 9, Role: "admin"}}
	mw := NewAuthMiddleware(parser, usersWith(&userdomain.User{ID: 9, Role: userdomain.RoleAdmin}))
	w := doGet(newIdentityRouter(mw.Handle()), "bearer abc.def")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if parser.seen != "abc.def" {
		t.Fatalf("expected raw token to be passed through, got %q", parser.seen)
	}
	if body := w.Body.String(); body != `{"is_admin":true,"user_id":9}` {
		t.Fatalf("unexpected identity: %s", body)
	}
}

func TestAuthOptionalAllowsAnonymous(t *testing.T) {
	mw := NewAuthMiddleware(&stubParser{err: errors.New("bad")}, usersWith())
	r := newIdentityRouter(mw.Optional())

	for _, header := range []string{"", "Bearer broken", "Basic abc"} {
		w := doGet(r, header)
		if w.Code != http.StatusOK {
			t.Fatalf("header %q: expected 200, got %d", header, w.Code)
		}
		if body := w.Body.String(); body != `{"is_admin":false,"user_id":0}` {
			t.Fatalf("header %q: expected anonymous identity, got %s", header, body)
		}
	}
}

func TestRequireAdmin(t *testing.T) {
	users := usersWith(
		&userdomain.User{ID: 1, Role: userdomain.RoleAdmin},
		&userdomain.User{ID: 2, Role: userdomain.RoleUser},
	)
	user := NewAuthMiddleware(&stubParser{claims: token.Claims{UserID: 2, Role: "user"}}, users)
	w := doGet(newIdentityRouter(user.Handle(), RequireAdmin()), "Bearer t")
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for plain user, got %d", w.Code)
	}

	admin := NewAuthMiddleware(&stubParser{claims: token.Claims{UserID: 1, Role: "admin"}}, users)
	w = doGet(newIdentityRouter(admin.Handle(), RequireAdmin()), "Bearer t")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", w.Code)
	}
}

func TestAuthUsesStoredRoleOverTokenRole(t *testing.T) {
	// 令牌签发时是管理员，之后被降级。
	parser := &stubParser{claims: token.Claims{UserID: 3, Role: "admin"}}
	mw := NewAuthMiddleware(parser, usersWith(&userdomain.User{ID: 3, Role: userdomain.RoleUser}))

	w := doGet(newIdentityRouter(mw.Handle(), RequireAdmin()), "Bearer t")
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for demoted admin, got %d", w.Code)
	}
	w = doGet(newIdentityRouter(mw.Handle()), "Bearer t")
	if body := w.Body.String(); body != `{"is_admin":false,"user_id":3}` {
		t.Fatalf("expected stored role to win, got %s", body)
	}
}

func TestAuthRejectsDeletedOrUnknownUser(t *testing.T) {
	deletedAt := time.Now().UTC()
	users := usersWith(&userdomain.User{ID: 4, Role: userdomain.RoleUser, DeletedAt: &deletedAt})

	for _, id := range []uint{4, 404} {
		mw := NewAuthMiddleware(&stubParser{claims: token.Claims{UserID: id, Role: "user"}}, users)
		if w := doGet(newIdentityRouter(mw.Handle()), "Bearer t"); w.Code != http.StatusUnauthorized {
			t.Fatalf("user %d: expected 401, got %d", id, w.Code)
		}
		w := doGet(newIdentityRouter(mw.Optional()), "Bearer t")
		if body := w.Body.String(); body != `{"is_admin":false,"user_id":0}` {
			t.Fatalf("user %d: optional auth should fall back to anonymous, got %s", id, body)
		}
	}
}

func TestAuthLookupFailureIsUnavailable(t *testing.T) {
	mw := NewAuthMiddleware(&stubParser{claims: token.Claims{UserID: 1}}, &stubUsers{err: errors.New("db down")})
	if w := doGet(newIdentityRouter(mw.Handle()), "Bearer t"); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestOfflineAuthInjectsFixedUser(t *testing.T) {
	mw := NewOfflineAuthMiddleware(5, false)
	for _, h := range []gin.HandlerFunc{mw.Handle(), mw.Optional()} {
		w := doGet(newIdentityRouter(h), "")
		if body := w.Body.String(); body != `{"is_admin":false,"user_id":5}` {
			t.Fatalf("unexpected offline identity: %s", body)
		}
	}
}
