package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func newContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestExtractUserID(t *testing.T) {
	cases := []struct {
		value any
		want  uint
		ok    bool
	}{
		{uint(7), 7, true},
		{uint64(8), 8, true},
		{int(9), 9, true},
		{int64(-1), 0, false},
		{float64(3), 3, true},
		{"12", 0, false},
		{uint(0), 0, false},
	}
	for _, tc := range cases {
		c, _ := newContext("/")
		c.Set(middleware.ContextUserID, tc.value)
		got, ok := extractUserID(c)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("%v (%T): expected %d/%v, got %d/%v", tc.value, tc.value, tc.want, tc.ok, got, ok)
		}
	}

	c, _ := newContext("/")
	if _, ok := extractUserID(c); ok {
		t.Fatalf("expected missing user id to be reported")
	}
}

func TestRequireUserWritesUnauthorized(t *testing.T) {
	c, w := newContext("/")
	if _, ok := requireUser(c, zap.NewNop().Sugar()); ok {
		t.Fatalf("expected requireUser to fail")
	}
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestPathIDRejectsInvalidValues(t *testing.T) {
	for _, raw := range []string{"0", "-1", "abc", ""} {
		c, w := newContext("/")
		c.Params = gin.Params{{Key: "id", Value: raw}}
		if _, ok := pathID(c, "id"); ok {
			t.Fatalf("expected %q to be rejected", raw)
		}
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%q: expected 400, got %d", raw, w.Code)
		}
	}

	c, _ := newContext("/")
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	if id, ok := pathID(c, "id"); !ok || id != 42 {
		t.Fatalf("expected 42, got %d/%v", id, ok)
	}
}

func TestQueryInt(t *testing.T) {
	c, _ := newContext("/?page=3")
	if v, ok := queryInt(c, "page", 1); !ok || v != 3 {
		t.Fatalf("expected 3, got %d/%v", v, ok)
	}
	if v, ok := queryInt(c, "limit", 10); !ok || v != 10 {
		t.Fatalf("expected fallback 10, got %d/%v", v, ok)
	}

	c, w := newContext("/?page=x")
	if _, ok := queryInt(c, "page", 1); ok || w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non numeric page, got %d", w.Code)
	}
}

func TestIsAdmin(t *testing.T) {
	c, _ := newContext("/")
	if isAdmin(c) {
		t.Fatalf("expected anonymous request not to be admin")
	}
	c.Set(middleware.ContextIsAdmin, true)
	if !isAdmin(c) {
		t.Fatalf("expected admin flag to be read")
	}
}
