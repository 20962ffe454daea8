package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userdomain "github.com/LerianStudio/lerian-usa-site/backend/internal/domain/user"
	response "github.com/LerianStudio/lerian-usa-site/backend/internal/infra/common"
	appLogger "github.com/LerianStudio/lerian-usa-site/backend/internal/infra/logger"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/infra/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TokenParser 解析访问令牌，JWTManager 实现该接口。
type TokenParser interface {
	Parse(raw string) (token.Claims, error)
}

// UserLookup 按主键读取用户，UserRepository 实现该接口。
type UserLookup interface {
	FindByID(ctx context.Context, id uint) (*userdomain.User, error)
}

// errAccountInactive 表示令牌对应的用户不存在或已注销。
var errAccountInactive = errors.New("account inactive")

// AuthMiddleware 校验 Bearer Token，并以数据库中的用户状态为准注入 userID/isAdmin。
type AuthMiddleware struct {
	tokens TokenParser
	users  UserLookup
	logger *zap.SugaredLogger
}

// NewAuthMiddleware 创建鉴权中间件实例。角色与注销状态每次请求都从 users 读取，
// 令牌里的角色只用于签发时展示。
func NewAuthMiddleware(tokens TokenParser, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		users:  users,
		logger: appLogger.S().With("component", "middleware.auth"),
	}
}

// Handle 返回要求登录的中间件，缺失或非法令牌返回 401。
func (m *AuthMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			response.Fail(c, http.StatusUnauthorized, response.ErrUnauthorized, "missing authorization header", nil)
			c.Abort()
			return
		}
		claims, err := m.tokens.Parse(raw)
		if err != nil {
			m.logger.Debugw("reject token", "path", c.FullPath(), "error", err)
			response.Fail(c, http.StatusUnauthorized, response.ErrUnauthorized, "invalid token", nil)
			c.Abort()
			return
		}
		u, err := m.resolve(c.Request.Context(), claims)
		if err != nil {
			if errors.Is(err, errAccountInactive) {
				m.logger.Infow("reject inactive account", "user_id", claims.UserID, "path", c.FullPath())
				response.Fail(c, http.StatusUnauthorized, response.ErrUnauthorized, "account not found or disabled", nil)
			} else {
				m.logger.Errorw("load token user failed", "user_id", claims.UserID, "error", err)
				response.Fail(c, http.StatusServiceUnavailable, response.ErrUnavailable, "user lookup unavailable", nil)
			}
			c.Abort()
			return
		}
		setIdentity(c, u, claims)
		c.Next()
	}
}

// Optional 返回可选鉴权中间件：令牌合法时注入身份，否则按匿名访问继续。
func (m *AuthMiddleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := bearerToken(c); ok {
			if claims, err := m.tokens.Parse(raw); err == nil {
				if u, err := m.resolve(c.Request.Context(), claims); err == nil {
					setIdentity(c, u, claims)
				}
			}
		}
		c.Next()
	}
}

// RequireAdmin 必须挂在 Handle 之后，非管理员返回 403。
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ContextIsAdmin) {
			response.Fail(c, http.StatusForbidden, response.ErrForbidden, "admin privileges required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(header[7:])
	return raw, raw != ""
}

// resolve 读取令牌对应的当前用户，不存在或已注销时返回 errAccountInactive。
func (m *AuthMiddleware) resolve(ctx context.Context, claims token.Claims) (*userdomain.User, error) {
	if m.users == nil {
		return nil, errors.New("user lookup not configured")
	}
	u, err := m.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errAccountInactive
		}
		return nil, err
	}
	if u == nil || u.IsDeleted() {
		return nil, errAccountInactive
	}
	return u, nil
}

func setIdentity(c *gin.Context, u *userdomain.User, claims token.Claims) {
	c.Set(ContextUserID, u.ID)
	c.Set(ContextIsAdmin, u.IsAdmin())
	c.Set(ContextClaims, claims)
}
