package middleware

import (
	"fmt"
	"net/http"
	"strings"

	response "github.com/LerianStudio/lerian-usa-site/backend/internal/infra/common"
	appLogger "github.com/LerianStudio/lerian-usa-site/backend/internal/infra/logger"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/infra/metrics"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/infra/ratelimit"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimitMiddleware 按策略对请求计数：已登录用户按 userID，匿名请求按客户端 IP。
type RateLimitMiddleware struct {
	limiter ratelimit.Limiter
	policy  ratelimit.Policy
	logger  *zap.SugaredLogger
}

// NewRateLimitMiddleware 构造限流中间件。
func NewRateLimitMiddleware(limiter ratelimit.Limiter, policy ratelimit.Policy) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		policy:  policy,
		logger:  appLogger.S().With("component", "middleware.ratelimit", "policy", policy.Name),
	}
}

// Handle 返回 Gin 中间件。限流器故障时放行，只记录告警。
func (m *RateLimitMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.limiter == nil || !m.policy.Enabled() {
			c.Next()
			return
		}
		key := m.subject(c)
		if key == "" {
			c.Next()
			return
		}

		result, err := ratelimit.Check(c.Request.Context(), m.limiter, m.policy, key)
		if err != nil {
			m.logger.Warnw("rate limit check failed", "key", key, "error", err)
			c.Next()
			return
		}
		if !result.Allowed {
			metrics.RecordRateLimited(m.policy.Name)
			retryAfter := int(result.RetryAfter.Seconds())
			if retryAfter <= 0 {
				retryAfter = 1
			}
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			response.Fail(c, http.StatusTooManyRequests, response.ErrTooManyRequests, "request rate limited", gin.H{
				"retry_after_seconds": retryAfter,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *RateLimitMiddleware) subject(c *gin.Context) string {
	if raw, ok := c.Get(ContextUserID); ok {
		if id, ok := raw.(uint); ok && id > 0 {
			return fmt.Sprintf("user:%d", id)
		}
	}
	ip := strings.TrimSpace(c.ClientIP())
	if ip == "" {
		return ""
	}
	return "ip:" + ip
}
