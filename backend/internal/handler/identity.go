package handler

import (
	"net/http"
	"strconv"
	"strings"

	response "github.com/LerianStudio/lerian-usa-site/backend/internal/infra/common"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// extractUserID 从上下文读取鉴权中间件写入的用户 ID。
func extractUserID(c *gin.Context) (uint, bool) {
	val, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return 0, false
	}
	switch id := val.(type) {
	case uint:
		return id, id > 0
	case uint64:
		return uint(id), id > 0
	case int:
		if id <= 0 {
			return 0, false
		}
		return uint(id), true
	case int64:
		if id <= 0 {
			return 0, false
		}
		return uint(id), true
	case float64:
		if id <= 0 {
			return 0, false
		}
		return uint(id), true
	default:
		return 0, false
	}
}

// isAdmin 判断当前请求是否来自管理员。
func isAdmin(c *gin.Context) bool {
	val, ok := c.Get(middleware.ContextIsAdmin)
	if !ok {
		return false
	}
	if b, ok := val.(bool); ok {
		return b
	}
	return false
}

// requireUser 读取当前用户，缺失时直接返回 401。
func requireUser(c *gin.Context, log *zap.SugaredLogger) (uint, bool) {
	userID, ok := extractUserID(c)
	if !ok {
		log.Warnw("missing user id")
		response.Fail(c, http.StatusUnauthorized, response.ErrUnauthorized, "missing user id", nil)
		return 0, false
	}
	return userID, true
}

// pathID 解析路径参数中的正整数 ID，非法时返回 400。
func pathID(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, "invalid "+name, nil)
		return 0, false
	}
	return uint(id), true
}

// queryID 读取正整数 ID 查询参数，0、负数或格式错误时返回 400。
func queryID(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Query(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, "invalid "+name, nil)
		return 0, false
	}
	return uint(id), true
}

// queryInt 读取整数查询参数，缺省时返回 fallback，格式错误时返回 400。
func queryInt(c *gin.Context, name string, fallback int) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, "invalid "+name, nil)
		return 0, false
	}
	return value, true
}

// fail 记录日志并按错误分类写出响应：5xx 记为错误，其余记为告警。
func fail(c *gin.Context, log *zap.SugaredLogger, msg string, err error) {
	status, _ := response.StatusOf(err)
	if status >= http.StatusInternalServerError {
		log.Errorw(msg, "error", err)
	} else {
		log.Warnw(msg, "error", err)
	}
	response.FailWithError(c, err)
}

func scopedLogger(logger *zap.SugaredLogger, component, operation string) *zap.SugaredLogger {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return logger.With("component", component, "operation", operation)
}
