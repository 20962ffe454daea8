package response

import (
	"errors"
	"net/http"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorCode 统一的错误码，前端据此区分失败原因。
type ErrorCode string

const (
	ErrBadRequest      ErrorCode = "BAD_REQUEST"
	ErrValidation      ErrorCode = "VALIDATION_ERROR"
	ErrUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrForbidden       ErrorCode = "FORBIDDEN"
	ErrNotFound        ErrorCode = "NOT_FOUND"
	ErrConflict        ErrorCode = "CONFLICT"
	ErrState           ErrorCode = "STATE_ERROR"
	ErrTooManyRequests ErrorCode = "TOO_MANY_REQUESTS"
	ErrUnavailable     ErrorCode = "UNAVAILABLE"
	ErrInternal        ErrorCode = "INTERNAL_ERROR"
)

// Error 错误响应体。
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
}

// Response 所有接口共用的外层结构。
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   *Error `json:"error,omitempty"`
	Meta    any    `json:"meta,omitempty"`
}

// MetaPagination 分页信息，放在 Response.Meta。
type MetaPagination struct {
	Page         int `json:"page"`
	PageSize     int `json:"page_size"`
	TotalItems   int `json:"total_items"`
	TotalPages   int `json:"total_pages"`
	CurrentCount int `json:"current_count"`
}

// NewMetaPagination 根据总数与分页参数计算总页数。
func NewMetaPagination(page, pageSize int, total int64, current int) MetaPagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return MetaPagination{
		Page:         page,
		PageSize:     pageSize,
		TotalItems:   int(total),
		TotalPages:   totalPages,
		CurrentCount: current,
	}
}

// Success 返回成功结果。
func Success(c *gin.Context, status int, data any, meta any) {
	if status == 0 {
		status = http.StatusOK
	}
	resp := Response{Success: true, Data: data}
	if meta != nil {
		resp.Meta = meta
	}
	c.JSON(status, resp)
}

// Created 返回 201。
func Created(c *gin.Context, data any, meta any) {
	Success(c, http.StatusCreated, data, meta)
}

// NoContent 返回 204。
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Fail 返回错误结果。
func Fail(c *gin.Context, status int, code ErrorCode, message string, details any) {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	resp := Response{
		Success: false,
		Error:   &Error{Code: code, Message: message},
	}
	if details != nil {
		resp.Error.Details = details
	}
	c.JSON(status, resp)
}

// FailWithError 按 apperr 分类映射状态码与错误码；未分类的错误一律视为内部错误，
// 不把底层信息暴露给调用方。
func FailWithError(c *gin.Context, err error) {
	status, code := StatusOf(err)
	message := http.StatusText(status)
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	Fail(c, status, code, message, nil)
}

// StatusOf 返回错误对应的 HTTP 状态码与错误码。
func StatusOf(err error) (int, ErrorCode) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest, ErrValidation
	case apperr.KindNotFound:
		return http.StatusNotFound, ErrNotFound
	case apperr.KindState:
		return http.StatusConflict, ErrState
	case apperr.KindConflict:
		return http.StatusConflict, ErrConflict
	case apperr.KindUnavailable:
		return http.StatusServiceUnavailable, ErrUnavailable
	case apperr.KindForbidden:
		return http.StatusForbidden, ErrForbidden
	default:
		return http.StatusInternalServerError, ErrInternal
	}
}
