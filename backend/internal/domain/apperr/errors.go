// Package apperr 定义跨服务共享的错误分类，handler 依据分类映射 HTTP 状态码。
package apperr

import (
	"errors"
	"fmt"
)

// Kind 表示错误的业务分类。
type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindState       Kind = "state"
	KindConflict    Kind = "conflict"
	KindUnavailable Kind = "unavailable"
	KindForbidden   Kind = "forbidden"
)

var (
	// ErrValidation 输入格式或取值范围不合法。
	ErrValidation = &Error{Kind: KindValidation, Message: "invalid input"}
	// ErrNotFound 引用的资源不存在。
	ErrNotFound = &Error{Kind: KindNotFound, Message: "resource not found"}
	// ErrState 当前资源状态不允许该操作，例如内容未发布。
	ErrState = &Error{Kind: KindState, Message: "operation not allowed in current state"}
	// ErrConflict 唯一键冲突，例如分类 slug 重复。
	ErrConflict = &Error{Kind: KindConflict, Message: "resource conflict"}
	// ErrUnavailable 底层存储不可用。
	ErrUnavailable = &Error{Kind: KindUnavailable, Message: "store unavailable"}
	// ErrForbidden 权限不足。
	ErrForbidden = &Error{Kind: KindForbidden, Message: "forbidden"}
)

// Error 携带分类、可展示信息以及底层错误。
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is 让 errors.Is(err, apperr.ErrNotFound) 按分类匹配，而不是按指针。
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Validation 构造校验错误。
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound 构造资源不存在错误。
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// State 构造状态错误。
func State(format string, args ...any) error {
	return &Error{Kind: KindState, Message: fmt.Sprintf(format, args...)}
}

// Conflict 构造冲突错误。
func Conflict(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Forbidden 构造权限错误。
func Forbidden(format string, args ...any) error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// Unavailable 将存储层错误包装为不可用，保留原始错误链。
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) && existing.Kind == KindUnavailable {
		return err
	}
	return &Error{Kind: KindUnavailable, Message: "数据存储暂不可用", Err: err}
}

// KindOf 返回错误链上第一个 apperr 分类，未分类时返回空字符串。
func KindOf(err error) Kind {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind
	}
	return ""
}

// MessageOf 返回可直接展示给调用方的信息。
func MessageOf(err error) string {
	var target *Error
	if errors.As(err, &target) {
		return target.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
