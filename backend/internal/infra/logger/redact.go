package logger

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

const redactedValue = "[REDACTED]"

// sensitiveKeys 中的字段名（忽略大小写，支持后缀匹配）在输出前会被替换。
var sensitiveKeys = []string{"password", "token", "authorization", "cookie", "secret"}

type redactingCore struct {
	zapcore.Core
}

// NewRedactingCore 包装 Core，对敏感字段做脱敏处理。
func NewRedactingCore(core zapcore.Core) zapcore.Core {
	return &redactingCore{Core: core}
}

func (c *redactingCore) With(fields []zapcore.Field) zapcore.Core {
	return &redactingCore{Core: c.Core.With(redactFields(fields))}
}

func (c *redactingCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *redactingCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	return c.Core.Write(entry, redactFields(fields))
}

func redactFields(fields []zapcore.Field) []zapcore.Field {
	var out []zapcore.Field
	for i, f := range fields {
		if !isSensitive(f.Key) {
			continue
		}
		if out == nil {
			out = make([]zapcore.Field, len(fields))
			copy(out, fields)
		}
		out[i] = zapcore.Field{Key: f.Key, Type: zapcore.StringType, String: redactedValue}
	}
	if out == nil {
		return fields
	}
	return out
}

// isSensitive 匹配 password、user_token、X-Authorization 之类的字段名。
func isSensitive(key string) bool {
	lower := strings.ToLower(key)
	for _, k := range sensitiveKeys {
		if lower == k || strings.HasSuffix(lower, "_"+k) || strings.HasSuffix(lower, "-"+k) || strings.HasSuffix(lower, "."+k) {
			return true
		}
	}
	return false
}
