package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// ModeLocal 表示单机模式：SQLite 文件库 + 固定管理员身份。
	ModeLocal = "local"
	// ModeOnline 表示默认的线上模式：MySQL + JWT 鉴权。
	ModeOnline = "online"

	defaultLocalUserID    = 1
	defaultLocalOpenID    = "local-admin"
	defaultLocalUserName  = "Local Admin"
	defaultLocalDBRelPath = "data/community-local.db"
)

// RuntimeFlags 汇总运行模式及本地模式参数。
type RuntimeFlags struct {
	Mode  string
	Local LocalRuntime
}

// IsLocal 判断是否运行在本地模式。
func (f RuntimeFlags) IsLocal() bool {
	return f.Mode == ModeLocal
}

// LocalRuntime 描述本地模式下注入的身份与数据库路径。
type LocalRuntime struct {
	DBPath   string
	UserID   uint
	OpenID   string
	UserName string
	IsAdmin  bool
}

// LoadRuntimeFlags 读取 APP_MODE 与 LOCAL_* 环境变量。
func LoadRuntimeFlags() RuntimeFlags {
	LoadEnvFiles()

	mode := strings.ToLower(strings.TrimSpace(os.Getenv("APP_MODE")))
	if mode != ModeLocal {
		mode = ModeOnline
	}

	local := LocalRuntime{
		DBPath:   normalisePath(defaultLocalDBRelPath),
		UserID:   defaultLocalUserID,
		OpenID:   defaultLocalOpenID,
		UserName: defaultLocalUserName,
		IsAdmin:  true,
	}
	if rawPath := strings.TrimSpace(os.Getenv("LOCAL_SQLITE_PATH")); rawPath != "" {
		local.DBPath = normalisePath(rawPath)
	}
	if rawID := strings.TrimSpace(os.Getenv("LOCAL_USER_ID")); rawID != "" {
		if parsed, err := strconv.ParseUint(rawID, 10, 32); err == nil && parsed > 0 {
			local.UserID = uint(parsed)
		}
	}
	if rawOpenID := strings.TrimSpace(os.Getenv("LOCAL_USER_OPEN_ID")); rawOpenID != "" {
		local.OpenID = rawOpenID
	}
	if rawName := strings.TrimSpace(os.Getenv("LOCAL_USER_NAME")); rawName != "" {
		local.UserName = rawName
	}
	if rawAdmin := strings.TrimSpace(os.Getenv("LOCAL_USER_ADMIN")); rawAdmin != "" {
		if parsed, err := strconv.ParseBool(rawAdmin); err == nil {
			local.IsAdmin = parsed
		}
	}

	return RuntimeFlags{Mode: mode, Local: local}
}

// normalisePath 展开 ~ 前缀并转为绝对路径。
func normalisePath(raw string) string {
	if raw == "" {
		return raw
	}
	if strings.HasPrefix(raw, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			raw = filepath.Join(home, strings.TrimPrefix(raw, "~"))
		}
	}
	if filepath.IsAbs(raw) {
		return raw
	}
	if abs, err := filepath.Abs(raw); err == nil {
		return abs
	}
	return raw
}
