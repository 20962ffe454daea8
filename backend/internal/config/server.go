package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultServerPort       = "8080"
	defaultAccessTTL        = 24 * time.Hour
	defaultGeneralLimit     = 100
	defaultGeneralWindow    = 15 * time.Minute
	defaultMutationLimit    = 30
	defaultMutationWindow   = 5 * time.Minute
	defaultPageMaxLimit     = 50
	defaultCommentMaxLength = 1000
	defaultShutdownTimeout  = 10 * time.Second
	defaultSnapshotSchedule = "5 0 * * *"
)

// ServerConfig 汇总 HTTP 服务启动所需的配置。
type ServerConfig struct {
	Port             string
	JWTSecret        string
	AccessTTL        time.Duration
	AllowedOrigins   []string
	GeneralLimit     int
	GeneralWindow    time.Duration
	MutationLimit    int
	MutationWindow   time.Duration
	PageMaxLimit     int
	CommentMaxLength int
	ShutdownTimeout  time.Duration
	// SnapshotSchedule 为空表示关闭定时快照。
	SnapshotSchedule string
}

// LoadServerConfig 从环境变量读取服务配置，online 模式下要求 JWT_SECRET。
func LoadServerConfig(flags RuntimeFlags) (ServerConfig, error) {
	LoadEnvFiles()

	cfg := ServerConfig{
		Port:             envString("SERVER_PORT", defaultServerPort),
		JWTSecret:        strings.TrimSpace(os.Getenv("JWT_SECRET")),
		AccessTTL:        envDuration("JWT_ACCESS_TTL", defaultAccessTTL),
		AllowedOrigins:   envList("CORS_ALLOWED_ORIGINS"),
		GeneralLimit:     envInt("RATE_LIMIT_GENERAL", defaultGeneralLimit),
		GeneralWindow:    envDuration("RATE_LIMIT_WINDOW_GENERAL", defaultGeneralWindow),
		MutationLimit:    envInt("RATE_LIMIT_MUTATION", defaultMutationLimit),
		MutationWindow:   envDuration("RATE_LIMIT_WINDOW_MUTATION", defaultMutationWindow),
		PageMaxLimit:     envInt("PAGE_MAX_LIMIT", defaultPageMaxLimit),
		CommentMaxLength: envInt("COMMENT_MAX_LENGTH", defaultCommentMaxLength),
		ShutdownTimeout:  envDuration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		SnapshotSchedule: envString("ANALYTICS_SNAPSHOT_CRON", defaultSnapshotSchedule),
	}
	if strings.EqualFold(cfg.SnapshotSchedule, "off") {
		cfg.SnapshotSchedule = ""
	}

	if cfg.PageMaxLimit <= 0 || cfg.PageMaxLimit > defaultPageMaxLimit {
		cfg.PageMaxLimit = defaultPageMaxLimit
	}
	if cfg.CommentMaxLength <= 0 || cfg.CommentMaxLength > defaultCommentMaxLength {
		cfg.CommentMaxLength = defaultCommentMaxLength
	}
	if !flags.IsLocal() && cfg.JWTSecret == "" {
		return ServerConfig{}, fmt.Errorf("JWT_SECRET is required in %s mode", flags.Mode)
	}
	return cfg, nil
}

// Addr 返回 http.Server 监听地址。
func (c ServerConfig) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// envDuration 同时接受 Go duration（如 15m）与纯秒数。
func envDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func envList(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
