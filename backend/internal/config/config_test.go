package config

import (
	"path/filepath"
	"testing"
	"time"
)

func disableEnvFiles(t *testing.T) {
	t.Helper()
	SetEnvFileLoadingForTest(false)
	t.Cleanup(func() { SetEnvFileLoadingForTest(true) })
}

func TestLoadRuntimeFlagsDefaultsToOnline(t *testing.T) {
	disableEnvFiles(t)
	t.Setenv("APP_MODE", "")

	flags := LoadRuntimeFlags()
	if flags.IsLocal() || flags.Mode != ModeOnline {
		t.Fatalf("expected online mode, got %q", flags.Mode)
	}
}

func TestLoadRuntimeFlagsLocalOverrides(t *testing.T) {
	disableEnvFiles(t)
	dbPath := filepath.Join(t.TempDir(), "local.db")
	t.Setenv("APP_MODE", "LOCAL")
	t.Setenv("LOCAL_SQLITE_PATH", dbPath)
	t.Setenv("LOCAL_USER_ID", "42")
	t.Setenv("LOCAL_USER_OPEN_ID", "me")
	t.Setenv("LOCAL_USER_ADMIN", "false")

	flags := LoadRuntimeFlags()
	if !flags.IsLocal() {
		t.Fatalf("expected local mode")
	}
	if flags.Local.DBPath != dbPath || flags.Local.UserID != 42 || flags.Local.OpenID != "me" || flags.Local.IsAdmin {
		t.Fatalf("unexpected local runtime: %+v", flags.Local)
	}
}

func TestLoadServerConfigRequiresSecretOnline(t *testing.T) {
	disableEnvFiles(t)
	t.Setenv("JWT_SECRET", "")

	if _, err := LoadServerConfig(RuntimeFlags{Mode: ModeOnline}); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
	if _, err := LoadServerConfig(RuntimeFlags{Mode: ModeLocal}); err != nil {
		t.Fatalf("local mode should not require secret: %v", err)
	}
}

func TestLoadServerConfigParsesAndClamps(t *testing.T) {
	disableEnvFiles(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com ,")
	t.Setenv("RATE_LIMIT_WINDOW_GENERAL", "60")
	t.Setenv("RATE_LIMIT_WINDOW_MUTATION", "2m")
	t.Setenv("PAGE_MAX_LIMIT", "500")
	t.Setenv("COMMENT_MAX_LENGTH", "200")

	cfg, err := LoadServerConfig(RuntimeFlags{Mode: ModeOnline})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr() != ":9090" {
		t.Fatalf("unexpected addr %q", cfg.Addr())
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
	if cfg.GeneralWindow != time.Minute || cfg.MutationWindow != 2*time.Minute {
		t.Fatalf("unexpected windows: %v %v", cfg.GeneralWindow, cfg.MutationWindow)
	}
	if cfg.PageMaxLimit != 50 {
		t.Fatalf("page limit should be clamped to 50, got %d", cfg.PageMaxLimit)
	}
	if cfg.CommentMaxLength != 200 {
		t.Fatalf("expected comment limit 200, got %d", cfg.CommentMaxLength)
	}
}

func TestSnapshotScheduleCanBeDisabled(t *testing.T) {
	disableEnvFiles(t)
	t.Setenv("ANALYTICS_SNAPSHOT_CRON", "")
	cfg, err := LoadServerConfig(RuntimeFlags{Mode: ModeLocal})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SnapshotSchedule != defaultSnapshotSchedule {
		t.Fatalf("expected default schedule, got %q", cfg.SnapshotSchedule)
	}

	t.Setenv("ANALYTICS_SNAPSHOT_CRON", "OFF")
	cfg, err = LoadServerConfig(RuntimeFlags{Mode: ModeLocal})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SnapshotSchedule != "" {
		t.Fatalf("expected schedule to be disabled, got %q", cfg.SnapshotSchedule)
	}
}
