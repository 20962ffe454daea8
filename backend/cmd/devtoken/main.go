package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/app"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/config"
	appLogger "github.com/LerianStudio/lerian-usa-site/backend/internal/infra/logger"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/infra/token"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/repository"
	usersvc "github.com/LerianStudio/lerian-usa-site/backend/internal/service/user"
)

// devtoken 为开发环境写入（或刷新）一个用户并签发访问令牌。
func main() {
	openID := flag.String("open-id", "dev-user", "用户 openId")
	name := flag.String("name", "Dev User", "显示名称")
	email := flag.String("email", "", "邮箱，可为空")
	admin := flag.Bool("admin", false, "是否授予管理员角色")
	flag.Parse()

	config.LoadEnvFiles()
	if _, err := appLogger.Init(); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer appLogger.Sync()
	logger := appLogger.S().With("component", "cmd.devtoken")

	flags := config.LoadRuntimeFlags()
	cfg, err := config.LoadServerConfig(flags)
	if err != nil {
		logger.Fatalw("load server config failed", "error", err)
	}
	if cfg.JWTSecret == "" {
		logger.Fatalw("JWT_SECRET is required to sign tokens")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resources, err := app.Bootstrap(ctx, flags)
	if err != nil {
		logger.Fatalw("bootstrap failed", "error", err)
	}
	defer resources.Close()

	identity := usersvc.Identity{OpenID: *openID, Name: name, Admin: *admin}
	if *email != "" {
		identity.Email = email
	}
	method := "devtoken"
	identity.LoginMethod = &method

	users := usersvc.NewService(repository.NewUserRepository(resources.DB), logger)
	user, err := users.SyncIdentity(ctx, identity)
	if err != nil {
		logger.Fatalw("sync identity failed", "error", err)
	}

	raw, expiresAt, err := token.NewJWTManager(cfg.JWTSecret, cfg.AccessTTL).Issue(user)
	if err != nil {
		logger.Fatalw("issue token failed", "error", err)
	}
	logger.Infow("token issued", "user_id", user.ID, "role", user.Role, "expires_at", expiresAt)
	fmt.Fprintln(os.Stdout, raw)
}
