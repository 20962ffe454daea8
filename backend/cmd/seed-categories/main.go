package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/app"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/config"
	appLogger "github.com/LerianStudio/lerian-usa-site/backend/internal/infra/logger"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/repository"
	categorysvc "github.com/LerianStudio/lerian-usa-site/backend/internal/service/category"
)

// seed-categories 写入默认的博客与学院分类，重复执行只刷新名称。
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config.LoadEnvFiles()
	if _, err := appLogger.Init(); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer appLogger.Sync()
	logger := appLogger.S().With("component", "cmd.seed_categories")

	resources, err := app.Bootstrap(ctx, config.LoadRuntimeFlags())
	if err != nil {
		logger.Fatalw("bootstrap failed", "error", err)
	}
	defer resources.Close()

	service := categorysvc.NewService(repository.NewCategoryRepository(resources.DB), logger)
	seeds := categorysvc.DefaultSeeds()
	if err := service.EnsureSeeds(ctx, seeds); err != nil {
		logger.Fatalw("seed categories failed", "error", err)
	}
	logger.Infow("categories seeded", "count", len(seeds))
}
