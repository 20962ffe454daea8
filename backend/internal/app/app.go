package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/config"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/infra/client"
	appLogger "github.com/LerianStudio/lerian-usa-site/backend/internal/infra/logger"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/repository"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Resources 持有进程级的外部连接。
type Resources struct {
	Flags config.RuntimeFlags
	DB    *gorm.DB
	Redis *redis.Client
}

// Bootstrap 按运行模式打开数据库并迁移表结构，Redis 配置存在时一并连接。
func Bootstrap(ctx context.Context, flags config.RuntimeFlags) (*Resources, error) {
	logger := appLogger.S().With("component", "app")

	db, err := openDatabase(flags)
	if err != nil {
		return nil, err
	}
	resources := &Resources{Flags: flags, DB: db}

	if err := repository.Migrate(db); err != nil {
		_ = resources.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	redisOpts, ok, err := client.LoadRedisOptionsFromEnv()
	if err != nil {
		_ = resources.Close()
		return nil, fmt.Errorf("load redis config: %w", err)
	}
	if ok {
		rdb, err := client.NewRedisClient(ctx, redisOpts)
		if err != nil {
			// Redis 仅用于限流计数，连不上时退回内存实现。
			logger.Warnw("redis unavailable, falling back to in-memory limiter", "addr", redisOpts.Addr(), "error", err)
		} else {
			resources.Redis = rdb
			logger.Infow("redis connected", "addr", redisOpts.Addr(), "db", redisOpts.DB)
		}
	}
	return resources, nil
}

func openDatabase(flags config.RuntimeFlags) (*gorm.DB, error) {
	logger := appLogger.S().With("component", "app")
	if flags.IsLocal() {
		db, err := client.NewGORMSQLite(flags.Local.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		logger.Infow("sqlite opened", "path", flags.Local.DBPath)
		return db, nil
	}

	mysqlCfg, err := client.LoadMySQLConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("load mysql config: %w", err)
	}
	db, err := client.NewGORMMySQL(mysqlCfg, client.DefaultPoolOptions())
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	logger.Infow("mysql connected", "host", mysqlCfg.Host, "database", mysqlCfg.Database, "user", mysqlCfg.Username)
	return db, nil
}

// Ping 供健康检查使用。
func (r *Resources) Ping() error {
	if r == nil || r.DB == nil {
		return errors.New("database not initialised")
	}
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close 释放数据库与 Redis 连接。
func (r *Resources) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	if r.Redis != nil {
		if err := r.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if r.DB != nil {
		if sqlDB, err := r.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close db: %w", err))
			}
		}
	}
	return errors.Join(errs...)
}
