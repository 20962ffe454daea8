package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/app"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/config"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/handler"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/infra/ratelimit"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/infra/token"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/middleware"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/repository"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/server"
	analyticssvc "github.com/LerianStudio/lerian-usa-site/backend/internal/service/analytics"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/service/catalog"
	categorysvc "github.com/LerianStudio/lerian-usa-site/backend/internal/service/category"
	commentsvc "github.com/LerianStudio/lerian-usa-site/backend/internal/service/comment"
	eventsvc "github.com/LerianStudio/lerian-usa-site/backend/internal/service/event"
	ratingsvc "github.com/LerianStudio/lerian-usa-site/backend/internal/service/rating"
	searchsvc "github.com/LerianStudio/lerian-usa-site/backend/internal/service/search"
	usersvc "github.com/LerianStudio/lerian-usa-site/backend/internal/service/user"

	"go.uber.org/zap"
)

// Application 汇总启动后的服务与路由。
type Application struct {
	Resources   *app.Resources
	UserSvc     *usersvc.Service
	CategorySvc *categorysvc.Service
	Analytics   *analyticssvc.Service
	Tokens      *token.JWTManager
	Router      http.Handler
}

// BuildApplication 组装仓储、服务、Handler 与中间件。
func BuildApplication(ctx context.Context, logger *zap.SugaredLogger, resources *app.Resources, cfg config.ServerConfig) (*Application, error) {
	db := resources.DB

	postRepo := repository.NewPostRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	eventRepo := repository.NewEventRepository(db)
	userRepo := repository.NewUserRepository(db)

	catalogCfg := catalog.Config{MaxPageLimit: cfg.PageMaxLimit}
	postService := catalog.NewPostService(postRepo, ratingRepo, logger, catalogCfg)
	videoService := catalog.NewVideoService(videoRepo, ratingRepo, logger, catalogCfg)

	commentCfg := commentsvc.Config{MaxLength: cfg.CommentMaxLength}
	postRatings := ratingsvc.NewService(content.KindPost, ratingRepo, postRepo, logger)
	videoRatings := ratingsvc.NewService(content.KindVideo, ratingRepo, videoRepo, logger)
	postComments := commentsvc.NewService(content.KindPost, commentRepo, postRepo, logger, commentCfg)
	videoComments := commentsvc.NewService(content.KindVideo, commentRepo, videoRepo, logger, commentCfg)

	categoryService := categorysvc.NewService(categoryRepo, logger)

	userService := usersvc.NewService(userRepo, logger)
	eventService := eventsvc.NewService(eventRepo, logger)
	searchService := searchsvc.NewService(repository.NewSearchRepository(db), logger)
	analyticsService := analyticssvc.NewService(repository.NewAnalyticsRepository(db), repository.NewSnapshotRepository(db), logger)

	limiter := buildLimiter(resources, logger)
	engagementCfg := handler.EngagementRateLimit{MutationLimit: cfg.MutationLimit, MutationWindow: cfg.MutationWindow}

	tokens := token.NewJWTManager(cfg.JWTSecret, cfg.AccessTTL)
	authMW, err := buildAuthenticator(ctx, logger, resources.Flags, userService, userRepo, tokens)
	if err != nil {
		return nil, err
	}

	router := server.NewRouter(server.RouterOptions{
		PostHandler:            handler.NewPostHandler(postService),
		VideoHandler:           handler.NewVideoHandler(videoService),
		PostEngagement:         handler.NewEngagementHandler(content.KindPost, postRatings, postComments, limiter, engagementCfg),
		VideoEngagement:        handler.NewEngagementHandler(content.KindVideo, videoRatings, videoComments, limiter, engagementCfg),
		BlogCategoryHandler:    handler.NewCategoryHandler(content.KindPost, categoryService),
		AcademyCategoryHandler: handler.NewCategoryHandler(content.KindVideo, categoryService),
		EventHandler:           handler.NewEventHandler(eventService),
		SearchHandler:          handler.NewSearchHandler(searchService),
		UserHandler:            handler.NewUserHandler(userService),
		AnalyticsHandler:       handler.NewAnalyticsHandler(analyticsService),
		AuthMW:                 authMW,
		RateLimit: middleware.NewRateLimitMiddleware(limiter, ratelimit.Policy{
			Name:   "general",
			Limit:  cfg.GeneralLimit,
			Window: cfg.GeneralWindow,
		}),
		AllowedOrigins: cfg.AllowedOrigins,
		Health:         resources.Ping,
		AccessLog:      true,
	})

	return &Application{
		Resources:   resources,
		UserSvc:     userService,
		CategorySvc: categoryService,
		Analytics:   analyticsService,
		Tokens:      tokens,
		Router:      router,
	}, nil
}

// buildLimiter 优先使用 Redis 计数，未配置 Redis 时退回进程内计数。
func buildLimiter(resources *app.Resources, logger *zap.SugaredLogger) ratelimit.Limiter {
	if resources.Redis != nil {
		return ratelimit.NewRedisLimiter(resources.Redis, "")
	}
	logger.Infow("using in-memory rate limiter; counters won't be shared across instances")
	return ratelimit.NewMemoryLimiter()
}

// buildAuthenticator 本地模式写入固定管理员并注入身份，线上模式走 JWT 并逐次回查用户状态。
func buildAuthenticator(ctx context.Context, logger *zap.SugaredLogger, flags config.RuntimeFlags, users *usersvc.Service, userRepo *repository.UserRepository, tokens *token.JWTManager) (middleware.Authenticator, error) {
	if !flags.IsLocal() {
		return middleware.NewAuthMiddleware(tokens, userRepo), nil
	}
	local := flags.Local
	name := local.UserName
	method := "local"
	user, err := users.SyncIdentity(ctx, usersvc.Identity{
		OpenID:      local.OpenID,
		Name:        &name,
		LoginMethod: &method,
		Admin:       local.IsAdmin,
	})
	if err != nil {
		return nil, fmt.Errorf("sync local user: %w", err)
	}
	logger.Infow("local mode identity injected", "user_id", user.ID, "open_id", local.OpenID, "admin", local.IsAdmin)
	return middleware.NewOfflineAuthMiddleware(user.ID, local.IsAdmin), nil
}
