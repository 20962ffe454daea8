package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/handler"
	response "github.com/LerianStudio/lerian-usa-site/backend/internal/infra/common"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthFunc 检查依赖是否可用。
type HealthFunc func() error

// RouterOptions 汇总构建路由所需的 Handler 与中间件，nil 的 Handler 对应路由不注册。
type RouterOptions struct {
	PostHandler            *handler.PostHandler
	VideoHandler           *handler.ContentHandler[content.AcademyVideo]
	PostEngagement         *handler.EngagementHandler
	VideoEngagement        *handler.EngagementHandler
	BlogCategoryHandler    *handler.CategoryHandler
	AcademyCategoryHandler *handler.CategoryHandler
	EventHandler           *handler.EventHandler
	SearchHandler          *handler.SearchHandler
	UserHandler            *handler.UserHandler
	AnalyticsHandler       *handler.AnalyticsHandler
	AuthMW                 middleware.Authenticator
	RateLimit              *middleware.RateLimitMiddleware
	AllowedOrigins         []string
	Health                 HealthFunc
	AccessLog              bool
}

// NewRouter 构建应用的 Gin Engine，汇总所有 REST 接口与公共中间件配置。
func NewRouter(opts RouterOptions) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
		AllowOriginFunc:  originMatcher(opts.AllowedOrigins),
	}))
	if opts.AccessLog {
		r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
			SkipPaths: []string{"/healthz", "/metrics"},
			Formatter: gin.LogFormatter(func(params gin.LogFormatterParams) string {
				requestID, _ := params.Keys["requestID"].(string)
				return fmt.Sprintf("%s - [%s] \"%s %s\" %d %s %s\n",
					params.ClientIP,
					params.TimeStamp.Format(time.RFC3339),
					params.Method,
					params.Path,
					params.StatusCode,
					params.Latency,
					requestID,
				)
			}),
		}))
	}
	if opts.RateLimit != nil {
		r.Use(opts.RateLimit.Handle())
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		if opts.Health != nil {
			if err := opts.Health(); err != nil {
				response.Fail(c, http.StatusServiceUnavailable, response.ErrUnavailable, "database unavailable", nil)
				return
			}
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"}, nil)
	})

	api := r.Group("/api")
	optional, required := authChains(opts.AuthMW)
	admin := append(append([]gin.HandlerFunc{}, required...), middleware.RequireAdmin())

	if h := opts.PostHandler; h != nil {
		posts := api.Group("/posts", optional...)
		posts.GET("", h.List)
		posts.GET("/slug/:slug", h.GetBySlug)
		posts.GET("/:id", h.Get)

		adminPosts := api.Group("/admin/posts", admin...)
		adminPosts.GET("", h.AdminList)
		adminPosts.POST("", h.Create)
		adminPosts.PUT("/:id", h.Update)
		adminPosts.DELETE("/:id", h.Delete)
		adminPosts.PUT("/:id/categories", h.ReplaceCategories)
	}
	if h := opts.VideoHandler; h != nil {
		// 学院视频仅对登录用户开放，评分与评论的读取接口仍然公开。
		videos := api.Group("/videos", required...)
		videos.GET("", h.List)
		videos.GET("/:id", h.Get)

		adminVideos := api.Group("/admin/videos", admin...)
		adminVideos.GET("", h.AdminList)
		adminVideos.POST("", h.Create)
		adminVideos.PUT("/:id", h.Update)
		adminVideos.DELETE("/:id", h.Delete)
	}
	registerEngagement(api.Group("/posts"), opts.PostEngagement, optional, required, admin)
	registerEngagement(api.Group("/videos"), opts.VideoEngagement, optional, required, admin)

	registerCategories(api, "/blog-categories", opts.BlogCategoryHandler, optional, admin)
	registerCategories(api, "/academy-categories", opts.AcademyCategoryHandler, optional, admin)

	if h := opts.EventHandler; h != nil {
		events := api.Group("/events", optional...)
		events.GET("/upcoming", h.Upcoming)
		events.GET("", h.List)
		events.GET("/:id", h.Get)

		adminEvents := api.Group("/admin/events", admin...)
		adminEvents.POST("", h.Create)
		adminEvents.PUT("/:id", h.Update)
		adminEvents.DELETE("/:id", h.Delete)
	}

	if h := opts.SearchHandler; h != nil {
		api.GET("/search", append(optional, h.Search)...)
	}

	if h := opts.UserHandler; h != nil {
		// /api/users 下的路由需要登录才能访问。
		users := api.Group("/users", required...)
		users.GET("/me", h.GetMe)
		users.PUT("/me", h.UpdateMe)

		adminUsers := api.Group("/admin/users", admin...)
		adminUsers.GET("", h.AdminList)
		adminUsers.PUT("/:id/role", h.SetRole)
		adminUsers.DELETE("/:id", h.Delete)
	}

	if h := opts.AnalyticsHandler; h != nil {
		analytics := api.Group("/admin/analytics", admin...)
		analytics.GET("/users", h.Users)
		analytics.GET("/blog", h.Blog)
		analytics.GET("/academy", h.Academy)
		analytics.GET("/snapshots", h.Snapshots)
	}

	return r
}

func registerEngagement(group *gin.RouterGroup, h *handler.EngagementHandler, optional, required, admin []gin.HandlerFunc) {
	if h == nil {
		return
	}
	group.GET("/:id/rating", append(clone(optional), h.Rating)...)
	group.GET("/:id/comments", append(clone(optional), h.Comments)...)
	group.GET("/:id/rating/me", append(clone(required), h.MyRating)...)
	group.POST("/:id/rating", append(clone(required), h.Rate)...)
	group.POST("/:id/comments", append(clone(required), h.AddComment)...)
	group.DELETE("/comments/:id", append(clone(admin), h.DeleteComment)...)
}

func registerCategories(api *gin.RouterGroup, path string, h *handler.CategoryHandler, optional, admin []gin.HandlerFunc) {
	if h == nil {
		return
	}
	public := api.Group(path, optional...)
	public.GET("", h.List)
	public.GET("/slug/:slug", h.GetBySlug)

	managed := api.Group("/admin"+path, admin...)
	managed.POST("", h.Create)
	managed.PUT("/:id", h.Update)
	managed.DELETE("/:id", h.Delete)
}

// authChains 返回可选鉴权与必选鉴权的中间件链；未配置鉴权时必选链直接拒绝。
func authChains(auth middleware.Authenticator) (optional []gin.HandlerFunc, required []gin.HandlerFunc) {
	if auth == nil {
		deny := func(c *gin.Context) {
			response.Fail(c, http.StatusUnauthorized, response.ErrUnauthorized, "authentication not configured", nil)
			c.Abort()
		}
		return nil, []gin.HandlerFunc{deny}
	}
	return []gin.HandlerFunc{auth.Optional()}, []gin.HandlerFunc{auth.Handle()}
}

func clone(chain []gin.HandlerFunc) []gin.HandlerFunc {
	return append([]gin.HandlerFunc{}, chain...)
}

// originMatcher 允许配置的来源；未配置时只放行本机开发地址。
func originMatcher(allowed []string) func(string) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin != "" {
			set[origin] = struct{}{}
		}
	}
	return func(origin string) bool {
		if origin == "" {
			return false
		}
		if _, ok := set["*"]; ok {
			return true
		}
		if _, ok := set[strings.TrimRight(origin, "/")]; ok {
			return true
		}
		if len(set) == 0 {
			return strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "http://127.0.0.1:")
		}
		return false
	}
}
