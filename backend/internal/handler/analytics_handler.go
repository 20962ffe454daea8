package handler

import (
	"net/http"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"
	response "github.com/LerianStudio/lerian-usa-site/backend/internal/infra/common"
	appLogger "github.com/LerianStudio/lerian-usa-site/backend/internal/infra/logger"
	analyticssvc "github.com/LerianStudio/lerian-usa-site/backend/internal/service/analytics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AnalyticsHandler 负责输出管理员仪表盘所需的分析报表。
type AnalyticsHandler struct {
	service *analyticssvc.Service
	logger  *zap.SugaredLogger
}

// NewAnalyticsHandler 构造分析 Handler。
func NewAnalyticsHandler(service *analyticssvc.Service) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, logger: appLogger.Named("analytics")}
}

func (h *AnalyticsHandler) scope(operation string) *zap.SugaredLogger {
	return scopedLogger(h.logger, "analytics.handler", operation)
}

// Users 返回用户分析报表。
func (h *AnalyticsHandler) Users(c *gin.Context) {
	report, err := h.service.Users(c.Request.Context())
	if err != nil {
		fail(c, h.scope("users"), "user analytics failed", err)
		return
	}
	response.Success(c, http.StatusOK, report, nil)
}

// Blog 返回博客分析报表。
func (h *AnalyticsHandler) Blog(c *gin.Context) {
	h.content(c, content.KindPost, "blog")
}

// Academy 返回学院分析报表。
func (h *AnalyticsHandler) Academy(c *gin.Context) {
	h.content(c, content.KindVideo, "academy")
}

func (h *AnalyticsHandler) content(c *gin.Context, kind content.Kind, operation string) {
	report, err := h.service.Content(c.Request.Context(), kind)
	if err != nil {
		fail(c, h.scope(operation), "content analytics failed", err)
		return
	}
	response.Success(c, http.StatusOK, report, nil)
}

// Snapshots 返回某个范围最近若干天的快照。
func (h *AnalyticsHandler) Snapshots(c *gin.Context) {
	days, ok := queryInt(c, "days", 0)
	if !ok {
		return
	}
	scope := c.Query("scope")
	records, err := h.service.Snapshots(c.Request.Context(), scope, days)
	if err != nil {
		fail(c, h.scope("snapshots").With("scope", scope), "list snapshots failed", err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": records}, nil)
}
