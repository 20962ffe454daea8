package handler

import (
	"net/http"

	response "github.com/LerianStudio/lerian-usa-site/backend/internal/infra/common"
	appLogger "github.com/LerianStudio/lerian-usa-site/backend/internal/infra/logger"
	searchsvc "github.com/LerianStudio/lerian-usa-site/backend/internal/service/search"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SearchHandler 负责全站检索接口。
type SearchHandler struct {
	service *searchsvc.Service
	logger  *zap.SugaredLogger
}

// NewSearchHandler 创建检索 Handler。
func NewSearchHandler(service *searchsvc.Service) *SearchHandler {
	return &SearchHandler{service: service, logger: appLogger.S()}
}

// Search 处理 GET /api/search?q=&lang=。
func (h *SearchHandler) Search(c *gin.Context) {
	result, err := h.service.Search(c.Request.Context(), c.Query("q"), c.DefaultQuery("lang", "pt"))
	if err != nil {
		fail(c, scopedLogger(h.logger, "search.handler", "search"), "search failed", err)
		return
	}
	response.Success(c, http.StatusOK, result, nil)
}
