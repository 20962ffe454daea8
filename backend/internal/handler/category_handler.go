package handler

import (
	"net/http"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"
	response "github.com/LerianStudio/lerian-usa-site/backend/internal/infra/common"
	appLogger "github.com/LerianStudio/lerian-usa-site/backend/internal/infra/logger"
	categorysvc "github.com/LerianStudio/lerian-usa-site/backend/internal/service/category"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CategoryHandler 负责博客或学院分类接口。
type CategoryHandler struct {
	kind      content.Kind
	service   *categorysvc.Service
	component string
	logger    *zap.SugaredLogger
}

// NewCategoryHandler 创建分类 Handler，kind 为 KindPost 时对应博客分类。
func NewCategoryHandler(kind content.Kind, service *categorysvc.Service) *CategoryHandler {
	return &CategoryHandler{
		kind:      kind,
		service:   service,
		component: kind.Label() + "_category.handler",
		logger:    appLogger.S(),
	}
}

func (h *CategoryHandler) scope(operation string) *zap.SugaredLogger {
	return scopedLogger(h.logger, h.component, operation)
}

// List 返回全部分类。
func (h *CategoryHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), h.kind)
	if err != nil {
		fail(c, h.scope("list"), "list categories failed", err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": items}, nil)
}

// GetBySlug 按 slug 返回分类。
func (h *CategoryHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")
	item, err := h.service.GetBySlug(c.Request.Context(), h.kind, slug)
	if err != nil {
		fail(c, h.scope("get_by_slug").With("slug", slug), "get category failed", err)
		return
	}
	response.Success(c, http.StatusOK, item, nil)
}

// Create 新增分类。
func (h *CategoryHandler) Create(c *gin.Context) {
	var input categorysvc.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, err.Error(), nil)
		return
	}
	item, err := h.service.Create(c.Request.Context(), h.kind, input)
	if err != nil {
		fail(c, h.scope("create").With("slug", input.Slug), "create category failed", err)
		return
	}
	response.Created(c, item, nil)
}

// Update 更新分类。
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input categorysvc.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, err.Error(), nil)
		return
	}
	item, err := h.service.Update(c.Request.Context(), h.kind, id, input)
	if err != nil {
		fail(c, h.scope("update").With("id", id), "update category failed", err)
		return
	}
	response.Success(c, http.StatusOK, item, nil)
}

// Delete 删除未被引用的分类。
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), h.kind, id); err != nil {
		fail(c, h.scope("delete").With("id", id), "delete category failed", err)
		return
	}
	response.NoContent(c)
}
