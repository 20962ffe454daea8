package handler

import (
	"context"
	"net/http"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"
	response "github.com/LerianStudio/lerian-usa-site/backend/internal/infra/common"
	appLogger "github.com/LerianStudio/lerian-usa-site/backend/internal/infra/logger"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/service/catalog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// catalogService 是文章与视频服务共有的方法集。
type catalogService[T any] interface {
	Page(ctx context.Context, query catalog.PageQuery) (catalog.PageResult[T], error)
	GetPublished(ctx context.Context, id uint) (*T, error)
	ListAll(ctx context.Context) ([]T, error)
	Create(ctx context.Context, entity *T, userID uint) (*T, error)
	Update(ctx context.Context, id uint, patch content.Patch[T]) (*T, error)
	Delete(ctx context.Context, id uint) error
}

// ContentHandler 提供文章或视频的分页、详情与后台维护接口。
type ContentHandler[T any] struct {
	service   catalogService[T]
	newPatch  func() content.Patch[T]
	component string
	logger    *zap.SugaredLogger
}

// NewContentHandler 创建内容 Handler，newPatch 返回更新接口绑定的部分更新结构体。
func NewContentHandler[T any](kind content.Kind, service catalogService[T], newPatch func() content.Patch[T]) *ContentHandler[T] {
	return &ContentHandler[T]{
		service:   service,
		newPatch:  newPatch,
		component: kind.Label() + ".handler",
		logger:    appLogger.S(),
	}
}

// NewVideoHandler 创建学院视频 Handler。
func NewVideoHandler(service *catalog.Service[content.AcademyVideo, *content.AcademyVideo]) *ContentHandler[content.AcademyVideo] {
	return NewContentHandler[content.AcademyVideo](content.KindVideo, service, func() content.Patch[content.AcademyVideo] {
		return &content.VideoPatch{}
	})
}

func (h *ContentHandler[T]) scope(operation string) *zap.SugaredLogger {
	return scopedLogger(h.logger, h.component, operation)
}

// List 返回一页已发布内容，meta 携带分页信息。
func (h *ContentHandler[T]) List(c *gin.Context) {
	log := h.scope("list")
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", catalog.DefaultPageLimit)
	if !ok {
		return
	}
	var categoryID *uint
	if raw := c.Query("categoryId"); raw != "" {
		id, ok := queryID(c, "categoryId")
		if !ok {
			return
		}
		categoryID = &id
	}

	result, err := h.service.Page(c.Request.Context(), catalog.PageQuery{
		CategoryID: categoryID,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		fail(c, log, "load page failed", err)
		return
	}
	meta := response.NewMetaPagination(page, limit, result.Total, len(result.Items))
	response.Success(c, http.StatusOK, result, meta)
}

// Get 返回已发布内容详情。
func (h *ContentHandler[T]) Get(c *gin.Context) {
	log := h.scope("get")
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entity, err := h.service.GetPublished(c.Request.Context(), id)
	if err != nil {
		fail(c, log.With("id", id), "get content failed", err)
		return
	}
	response.Success(c, http.StatusOK, entity, nil)
}

// AdminList 返回包含草稿的全部内容。
func (h *ContentHandler[T]) AdminList(c *gin.Context) {
	log := h.scope("admin_list")
	items, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		fail(c, log, "list all content failed", err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": items}, nil)
}

// Create 新增内容。
func (h *ContentHandler[T]) Create(c *gin.Context) {
	log := h.scope("create")
	userID, ok := requireUser(c, log)
	if !ok {
		return
	}
	var entity T
	if err := c.ShouldBindJSON(&entity); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, err.Error(), nil)
		return
	}
	created, err := h.service.Create(c.Request.Context(), &entity, userID)
	if err != nil {
		fail(c, log.With("user_id", userID), "create content failed", err)
		return
	}
	response.Created(c, created, nil)
}

// Update 部分更新内容，请求体中缺省的字段保持原值。
func (h *ContentHandler[T]) Update(c *gin.Context) {
	log := h.scope("update")
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	patch := h.newPatch()
	if err := c.ShouldBindJSON(patch); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, err.Error(), nil)
		return
	}
	updated, err := h.service.Update(c.Request.Context(), id, patch)
	if err != nil {
		fail(c, log.With("id", id), "update content failed", err)
		return
	}
	response.Success(c, http.StatusOK, updated, nil)
}

// Delete 删除内容及其评分、评论。
func (h *ContentHandler[T]) Delete(c *gin.Context) {
	log := h.scope("delete")
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		fail(c, log.With("id", id), "delete content failed", err)
		return
	}
	response.NoContent(c)
}

// PostHandler 在内容接口之外提供文章 slug 与附加分类接口。
type PostHandler struct {
	*ContentHandler[content.BlogPost]
	posts *catalog.PostService
}

// NewPostHandler 创建博客文章 Handler。
func NewPostHandler(service *catalog.PostService) *PostHandler {
	return &PostHandler{
		ContentHandler: NewContentHandler[content.BlogPost](content.KindPost, service, func() content.Patch[content.BlogPost] {
			return &content.PostPatch{}
		}),
		posts:          service,
	}
}

// Get 返回文章详情及附加分类。
func (h *PostHandler) Get(c *gin.Context) {
	log := h.scope("get")
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.posts.Detail(c.Request.Context(), id)
	if err != nil {
		fail(c, log.With("id", id), "get post failed", err)
		return
	}
	response.Success(c, http.StatusOK, detail, nil)
}

// GetBySlug 按 slug 返回文章详情。
func (h *PostHandler) GetBySlug(c *gin.Context) {
	log := h.scope("get_by_slug")
	slug := c.Param("slug")
	detail, err := h.posts.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		fail(c, log.With("slug", slug), "get post by slug failed", err)
		return
	}
	response.Success(c, http.StatusOK, detail, nil)
}

type replaceCategoriesRequest struct {
	CategoryIDs []uint `json:"categoryIds" binding:"required"`
}

// ReplaceCategories 替换文章的附加分类。
func (h *PostHandler) ReplaceCategories(c *gin.Context) {
	log := h.scope("replace_categories")
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req replaceCategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, err.Error(), nil)
		return
	}
	categories, err := h.posts.ReplaceCategories(c.Request.Context(), id, req.CategoryIDs)
	if err != nil {
		fail(c, log.With("id", id), "replace post categories failed", err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"categories": categories}, nil)
}
