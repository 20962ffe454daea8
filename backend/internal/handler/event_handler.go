package handler

import (
	"net/http"

	response "github.com/LerianStudio/lerian-usa-site/backend/internal/infra/common"
	appLogger "github.com/LerianStudio/lerian-usa-site/backend/internal/infra/logger"
	eventsvc "github.com/LerianStudio/lerian-usa-site/backend/internal/service/event"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventHandler 负责活动日历接口。
type EventHandler struct {
	service *eventsvc.Service
	logger  *zap.SugaredLogger
}

// NewEventHandler 创建活动 Handler。
func NewEventHandler(service *eventsvc.Service) *EventHandler {
	return &EventHandler{service: service, logger: appLogger.S()}
}

func (h *EventHandler) scope(operation string) *zap.SugaredLogger {
	return scopedLogger(h.logger, "event.handler", operation)
}

// Upcoming 返回即将开始的活动。
func (h *EventHandler) Upcoming(c *gin.Context) {
	items, err := h.service.Upcoming(c.Request.Context())
	if err != nil {
		fail(c, h.scope("upcoming"), "list upcoming events failed", err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": items}, nil)
}

// List 返回全部活动。
func (h *EventHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		fail(c, h.scope("list"), "list events failed", err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": items}, nil)
}

// Get 返回活动详情。
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, h.scope("get").With("id", id), "get event failed", err)
		return
	}
	response.Success(c, http.StatusOK, item, nil)
}

// Create 新增活动。
func (h *EventHandler) Create(c *gin.Context) {
	log := h.scope("create")
	userID, ok := requireUser(c, log)
	if !ok {
		return
	}
	var input eventsvc.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, err.Error(), nil)
		return
	}
	item, err := h.service.Create(c.Request.Context(), input, userID)
	if err != nil {
		fail(c, log, "create event failed", err)
		return
	}
	response.Created(c, item, nil)
}

// Update 更新活动。
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input eventsvc.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, err.Error(), nil)
		return
	}
	item, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		fail(c, h.scope("update").With("id", id), "update event failed", err)
		return
	}
	response.Success(c, http.StatusOK, item, nil)
}

// Delete 删除活动。
func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		fail(c, h.scope("delete").With("id", id), "delete event failed", err)
		return
	}
	response.NoContent(c)
}
