package handler

import (
	"net/http"

	response "github.com/LerianStudio/lerian-usa-site/backend/internal/infra/common"
	appLogger "github.com/LerianStudio/lerian-usa-site/backend/internal/infra/logger"
	usersvc "github.com/LerianStudio/lerian-usa-site/backend/internal/service/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler 负责用户资料与后台用户管理的 HTTP 入口。
type UserHandler struct {
	service *usersvc.Service
	logger  *zap.SugaredLogger
}

// NewUserHandler 构造用户 handler。
func NewUserHandler(service *usersvc.Service) *UserHandler {
	baseLogger := appLogger.S().With("component", "user.handler")
	return &UserHandler{service: service, logger: baseLogger}
}

func (h *UserHandler) scope(operation string) *zap.SugaredLogger {
	return h.logger.With("operation", operation)
}

// GetMe 返回当前登录用户资料。
func (h *UserHandler) GetMe(c *gin.Context) {
	log := h.scope("get_me")
	userID, ok := requireUser(c, log)
	if !ok {
		return
	}
	profile, err := h.service.Me(c.Request.Context(), userID)
	if err != nil {
		fail(c, log.With("user_id", userID), "get profile failed", err)
		return
	}
	response.Success(c, http.StatusOK, profile, nil)
}

// UpdateMe 更新当前用户的职业资料。
func (h *UserHandler) UpdateMe(c *gin.Context) {
	log := h.scope("update_me")
	userID, ok := requireUser(c, log)
	if !ok {
		return
	}
	var input usersvc.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, err.Error(), nil)
		return
	}
	profile, err := h.service.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		fail(c, log.With("user_id", userID), "update profile failed", err)
		return
	}
	response.Success(c, http.StatusOK, profile, nil)
}

// AdminList 分页返回未注销的用户。
func (h *UserHandler) AdminList(c *gin.Context) {
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return
	}
	pageSize, ok := queryInt(c, "pageSize", 0)
	if !ok {
		return
	}
	result, err := h.service.List(c.Request.Context(), usersvc.ListParams{Page: page, PageSize: pageSize})
	if err != nil {
		fail(c, h.scope("admin_list"), "list users failed", err)
		return
	}
	meta := response.NewMetaPagination(result.Page, result.PageSize, result.Total, len(result.Items))
	response.Success(c, http.StatusOK, gin.H{"items": result.Items}, meta)
}

type setRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// SetRole 修改用户角色。
func (h *UserHandler) SetRole(c *gin.Context) {
	log := h.scope("set_role")
	actorID, ok := requireUser(c, log)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, err.Error(), nil)
		return
	}
	updated, err := h.service.SetRole(c.Request.Context(), actorID, id, req.Role)
	if err != nil {
		fail(c, log.With("user_id", id), "set role failed", err)
		return
	}
	response.Success(c, http.StatusOK, updated, nil)
}

// Delete 注销用户。
func (h *UserHandler) Delete(c *gin.Context) {
	log := h.scope("delete")
	actorID, ok := requireUser(c, log)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.SoftDelete(c.Request.Context(), actorID, id); err != nil {
		fail(c, log.With("user_id", id), "delete user failed", err)
		return
	}
	response.NoContent(c)
}
