package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"
	response "github.com/LerianStudio/lerian-usa-site/backend/internal/infra/common"
	appLogger "github.com/LerianStudio/lerian-usa-site/backend/internal/infra/logger"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/infra/metrics"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/infra/ratelimit"
	commentsvc "github.com/LerianStudio/lerian-usa-site/backend/internal/service/comment"
	ratingsvc "github.com/LerianStudio/lerian-usa-site/backend/internal/service/rating"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EngagementRateLimit 控制评分与评论写入频率。
type EngagementRateLimit struct {
	MutationLimit  int
	MutationWindow time.Duration
}

// EngagementHandler 负责某一类内容的评分与评论接口。
type EngagementHandler struct {
	kind      content.Kind
	ratings   *ratingsvc.Service
	comments  *commentsvc.Service
	limiter   ratelimit.Limiter
	policy    ratelimit.Policy
	component string
	logger    *zap.SugaredLogger
}

// NewEngagementHandler 创建评分与评论 Handler。
func NewEngagementHandler(kind content.Kind, ratings *ratingsvc.Service, comments *commentsvc.Service, limiter ratelimit.Limiter, cfg EngagementRateLimit) *EngagementHandler {
	return &EngagementHandler{
		kind:     kind,
		ratings:  ratings,
		comments: comments,
		limiter:  limiter,
		policy: ratelimit.Policy{
			Name:   "mutation",
			Limit:  cfg.MutationLimit,
			Window: cfg.MutationWindow,
		},
		component: kind.Label() + "_engagement.handler",
		logger:    appLogger.S(),
	}
}

func (h *EngagementHandler) scope(operation string) *zap.SugaredLogger {
	return scopedLogger(h.logger, h.component, operation)
}

// allow 按用户做写入限流；限流器故障时放行。
func (h *EngagementHandler) allow(c *gin.Context, userID uint) bool {
	res, err := ratelimit.Check(c.Request.Context(), h.limiter, h.policy, h.kind.Label()+":"+uintKey(userID))
	if err != nil {
		h.scope("allow").Warnw("mutation rate limiter failed", "error", err, "user_id", userID)
		return true
	}
	if res.Allowed {
		return true
	}
	metrics.RecordRateLimited(h.policy.Name)
	retry := int(res.RetryAfter.Seconds())
	if retry <= 0 {
		retry = 1
	}
	c.Header("Retry-After", strconv.Itoa(retry))
	response.Fail(c, http.StatusTooManyRequests, response.ErrTooManyRequests, "操作过于频繁，请稍后再试", gin.H{
		"retry_after_seconds": retry,
	})
	return false
}

// Rating 返回内容的平均分与评分人数。
func (h *EngagementHandler) Rating(c *gin.Context) {
	log := h.scope("rating")
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	summary, err := h.ratings.Aggregate(c.Request.Context(), id)
	if err != nil {
		fail(c, log.With("id", id), "load rating failed", err)
		return
	}
	response.Success(c, http.StatusOK, summary, nil)
}

// MyRating 返回当前用户的评分，未评分时 rating 为 null。
func (h *EngagementHandler) MyRating(c *gin.Context) {
	log := h.scope("my_rating")
	userID, ok := requireUser(c, log)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	value, err := h.ratings.UserRating(c.Request.Context(), id, userID)
	if err != nil {
		fail(c, log.With("id", id, "user_id", userID), "load user rating failed", err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rating": value}, nil)
}

type rateRequest struct {
	Rating *int `json:"rating" binding:"required"`
}

// Rate 写入或覆盖当前用户的评分。
func (h *EngagementHandler) Rate(c *gin.Context) {
	log := h.scope("rate")
	userID, ok := requireUser(c, log)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, err.Error(), nil)
		return
	}
	if !h.allow(c, userID) {
		return
	}
	if err := h.ratings.Rate(c.Request.Context(), id, userID, *req.Rating); err != nil {
		fail(c, log.With("id", id, "user_id", userID), "rate failed", err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"success": true}, nil)
}

// Comments 返回内容下的评论，orderBy 为 asc 或 desc。
func (h *EngagementHandler) Comments(c *gin.Context) {
	log := h.scope("comments")
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	views, err := h.comments.List(c.Request.Context(), id, c.Query("orderBy"))
	if err != nil {
		fail(c, log.With("id", id), "list comments failed", err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": views}, nil)
}

type commentRequest struct {
	Comment *string `json:"comment" binding:"required"`
}

// AddComment 新增评论。
func (h *EngagementHandler) AddComment(c *gin.Context) {
	log := h.scope("add_comment")
	userID, ok := requireUser(c, log)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, err.Error(), nil)
		return
	}
	if !h.allow(c, userID) {
		return
	}
	commentID, err := h.comments.Add(c.Request.Context(), id, userID, *req.Comment)
	if err != nil {
		fail(c, log.With("id", id, "user_id", userID), "add comment failed", err)
		return
	}
	response.Created(c, gin.H{"success": true, "id": commentID}, nil)
}

// DeleteComment 删除评论，仅管理员可调用。
func (h *EngagementHandler) DeleteComment(c *gin.Context) {
	log := h.scope("delete_comment")
	if !isAdmin(c) {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden, "admin privilege required", nil)
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.comments.Delete(c.Request.Context(), id); err != nil {
		fail(c, log.With("comment_id", id), "delete comment failed", err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"success": true}, nil)
}

func uintKey(id uint) string {
	return "user:" + strconv.FormatUint(uint64(id), 10)
}
