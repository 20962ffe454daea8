package comment

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/apperr"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/infra/metrics"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/repository"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/service/catalog"

	"go.uber.org/zap"
)

const defaultMaxLength = 1000

// Store 是评论仓储需要满足的接口。
type Store interface {
	Create(ctx context.Context, kind content.Kind, entityID, userID uint, text string) (uint, error)
	List(ctx context.Context, kind content.Kind, entityID uint, order string) ([]content.CommentView, error)
	Delete(ctx context.Context, kind content.Kind, commentID uint) error
}

// Config 描述评论服务的可配置参数。
type Config struct {
	MaxLength int
}

// Service 负责某一类内容的评论。
type Service struct {
	kind      content.Kind
	comments  Store
	states    catalog.StateReader
	logger    *zap.SugaredLogger
	maxLength int
}

// NewService 创建评论服务实例。
func NewService(kind content.Kind, comments Store, states catalog.StateReader, logger *zap.SugaredLogger, cfg Config) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if cfg.MaxLength <= 0 || cfg.MaxLength > defaultMaxLength {
		cfg.MaxLength = defaultMaxLength
	}
	return &Service{
		kind:      kind,
		comments:  comments,
		states:    states,
		logger:    logger.With("kind", kind.Label()),
		maxLength: cfg.MaxLength,
	}
}

// Add 校验长度与内容状态后写入评论，返回评论 ID。长度按去除首尾空白后的字符数计算。
func (s *Service) Add(ctx context.Context, entityID, userID uint, text string) (uint, error) {
	body := strings.TrimSpace(text)
	if body == "" {
		metrics.RecordComment(s.kind.Label(), metrics.ResultRejected)
		return 0, apperr.Validation("评论内容不能为空")
	}
	if utf8.RuneCountInString(body) > s.maxLength {
		metrics.RecordComment(s.kind.Label(), metrics.ResultRejected)
		return 0, apperr.Validation("评论长度不能超过 %d 个字符", s.maxLength)
	}
	if userID == 0 {
		return 0, apperr.Validation("缺少用户信息")
	}
	if err := catalog.RequirePublished(ctx, s.states, s.kind, entityID); err != nil {
		metrics.RecordComment(s.kind.Label(), metrics.ResultRejected)
		return 0, err
	}
	id, err := s.comments.Create(ctx, s.kind, entityID, userID, body)
	if err != nil {
		metrics.RecordComment(s.kind.Label(), metrics.ResultError)
		s.logger.Errorw("create comment failed", "entity_id", entityID, "user_id", userID, "error", err)
		return 0, apperr.Unavailable(err)
	}
	metrics.RecordComment(s.kind.Label(), metrics.ResultOK)
	return id, nil
}

// List 返回内容下的评论。order 只接受 asc/desc，空值按 desc 处理。
func (s *Service) List(ctx context.Context, entityID uint, order string) ([]content.CommentView, error) {
	order = strings.ToLower(strings.TrimSpace(order))
	if order == "" {
		order = repository.OrderDesc
	}
	if order != repository.OrderAsc && order != repository.OrderDesc {
		return nil, apperr.Validation("orderBy 只能为 asc 或 desc")
	}
	views, err := s.comments.List(ctx, s.kind, entityID, order)
	if err != nil {
		s.logger.Errorw("list comments failed", "entity_id", entityID, "error", err)
		return nil, apperr.Unavailable(err)
	}
	return views, nil
}

// Delete 删除评论，评论不存在也视为成功；权限由调用方校验。
func (s *Service) Delete(ctx context.Context, commentID uint) error {
	if err := s.comments.Delete(ctx, s.kind, commentID); err != nil {
		s.logger.Errorw("delete comment failed", "comment_id", commentID, "error", err)
		return apperr.Unavailable(err)
	}
	s.logger.Infow("comment deleted", "comment_id", commentID)
	return nil
}
