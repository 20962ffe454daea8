package rating

import (
	"context"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/apperr"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/infra/metrics"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/service/catalog"

	"go.uber.org/zap"
)

// Store 是评分仓储需要满足的接口。
type Store interface {
	Upsert(ctx context.Context, kind content.Kind, entityID, userID uint, value int) error
	Summary(ctx context.Context, kind content.Kind, entityID uint) (content.RatingSummary, error)
	UserRating(ctx context.Context, kind content.Kind, entityID, userID uint) (*int, error)
}

// Service 负责某一类内容的评分写入与汇总读取。
type Service struct {
	kind    content.Kind
	ratings Store
	states  catalog.StateReader
	logger  *zap.SugaredLogger
}

// NewService 创建评分服务实例。
func NewService(kind content.Kind, ratings Store, states catalog.StateReader, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{
		kind:    kind,
		ratings: ratings,
		states:  states,
		logger:  logger.With("kind", kind.Label()),
	}
}

// Rate 写入或覆盖用户评分：分值越界返回 Validation，内容不存在返回 NotFound，未发布返回 State。
func (s *Service) Rate(ctx context.Context, entityID, userID uint, value int) error {
	if value < content.MinRating || value > content.MaxRating {
		metrics.RecordRating(s.kind.Label(), metrics.ResultRejected)
		return apperr.Validation("评分必须在 %d 到 %d 之间", content.MinRating, content.MaxRating)
	}
	if userID == 0 {
		return apperr.Validation("缺少用户信息")
	}
	if err := catalog.RequirePublished(ctx, s.states, s.kind, entityID); err != nil {
		metrics.RecordRating(s.kind.Label(), metrics.ResultRejected)
		return err
	}
	if err := s.ratings.Upsert(ctx, s.kind, entityID, userID, value); err != nil {
		metrics.RecordRating(s.kind.Label(), metrics.ResultError)
		s.logger.Errorw("upsert rating failed", "entity_id", entityID, "user_id", userID, "error", err)
		return apperr.Unavailable(err)
	}
	metrics.RecordRating(s.kind.Label(), metrics.ResultOK)
	return nil
}

// Aggregate 从评分原始行重新计算平均分与人数，无评分时为 {0,0}。
func (s *Service) Aggregate(ctx context.Context, entityID uint) (content.RatingSummary, error) {
	summary, err := s.ratings.Summary(ctx, s.kind, entityID)
	if err != nil {
		s.logger.Errorw("load rating summary failed", "entity_id", entityID, "error", err)
		return content.RatingSummary{}, apperr.Unavailable(err)
	}
	return summary, nil
}

// UserRating 返回用户自己的评分，未评分时为 nil。
func (s *Service) UserRating(ctx context.Context, entityID, userID uint) (*int, error) {
	value, err := s.ratings.UserRating(ctx, s.kind, entityID, userID)
	if err != nil {
		s.logger.Errorw("load user rating failed", "entity_id", entityID, "user_id", userID, "error", err)
		return nil, apperr.Unavailable(err)
	}
	return value, nil
}
