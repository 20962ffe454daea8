package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingRepository 负责文章与视频评分的持久化，按 content.Kind 选择表。
type RatingRepository struct {
	db *gorm.DB
}

// NewRatingRepository 构造评分仓储。
func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Upsert 以单条 INSERT ... ON CONFLICT 写入评分，依赖 (内容, 用户) 唯一索引保证每人一行。
func (r *RatingRepository) Upsert(ctx context.Context, kind content.Kind, entityID, userID uint, value int) error {
	if entityID == 0 || userID == 0 {
		return errors.New("entity id and user id required")
	}
	now := time.Now().UTC()
	var row any
	if kind == content.KindVideo {
		row = &content.VideoRating{VideoID: entityID, UserID: userID, Rating: value, CreatedAt: now, UpdatedAt: now}
	} else {
		row = &content.PostRating{PostID: entityID, UserID: userID, Rating: value, CreatedAt: now, UpdatedAt: now}
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: kind.ForeignKey()}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
		}).
		Create(row).Error
	if err != nil {
		return fmt.Errorf("upsert %s rating: %w", kind.Label(), err)
	}
	return nil
}

// Summary 汇总单个内容的评分总和与人数。
func (r *RatingRepository) Summary(ctx context.Context, kind content.Kind, entityID uint) (content.RatingSummary, error) {
	var row struct {
		Total int64
		Cnt   int64
	}
	err := r.db.WithContext(ctx).
		Table(kind.RatingTable()).
		Select("COALESCE(SUM(rating), 0) AS total, COUNT(*) AS cnt").
		Where(kind.ForeignKey()+" = ?", entityID).
		Scan(&row).Error
	if err != nil {
		return content.RatingSummary{}, fmt.Errorf("summarize %s rating: %w", kind.Label(), err)
	}
	return content.NewRatingSummary(row.Total, row.Cnt), nil
}

// UserRating 返回用户对内容的评分，未评分时返回 nil。
func (r *RatingRepository) UserRating(ctx context.Context, kind content.Kind, entityID, userID uint) (*int, error) {
	var values []int
	err := r.db.WithContext(ctx).
		Table(kind.RatingTable()).
		Where(kind.ForeignKey()+" = ? AND user_id = ?", entityID, userID).
		Limit(1).
		Pluck("rating", &values).Error
	if err != nil {
		return nil, fmt.Errorf("find %s user rating: %w", kind.Label(), err)
	}
	if len(values) == 0 {
		return nil, nil
	}
	value := values[0]
	return &value, nil
}

// SummariesFor 一次查询取出一组内容的全部评分，在内存中按内容分组计算汇总。
// 没有评分的内容不会出现在返回的 map 中。
func (r *RatingRepository) SummariesFor(ctx context.Context, kind content.Kind, entityIDs []uint) (map[uint]content.RatingSummary, error) {
	result := make(map[uint]content.RatingSummary, len(entityIDs))
	if len(entityIDs) == 0 {
		return result, nil
	}
	var rows []struct {
		EntityID uint
		Rating   int
	}
	fk := kind.ForeignKey()
	err := r.db.WithContext(ctx).
		Table(kind.RatingTable()).
		Select(fk+" AS entity_id, rating").
		Where(fk+" IN ?", entityIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("batch load %s ratings: %w", kind.Label(), err)
	}
	type acc struct{ sum, count int64 }
	grouped := make(map[uint]*acc, len(entityIDs))
	for _, row := range rows {
		a, ok := grouped[row.EntityID]
		if !ok {
			a = &acc{}
			grouped[row.EntityID] = a
		}
		a.sum += int64(row.Rating)
		a.count++
	}
	for id, a := range grouped {
		result[id] = content.NewRatingSummary(a.sum, a.count)
	}
	return result, nil
}
