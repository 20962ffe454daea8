package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"

	"gorm.io/gorm"
)

// LabelCount 是分组统计的一行。
type LabelCount struct {
	Label string `json:"label"`
	Total int64  `json:"count"`
}

// ActiveUser 是按评论数排名的用户。
type ActiveUser struct {
	UserID   uint    `json:"userId"`
	Name     *string `json:"name"`
	Comments int64   `json:"comments"`
}

// CategoryCount 是分类下的内容数量。
type CategoryCount struct {
	CategoryID uint   `json:"categoryId"`
	NamePt     string `json:"namePt"`
	NameEn     string `json:"nameEn"`
	Total      int64  `json:"count"`
}

// EntityStat 是单个内容的评分或评论统计。
type EntityStat struct {
	EntityID uint    `json:"id"`
	TitlePt  string  `json:"titlePt"`
	TitleEn  string  `json:"titleEn"`
	Average  float64 `json:"average,omitempty"`
	Total    int64   `json:"count"`
}

// AnalyticsRepository 提供后台分析所需的 SQL 聚合，已软删除用户不参与用户相关统计。
type AnalyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository 构造分析仓储。
func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) activeUsers(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("users").Where("deleted_at IS NULL")
}

// CountUsers 返回用户总数与资料已完善的人数。
func (r *AnalyticsRepository) CountUsers(ctx context.Context) (total int64, completed int64, err error) {
	if err := r.activeUsers(ctx).Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("count users: %w", err)
	}
	if err := r.activeUsers(ctx).Where("profile_completed = ?", true).Count(&completed).Error; err != nil {
		return 0, 0, fmt.Errorf("count completed profiles: %w", err)
	}
	return total, completed, nil
}

// RegistrationTimes 返回 since 之后注册的用户的注册时间，按月分桶在服务层完成。
func (r *AnalyticsRepository) RegistrationTimes(ctx context.Context, since time.Time) ([]time.Time, error) {
	var times []time.Time
	if err := r.activeUsers(ctx).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Pluck("created_at", &times).Error; err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return times, nil
}

// TopValues 对 users 表的某个资料列做分组计数，空值不计。column 只接受 job_title 与 company。
func (r *AnalyticsRepository) TopValues(ctx context.Context, column string, limit int) ([]LabelCount, error) {
	if column != "job_title" && column != "company" {
		return nil, fmt.Errorf("unsupported column %q", column)
	}
	rows := make([]LabelCount, 0)
	if err := r.activeUsers(ctx).
		Select(column+" AS label, COUNT(*) AS total").
		Where(column + " IS NOT NULL AND " + column + " <> ''").
		Group(column).
		Order("total DESC").
		Order("label ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("top %s: %w", column, err)
	}
	return rows, nil
}

// MostActiveUsers 按文章与视频评论总数排名，只返回有评论的用户。
func (r *AnalyticsRepository) MostActiveUsers(ctx context.Context, limit int) ([]ActiveUser, error) {
	countSQL := fmt.Sprintf(
		"((SELECT COUNT(*) FROM %s pc WHERE pc.user_id = users.id) + (SELECT COUNT(*) FROM %s vc WHERE vc.user_id = users.id))",
		content.KindPost.CommentTable(), content.KindVideo.CommentTable(),
	)
	rows := make([]ActiveUser, 0)
	if err := r.activeUsers(ctx).
		Select("users.id AS user_id, users.name AS name, " + countSQL + " AS comments").
		Where(countSQL + " > 0").
		Order("comments DESC").
		Order("users.id ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("most active users: %w", err)
	}
	return rows, nil
}

// CountEntities 统计某类内容的总数（含草稿）。
func (r *AnalyticsRepository) CountEntities(ctx context.Context, kind content.Kind) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Table(kind.EntityTable()).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", kind.Label(), err)
	}
	return total, nil
}

// CountByCategory 统计每个分类下的内容数量，按数量倒序。
func (r *AnalyticsRepository) CountByCategory(ctx context.Context, kind content.Kind) ([]CategoryCount, error) {
	rows := make([]CategoryCount, 0)
	if err := r.db.WithContext(ctx).
		Table(kind.CategoryTable() + " AS c").
		Select("c.id AS category_id, c.name_pt AS name_pt, c.name_en AS name_en, COUNT(e.id) AS total").
		Joins("LEFT JOIN " + kind.EntityTable() + " e ON e.category_id = c.id").
		Group("c.id, c.name_pt, c.name_en").
		Order("total DESC").
		Order("c.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count %s by category: %w", kind.Label(), err)
	}
	return rows, nil
}

// RatingTotals 返回某类内容全部评分的总和与条数。
func (r *AnalyticsRepository) RatingTotals(ctx context.Context, kind content.Kind) (sum int64, count int64, err error) {
	var row struct {
		Total int64
		Cnt   int64
	}
	if err := r.db.WithContext(ctx).
		Table(kind.RatingTable()).
		Select("COALESCE(SUM(rating), 0) AS total, COUNT(*) AS cnt").
		Scan(&row).Error; err != nil {
		return 0, 0, fmt.Errorf("sum %s ratings: %w", kind.Label(), err)
	}
	return row.Total, row.Cnt, nil
}

// CountComments 统计某类内容的评论总数。
func (r *AnalyticsRepository) CountComments(ctx context.Context, kind content.Kind) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Table(kind.CommentTable()).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count %s comments: %w", kind.Label(), err)
	}
	return total, nil
}

// RatedEntities 返回每个有评分内容的平均分与评分数。
func (r *AnalyticsRepository) RatedEntities(ctx context.Context, kind content.Kind) ([]EntityStat, error) {
	rows := make([]EntityStat, 0)
	if err := r.db.WithContext(ctx).
		Table(kind.RatingTable() + " AS r").
		Select("e.id AS entity_id, e.title_pt AS title_pt, e.title_en AS title_en, AVG(r.rating) AS average, COUNT(r.id) AS total").
		Joins("JOIN " + kind.EntityTable() + " e ON e.id = r." + kind.ForeignKey()).
		Group("e.id, e.title_pt, e.title_en").
		Order("e.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("rated %s: %w", kind.Label(), err)
	}
	return rows, nil
}

// MostCommented 返回评论数最多的内容，没有评论时返回 nil。
func (r *AnalyticsRepository) MostCommented(ctx context.Context, kind content.Kind) (*EntityStat, error) {
	rows := make([]EntityStat, 0, 1)
	if err := r.db.WithContext(ctx).
		Table(kind.CommentTable() + " AS c").
		Select("e.id AS entity_id, e.title_pt AS title_pt, e.title_en AS title_en, COUNT(c.id) AS total").
		Joins("JOIN " + kind.EntityTable() + " e ON e.id = c." + kind.ForeignKey()).
		Group("e.id, e.title_pt, e.title_en").
		Order("total DESC").
		Order("e.id ASC").
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("most commented %s: %w", kind.Label(), err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
