package repository

import (
	"context"
	"fmt"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"
	eventdomain "github.com/LerianStudio/lerian-usa-site/backend/internal/domain/event"

	"gorm.io/gorm"
)

// LikeEscape 是 LIKE 模式使用的转义字符，MySQL 与 SQLite 均支持。
const LikeEscape = "!"

// SearchRepository 负责跨活动、文章、视频的关键字检索。
type SearchRepository struct {
	db *gorm.DB
}

// NewSearchRepository 构造检索仓储。
func NewSearchRepository(db *gorm.DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// SearchEvents 按标题或描述匹配活动。pattern 需已转义并带上通配符。
func (r *SearchRepository) SearchEvents(ctx context.Context, pattern, lang string, limit int) ([]eventdomain.Event, error) {
	items := make([]eventdomain.Event, 0)
	if err := r.match(ctx, "title_"+lang, "description_"+lang, pattern, limit).
		Order("event_date DESC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	return items, nil
}

// SearchPosts 在已发布文章的标题与正文中检索。
func (r *SearchRepository) SearchPosts(ctx context.Context, pattern, lang string, limit int) ([]content.BlogPost, error) {
	items := make([]content.BlogPost, 0)
	if err := r.match(ctx, "title_"+lang, "content_"+lang, pattern, limit).
		Where("published = ?", true).
		Order("published_at DESC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	return items, nil
}

// SearchVideos 在已发布视频的标题与描述中检索。
func (r *SearchRepository) SearchVideos(ctx context.Context, pattern, lang string, limit int) ([]content.AcademyVideo, error) {
	items := make([]content.AcademyVideo, 0)
	if err := r.match(ctx, "title_"+lang, "description_"+lang, pattern, limit).
		Where("published = ?", true).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("search videos: %w", err)
	}
	return items, nil
}

// match 的列名只来自固定前缀与服务层校验过的语言代码。
func (r *SearchRepository) match(ctx context.Context, titleCol, bodyCol, pattern string, limit int) *gorm.DB {
	cond := fmt.Sprintf("(%s LIKE ? ESCAPE '%s' OR %s LIKE ? ESCAPE '%s')", titleCol, LikeEscape, bodyCol, LikeEscape)
	query := r.db.WithContext(ctx).Where(cond, pattern, pattern)
	if limit > 0 {
		query = query.Limit(limit)
	}
	return query
}
