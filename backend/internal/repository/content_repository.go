package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"

	"gorm.io/gorm"
)

// PageFilter 描述公开列表的过滤与分页条件。
type PageFilter struct {
	CategoryID *uint
	Limit      int
	Offset     int
}

// ContentRepository 是文章与视频共用的主表仓储，T 为 content.BlogPost 或 content.AcademyVideo。
type ContentRepository[T any] struct {
	db   *gorm.DB
	kind content.Kind
}

// NewVideoRepository 构造学院视频仓储。
func NewVideoRepository(db *gorm.DB) *ContentRepository[content.AcademyVideo] {
	return &ContentRepository[content.AcademyVideo]{db: db, kind: content.KindVideo}
}

// Kind 返回仓储对应的内容类型。
func (r *ContentRepository[T]) Kind() content.Kind {
	return r.kind
}

// FindByID 按主键读取，不区分发布状态。
func (r *ContentRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// PublishedState 返回内容是否存在以及是否已发布，只读取 published 一列。
func (r *ContentRepository[T]) PublishedState(ctx context.Context, id uint) (exists bool, published bool, err error) {
	var flags []bool
	if err := r.db.WithContext(ctx).
		Table(r.kind.EntityTable()).
		Where("id = ?", id).
		Limit(1).
		Pluck("published", &flags).Error; err != nil {
		return false, false, fmt.Errorf("load %s state: %w", r.kind.Label(), err)
	}
	if len(flags) == 0 {
		return false, false, nil
	}
	return true, flags[0], nil
}

// Page 在同一过滤条件下先计数再取一页已发布内容，按时间倒序、ID 倒序排列。
func (r *ContentRepository[T]) Page(ctx context.Context, filter PageFilter) ([]T, int64, error) {
	query := r.db.WithContext(ctx).Model(new(T)).Where("published = ?", true)
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count %s page: %w", r.kind.Label(), err)
	}
	items := make([]T, 0)
	if total == 0 {
		return items, 0, nil
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if err := query.
		Order(r.kind.RecencyColumn() + " DESC").
		Order("id DESC").
		Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("list %s page: %w", r.kind.Label(), err)
	}
	return items, total, nil
}

// ListAll 返回包含草稿在内的全部内容，供后台管理使用。
func (r *ContentRepository[T]) ListAll(ctx context.Context) ([]T, error) {
	items := make([]T, 0)
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list all %s: %w", r.kind.Label(), err)
	}
	return items, nil
}

// Create 新增内容。
func (r *ContentRepository[T]) Create(ctx context.Context, entity *T) error {
	if entity == nil {
		return errors.New("content entity is nil")
	}
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("create %s: %w", r.kind.Label(), err)
	}
	return nil
}

// Save 整行保存内容。
func (r *ContentRepository[T]) Save(ctx context.Context, entity *T) error {
	if entity == nil {
		return errors.New("content entity is nil")
	}
	if err := r.db.WithContext(ctx).Save(entity).Error; err != nil {
		return fmt.Errorf("update %s: %w", r.kind.Label(), err)
	}
	return nil
}

// IncrementViews 浏览量原子加一。
func (r *ContentRepository[T]) IncrementViews(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).
		Table(r.kind.EntityTable()).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error; err != nil {
		return fmt.Errorf("increment %s views: %w", r.kind.Label(), err)
	}
	return nil
}

// DeleteCascade 在一个事务内删除评分、评论、分类关联与内容本身；内容不存在时回滚并返回 gorm.ErrRecordNotFound。
func (r *ContentRepository[T]) DeleteCascade(ctx context.Context, id uint) error {
	fk := r.kind.ForeignKey()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(fk+" = ?", id).Delete(ratingModel(r.kind)).Error; err != nil {
			return fmt.Errorf("delete %s ratings: %w", r.kind.Label(), err)
		}
		if err := tx.Where(fk+" = ?", id).Delete(commentModel(r.kind)).Error; err != nil {
			return fmt.Errorf("delete %s comments: %w", r.kind.Label(), err)
		}
		if r.kind == content.KindPost {
			if err := tx.Where("post_id = ?", id).Delete(&content.BlogPostCategory{}).Error; err != nil {
				return fmt.Errorf("delete post categories: %w", err)
			}
		}
		result := tx.Where("id = ?", id).Delete(new(T))
		if result.Error != nil {
			return fmt.Errorf("delete %s: %w", r.kind.Label(), result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
