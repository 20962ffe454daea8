package repository

import (
	"context"
	"fmt"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository 在通用内容仓储之上补充文章特有的 slug 与附加分类操作。
type PostRepository struct {
	*ContentRepository[content.BlogPost]
}

// NewPostRepository 构造博客文章仓储。
func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{
		ContentRepository: &ContentRepository[content.BlogPost]{db: db, kind: content.KindPost},
	}
}

// FindBySlug 按 slug 读取文章，不区分发布状态。
func (r *PostRepository) FindBySlug(ctx context.Context, slug string) (*content.BlogPost, error) {
	var post content.BlogPost
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// SlugTaken 判断 slug 是否已被其他文章占用。
func (r *PostRepository) SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var total int64
	query := r.db.WithContext(ctx).Model(&content.BlogPost{}).Where("slug = ?", slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&total).Error; err != nil {
		return false, fmt.Errorf("check post slug: %w", err)
	}
	return total > 0, nil
}

// ReplaceCategories 在事务内用给定集合替换文章的附加分类，重复 ID 只写一次。
func (r *PostRepository) ReplaceCategories(ctx context.Context, postID uint, categoryIDs []uint) error {
	seen := make(map[uint]struct{}, len(categoryIDs))
	rows := make([]content.BlogPostCategory, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, content.BlogPostCategory{PostID: postID, CategoryID: id})
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&content.BlogPostCategory{}).Error; err != nil {
			return fmt.Errorf("clear post categories: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return fmt.Errorf("insert post categories: %w", err)
		}
		return nil
	})
}

// ListCategories 返回文章的附加分类，按葡语名称排序。
func (r *PostRepository) ListCategories(ctx context.Context, postID uint) ([]content.BlogCategory, error) {
	categories := make([]content.BlogCategory, 0)
	err := r.db.WithContext(ctx).
		Table(content.BlogCategory{}.TableName()+" AS c").
		Select("c.*").
		Joins("JOIN blog_post_categories pc ON pc.category_id = c.id").
		Where("pc.post_id = ?", postID).
		Order("c.name_pt ASC").
		Scan(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("list post categories: %w", err)
	}
	return categories, nil
}

// ExistingCategoryIDs 返回给定 ID 中真实存在的博客分类。
func (r *PostRepository) ExistingCategoryIDs(ctx context.Context, ids []uint) ([]uint, error) {
	found := make([]uint, 0, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	if err := r.db.WithContext(ctx).
		Model(&content.BlogCategory{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error; err != nil {
		return nil, fmt.Errorf("check blog categories: %w", err)
	}
	return found, nil
}
