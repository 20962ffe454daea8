package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryRepository 负责博客与学院分类，kind 决定操作哪张分类表。
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 构造分类仓储。
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) withCounts(ctx context.Context, kind content.Kind) *gorm.DB {
	countSQL := fmt.Sprintf("(SELECT COUNT(*) FROM %s e WHERE e.category_id = c.id AND e.published = ?) AS entity_count", kind.EntityTable())
	return r.db.WithContext(ctx).
		Table(kind.CategoryTable()+" AS c").
		Select("c.id, c.name_pt, c.name_en, c.slug, c.created_at, "+countSQL, true)
}

// List 按葡语名称返回全部分类及其已发布内容数量。
func (r *CategoryRepository) List(ctx context.Context, kind content.Kind) ([]content.Category, error) {
	categories := make([]content.Category, 0)
	if err := r.withCounts(ctx, kind).
		Order("c.name_pt ASC").
		Order("c.id ASC").
		Scan(&categories).Error; err != nil {
		return nil, fmt.Errorf("list %s categories: %w", kind.Label(), err)
	}
	return categories, nil
}

// FindByID 按主键读取分类，不存在时返回 gorm.ErrRecordNotFound。
func (r *CategoryRepository) FindByID(ctx context.Context, kind content.Kind, id uint) (*content.Category, error) {
	return r.findOne(ctx, kind, "c.id = ?", id)
}

// FindBySlug 按 slug 读取分类。
func (r *CategoryRepository) FindBySlug(ctx context.Context, kind content.Kind, slug string) (*content.Category, error) {
	return r.findOne(ctx, kind, "c.slug = ?", slug)
}

func (r *CategoryRepository) findOne(ctx context.Context, kind content.Kind, cond string, arg any) (*content.Category, error) {
	var rows []content.Category
	if err := r.withCounts(ctx, kind).Where(cond, arg).Limit(1).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("find %s category: %w", kind.Label(), err)
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

// SlugTaken 判断 slug 是否被其他分类占用，excludeID 为更新时的自身 ID。
func (r *CategoryRepository) SlugTaken(ctx context.Context, kind content.Kind, slug string, excludeID uint) (bool, error) {
	var total int64
	query := r.db.WithContext(ctx).Table(kind.CategoryTable()).Where("slug = ?", slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&total).Error; err != nil {
		return false, fmt.Errorf("check %s category slug: %w", kind.Label(), err)
	}
	return total > 0, nil
}

// Create 写入分类并回填 ID 与创建时间。
func (r *CategoryRepository) Create(ctx context.Context, kind content.Kind, category *content.Category) error {
	if category == nil {
		return errors.New("category is nil")
	}
	db := r.db.WithContext(ctx)
	if kind == content.KindVideo {
		row := content.AcademyCategory{NamePt: category.NamePt, NameEn: category.NameEn, Slug: category.Slug}
		if err := db.Create(&row).Error; err != nil {
			return fmt.Errorf("create academy category: %w", err)
		}
		category.ID, category.CreatedAt = row.ID, row.CreatedAt
		return nil
	}
	row := content.BlogCategory{NamePt: category.NamePt, NameEn: category.NameEn, Slug: category.Slug}
	if err := db.Create(&row).Error; err != nil {
		return fmt.Errorf("create blog category: %w", err)
	}
	category.ID, category.CreatedAt = row.ID, row.CreatedAt
	return nil
}

// EnsureSlug 按 slug 幂等写入分类，已存在时刷新名称。
func (r *CategoryRepository) EnsureSlug(ctx context.Context, kind content.Kind, namePt, nameEn, slug string) error {
	var row any
	if kind == content.KindVideo {
		row = &content.AcademyCategory{NamePt: namePt, NameEn: nameEn, Slug: slug}
	} else {
		row = &content.BlogCategory{NamePt: namePt, NameEn: nameEn, Slug: slug}
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name_pt", "name_en"}),
		}).
		Create(row).Error; err != nil {
		return fmt.Errorf("seed %s category %s: %w", kind.Label(), slug, err)
	}
	return nil
}

// Update 更新分类名称与 slug。
func (r *CategoryRepository) Update(ctx context.Context, kind content.Kind, category *content.Category) error {
	if category == nil {
		return errors.New("category is nil")
	}
	if err := r.db.WithContext(ctx).
		Table(kind.CategoryTable()).
		Where("id = ?", category.ID).
		Updates(map[string]any{
			"name_pt": category.NamePt,
			"name_en": category.NameEn,
			"slug":    category.Slug,
		}).Error; err != nil {
		return fmt.Errorf("update %s category: %w", kind.Label(), err)
	}
	return nil
}

// CountReferences 统计引用该分类的内容数量，包含未发布内容与文章附加分类。
func (r *CategoryRepository) CountReferences(ctx context.Context, kind content.Kind, id uint) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Table(kind.EntityTable()).
		Where("category_id = ?", id).
		Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count %s category references: %w", kind.Label(), err)
	}
	if kind != content.KindPost {
		return total, nil
	}
	var links int64
	if err := r.db.WithContext(ctx).
		Model(&content.BlogPostCategory{}).
		Where("category_id = ?", id).
		Count(&links).Error; err != nil {
		return 0, fmt.Errorf("count post category links: %w", err)
	}
	return total + links, nil
}

// Delete 删除分类，不存在时返回 gorm.ErrRecordNotFound。
func (r *CategoryRepository) Delete(ctx context.Context, kind content.Kind, id uint) error {
	var model any = &content.BlogCategory{}
	if kind == content.KindVideo {
		model = &content.AcademyCategory{}
	}
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if result.Error != nil {
		return fmt.Errorf("delete %s category: %w", kind.Label(), result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
