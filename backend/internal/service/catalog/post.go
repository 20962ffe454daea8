package catalog

import (
	"context"
	"errors"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/apperr"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PostStore 在通用内容仓储之外提供文章的 slug 与附加分类操作。
type PostStore interface {
	Store[content.BlogPost]
	FindBySlug(ctx context.Context, slug string) (*content.BlogPost, error)
	SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error)
	ReplaceCategories(ctx context.Context, postID uint, categoryIDs []uint) error
	ListCategories(ctx context.Context, postID uint) ([]content.BlogCategory, error)
	ExistingCategoryIDs(ctx context.Context, ids []uint) ([]uint, error)
}

// PostService 博客文章服务。
type PostService struct {
	*Service[content.BlogPost, *content.BlogPost]
	posts PostStore
}

// NewPostService 创建博客文章服务。
func NewPostService(store PostStore, ratings RatingBatcher, logger *zap.SugaredLogger, cfg Config) *PostService {
	service := &PostService{
		Service: NewService[content.BlogPost, *content.BlogPost](store, ratings, logger, cfg),
		posts:   store,
	}
	service.checks = append(service.checks, service.ensureSlugFree)
	return service
}

// Detail 返回已发布文章详情及附加分类，并累加浏览量。
func (s *PostService) Detail(ctx context.Context, id uint) (*content.PostDetail, error) {
	post, err := s.GetPublished(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withCategories(ctx, post)
}

// GetBySlug 按 slug 返回已发布文章详情。
func (s *PostService) GetBySlug(ctx context.Context, slug string) (*content.PostDetail, error) {
	post, err := s.posts.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("文章 %s 不存在", slug)
		}
		return nil, apperr.Unavailable(err)
	}
	presented, err := s.present(ctx, post)
	if err != nil {
		return nil, err
	}
	return s.withCategories(ctx, presented)
}

func (s *PostService) withCategories(ctx context.Context, post *content.BlogPost) (*content.PostDetail, error) {
	categories, err := s.posts.ListCategories(ctx, post.ID)
	if err != nil {
		return nil, apperr.Unavailable(err)
	}
	return &content.PostDetail{BlogPost: *post, Categories: categories}, nil
}

// ensureSlugFree 在新增与更新前检查 slug 是否被其他文章占用。
func (s *PostService) ensureSlugFree(ctx context.Context, post *content.BlogPost, excludeID uint) error {
	taken, err := s.posts.SlugTaken(ctx, post.Slug, excludeID)
	if err != nil {
		return apperr.Unavailable(err)
	}
	if taken {
		return apperr.Conflict("slug %s 已被使用", post.Slug)
	}
	return nil
}

// ReplaceCategories 替换文章的附加分类。
func (s *PostService) ReplaceCategories(ctx context.Context, postID uint, categoryIDs []uint) ([]content.BlogCategory, error) {
	exists, _, err := s.posts.PublishedState(ctx, postID)
	if err != nil {
		return nil, apperr.Unavailable(err)
	}
	if !exists {
		return nil, apperr.NotFound("post %d 不存在", postID)
	}
	found, err := s.posts.ExistingCategoryIDs(ctx, categoryIDs)
	if err != nil {
		return nil, apperr.Unavailable(err)
	}
	known := make(map[uint]struct{}, len(found))
	for _, id := range found {
		known[id] = struct{}{}
	}
	for _, id := range categoryIDs {
		if _, ok := known[id]; !ok {
			return nil, apperr.Validation("分类 %d 不存在", id)
		}
	}
	if err := s.posts.ReplaceCategories(ctx, postID, categoryIDs); err != nil {
		return nil, translateWrite(err)
	}
	categories, err := s.posts.ListCategories(ctx, postID)
	if err != nil {
		return nil, apperr.Unavailable(err)
	}
	return categories, nil
}
