package category

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/apperr"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxNameLength = 100

// Input 描述创建或更新分类的字段。
type Input struct {
	NamePt string `json:"namePt"`
	NameEn string `json:"nameEn"`
	Slug   string `json:"slug"`
}

// Seed 描述一条预置分类。
type Seed struct {
	Kind   content.Kind
	NamePt string
	NameEn string
	Slug   string
}

// DefaultSeeds 返回博客与学院的预置分类。
func DefaultSeeds() []Seed {
	base := []Input{
		{NamePt: "Tecnologia", NameEn: "Technology", Slug: "technology"},
		{NamePt: "Inovação", NameEn: "Innovation", Slug: "innovation"},
		{NamePt: "Mercado Financeiro", NameEn: "Financial Market", Slug: "financial-market"},
		{NamePt: "Educação", NameEn: "Education", Slug: "education"},
		{NamePt: "Eventos", NameEn: "Events", Slug: "events"},
	}
	seeds := make([]Seed, 0, len(base)*2)
	for _, kind := range []content.Kind{content.KindPost, content.KindVideo} {
		for _, item := range base {
			seeds = append(seeds, Seed{Kind: kind, NamePt: item.NamePt, NameEn: item.NameEn, Slug: item.Slug})
		}
	}
	return seeds
}

// Service 负责博客与学院分类。
type Service struct {
	categories *repository.CategoryRepository
	logger     *zap.SugaredLogger
}

// NewService 创建分类服务实例。
func NewService(categories *repository.CategoryRepository, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{categories: categories, logger: logger}
}

// List 返回分类及其已发布内容数量。
func (s *Service) List(ctx context.Context, kind content.Kind) ([]content.Category, error) {
	items, err := s.categories.List(ctx, kind)
	if err != nil {
		s.logger.Errorw("list categories failed", "kind", kind.Label(), "error", err)
		return nil, apperr.Unavailable(err)
	}
	return items, nil
}

// GetBySlug 按 slug 读取分类。
func (s *Service) GetBySlug(ctx context.Context, kind content.Kind, slug string) (*content.Category, error) {
	item, err := s.categories.FindBySlug(ctx, kind, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("分类 %s 不存在", slug)
		}
		return nil, apperr.Unavailable(err)
	}
	return item, nil
}

// Create 新增分类，slug 冲突返回 Conflict。
func (s *Service) Create(ctx context.Context, kind content.Kind, input Input) (*content.Category, error) {
	input, err := normalize(input)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, kind, input.Slug, 0); err != nil {
		return nil, err
	}
	item := &content.Category{NamePt: input.NamePt, NameEn: input.NameEn, Slug: input.Slug}
	if err := s.categories.Create(ctx, kind, item); err != nil {
		return nil, translateWrite(err)
	}
	s.logger.Infow("category created", "kind", kind.Label(), "id", item.ID, "slug", item.Slug)
	return item, nil
}

// Update 更新分类；不存在返回 NotFound，slug 被其他分类占用返回 Conflict。
func (s *Service) Update(ctx context.Context, kind content.Kind, id uint, input Input) (*content.Category, error) {
	input, err := normalize(input)
	if err != nil {
		return nil, err
	}
	existing, err := s.categories.FindByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("分类 %d 不存在", id)
		}
		return nil, apperr.Unavailable(err)
	}
	if err := s.ensureSlugFree(ctx, kind, input.Slug, id); err != nil {
		return nil, err
	}
	existing.NamePt, existing.NameEn, existing.Slug = input.NamePt, input.NameEn, input.Slug
	if err := s.categories.Update(ctx, kind, existing); err != nil {
		return nil, translateWrite(err)
	}
	return existing, nil
}

// Delete 删除分类；仍被内容引用时返回 State，不存在返回 NotFound。
func (s *Service) Delete(ctx context.Context, kind content.Kind, id uint) error {
	refs, err := s.categories.CountReferences(ctx, kind, id)
	if err != nil {
		return apperr.Unavailable(err)
	}
	if refs > 0 {
		return apperr.State("分类仍被 %d 条内容引用，无法删除", refs)
	}
	if err := s.categories.Delete(ctx, kind, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("分类 %d 不存在", id)
		}
		return apperr.Unavailable(err)
	}
	s.logger.Infow("category deleted", "kind", kind.Label(), "id", id)
	return nil
}

// EnsureSeeds 幂等写入预置分类。
func (s *Service) EnsureSeeds(ctx context.Context, seeds []Seed) error {
	for _, seed := range seeds {
		if err := s.categories.EnsureSlug(ctx, seed.Kind, seed.NamePt, seed.NameEn, seed.Slug); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) ensureSlugFree(ctx context.Context, kind content.Kind, slug string, excludeID uint) error {
	taken, err := s.categories.SlugTaken(ctx, kind, slug, excludeID)
	if err != nil {
		return apperr.Unavailable(err)
	}
	if taken {
		return apperr.Conflict("slug %s 已被使用", slug)
	}
	return nil
}

func normalize(input Input) (Input, error) {
	input.NamePt = strings.TrimSpace(input.NamePt)
	input.NameEn = strings.TrimSpace(input.NameEn)
	input.Slug = strings.TrimSpace(input.Slug)
	for field, value := range map[string]string{"namePt": input.NamePt, "nameEn": input.NameEn} {
		if value == "" {
			return input, apperr.Validation("%s 不能为空", field)
		}
		if utf8.RuneCountInString(value) > maxNameLength {
			return input, apperr.Validation("%s 不能超过 %d 个字符", field, maxNameLength)
		}
	}
	if !content.ValidSlug(input.Slug) {
		return input, apperr.Validation("slug 只能包含小写字母、数字与单个连字符")
	}
	return input, nil
}

func translateWrite(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("slug 已被使用")
	}
	return apperr.Unavailable(err)
}
