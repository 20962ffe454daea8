package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/apperr"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/infra/metrics"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// MaxPageLimit 单页最多条数。
	MaxPageLimit = 50
	// DefaultPageLimit 未指定 limit 时的默认值。
	DefaultPageLimit = 10
)

// StateReader 读取内容是否存在与是否发布，评分与评论写入前据此判定。
type StateReader interface {
	PublishedState(ctx context.Context, id uint) (exists bool, published bool, err error)
}

// Store 是内容主表仓储需要满足的接口，repository.ContentRepository 实现了它。
type Store[T any] interface {
	StateReader
	Kind() content.Kind
	Page(ctx context.Context, filter repository.PageFilter) ([]T, int64, error)
	FindByID(ctx context.Context, id uint) (*T, error)
	ListAll(ctx context.Context) ([]T, error)
	Create(ctx context.Context, entity *T) error
	Save(ctx context.Context, entity *T) error
	IncrementViews(ctx context.Context, id uint) error
	DeleteCascade(ctx context.Context, id uint) error
}

// RatingBatcher 批量读取一组内容的评分汇总。
type RatingBatcher interface {
	SummariesFor(ctx context.Context, kind content.Kind, entityIDs []uint) (map[uint]content.RatingSummary, error)
}

// PageQuery 描述公开分页请求。
type PageQuery struct {
	CategoryID *uint
	Page       int
	Limit      int
}

// PageResult 是一页内容及过滤条件下的总数。
type PageResult[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

// Config 描述内容服务的可配置参数。
type Config struct {
	MaxPageLimit int
}

// Service 提供文章或视频的分页读取、详情与后台维护。
type Service[T any, PT content.Editable[T]] struct {
	store    Store[T]
	ratings  RatingBatcher
	logger   *zap.SugaredLogger
	maxLimit int
	now      func() time.Time
	checks   []saveCheck[T]
}

// saveCheck 在校验通过后、写库前执行，id 为更新目标，新增时为 0。
type saveCheck[T any] func(ctx context.Context, entity *T, id uint) error

// NewService 创建内容服务实例。
func NewService[T any, PT content.Editable[T]](store Store[T], ratings RatingBatcher, logger *zap.SugaredLogger, cfg Config) *Service[T, PT] {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if cfg.MaxPageLimit <= 0 || cfg.MaxPageLimit > MaxPageLimit {
		cfg.MaxPageLimit = MaxPageLimit
	}
	return &Service[T, PT]{
		store:    store,
		ratings:  ratings,
		logger:   logger.With("kind", store.Kind().Label()),
		maxLimit: cfg.MaxPageLimit,
		now:      time.Now,
	}
}

// NewVideoService 创建学院视频服务。
func NewVideoService(store Store[content.AcademyVideo], ratings RatingBatcher, logger *zap.SugaredLogger, cfg Config) *Service[content.AcademyVideo, *content.AcademyVideo] {
	return NewService[content.AcademyVideo, *content.AcademyVideo](store, ratings, logger, cfg)
}

// Kind 返回服务对应的内容类型。
func (s *Service[T, PT]) Kind() content.Kind {
	return s.store.Kind()
}

// States 暴露发布状态读取，供评分与评论服务复用。
func (s *Service[T, PT]) States() StateReader {
	return s.store
}

// Page 读取一页已发布内容：先计数取页，再用一次批量查询合并评分汇总。
// 存储故障以 Unavailable 返回，不会伪装成空页。
func (s *Service[T, PT]) Page(ctx context.Context, query PageQuery) (PageResult[T], error) {
	kind := s.store.Kind().Label()
	if query.Page < 1 {
		return PageResult[T]{}, apperr.Validation("page 必须大于等于 1")
	}
	if query.Limit < 1 || query.Limit > s.maxLimit {
		return PageResult[T]{}, apperr.Validation("limit 必须在 1 到 %d 之间", s.maxLimit)
	}

	started := time.Now()
	items, total, err := s.store.Page(ctx, repository.PageFilter{
		CategoryID: query.CategoryID,
		Limit:      query.Limit,
		Offset:     (query.Page - 1) * query.Limit,
	})
	metrics.ObserveStore(kind+"_page", started)
	if err != nil {
		metrics.RecordPageRead(kind, metrics.ResultUnavailable)
		s.logger.Errorw("load page failed", "page", query.Page, "limit", query.Limit, "error", err)
		return PageResult[T]{}, apperr.Unavailable(err)
	}
	if len(items) == 0 {
		metrics.RecordPageRead(kind, metrics.ResultEmpty)
		return PageResult[T]{Items: []T{}, Total: total}, nil
	}

	if err := s.mergeRatings(ctx, items); err != nil {
		metrics.RecordPageRead(kind, metrics.ResultUnavailable)
		s.logger.Errorw("batch load ratings failed", "count", len(items), "error", err)
		return PageResult[T]{}, apperr.Unavailable(err)
	}
	metrics.RecordPageRead(kind, metrics.ResultOK)
	return PageResult[T]{Items: items, Total: total}, nil
}

func (s *Service[T, PT]) mergeRatings(ctx context.Context, items []T) error {
	ids := make([]uint, 0, len(items))
	for i := range items {
		ids = append(ids, PT(&items[i]).EntityID())
	}
	summaries, err := s.ratings.SummariesFor(ctx, s.store.Kind(), ids)
	if err != nil {
		return err
	}
	for i := range items {
		entity := PT(&items[i])
		entity.ApplyRating(summaries[entity.EntityID()])
	}
	return nil
}

// GetPublished 返回已发布内容详情并累加浏览量，未发布视同不存在。
func (s *Service[T, PT]) GetPublished(ctx context.Context, id uint) (*T, error) {
	entity, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("%s %d 不存在", s.store.Kind().Label(), id)
		}
		return nil, apperr.Unavailable(err)
	}
	return s.present(ctx, entity)
}

func (s *Service[T, PT]) present(ctx context.Context, entity *T) (*T, error) {
	ptr := PT(entity)
	if !ptr.IsPublished() {
		return nil, apperr.NotFound("%s %d 不存在", s.store.Kind().Label(), ptr.EntityID())
	}
	if err := s.store.IncrementViews(ctx, ptr.EntityID()); err != nil {
		s.logger.Warnw("increment views failed", "id", ptr.EntityID(), "error", err)
	}
	items := []T{*entity}
	if err := s.mergeRatings(ctx, items); err != nil {
		return nil, apperr.Unavailable(err)
	}
	return &items[0], nil
}

// ListAll 返回包含草稿的全部内容，附带评分汇总。
func (s *Service[T, PT]) ListAll(ctx context.Context) ([]T, error) {
	items, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, apperr.Unavailable(err)
	}
	if len(items) == 0 {
		return items, nil
	}
	if err := s.mergeRatings(ctx, items); err != nil {
		return nil, apperr.Unavailable(err)
	}
	return items, nil
}

// Create 校验并新增内容，userID 记为创建人。
func (s *Service[T, PT]) Create(ctx context.Context, entity *T, userID uint) (*T, error) {
	if entity == nil {
		return nil, apperr.Validation("内容不能为空")
	}
	ptr := PT(entity)
	ptr.Normalize()
	if err := ptr.Validate(); err != nil {
		return nil, err
	}
	if err := s.runChecks(ctx, entity, 0); err != nil {
		return nil, err
	}
	ptr.PrepareCreate(userID, s.now().UTC())
	if err := s.store.Create(ctx, entity); err != nil {
		return nil, translateWrite(err)
	}
	s.logger.Infow("content created", "id", ptr.EntityID(), "user_id", userID)
	return entity, nil
}

// Update 把 patch 合并到现有内容后整体校验，未出现的字段保持原值；
// 创建人、浏览量与首次发布时间不可修改。
func (s *Service[T, PT]) Update(ctx context.Context, id uint, patch content.Patch[T]) (*T, error) {
	if patch == nil {
		return nil, apperr.Validation("内容不能为空")
	}
	previous, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("%s %d 不存在", s.store.Kind().Label(), id)
		}
		return nil, apperr.Unavailable(err)
	}
	merged := *previous
	patch.ApplyTo(&merged)
	ptr := PT(&merged)
	ptr.Normalize()
	if err := ptr.Validate(); err != nil {
		return nil, err
	}
	if err := s.runChecks(ctx, &merged, id); err != nil {
		return nil, err
	}
	ptr.PrepareUpdate(previous, s.now().UTC())
	if err := s.store.Save(ctx, &merged); err != nil {
		return nil, translateWrite(err)
	}
	return &merged, nil
}

func (s *Service[T, PT]) runChecks(ctx context.Context, entity *T, id uint) error {
	for _, check := range s.checks {
		if err := check(ctx, entity, id); err != nil {
			return err
		}
	}
	return nil
}

// Delete 在事务内删除内容及其评分、评论。
func (s *Service[T, PT]) Delete(ctx context.Context, id uint) error {
	if err := s.store.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("%s %d 不存在", s.store.Kind().Label(), id)
		}
		return apperr.Unavailable(err)
	}
	s.logger.Infow("content deleted", "id", id)
	return nil
}

// RequirePublished 校验内容存在且已发布：不存在返回 NotFound，未发布返回 State。
func RequirePublished(ctx context.Context, states StateReader, kind content.Kind, id uint) error {
	exists, published, err := states.PublishedState(ctx, id)
	if err != nil {
		return apperr.Unavailable(err)
	}
	if !exists {
		return apperr.NotFound("%s %d 不存在", kind.Label(), id)
	}
	if !published {
		return apperr.State("%s %d 尚未发布", kind.Label(), id)
	}
	return nil
}

func translateWrite(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("唯一字段已被占用")
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return apperr.Validation("引用的分类不存在")
	}
	return apperr.Unavailable(err)
}
