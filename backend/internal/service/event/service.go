package event

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/apperr"
	eventdomain "github.com/LerianStudio/lerian-usa-site/backend/internal/domain/event"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	upcomingLimit  = 10
	maxTitleLength = 255
)

// Input 描述创建或更新活动的字段。
type Input struct {
	TitlePt       string    `json:"titlePt"`
	TitleEn       string    `json:"titleEn"`
	DescriptionPt string    `json:"descriptionPt"`
	DescriptionEn string    `json:"descriptionEn"`
	EventType     string    `json:"eventType"`
	Location      string    `json:"location"`
	ImageURL      string    `json:"imageUrl"`
	EventURL      string    `json:"eventUrl"`
	EventDate     time.Time `json:"eventDate"`
}

// Service 负责活动日历。
type Service struct {
	events *repository.EventRepository
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewService 创建活动服务实例。
func NewService(events *repository.EventRepository, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{events: events, logger: logger, now: time.Now}
}

// Upcoming 返回即将开始的活动，最多 10 条。
func (s *Service) Upcoming(ctx context.Context) ([]eventdomain.Event, error) {
	items, err := s.events.Upcoming(ctx, s.now().UTC(), upcomingLimit)
	if err != nil {
		s.logger.Errorw("list upcoming events failed", "error", err)
		return nil, apperr.Unavailable(err)
	}
	return items, nil
}

// List 返回全部活动，按时间倒序。
func (s *Service) List(ctx context.Context) ([]eventdomain.Event, error) {
	items, err := s.events.List(ctx)
	if err != nil {
		s.logger.Errorw("list events failed", "error", err)
		return nil, apperr.Unavailable(err)
	}
	return items, nil
}

// Get 读取活动详情。
func (s *Service) Get(ctx context.Context, id uint) (*eventdomain.Event, error) {
	item, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("活动 %d 不存在", id)
		}
		return nil, apperr.Unavailable(err)
	}
	return item, nil
}

// Create 新增活动。
func (s *Service) Create(ctx context.Context, input Input, userID uint) (*eventdomain.Event, error) {
	item := &eventdomain.Event{}
	if err := apply(item, input); err != nil {
		return nil, err
	}
	if userID > 0 {
		item.CreatedBy = &userID
	}
	if err := s.events.Create(ctx, item); err != nil {
		return nil, apperr.Unavailable(err)
	}
	s.logger.Infow("event created", "id", item.ID, "user_id", userID)
	return item, nil
}

// Update 覆盖活动的可编辑字段。
func (s *Service) Update(ctx context.Context, id uint, input Input) (*eventdomain.Event, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(item, input); err != nil {
		return nil, err
	}
	if err := s.events.Save(ctx, item); err != nil {
		return nil, apperr.Unavailable(err)
	}
	return item, nil
}

// Delete 删除活动。
func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("活动 %d 不存在", id)
		}
		return apperr.Unavailable(err)
	}
	return nil
}

func apply(item *eventdomain.Event, input Input) error {
	titlePt := strings.TrimSpace(input.TitlePt)
	titleEn := strings.TrimSpace(input.TitleEn)
	if titlePt == "" || titleEn == "" {
		return apperr.Validation("活动标题不能为空")
	}
	if utf8.RuneCountInString(titlePt) > maxTitleLength || utf8.RuneCountInString(titleEn) > maxTitleLength {
		return apperr.Validation("活动标题不能超过 %d 个字符", maxTitleLength)
	}
	if input.EventDate.IsZero() {
		return apperr.Validation("eventDate 不能为空")
	}
	eventType := strings.TrimSpace(input.EventType)
	if eventType == "" {
		eventType = eventdomain.TypeOther
	}
	if !eventdomain.ValidType(eventType) {
		return apperr.Validation("eventType 只能为 %s", strings.Join(eventdomain.Types(), "/"))
	}
	item.TitlePt = titlePt
	item.TitleEn = titleEn
	item.DescriptionPt = input.DescriptionPt
	item.DescriptionEn = input.DescriptionEn
	item.EventType = eventType
	item.Location = strings.TrimSpace(input.Location)
	item.ImageURL = strings.TrimSpace(input.ImageURL)
	item.EventURL = strings.TrimSpace(input.EventURL)
	item.EventDate = input.EventDate.UTC()
	return nil
}
