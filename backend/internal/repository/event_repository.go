package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	eventdomain "github.com/LerianStudio/lerian-usa-site/backend/internal/domain/event"

	"gorm.io/gorm"
)

// EventRepository 负责活动日历的持久化。
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository 构造活动仓储。
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Upcoming 返回不早于 now 的活动，按时间升序。
func (r *EventRepository) Upcoming(ctx context.Context, now time.Time, limit int) ([]eventdomain.Event, error) {
	events := make([]eventdomain.Event, 0)
	query := r.db.WithContext(ctx).
		Where("event_date >= ?", now).
		Order("event_date ASC").
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	return events, nil
}

// List 返回全部活动，按时间倒序。
func (r *EventRepository) List(ctx context.Context) ([]eventdomain.Event, error) {
	events := make([]eventdomain.Event, 0)
	if err := r.db.WithContext(ctx).
		Order("event_date DESC").
		Order("id DESC").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// FindByID 根据主键查询活动。
func (r *EventRepository) FindByID(ctx context.Context, id uint) (*eventdomain.Event, error) {
	var entity eventdomain.Event
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// Create 新增活动。
func (r *EventRepository) Create(ctx context.Context, entity *eventdomain.Event) error {
	if entity == nil {
		return errors.New("event entity is nil")
	}
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// Save 整行更新活动。
func (r *EventRepository) Save(ctx context.Context, entity *eventdomain.Event) error {
	if entity == nil {
		return errors.New("event entity is nil")
	}
	if err := r.db.WithContext(ctx).Save(entity).Error; err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

// Delete 删除活动，不存在时返回 gorm.ErrRecordNotFound。
func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&eventdomain.Event{})
	if result.Error != nil {
		return fmt.Errorf("delete event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
