package repository

import (
	"context"
	"fmt"
	"time"

	analyticsdomain "github.com/LerianStudio/lerian-usa-site/backend/internal/domain/analytics"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotRepository 负责后台分析报表的每日快照。
type SnapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository 构造快照仓储，复用主数据库连接。
func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	if db == nil {
		return nil
	}
	return &SnapshotRepository{db: db}
}

// UpsertDaily 根据 (scope, snapshot_date) 写入或覆盖当日快照。
func (r *SnapshotRepository) UpsertDaily(ctx context.Context, record analyticsdomain.Snapshot) error {
	if r == nil || r.db == nil {
		return nil
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scope"}, {Name: "snapshot_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&record).Error; err != nil {
		return fmt.Errorf("upsert %s snapshot: %w", record.Scope, err)
	}
	return nil
}

// ListSince 返回某范围自 since 当天起的快照，按日期倒序。
func (r *SnapshotRepository) ListSince(ctx context.Context, scope string, since time.Time) ([]analyticsdomain.Snapshot, error) {
	records := make([]analyticsdomain.Snapshot, 0)
	if r == nil || r.db == nil {
		return records, nil
	}
	if err := r.db.WithContext(ctx).
		Where("scope = ? AND snapshot_date >= ?", scope, datatypes.Date(since)).
		Order("snapshot_date DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list %s snapshots: %w", scope, err)
	}
	return records, nil
}
