package analytics

import (
	"time"

	"gorm.io/datatypes"
)

// 快照范围。
const (
	ScopeUsers   = "users"
	ScopeBlog    = "blog"
	ScopeAcademy = "academy"
)

// ValidScope 判断快照范围是否合法。
func ValidScope(scope string) bool {
	switch scope {
	case ScopeUsers, ScopeBlog, ScopeAcademy:
		return true
	default:
		return false
	}
}

// Snapshot 映射 analytics_snapshots 表，每个范围每天一行，报表正文以 JSON 存储。
type Snapshot struct {
	ID           uint           `gorm:"column:id;primaryKey" json:"id"`
	Scope        string         `gorm:"column:scope;size:16;not null;uniqueIndex:idx_analytics_scope_date,priority:1" json:"scope"`
	SnapshotDate datatypes.Date `gorm:"column:snapshot_date;not null;uniqueIndex:idx_analytics_scope_date,priority:2" json:"snapshotDate"`
	Payload      datatypes.JSON `gorm:"column:payload;type:json" json:"payload"`
	CreatedAt    time.Time      `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"column:updated_at" json:"updatedAt"`
}

// TableName 返回快照表名。
func (Snapshot) TableName() string {
	return "analytics_snapshots"
}
