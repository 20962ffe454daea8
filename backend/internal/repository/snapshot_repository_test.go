package repository

import (
	"testing"
	"time"

	analyticsdomain "github.com/LerianStudio/lerian-usa-site/backend/internal/domain/analytics"

	"gorm.io/datatypes"
)

func TestSnapshotUpsertDailyOverwritesSameDay(t *testing.T) {
	db := newTestDB(t)
	repo := NewSnapshotRepository(db)
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, payload := range []string{`{"totalUsers":1}`, `{"totalUsers":2}`} {
		err := repo.UpsertDaily(bg(), analyticsdomain.Snapshot{
			Scope:        analyticsdomain.ScopeUsers,
			SnapshotDate: datatypes.Date(day),
			Payload:      datatypes.JSON(payload),
		})
		if err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	records, err := repo.ListSince(bg(), analyticsdomain.ScopeUsers, day.AddDate(0, 0, -1))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one snapshot, got %d", len(records))
	}
	if string(records[0].Payload) != `{"totalUsers":2}` {
		t.Fatalf("expected latest payload, got %s", records[0].Payload)
	}
}
