package event_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/apperr"
	eventdomain "github.com/LerianStudio/lerian-usa-site/backend/internal/domain/event"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/repository"
	eventsvc "github.com/LerianStudio/lerian-usa-site/backend/internal/service/event"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/testutil"
)

func setupEvents(t *testing.T) *eventsvc.Service {
	t.Helper()
	db := testutil.OpenSQLite(t)
	return eventsvc.NewService(repository.NewEventRepository(db), nil)
}

func TestCreateDefaultsTypeAndValidates(t *testing.T) {
	service := setupEvents(t)
	ctx := context.Background()

	if _, err := service.Create(ctx, eventsvc.Input{TitlePt: "Sem data", TitleEn: "No date"}, 1); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error without date, got %v", err)
	}
	if _, err := service.Create(ctx, eventsvc.Input{TitlePt: "X", TitleEn: "X", EventType: "party", EventDate: time.Now()}, 1); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for unknown type, got %v", err)
	}
	created, err := service.Create(ctx, eventsvc.Input{TitlePt: "Meetup", TitleEn: "Meetup", EventDate: time.Now().Add(time.Hour)}, 7)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.EventType != eventdomain.TypeOther || created.CreatedBy == nil || *created.CreatedBy != 7 {
		t.Fatalf("unexpected event: %+v", created)
	}
}

func TestUpcomingExcludesPastEvents(t *testing.T) {
	service := setupEvents(t)
	ctx := context.Background()
	now := time.Now().UTC()
	later, _ := service.Create(ctx, eventsvc.Input{TitlePt: "Depois", TitleEn: "Later", EventType: eventdomain.TypeWebinar, EventDate: now.Add(48 * time.Hour)}, 1)
	soon, _ := service.Create(ctx, eventsvc.Input{TitlePt: "Logo", TitleEn: "Soon", EventType: eventdomain.TypeWorkshop, EventDate: now.Add(2 * time.Hour)}, 1)
	past, _ := service.Create(ctx, eventsvc.Input{TitlePt: "Antes", TitleEn: "Before", EventDate: now.Add(-48 * time.Hour)}, 1)

	upcoming, err := service.Upcoming(ctx)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(upcoming) != 2 || upcoming[0].ID != soon.ID || upcoming[1].ID != later.ID {
		t.Fatalf("unexpected upcoming order: %+v", upcoming)
	}
	all, err := service.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[2].ID != past.ID {
		t.Fatalf("expected past event last in full list, got %+v", all)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	service := setupEvents(t)
	ctx := context.Background()
	created, err := service.Create(ctx, eventsvc.Input{TitlePt: "A", TitleEn: "A", EventDate: time.Now()}, 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := service.Update(ctx, created.ID, eventsvc.Input{TitlePt: "B", TitleEn: "B", EventType: eventdomain.TypeConference, EventDate: time.Now()})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.TitlePt != "B" || updated.EventType != eventdomain.TypeConference {
		t.Fatalf("unexpected update: %+v", updated)
	}
	if err := service.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := service.Get(ctx, created.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := service.Delete(ctx, created.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found on repeat delete, got %v", err)
	}
}
