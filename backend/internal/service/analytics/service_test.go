package analytics

import (
	"context"
	"testing"
	"time"

	analyticsdomain "github.com/LerianStudio/lerian-usa-site/backend/internal/domain/analytics"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/apperr"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/repository"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/testutil"
)

func TestBucketByMonthFillsGaps(t *testing.T) {
	since := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	times := []time.Time{
		time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	buckets := bucketByMonth(times, since, 3)
	want := []MonthCount{{"2025-01", 2}, {"2025-02", 0}, {"2025-03", 1}}
	if len(buckets) != len(want) {
		t.Fatalf("expected %d buckets, got %d", len(want), len(buckets))
	}
	for i := range want {
		if buckets[i] != want[i] {
			t.Fatalf("bucket %d: got %+v, want %+v", i, buckets[i], want[i])
		}
	}
}

func TestRatingExtremesPrefersMoreRatingsOnTie(t *testing.T) {
	most, least := ratingExtremes([]repository.EntityStat{
		{EntityID: 1, Average: 4.26, Total: 3},
		{EntityID: 2, Average: 4.26, Total: 8},
		{EntityID: 3, Average: 2, Total: 1},
	})
	if most.EntityID != 2 || most.Average != 4.3 {
		t.Fatalf("unexpected most rated: %+v", most)
	}
	if least.EntityID != 3 {
		t.Fatalf("unexpected least rated: %+v", least)
	}
	if m, l := ratingExtremes(nil); m != nil || l != nil {
		t.Fatalf("expected nil extremes for empty input")
	}
}

func TestContentReportAndSnapshot(t *testing.T) {
	db := testutil.OpenSQLite(t)
	service := NewService(repository.NewAnalyticsRepository(db), repository.NewSnapshotRepository(db), nil)
	fixed := time.Date(2025, 5, 20, 15, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return fixed }
	ctx := context.Background()

	first := testutil.CreatePost(t, db, "first", true, fixed)
	testutil.CreatePost(t, db, "second", false, time.Time{})
	alice := testutil.CreateUser(t, db, "alice", "Alice")
	ratings := repository.NewRatingRepository(db)
	comments := repository.NewCommentRepository(db)
	if err := ratings.Upsert(ctx, content.KindPost, first.ID, alice.ID, 5); err != nil {
		t.Fatalf("rate: %v", err)
	}
	if err := ratings.Upsert(ctx, content.KindPost, first.ID, alice.ID+1, 4); err != nil {
		t.Fatalf("rate: %v", err)
	}
	if _, err := comments.Create(ctx, content.KindPost, first.ID, alice.ID, "bom"); err != nil {
		t.Fatalf("comment: %v", err)
	}

	report, err := service.Content(ctx, content.KindPost)
	if err != nil {
		t.Fatalf("content report: %v", err)
	}
	if report.TotalEntities != 2 || report.TotalRatings != 2 || report.TotalComments != 1 {
		t.Fatalf("unexpected totals: %+v", report)
	}
	if report.AverageRating != 4.5 || report.EngagementRate != 1.5 || report.AverageCommentsPerEntity != 0.5 {
		t.Fatalf("unexpected ratios: %+v", report)
	}
	if report.MostCommented == nil || report.MostCommented.EntityID != first.ID {
		t.Fatalf("unexpected most commented: %+v", report.MostCommented)
	}

	users, err := service.Users(ctx)
	if err != nil {
		t.Fatalf("user report: %v", err)
	}
	if users.TotalUsers != 1 || len(users.MostActiveUsers) != 1 || users.MostActiveUsers[0].Comments != 1 {
		t.Fatalf("unexpected user report: %+v", users)
	}
	if len(users.RegistrationsByMonth) != 6 {
		t.Fatalf("expected 6 monthly buckets, got %d", len(users.RegistrationsByMonth))
	}

	snapshots, err := service.Snapshots(ctx, analyticsdomain.ScopeBlog, 7)
	if err != nil {
		t.Fatalf("snapshots: %v", err)
	}
	if len(snapshots) != 1 {
		t.Fatalf("expected one blog snapshot, got %d", len(snapshots))
	}
	if _, err := service.Snapshots(ctx, "sales", 7); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for unknown scope, got %v", err)
	}
}

func TestContentReportUnavailable(t *testing.T) {
	db := testutil.OpenSQLite(t)
	service := NewService(repository.NewAnalyticsRepository(db), nil, nil)
	testutil.CloseDB(t, db)

	if _, err := service.Content(context.Background(), content.KindVideo); apperr.KindOf(err) != apperr.KindUnavailable {
		t.Fatalf("expected unavailable, got %v", err)
	}
}
