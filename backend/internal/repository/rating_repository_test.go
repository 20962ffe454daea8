package repository

import (
	"sync"
	"testing"
	"time"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"
)

func TestRatingUpsertOverwritesExistingRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewRatingRepository(db)
	post := seedPost(t, db, "upsert", true, time.Now())

	if err := repo.Upsert(bg(), content.KindPost, post.ID, 7, 4); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := repo.Upsert(bg(), content.KindPost, post.ID, 7, 2); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if total := countRatings(t, db, content.KindPost, post.ID, 7); total != 1 {
		t.Fatalf("expected one rating row, got %d", total)
	}
	value, err := repo.UserRating(bg(), content.KindPost, post.ID, 7)
	if err != nil {
		t.Fatalf("user rating: %v", err)
	}
	if value == nil || *value != 2 {
		t.Fatalf("expected rating 2, got %v", value)
	}
}

func TestRatingConcurrentUpsertKeepsSingleRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewRatingRepository(db)
	video := seedVideo(t, db, "concurrent", true)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(value int) {
			defer wg.Done()
			errs <- repo.Upsert(bg(), content.KindVideo, video.ID, 3, value%5+1)
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent upsert: %v", err)
		}
	}

	if total := countRatings(t, db, content.KindVideo, video.ID, 0); total != 1 {
		t.Fatalf("expected exactly one row after concurrent upserts, got %d", total)
	}
}

func TestRatingSummaryRoundsToOneDecimal(t *testing.T) {
	db := newTestDB(t)
	repo := NewRatingRepository(db)
	post := seedPost(t, db, "summary", true, time.Now())

	for userID, value := range map[uint]int{1: 5, 2: 4, 3: 4} {
		if err := repo.Upsert(bg(), content.KindPost, post.ID, userID, value); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	summary, err := repo.Summary(bg(), content.KindPost, post.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Count != 3 || summary.Average != 4.3 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	empty, err := repo.Summary(bg(), content.KindPost, post.ID+100)
	if err != nil {
		t.Fatalf("empty summary: %v", err)
	}
	if empty.Count != 0 || empty.Average != 0 {
		t.Fatalf("expected zero summary, got %+v", empty)
	}
}

func TestRatingSummariesForGroupsByEntity(t *testing.T) {
	db := newTestDB(t)
	repo := NewRatingRepository(db)
	first := seedVideo(t, db, "first", true)
	second := seedVideo(t, db, "second", true)
	unrated := seedVideo(t, db, "unrated", true)

	mustRate(t, repo, content.KindVideo, first.ID, 1, 5)
	mustRate(t, repo, content.KindVideo, first.ID, 2, 3)
	mustRate(t, repo, content.KindVideo, second.ID, 1, 1)

	summaries, err := repo.SummariesFor(bg(), content.KindVideo, []uint{first.ID, second.ID, unrated.ID})
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if got := summaries[first.ID]; got.Count != 2 || got.Average != 4 {
		t.Fatalf("unexpected first summary: %+v", got)
	}
	if got := summaries[second.ID]; got.Count != 1 || got.Average != 1 {
		t.Fatalf("unexpected second summary: %+v", got)
	}
	if _, ok := summaries[unrated.ID]; ok {
		t.Fatalf("unrated video should be absent from map")
	}
}
