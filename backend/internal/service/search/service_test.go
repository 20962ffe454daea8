package search_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/apperr"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/repository"
	searchsvc "github.com/LerianStudio/lerian-usa-site/backend/internal/service/search"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/testutil"
)

func TestEscapeLike(t *testing.T) {
	cases := map[string]string{
		"plain":  "plain",
		"50%":    "50!%",
		"a_b":    "a!_b",
		"wow!":   "wow!!",
		"%_!mix": "!%!_!!mix",
	}
	for input, want := range cases {
		if got := searchsvc.EscapeLike(input); got != want {
			t.Fatalf("EscapeLike(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSearchValidatesQueryAndLanguage(t *testing.T) {
	db := testutil.OpenSQLite(t)
	service := searchsvc.NewService(repository.NewSearchRepository(db), nil)
	ctx := context.Background()

	for _, query := range []string{"", "   ", strings.Repeat("x", 101)} {
		if _, err := service.Search(ctx, query, "pt"); !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("query %q: expected validation error, got %v", query, err)
		}
	}
	if _, err := service.Search(ctx, "ok", "es"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for unsupported lang, got %v", err)
	}
}

func TestSearchGroupsPublishedResults(t *testing.T) {
	db := testutil.OpenSQLite(t)
	service := searchsvc.NewService(repository.NewSearchRepository(db), nil)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		post := testutil.CreatePost(t, db, "pix-"+string(rune('a'+i)), true, time.Now().Add(time.Duration(i)*time.Minute))
		db.Model(post).Update("title_pt", "Pagamentos com Pix")
	}
	draft := testutil.CreatePost(t, db, "pix-draft", false, time.Time{})
	db.Model(draft).Update("title_pt", "Pix rascunho")
	video := testutil.CreateVideo(t, db, "Aula sobre Pix", true)

	result, err := service.Search(ctx, "pix", "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(result.Posts) != 5 {
		t.Fatalf("expected posts capped at 5, got %d", len(result.Posts))
	}
	for _, post := range result.Posts {
		if !post.Published {
			t.Fatalf("draft leaked into search results: %+v", post)
		}
	}
	if len(result.Videos) != 1 || result.Videos[0].ID != video.ID {
		t.Fatalf("unexpected videos: %+v", result.Videos)
	}
	if len(result.Events) != 0 {
		t.Fatalf("expected no events, got %d", len(result.Events))
	}
}
