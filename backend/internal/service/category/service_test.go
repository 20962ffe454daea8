package category_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/apperr"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/repository"
	categorysvc "github.com/LerianStudio/lerian-usa-site/backend/internal/service/category"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/testutil"

	"gorm.io/gorm"
)

func setupCategories(t *testing.T) (*categorysvc.Service, *gorm.DB) {
	t.Helper()
	db := testutil.OpenSQLite(t)
	return categorysvc.NewService(repository.NewCategoryRepository(db), nil), db
}

func TestCreateValidatesAndRejectsDuplicateSlug(t *testing.T) {
	service, _ := setupCategories(t)
	ctx := context.Background()

	if _, err := service.Create(ctx, content.KindPost, categorysvc.Input{NamePt: "", NameEn: "Tech", Slug: "tech"}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for empty name, got %v", err)
	}
	if _, err := service.Create(ctx, content.KindPost, categorysvc.Input{NamePt: "Tec", NameEn: "Tech", Slug: "tech--x"}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for bad slug, got %v", err)
	}
	created, err := service.Create(ctx, content.KindPost, categorysvc.Input{NamePt: " Tecnologia ", NameEn: "Technology", Slug: "technology"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.NamePt != "Tecnologia" || created.ID == 0 {
		t.Fatalf("unexpected category: %+v", created)
	}
	if _, err := service.Create(ctx, content.KindPost, categorysvc.Input{NamePt: "Outra", NameEn: "Other", Slug: "technology"}); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, err := service.Create(ctx, content.KindVideo, categorysvc.Input{NamePt: "Tecnologia", NameEn: "Technology", Slug: "technology"}); err != nil {
		t.Fatalf("same slug in academy categories should be allowed: %v", err)
	}
}

func TestUpdateChecksOtherCategories(t *testing.T) {
	service, _ := setupCategories(t)
	ctx := context.Background()
	first, _ := service.Create(ctx, content.KindVideo, categorysvc.Input{NamePt: "A", NameEn: "A", Slug: "a"})
	second, _ := service.Create(ctx, content.KindVideo, categorysvc.Input{NamePt: "B", NameEn: "B", Slug: "b"})

	if _, err := service.Update(ctx, content.KindVideo, second.ID, categorysvc.Input{NamePt: "B", NameEn: "B", Slug: "a"}); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	updated, err := service.Update(ctx, content.KindVideo, first.ID, categorysvc.Input{NamePt: "A2", NameEn: "A2", Slug: "a"})
	if err != nil {
		t.Fatalf("keeping own slug should succeed: %v", err)
	}
	if updated.NamePt != "A2" {
		t.Fatalf("unexpected update: %+v", updated)
	}
	if _, err := service.Update(ctx, content.KindVideo, 999, categorysvc.Input{NamePt: "X", NameEn: "X", Slug: "x"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteBlockedWhileReferenced(t *testing.T) {
	service, db := setupCategories(t)
	ctx := context.Background()
	category, err := service.Create(ctx, content.KindPost, categorysvc.Input{NamePt: "Eventos", NameEn: "Events", Slug: "events"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	post := testutil.CreatePost(t, db, "referencing", false, time.Time{})
	db.Model(post).Update("category_id", category.ID)

	if err := service.Delete(ctx, content.KindPost, category.ID); !errors.Is(err, apperr.ErrState) {
		t.Fatalf("expected state error, got %v", err)
	}
	db.Model(post).Update("category_id", nil)
	if err := service.Delete(ctx, content.KindPost, category.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := service.Delete(ctx, content.KindPost, category.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEnsureSeedsIsRepeatable(t *testing.T) {
	service, _ := setupCategories(t)
	ctx := context.Background()
	seeds := categorysvc.DefaultSeeds()
	for i := 0; i < 2; i++ {
		if err := service.EnsureSeeds(ctx, seeds); err != nil {
			t.Fatalf("seed round %d: %v", i, err)
		}
	}
	blog, err := service.List(ctx, content.KindPost)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	academy, err := service.List(ctx, content.KindVideo)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(blog) != 5 || len(academy) != 5 {
		t.Fatalf("expected 5 categories per kind, got %d and %d", len(blog), len(academy))
	}
	found, err := service.GetBySlug(ctx, content.KindVideo, "financial-market")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if found.NameEn != "Financial Market" {
		t.Fatalf("unexpected category: %+v", found)
	}
}
