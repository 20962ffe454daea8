package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"

	"gorm.io/gorm"
)

func TestCategoryListCountsPublishedEntities(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	category := &content.Category{NamePt: "Educação", NameEn: "Education", Slug: "education"}
	if err := repo.Create(bg(), content.KindVideo, category); err != nil {
		t.Fatalf("create: %v", err)
	}
	if category.ID == 0 {
		t.Fatalf("expected id to be backfilled")
	}
	for _, published := range []bool{true, true, false} {
		video := seedVideo(t, db, "v", published)
		db.Model(video).Update("category_id", category.ID)
	}

	list, err := repo.List(bg(), content.KindVideo)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].EntityCount != 2 {
		t.Fatalf("unexpected list: %+v", list)
	}
	refs, err := repo.CountReferences(bg(), content.KindVideo, category.ID)
	if err != nil {
		t.Fatalf("count refs: %v", err)
	}
	if refs != 3 {
		t.Fatalf("expected 3 references including drafts, got %d", refs)
	}
}

func TestCategoryReferencesIncludePostLinks(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	posts := NewPostRepository(db)
	category := &content.Category{NamePt: "Inovação", NameEn: "Innovation", Slug: "innovation"}
	if err := repo.Create(bg(), content.KindPost, category); err != nil {
		t.Fatalf("create: %v", err)
	}
	post := seedPost(t, db, "linked", true, time.Now())
	if err := posts.ReplaceCategories(bg(), post.ID, []uint{category.ID}); err != nil {
		t.Fatalf("link: %v", err)
	}
	refs, err := repo.CountReferences(bg(), content.KindPost, category.ID)
	if err != nil {
		t.Fatalf("count refs: %v", err)
	}
	if refs != 1 {
		t.Fatalf("expected link to count as reference, got %d", refs)
	}
}

func TestCategoryEnsureSlugIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	if err := repo.EnsureSlug(bg(), content.KindPost, "Tecnologia", "Tech", "technology"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := repo.EnsureSlug(bg(), content.KindPost, "Tecnologia", "Technology", "technology"); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	list, err := repo.List(bg(), content.KindPost)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].NameEn != "Technology" {
		t.Fatalf("unexpected categories: %+v", list)
	}
}

func TestCategoryDeleteMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	if err := repo.Delete(bg(), content.KindPost, 42); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if _, err := repo.FindBySlug(bg(), content.KindVideo, "missing"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
