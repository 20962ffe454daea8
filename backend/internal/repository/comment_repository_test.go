package repository

import (
	"testing"
	"time"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"
)

func TestCommentListJoinsAuthorAndHidesDeletedUsers(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	post := seedPost(t, db, "comments", true, time.Now())
	alice := seedUser(t, db, "open-alice", "Alice")
	bob := seedUser(t, db, "open-bob", "Bob")

	if _, err := repo.Create(bg(), content.KindPost, post.ID, alice.ID, "primeiro"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(bg(), content.KindPost, post.ID, bob.ID, "segundo"); err != nil {
		t.Fatalf("create: %v", err)
	}
	deletedAt := time.Now()
	if err := db.Model(bob).Update("deleted_at", &deletedAt).Error; err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	views, err := repo.List(bg(), content.KindPost, post.ID, OrderAsc)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(views))
	}
	if views[0].Comment != "primeiro" || views[0].UserName == nil || *views[0].UserName != "Alice" {
		t.Fatalf("unexpected first comment: %+v", views[0])
	}
	if views[1].UserName != nil {
		t.Fatalf("deleted author name should be nil, got %q", *views[1].UserName)
	}
}

func TestCommentListOrderUsesIDAsTieBreaker(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	video := seedVideo(t, db, "ties", true)
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, text := range []string{"a", "b", "c"} {
		row := content.VideoComment{VideoID: video.ID, UserID: 1, Comment: text, CreatedAt: at, UpdatedAt: at}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	desc, err := repo.List(bg(), content.KindVideo, video.ID, OrderDesc)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(desc) != 3 || desc[0].Comment != "c" || desc[2].Comment != "a" {
		t.Fatalf("unexpected desc order: %+v", desc)
	}
	asc, err := repo.List(bg(), content.KindVideo, video.ID, OrderAsc)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if asc[0].Comment != "a" || asc[2].Comment != "c" {
		t.Fatalf("unexpected asc order: %+v", asc)
	}
}

func TestCommentDeleteIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	post := seedPost(t, db, "delete-comment", true, time.Now())
	id, err := repo.Create(bg(), content.KindPost, post.ID, 1, "bye")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Delete(bg(), content.KindPost, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(bg(), content.KindPost, id); err != nil {
		t.Fatalf("second delete should succeed: %v", err)
	}
	if total := countComments(t, db, content.KindPost, post.ID); total != 0 {
		t.Fatalf("expected no comments, got %d", total)
	}
}
