package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"
	userdomain "github.com/LerianStudio/lerian-usa-site/backend/internal/domain/user"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "-", " ", "-").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, openID, name string) *userdomain.User {
	t.Helper()
	u := &userdomain.User{OpenID: openID, Name: &name, Role: userdomain.RoleUser, LastSignedIn: time.Now()}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func seedPost(t *testing.T, db *gorm.DB, slug string, published bool, publishedAt time.Time) *content.BlogPost {
	t.Helper()
	post := &content.BlogPost{
		TitlePt:   "Titulo " + slug,
		TitleEn:   "Title " + slug,
		ContentPt: "conteudo",
		ContentEn: "content",
		Slug:      slug,
		Published: published,
		CreatedBy: 1,
	}
	if published {
		at := publishedAt
		post.PublishedAt = &at
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

func seedVideo(t *testing.T, db *gorm.DB, title string, published bool) *content.AcademyVideo {
	t.Helper()
	video := &content.AcademyVideo{
		TitlePt:   title,
		TitleEn:   title,
		VideoURL:  "https://videos.example.com/" + title,
		Published: published,
		CreatedBy: 1,
	}
	if err := db.Create(video).Error; err != nil {
		t.Fatalf("create video: %v", err)
	}
	return video
}

// countRatings 统计评分行数，userID>0 时只统计该用户。
func countRatings(t *testing.T, db *gorm.DB, kind content.Kind, entityID, userID uint) int64 {
	t.Helper()
	query := db.Model(ratingModel(kind)).Where(kind.ForeignKey()+" = ?", entityID)
	if userID > 0 {
		query = query.Where("user_id = ?", userID)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		t.Fatalf("count %s ratings: %v", kind.Label(), err)
	}
	return total
}

func countComments(t *testing.T, db *gorm.DB, kind content.Kind, entityID uint) int64 {
	t.Helper()
	var total int64
	if err := db.Model(commentModel(kind)).Where(kind.ForeignKey()+" = ?", entityID).Count(&total).Error; err != nil {
		t.Fatalf("count %s comments: %v", kind.Label(), err)
	}
	return total
}

func mustRate(t *testing.T, repo *RatingRepository, kind content.Kind, entityID, userID uint, value int) {
	t.Helper()
	if err := repo.Upsert(bg(), kind, entityID, userID, value); err != nil {
		t.Fatalf("upsert rating: %v", err)
	}
}

func bg() context.Context {
	return context.Background()
}
