// Package testutil 提供服务与 Handler 测试共用的内存数据库与数据构造函数。
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"
	userdomain "github.com/LerianStudio/lerian-usa-site/backend/internal/domain/user"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenSQLite 以测试名创建独立的共享内存库并完成迁移，测试结束时关闭。
func OpenSQLite(t testing.TB) *gorm.DB {
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
	if err := repository.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CloseDB 提前关闭连接，用于模拟存储不可用。
func CloseDB(t testing.TB, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close db: %v", err)
	}
}

// CreateUser 写入一个普通用户。
func CreateUser(t testing.TB, db *gorm.DB, openID, name string) *userdomain.User {
	t.Helper()
	u := &userdomain.User{OpenID: openID, Name: &name, Role: userdomain.RoleUser, LastSignedIn: time.Now().UTC()}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// CreatePost 写入一篇文章，published 为真时发布时间取 at。
func CreatePost(t testing.TB, db *gorm.DB, slug string, published bool, at time.Time) *content.BlogPost {
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
		post.PublishedAt = &at
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

// CreateVideo 写入一个学院视频。
func CreateVideo(t testing.TB, db *gorm.DB, title string, published bool) *content.AcademyVideo {
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
