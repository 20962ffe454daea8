package repository

import (
	"fmt"

	analyticsdomain "github.com/LerianStudio/lerian-usa-site/backend/internal/domain/analytics"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"
	eventdomain "github.com/LerianStudio/lerian-usa-site/backend/internal/domain/event"
	userdomain "github.com/LerianStudio/lerian-usa-site/backend/internal/domain/user"

	"gorm.io/gorm"
)

// Models 返回需要迁移的全部表模型。
func Models() []any {
	return []any{
		&userdomain.User{},
		&content.BlogCategory{},
		&content.AcademyCategory{},
		&content.BlogPost{},
		&content.BlogPostCategory{},
		&content.AcademyVideo{},
		&content.PostRating{},
		&content.VideoRating{},
		&content.PostComment{},
		&content.VideoComment{},
		&eventdomain.Event{},
		&analyticsdomain.Snapshot{},
	}
}

// Migrate 执行 AutoMigrate，评分表的 (内容, 用户) 唯一索引在此建立。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func ratingModel(kind content.Kind) any {
	if kind == content.KindVideo {
		return &content.VideoRating{}
	}
	return &content.PostRating{}
}

func commentModel(kind content.Kind) any {
	if kind == content.KindVideo {
		return &content.VideoComment{}
	}
	return &content.PostComment{}
}
