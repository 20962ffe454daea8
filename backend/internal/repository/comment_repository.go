package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"

	"gorm.io/gorm"
)

// 评论排序方向。
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// CommentRepository 负责文章与视频评论的持久化。
type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository 构造评论仓储。
func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create 写入一条评论并返回其 ID。
func (r *CommentRepository) Create(ctx context.Context, kind content.Kind, entityID, userID uint, text string) (uint, error) {
	if entityID == 0 || userID == 0 {
		return 0, errors.New("entity id and user id required")
	}
	db := r.db.WithContext(ctx)
	if kind == content.KindVideo {
		row := content.VideoComment{VideoID: entityID, UserID: userID, Comment: text}
		if err := db.Create(&row).Error; err != nil {
			return 0, fmt.Errorf("create video comment: %w", err)
		}
		return row.ID, nil
	}
	row := content.PostComment{PostID: entityID, UserID: userID, Comment: text}
	if err := db.Create(&row).Error; err != nil {
		return 0, fmt.Errorf("create post comment: %w", err)
	}
	return row.ID, nil
}

// List 返回内容下的全部评论，左连接作者名称；已注销作者的名称为空。
// 排序以创建时间为主、ID 为次，保证同一时间戳的评论顺序稳定。
func (r *CommentRepository) List(ctx context.Context, kind content.Kind, entityID uint, order string) ([]content.CommentView, error) {
	direction := "DESC"
	if order == OrderAsc {
		direction = "ASC"
	}
	views := make([]content.CommentView, 0)
	err := r.db.WithContext(ctx).
		Table(kind.CommentTable()+" AS c").
		Select("c.id AS id, c.comment AS comment, c.created_at AS created_at, c.user_id AS user_id, users.name AS user_name").
		Joins("LEFT JOIN users ON users.id = c.user_id AND users.deleted_at IS NULL").
		Where("c."+kind.ForeignKey()+" = ?", entityID).
		Order("c.created_at " + direction).
		Order("c.id " + direction).
		Scan(&views).Error
	if err != nil {
		return nil, fmt.Errorf("list %s comments: %w", kind.Label(), err)
	}
	return views, nil
}

// Delete 按 ID 删除评论，不存在时同样视为成功。
func (r *CommentRepository) Delete(ctx context.Context, kind content.Kind, commentID uint) error {
	if err := r.db.WithContext(ctx).Where("id = ?", commentID).Delete(commentModel(kind)).Error; err != nil {
		return fmt.Errorf("delete %s comment: %w", kind.Label(), err)
	}
	return nil
}
