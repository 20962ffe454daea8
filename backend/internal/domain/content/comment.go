package content

import "time"

// PostComment 文章评论，只增不改，由管理员删除。
type PostComment struct {
	ID        uint      `gorm:"primaryKey"`
	PostID    uint      `gorm:"not null;index:idx_blog_post_comments_post"`
	UserID    uint      `gorm:"not null;index"`
	Comment   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName 返回文章评论表名。
func (PostComment) TableName() string {
	return "blog_post_comments"
}

// VideoComment 视频评论。
type VideoComment struct {
	ID        uint      `gorm:"primaryKey"`
	VideoID   uint      `gorm:"not null;index:idx_video_comments_video"`
	UserID    uint      `gorm:"not null;index"`
	Comment   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName 返回视频评论表名。
func (VideoComment) TableName() string {
	return "video_comments"
}

// CommentView 评论列表的读取模型，UserName 在作者已注销时为空。
type CommentView struct {
	ID        uint      `json:"id"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    uint      `json:"userId"`
	UserName  *string   `json:"userName"`
}
