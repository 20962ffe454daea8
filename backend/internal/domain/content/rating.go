package content

import (
	"math"
	"time"
)

const (
	// MinRating 最低评分。
	MinRating = 1
	// MaxRating 最高评分。
	MaxRating = 5
)

// PostRating 记录用户对文章的评分，(post_id, user_id) 唯一。
type PostRating struct {
	ID        uint      `gorm:"primaryKey"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_rating_user,priority:1"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_rating_user,priority:2;index"`
	Rating    int       `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 返回文章评分表名。
func (PostRating) TableName() string {
	return "blog_post_ratings"
}

// VideoRating 记录用户对视频的评分，(video_id, user_id) 唯一。
type VideoRating struct {
	ID        uint      `gorm:"primaryKey"`
	VideoID   uint      `gorm:"not null;uniqueIndex:idx_video_rating_user,priority:1"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_video_rating_user,priority:2;index"`
	Rating    int       `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 返回视频评分表名。
func (VideoRating) TableName() string {
	return "video_ratings"
}

// RatingSummary 是读取时计算的评分汇总，不落库。
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// NewRatingSummary 由总分与人数计算平均分，保留一位小数；无评分时为 {0,0}。
func NewRatingSummary(sum, count int64) RatingSummary {
	if count <= 0 {
		return RatingSummary{}
	}
	return RatingSummary{Average: RoundOne(float64(sum) / float64(count)), Count: count}
}

// RoundOne 四舍五入到一位小数。
func RoundOne(v float64) float64 {
	return math.Round(v*10) / 10
}
