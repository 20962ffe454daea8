package content

import "time"

// AcademyVideo 对应学院视频。
type AcademyVideo struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TitlePt       string    `gorm:"size:500;not null" json:"titlePt"`
	TitleEn       string    `gorm:"size:500;not null" json:"titleEn"`
	DescriptionPt string    `gorm:"type:text" json:"descriptionPt"`
	DescriptionEn string    `gorm:"type:text" json:"descriptionEn"`
	VideoURL      string    `gorm:"size:1000;not null" json:"videoUrl"`
	ThumbnailURL  string    `gorm:"size:1000" json:"thumbnailUrl"`
	Duration      *int      `json:"duration"` // 时长（秒）
	CategoryID    *uint     `gorm:"index:idx_academy_videos_category" json:"categoryId"`
	Published     bool      `gorm:"not null;default:false;index:idx_academy_videos_published" json:"published"`
	Views         int       `gorm:"not null;default:0" json:"views"`
	CreatedBy     uint      `gorm:"not null" json:"createdBy"`
	CreatedAt     time.Time `gorm:"index:idx_academy_videos_created_at" json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	AverageRating float64 `gorm:"-" json:"averageRating"`
	RatingCount   int64   `gorm:"-" json:"ratingCount"`
}

// TableName 返回视频表名。
func (AcademyVideo) TableName() string {
	return "academy_videos"
}
