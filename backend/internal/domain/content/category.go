package content

import "time"

// BlogCategory 博客分类，slug 全局唯一。
type BlogCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	NamePt    string    `gorm:"size:100;not null" json:"namePt"`
	NameEn    string    `gorm:"size:100;not null" json:"nameEn"`
	Slug      string    `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName 返回博客分类表名。
func (BlogCategory) TableName() string {
	return "blog_categories"
}

// AcademyCategory 学院视频分类。
type AcademyCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	NamePt    string    `gorm:"size:100;not null" json:"namePt"`
	NameEn    string    `gorm:"size:100;not null" json:"nameEn"`
	Slug      string    `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName 返回学院分类表名。
func (AcademyCategory) TableName() string {
	return "academy_categories"
}

// Category 是两类分类在服务层的统一视图，EntityCount 为已发布内容数量。
type Category struct {
	ID          uint      `json:"id"`
	NamePt      string    `json:"namePt"`
	NameEn      string    `json:"nameEn"`
	Slug        string    `json:"slug"`
	EntityCount int64     `json:"entityCount"`
	CreatedAt   time.Time `json:"createdAt"`
}
