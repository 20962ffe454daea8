package content

import "time"

// BlogPost 对应博客文章，标题与正文均为葡/英双语。
type BlogPost struct {
	ID             uint       `gorm:"primaryKey" json:"id"`                                                   // 自增主键
	TitlePt        string     `gorm:"size:500;not null" json:"titlePt"`                                       // 葡语标题
	TitleEn        string     `gorm:"size:500;not null" json:"titleEn"`                                       // 英语标题
	ContentPt      string     `gorm:"type:text;not null" json:"contentPt"`                                    // 葡语正文
	ContentEn      string     `gorm:"type:text;not null" json:"contentEn"`                                    // 英语正文
	ExcerptPt      string     `gorm:"type:text" json:"excerptPt"`                                             // 葡语摘要
	ExcerptEn      string     `gorm:"type:text" json:"excerptEn"`                                             // 英语摘要
	Slug           string     `gorm:"size:191;not null;uniqueIndex" json:"slug"`                              // 唯一访问路径
	CategoryID     *uint      `gorm:"index:idx_blog_posts_category" json:"categoryId"`                        // 主分类，可为空
	CoverImageURL  string     `gorm:"size:1000" json:"coverImageUrl"`                                         // 封面图地址
	AuthorName     string     `gorm:"size:255" json:"authorName"`                                             // 署名作者
	AuthorLinkedIn string     `gorm:"size:500" json:"authorLinkedIn"`                                         // 作者 LinkedIn
	Published      bool       `gorm:"not null;default:false;index:idx_blog_posts_published" json:"published"` // 是否公开
	PublishedAt    *time.Time `gorm:"index:idx_blog_posts_published_at" json:"publishedAt"`                   // 首次发布时间
	Views          int        `gorm:"not null;default:0" json:"views"`                                        // 浏览次数
	CreatedBy      uint       `gorm:"not null" json:"createdBy"`                                              // 创建人
	CreatedAt      time.Time  `json:"createdAt"`                                                              // 创建时间
	UpdatedAt      time.Time  `json:"updatedAt"`                                                              // 更新时间

	AverageRating float64 `gorm:"-" json:"averageRating"` // 平均评分（读取时合并，不落库）
	RatingCount   int64   `gorm:"-" json:"ratingCount"`   // 评分人数（读取时合并，不落库）
}

// TableName 返回文章表名。
func (BlogPost) TableName() string {
	return "blog_posts"
}

// BlogPostCategory 记录文章与附加分类的多对多关系。
type BlogPostCategory struct {
	ID         uint      `gorm:"primaryKey"`
	PostID     uint      `gorm:"not null;uniqueIndex:idx_blog_post_category,priority:1"`
	CategoryID uint      `gorm:"not null;uniqueIndex:idx_blog_post_category,priority:2;index"`
	CreatedAt  time.Time
}

// TableName 返回文章-分类关联表名。
func (BlogPostCategory) TableName() string {
	return "blog_post_categories"
}
