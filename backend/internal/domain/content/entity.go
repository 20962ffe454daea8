package content

// Entity 是文章与视频共享的读取接口，分页读取器据此合并评分。
type Entity interface {
	EntityID() uint
	IsPublished() bool
	ApplyRating(summary RatingSummary)
}

// EntityID 返回文章主键。
func (p *BlogPost) EntityID() uint { return p.ID }

// IsPublished 判断文章是否公开。
func (p *BlogPost) IsPublished() bool { return p.Published }

// ApplyRating 写入读取时计算的评分汇总。
func (p *BlogPost) ApplyRating(summary RatingSummary) {
	p.AverageRating = summary.Average
	p.RatingCount = summary.Count
}

// EntityID 返回视频主键。
func (v *AcademyVideo) EntityID() uint { return v.ID }

// IsPublished 判断视频是否公开。
func (v *AcademyVideo) IsPublished() bool { return v.Published }

// ApplyRating 写入读取时计算的评分汇总。
func (v *AcademyVideo) ApplyRating(summary RatingSummary) {
	v.AverageRating = summary.Average
	v.RatingCount = summary.Count
}

// PostDetail 文章详情，附带附加分类。
type PostDetail struct {
	BlogPost
	Categories []BlogCategory `json:"categories"`
}
