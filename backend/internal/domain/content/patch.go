package content

// Patch 是后台部分更新的请求体，ApplyTo 只覆盖请求中出现的字段。
type Patch[T any] interface {
	ApplyTo(entity *T)
}

// PostPatch 文章部分更新，nil 字段保持原值。
type PostPatch struct {
	TitlePt        *string `json:"titlePt"`
	TitleEn        *string `json:"titleEn"`
	ContentPt      *string `json:"contentPt"`
	ContentEn      *string `json:"contentEn"`
	ExcerptPt      *string `json:"excerptPt"`
	ExcerptEn      *string `json:"excerptEn"`
	Slug           *string `json:"slug"`
	CategoryID     *uint   `json:"categoryId"`
	CoverImageURL  *string `json:"coverImageUrl"`
	AuthorName     *string `json:"authorName"`
	AuthorLinkedIn *string `json:"authorLinkedIn"`
	Published      *bool   `json:"published"`
}

// ApplyTo 把出现的字段写入 post。
func (p *PostPatch) ApplyTo(post *BlogPost) {
	assign(&post.TitlePt, p.TitlePt)
	assign(&post.TitleEn, p.TitleEn)
	assign(&post.ContentPt, p.ContentPt)
	assign(&post.ContentEn, p.ContentEn)
	assign(&post.ExcerptPt, p.ExcerptPt)
	assign(&post.ExcerptEn, p.ExcerptEn)
	assign(&post.Slug, p.Slug)
	assign(&post.CoverImageURL, p.CoverImageURL)
	assign(&post.AuthorName, p.AuthorName)
	assign(&post.AuthorLinkedIn, p.AuthorLinkedIn)
	assign(&post.Published, p.Published)
	if p.CategoryID != nil {
		id := *p.CategoryID
		post.CategoryID = &id
	}
}

// VideoPatch 视频部分更新，nil 字段保持原值。
type VideoPatch struct {
	TitlePt       *string `json:"titlePt"`
	TitleEn       *string `json:"titleEn"`
	DescriptionPt *string `json:"descriptionPt"`
	DescriptionEn *string `json:"descriptionEn"`
	VideoURL      *string `json:"videoUrl"`
	ThumbnailURL  *string `json:"thumbnailUrl"`
	Duration      *int    `json:"duration"`
	CategoryID    *uint   `json:"categoryId"`
	Published     *bool   `json:"published"`
}

// ApplyTo 把出现的字段写入 video。
func (p *VideoPatch) ApplyTo(video *AcademyVideo) {
	assign(&video.TitlePt, p.TitlePt)
	assign(&video.TitleEn, p.TitleEn)
	assign(&video.DescriptionPt, p.DescriptionPt)
	assign(&video.DescriptionEn, p.DescriptionEn)
	assign(&video.VideoURL, p.VideoURL)
	assign(&video.ThumbnailURL, p.ThumbnailURL)
	assign(&video.Published, p.Published)
	if p.Duration != nil {
		d := *p.Duration
		video.Duration = &d
	}
	if p.CategoryID != nil {
		id := *p.CategoryID
		video.CategoryID = &id
	}
}

func assign[V any](dst *V, src *V) {
	if src != nil {
		*dst = *src
	}
}
