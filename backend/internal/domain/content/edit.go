package content

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/apperr"
)

const (
	maxTitleLength = 500
	maxSlugLength  = 100
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidSlug 判断 slug 是否为小写字母数字并以单个连字符分隔。
func ValidSlug(slug string) bool {
	return slug != "" && len(slug) <= maxSlugLength && slugPattern.MatchString(slug)
}

// Editable 是后台可编辑内容的约束，PT 为实体指针类型。
type Editable[T any] interface {
	*T
	Entity
	Normalize()
	Validate() error
	PrepareCreate(userID uint, now time.Time)
	PrepareUpdate(previous *T, now time.Time)
}

func requireText(field, value string, max int) error {
	if value == "" {
		return apperr.Validation("%s 不能为空", field)
	}
	if max > 0 && utf8.RuneCountInString(value) > max {
		return apperr.Validation("%s 不能超过 %d 个字符", field, max)
	}
	return nil
}

// Normalize 去除文本字段首尾空白。
func (p *BlogPost) Normalize() {
	p.TitlePt = strings.TrimSpace(p.TitlePt)
	p.TitleEn = strings.TrimSpace(p.TitleEn)
	p.Slug = strings.TrimSpace(p.Slug)
	p.AuthorName = strings.TrimSpace(p.AuthorName)
	p.AuthorLinkedIn = strings.TrimSpace(p.AuthorLinkedIn)
	p.CoverImageURL = strings.TrimSpace(p.CoverImageURL)
}

// Validate 校验文章必填字段与 slug 格式。
func (p *BlogPost) Validate() error {
	if err := requireText("titlePt", p.TitlePt, maxTitleLength); err != nil {
		return err
	}
	if err := requireText("titleEn", p.TitleEn, maxTitleLength); err != nil {
		return err
	}
	if strings.TrimSpace(p.ContentPt) == "" || strings.TrimSpace(p.ContentEn) == "" {
		return apperr.Validation("文章正文不能为空")
	}
	if !ValidSlug(p.Slug) {
		return apperr.Validation("slug 只能包含小写字母、数字与单个连字符")
	}
	return nil
}

// PrepareCreate 写入创建人，创建即发布时记录发布时间。
func (p *BlogPost) PrepareCreate(userID uint, now time.Time) {
	p.ID = 0
	p.Views = 0
	p.CreatedBy = userID
	p.PublishedAt = nil
	if p.Published {
		p.PublishedAt = &now
	}
}

// PrepareUpdate 保留不可编辑字段；首次发布时记录发布时间，之后不再改变。
func (p *BlogPost) PrepareUpdate(previous *BlogPost, now time.Time) {
	p.ID = previous.ID
	p.Views = previous.Views
	p.CreatedBy = previous.CreatedBy
	p.CreatedAt = previous.CreatedAt
	p.PublishedAt = previous.PublishedAt
	if p.Published && p.PublishedAt == nil {
		p.PublishedAt = &now
	}
}

// Normalize 去除文本字段首尾空白。
func (v *AcademyVideo) Normalize() {
	v.TitlePt = strings.TrimSpace(v.TitlePt)
	v.TitleEn = strings.TrimSpace(v.TitleEn)
	v.VideoURL = strings.TrimSpace(v.VideoURL)
	v.ThumbnailURL = strings.TrimSpace(v.ThumbnailURL)
}

// Validate 校验视频必填字段。
func (v *AcademyVideo) Validate() error {
	if err := requireText("titlePt", v.TitlePt, maxTitleLength); err != nil {
		return err
	}
	if err := requireText("titleEn", v.TitleEn, maxTitleLength); err != nil {
		return err
	}
	if err := requireText("videoUrl", v.VideoURL, 1000); err != nil {
		return err
	}
	if v.Duration != nil && *v.Duration < 0 {
		return apperr.Validation("duration 不能为负数")
	}
	return nil
}

// PrepareCreate 写入创建人。
func (v *AcademyVideo) PrepareCreate(userID uint, _ time.Time) {
	v.ID = 0
	v.Views = 0
	v.CreatedBy = userID
}

// PrepareUpdate 保留不可编辑字段。
func (v *AcademyVideo) PrepareUpdate(previous *AcademyVideo, _ time.Time) {
	v.ID = previous.ID
	v.Views = previous.Views
	v.CreatedBy = previous.CreatedBy
	v.CreatedAt = previous.CreatedAt
}
