package content

import (
	"fmt"
	"strings"
)

// Kind 区分共享评分/评论/分页逻辑的两类内容：博客文章与学院视频。
type Kind string

const (
	KindPost  Kind = "post"
	KindVideo Kind = "video"
)

// ParseKind 解析外部传入的内容类型。
func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindPost:
		return KindPost, nil
	case KindVideo:
		return KindVideo, nil
	default:
		return "", fmt.Errorf("unknown content kind %q", raw)
	}
}

// Valid 判断是否为受支持的内容类型。
func (k Kind) Valid() bool {
	return k == KindPost || k == KindVideo
}

// EntityTable 返回内容主表。
func (k Kind) EntityTable() string {
	if k == KindVideo {
		return AcademyVideo{}.TableName()
	}
	return BlogPost{}.TableName()
}

// RatingTable 返回评分表。
func (k Kind) RatingTable() string {
	if k == KindVideo {
		return VideoRating{}.TableName()
	}
	return PostRating{}.TableName()
}

// CommentTable 返回评论表。
func (k Kind) CommentTable() string {
	if k == KindVideo {
		return VideoComment{}.TableName()
	}
	return PostComment{}.TableName()
}

// CategoryTable 返回分类表。
func (k Kind) CategoryTable() string {
	if k == KindVideo {
		return AcademyCategory{}.TableName()
	}
	return BlogCategory{}.TableName()
}

// ForeignKey 返回评分、评论表中指向内容主表的列名。
func (k Kind) ForeignKey() string {
	if k == KindVideo {
		return "video_id"
	}
	return "post_id"
}

// RecencyColumn 返回公开列表排序所用的时间列：文章按发布时间，视频按创建时间。
func (k Kind) RecencyColumn() string {
	if k == KindVideo {
		return "created_at"
	}
	return "published_at"
}

// Label 返回用于日志与指标的短名称。
func (k Kind) Label() string {
	if !k.Valid() {
		return "unknown"
	}
	return string(k)
}
