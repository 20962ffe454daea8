package search

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/apperr"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"
	eventdomain "github.com/LerianStudio/lerian-usa-site/backend/internal/domain/event"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/repository"

	"go.uber.org/zap"
)

const (
	maxQueryLength = 100
	perTypeLimit   = 5
)

// Result 是一次全站检索的分组结果。
type Result struct {
	Events []eventdomain.Event    `json:"events"`
	Posts  []content.BlogPost     `json:"posts"`
	Videos []content.AcademyVideo `json:"videos"`
}

// Service 负责全站关键字检索。
type Service struct {
	repo   *repository.SearchRepository
	logger *zap.SugaredLogger
}

// NewService 创建检索服务实例。
func NewService(repo *repository.SearchRepository, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{repo: repo, logger: logger}
}

// Search 在所选语言的标题与正文中检索，每类最多 5 条；文章与视频只返回已发布内容。
func (s *Service) Search(ctx context.Context, query, lang string) (Result, error) {
	query = strings.TrimSpace(query)
	if query == "" || utf8.RuneCountInString(query) > maxQueryLength {
		return Result{}, apperr.Validation("搜索词长度必须在 1 到 %d 之间", maxQueryLength)
	}
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		lang = "pt"
	}
	if lang != "pt" && lang != "en" {
		return Result{}, apperr.Validation("lang 只能为 pt 或 en")
	}
	pattern := "%" + EscapeLike(query) + "%"

	events, err := s.repo.SearchEvents(ctx, pattern, lang, perTypeLimit)
	if err != nil {
		return Result{}, s.unavailable(err)
	}
	posts, err := s.repo.SearchPosts(ctx, pattern, lang, perTypeLimit)
	if err != nil {
		return Result{}, s.unavailable(err)
	}
	videos, err := s.repo.SearchVideos(ctx, pattern, lang, perTypeLimit)
	if err != nil {
		return Result{}, s.unavailable(err)
	}
	return Result{Events: events, Posts: posts, Videos: videos}, nil
}

func (s *Service) unavailable(err error) error {
	s.logger.Errorw("search failed", "error", err)
	return apperr.Unavailable(err)
}

// EscapeLike 转义 LIKE 通配符，使 % 与 _ 按字面匹配。
func EscapeLike(value string) string {
	replacer := strings.NewReplacer(
		repository.LikeEscape, repository.LikeEscape+repository.LikeEscape,
		"%", repository.LikeEscape+"%",
		"_", repository.LikeEscape+"_",
	)
	return replacer.Replace(value)
}
