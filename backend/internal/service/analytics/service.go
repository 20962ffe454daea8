package analytics

import (
	"context"
	"encoding/json"
	"time"

	analyticsdomain "github.com/LerianStudio/lerian-usa-site/backend/internal/domain/analytics"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/apperr"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

const (
	registrationMonths = 6
	topJobTitles       = 5
	topCompanies       = 10
	topActiveUsers     = 10
	defaultHistoryDays = 30
	maxHistoryDays     = 365
)

// MonthCount 是某月的注册人数，Month 形如 2025-01。
type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// UserReport 用户分析报表，不含已注销用户。
type UserReport struct {
	TotalUsers            int64                   `json:"totalUsers"`
	ProfileCompletionRate int64                   `json:"profileCompletionRate"`
	RegistrationsByMonth  []MonthCount            `json:"registrationsByMonth"`
	TopJobTitles          []repository.LabelCount `json:"topJobTitles"`
	TopCompanies          []repository.LabelCount `json:"topCompanies"`
	MostActiveUsers       []repository.ActiveUser `json:"mostActiveUsers"`
	GeneratedAt           time.Time               `json:"generatedAt"`
}

// ContentReport 博客或学院的内容分析报表，比率保留一位小数。
type ContentReport struct {
	Kind                     string                     `json:"kind"`
	TotalEntities            int64                      `json:"totalEntities"`
	ByCategory               []repository.CategoryCount `json:"byCategory"`
	TotalRatings             int64                      `json:"totalRatings"`
	AverageRating            float64                    `json:"averageRating"`
	MostRated                *repository.EntityStat     `json:"mostRated"`
	LeastRated               *repository.EntityStat     `json:"leastRated"`
	TotalComments            int64                      `json:"totalComments"`
	AverageCommentsPerEntity float64                    `json:"averageCommentsPerEntity"`
	MostCommented            *repository.EntityStat     `json:"mostCommented"`
	EngagementRate           float64                    `json:"engagementRate"`
	GeneratedAt              time.Time                  `json:"generatedAt"`
}

// Service 汇总后台分析报表，并把每次结果写入当日快照。
type Service struct {
	repo      *repository.AnalyticsRepository
	snapshots *repository.SnapshotRepository
	logger    *zap.SugaredLogger
	now       func() time.Time
}

// NewService 创建分析服务实例，snapshots 为 nil 时不落快照。
func NewService(repo *repository.AnalyticsRepository, snapshots *repository.SnapshotRepository, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{repo: repo, snapshots: snapshots, logger: logger, now: time.Now}
}

// Users 并发执行各项用户统计，任一失败返回 Unavailable。
func (s *Service) Users(ctx context.Context) (UserReport, error) {
	now := s.now().UTC()
	report := UserReport{GeneratedAt: now}
	since := monthStart(now).AddDate(0, -(registrationMonths - 1), 0)

	var completed int64
	var registrations []time.Time
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		report.TotalUsers, completed, err = s.repo.CountUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		registrations, err = s.repo.RegistrationTimes(gctx, since)
		return err
	})
	g.Go(func() error {
		var err error
		report.TopJobTitles, err = s.repo.TopValues(gctx, "job_title", topJobTitles)
		return err
	})
	g.Go(func() error {
		var err error
		report.TopCompanies, err = s.repo.TopValues(gctx, "company", topCompanies)
		return err
	})
	g.Go(func() error {
		var err error
		report.MostActiveUsers, err = s.repo.MostActiveUsers(gctx, topActiveUsers)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Errorw("build user analytics failed", "error", err)
		return UserReport{}, apperr.Unavailable(err)
	}

	if report.TotalUsers > 0 {
		report.ProfileCompletionRate = int64(float64(completed)*100/float64(report.TotalUsers) + 0.5)
	}
	report.RegistrationsByMonth = bucketByMonth(registrations, since, registrationMonths)
	s.persist(ctx, analyticsdomain.ScopeUsers, now, report)
	return report, nil
}

// Content 统计博客（KindPost）或学院（KindVideo）的内容与互动情况。
func (s *Service) Content(ctx context.Context, kind content.Kind) (ContentReport, error) {
	if !kind.Valid() {
		return ContentReport{}, apperr.Validation("未知的内容类型")
	}
	now := s.now().UTC()
	report := ContentReport{Kind: kind.Label(), GeneratedAt: now}

	var ratingSum int64
	var rated []repository.EntityStat
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		report.TotalEntities, err = s.repo.CountEntities(gctx, kind)
		return err
	})
	g.Go(func() error {
		var err error
		report.ByCategory, err = s.repo.CountByCategory(gctx, kind)
		return err
	})
	g.Go(func() error {
		var err error
		ratingSum, report.TotalRatings, err = s.repo.RatingTotals(gctx, kind)
		return err
	})
	g.Go(func() error {
		var err error
		rated, err = s.repo.RatedEntities(gctx, kind)
		return err
	})
	g.Go(func() error {
		var err error
		report.TotalComments, err = s.repo.CountComments(gctx, kind)
		return err
	})
	g.Go(func() error {
		var err error
		report.MostCommented, err = s.repo.MostCommented(gctx, kind)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Errorw("build content analytics failed", "kind", kind.Label(), "error", err)
		return ContentReport{}, apperr.Unavailable(err)
	}

	report.AverageRating = content.NewRatingSummary(ratingSum, report.TotalRatings).Average
	report.MostRated, report.LeastRated = ratingExtremes(rated)
	if report.TotalEntities > 0 {
		entities := float64(report.TotalEntities)
		report.AverageCommentsPerEntity = content.RoundOne(float64(report.TotalComments) / entities)
		report.EngagementRate = content.RoundOne(float64(report.TotalComments+report.TotalRatings) / entities)
	}

	scope := analyticsdomain.ScopeBlog
	if kind == content.KindVideo {
		scope = analyticsdomain.ScopeAcademy
	}
	s.persist(ctx, scope, now, report)
	return report, nil
}

// Snapshots 返回最近 days 天的快照，days 缺省为 30。
func (s *Service) Snapshots(ctx context.Context, scope string, days int) ([]analyticsdomain.Snapshot, error) {
	if !analyticsdomain.ValidScope(scope) {
		return nil, apperr.Validation("scope 只能为 users、blog 或 academy")
	}
	if days <= 0 {
		days = defaultHistoryDays
	}
	if days > maxHistoryDays {
		return nil, apperr.Validation("days 不能超过 %d", maxHistoryDays)
	}
	since := dayStart(s.now().UTC()).AddDate(0, 0, -(days - 1))
	records, err := s.snapshots.ListSince(ctx, scope, since)
	if err != nil {
		return nil, apperr.Unavailable(err)
	}
	return records, nil
}

func (s *Service) persist(ctx context.Context, scope string, now time.Time, report any) {
	if s.snapshots == nil {
		return
	}
	payload, err := json.Marshal(report)
	if err != nil {
		s.logger.Warnw("marshal analytics snapshot failed", "scope", scope, "error", err)
		return
	}
	record := analyticsdomain.Snapshot{
		Scope:        scope,
		SnapshotDate: datatypes.Date(dayStart(now)),
		Payload:      datatypes.JSON(payload),
	}
	if err := s.snapshots.UpsertDaily(ctx, record); err != nil {
		s.logger.Warnw("persist analytics snapshot failed", "scope", scope, "error", err)
	}
}

// ratingExtremes 在已评分内容中取平均分最高与最低者，平均分相同时取评分数多的。
func ratingExtremes(rated []repository.EntityStat) (*repository.EntityStat, *repository.EntityStat) {
	if len(rated) == 0 {
		return nil, nil
	}
	most, least := rated[0], rated[0]
	for _, item := range rated[1:] {
		if item.Average > most.Average || (item.Average == most.Average && item.Total > most.Total) {
			most = item
		}
		if item.Average < least.Average || (item.Average == least.Average && item.Total > least.Total) {
			least = item
		}
	}
	most.Average = content.RoundOne(most.Average)
	least.Average = content.RoundOne(least.Average)
	return &most, &least
}

// bucketByMonth 按 UTC 月份计数，返回从 since 起连续 months 个月（含零值月份）。
func bucketByMonth(times []time.Time, since time.Time, months int) []MonthCount {
	counts := make(map[string]int64, months)
	for _, t := range times {
		counts[t.UTC().Format("2006-01")]++
	}
	result := make([]MonthCount, 0, months)
	for i := 0; i < months; i++ {
		key := since.AddDate(0, i, 0).Format("2006-01")
		result = append(result, MonthCount{Month: key, Count: counts[key]})
	}
	return result
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
