package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/content"

	"github.com/robfig/cron/v3"
)

// DefaultSnapshotSchedule 每天 00:05（UTC）生成一次快照。
const DefaultSnapshotSchedule = "5 0 * * *"

// SnapshotAll 依次生成用户、博客与学院报表，报表生成时会写入当日快照。
func (s *Service) SnapshotAll(ctx context.Context) error {
	var errs []error
	if _, err := s.Users(ctx); err != nil {
		errs = append(errs, fmt.Errorf("users: %w", err))
	}
	for _, kind := range []content.Kind{content.KindPost, content.KindVideo} {
		if _, err := s.Content(ctx, kind); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", kind.Label(), err))
		}
	}
	return errors.Join(errs...)
}

// StartSnapshotScheduler 按 cron 表达式定时调用 SnapshotAll，返回的 Cron 由调用方 Stop。
func (s *Service) StartSnapshotScheduler(schedule string, timeout time.Duration) (*cron.Cron, error) {
	if schedule == "" {
		schedule = DefaultSnapshotSchedule
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	c := cron.New(cron.WithLocation(time.UTC))
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		started := time.Now()
		if err := s.SnapshotAll(ctx); err != nil {
			s.logger.Warnw("scheduled analytics snapshot failed", "error", err)
			return
		}
		s.logger.Infow("scheduled analytics snapshot done", "elapsed", time.Since(started))
	})
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot schedule %q: %w", schedule, err)
	}
	c.Start()
	return c, nil
}
