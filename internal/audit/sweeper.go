package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Locker guards the sweep critical section so two sweepers never race near
// the retention boundary.
type Locker interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// Sweeper permanently removes entries older than the retention horizon.
// Sweeping is idempotent: a second run with no intervening writes removes
// nothing.
type Sweeper struct {
	repo    Repository
	locker  Locker
	logger  *slog.Logger
	metrics Metrics
}

// NewSweeper constructs a Sweeper. The locker may be nil when the scheduler
// already guarantees a single instance.
func NewSweeper(repo Repository, locker Locker, logger *slog.Logger, metrics Metrics) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Sweeper{repo: repo, locker: locker, logger: logger, metrics: metrics}
}

// Sweep removes every entry whose age exceeds the retention horizon relative
// to now and returns the number removed. A sweep skipped because another
// instance holds the lock removes zero entries.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (int64, error) {
	if s.locker != nil {
		acquired, err := s.locker.Acquire(ctx)
		if err != nil {
			return 0, fmt.Errorf("audit: sweep lock: %w", err)
		}
		if !acquired {
			s.logger.Info("audit sweep skipped, lock held elsewhere")
			return 0, nil
		}
		defer func() {
			if err := s.locker.Release(ctx); err != nil {
				s.logger.Warn("audit sweep unlock", slog.Any("error", err))
			}
		}()
	}

	cutoff := now.UTC().AddDate(0, 0, -RetentionDays)
	removed, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.metrics.AuditSwept(removed)
	s.logger.Info("audit sweep complete",
		slog.Time("cutoff", cutoff),
		slog.Int64("removed", removed),
	)
	return removed, nil
}
