package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// Sweep prunes audit entries older than the retention window.
type Sweep interface {
	Sweep(ctx context.Context, now time.Time) (int64, error)
}

// RetentionJob runs the periodic audit retention sweep.
type RetentionJob struct {
	Sweeper Sweep
	Logger  *slog.Logger
	clock   func() time.Time
}

// NewRetentionJob initialises the retention sweep handler.
func NewRetentionJob(sweeper Sweep, logger *slog.Logger) *RetentionJob {
	return &RetentionJob{
		Sweeper: sweeper,
		Logger:  logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes one retention sweep.
func (j *RetentionJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Sweeper == nil {
		return errors.New("audit retention: handler not configured")
	}

	start := j.now()
	logger := j.logger()
	logger.Info("starting audit retention sweep")

	swept, err := j.Sweeper.Sweep(ctx, start)
	if err != nil {
		logger.Error("sweep failed", slog.Any("error", err))
		return err
	}

	logger.Info("completed audit retention sweep",
		slog.Int64("swept", swept),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func (j *RetentionJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskAuditRetention))
	}
	return slog.Default().With(slog.String("job", TaskAuditRetention))
}

func (j *RetentionJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
