package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atrium-hq/atrium/internal/shared"
)

// Metrics receives audit subsystem counters.
type Metrics interface {
	AuditRecorded(action, module string)
	AuditRecordFailed()
	AuditSwept(count int64)
}

type nopMetrics struct{}

func (nopMetrics) AuditRecorded(string, string) {}
func (nopMetrics) AuditRecordFailed()           {}
func (nopMetrics) AuditSwept(int64)             {}

// Recorder appends structured events to the trail. Its public contract never
// raises to the caller: the audit log is observability, not a transactional
// participant in the guarded operation, so failures are logged and swallowed
// behind an internal error boundary.
type Recorder struct {
	repo    Repository
	logger  *slog.Logger
	metrics Metrics
}

// NewRecorder constructs a Recorder.
func NewRecorder(repo Repository, logger *slog.Logger, metrics Metrics) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Recorder{repo: repo, logger: logger, metrics: metrics}
}

// Record persists one event, returning the stored entry. On any failure it
// returns the zero Entry after logging; callers must not gate business flow
// on the outcome.
func (r *Recorder) Record(ctx context.Context, ev Event) Entry {
	entry, err := r.record(ctx, ev)
	if err != nil {
		r.metrics.AuditRecordFailed()
		r.logger.Error("audit record failed",
			slog.Int64("actor_id", ev.ActorID),
			slog.String("action", ev.Action),
			slog.String("module", ev.Module),
			slog.Any("error", err),
		)
		return Entry{}
	}
	r.metrics.AuditRecorded(entry.Action, entry.Module)
	return entry
}

func (r *Recorder) record(ctx context.Context, ev Event) (Entry, error) {
	validated, err := validate(ev)
	if err != nil {
		return Entry{}, err
	}
	return r.repo.Insert(ctx, validated)
}

func validate(ev Event) (Event, error) {
	if ev.ActorID <= 0 {
		return Event{}, fmt.Errorf("%w: actor id required", ErrInvalidEvent)
	}
	if !ValidAction(ev.Action) {
		return Event{}, fmt.Errorf("%w: unknown action %q", ErrInvalidEvent, ev.Action)
	}
	module, known := shared.NormalizeModule(ev.Module)
	if !known {
		return Event{}, fmt.Errorf("%w: unknown module %q", ErrInvalidEvent, ev.Module)
	}
	ev.Module = module
	return ev, nil
}
