package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atrium-hq/atrium/internal/shared"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	topBucketLimit  = 5
	trailingDays    = 7
)

// Service is the read side of the trail: filtered, paginated listings plus
// aggregate statistics. It never mutates state.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs an audit query service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns one page of entries under the given filters, most recent
// first. The total and page count are computed against the same predicate as
// the page slice.
func (s *Service) List(ctx context.Context, f Filters) (ListResult, error) {
	if s.repo == nil {
		return ListResult{}, fmt.Errorf("audit: repository not configured")
	}
	normalized, err := normalizeFilters(f)
	if err != nil {
		return ListResult{}, err
	}

	total, err := s.repo.Count(ctx, normalized)
	if err != nil {
		return ListResult{}, fmt.Errorf("audit: count entries: %w", err)
	}
	paging := shared.NewPagination(normalized.Page, normalized.PageSize, int(total))

	entries, err := s.repo.List(ctx, normalized, paging.PageSize, paging.Offset())
	if err != nil {
		return ListResult{}, fmt.Errorf("audit: list entries: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return ListResult{
		Entries:   entries,
		Total:     total,
		Page:      paging.Page,
		PageSize:  paging.PageSize,
		PageCount: paging.PageCount,
	}, nil
}

// Export returns every entry matching the filters, unpaginated.
func (s *Service) Export(ctx context.Context, f Filters) ([]Entry, error) {
	normalized, err := normalizeFilters(f)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("audit: count entries: %w", err)
	}
	return s.repo.List(ctx, normalized, int(total), 0)
}

// Stats aggregates the non-expired portion of the log. An empty log yields
// all-zero counts and a zero-filled trailing series.
func (s *Service) Stats(ctx context.Context) (Report, error) {
	now := s.now().UTC()
	retentionCutoff := now.AddDate(0, 0, -RetentionDays)
	today := startOfDay(now)
	weekStart := today.AddDate(0, 0, -(trailingDays - 1))

	total, err := s.repo.CountSince(ctx, retentionCutoff)
	if err != nil {
		return Report{}, fmt.Errorf("audit: stats total: %w", err)
	}
	todayCount, err := s.repo.CountSince(ctx, today)
	if err != nil {
		return Report{}, fmt.Errorf("audit: stats today: %w", err)
	}
	weekCount, err := s.repo.CountSince(ctx, weekStart)
	if err != nil {
		return Report{}, fmt.Errorf("audit: stats week: %w", err)
	}

	byAction, err := s.repo.CountByAction(ctx, retentionCutoff)
	if err != nil {
		return Report{}, fmt.Errorf("audit: stats by action: %w", err)
	}
	actions := make(map[string]int64, len(Actions()))
	for _, action := range Actions() {
		actions[action] = byAction[action]
	}

	topModules, err := s.repo.TopModules(ctx, retentionCutoff, topBucketLimit)
	if err != nil {
		return Report{}, fmt.Errorf("audit: stats modules: %w", err)
	}
	topActors, err := s.repo.TopActors(ctx, retentionCutoff, topBucketLimit)
	if err != nil {
		return Report{}, fmt.Errorf("audit: stats actors: %w", err)
	}

	perDay, err := s.repo.CountPerDay(ctx, weekStart)
	if err != nil {
		return Report{}, fmt.Errorf("audit: stats per day: %w", err)
	}
	// Missing days contribute zero, not absence.
	daily := make([]DayCount, 0, trailingDays)
	for i := 0; i < trailingDays; i++ {
		day := weekStart.AddDate(0, 0, i).Format("2006-01-02")
		daily = append(daily, DayCount{Date: day, Count: perDay[day]})
	}

	if topModules == nil {
		topModules = []BucketCount{}
	}
	if topActors == nil {
		topActors = []ActorCount{}
	}
	return Report{
		Total:      total,
		Today:      todayCount,
		Last7Days:  weekCount,
		ByAction:   actions,
		TopModules: topModules,
		TopActors:  topActors,
		Daily:      daily,
	}, nil
}

func normalizeFilters(f Filters) (Filters, error) {
	if f.Action != "" {
		f.Action = strings.ToUpper(strings.TrimSpace(f.Action))
		if !ValidAction(f.Action) {
			return Filters{}, fmt.Errorf("%w: unknown action %q", ErrInvalidFilter, f.Action)
		}
	}
	if f.Module != "" {
		module, known := shared.NormalizeModule(f.Module)
		if !known {
			return Filters{}, fmt.Errorf("%w: unknown module %q", ErrInvalidFilter, f.Module)
		}
		f.Module = module
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return Filters{}, fmt.Errorf("%w: date range inverted", ErrInvalidFilter)
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}
	return f, nil
}
