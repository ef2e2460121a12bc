package audit

import (
	"context"
	"sort"
	"time"
)

// memRepo is an in-memory Repository used across the audit tests. It mirrors
// the store's ordering and day-granularity filter semantics.
type memRepo struct {
	entries   []Entry
	nextID    int64
	clock     func() time.Time
	insertErr error
	deleteErr error
}

func newMemRepo() *memRepo {
	return &memRepo{nextID: 1, clock: func() time.Time { return time.Now().UTC() }}
}

func (m *memRepo) Insert(ctx context.Context, ev Event) (Entry, error) {
	if m.insertErr != nil {
		return Entry{}, m.insertErr
	}
	entry := Entry{
		ID:          m.nextID,
		ActorID:     ev.ActorID,
		Action:      ev.Action,
		Module:      ev.Module,
		EntityLabel: ev.EntityLabel,
		Detail:      ev.Detail,
		Origin:      ev.Origin,
		OccurredAt:  m.clock(),
	}
	m.nextID++
	m.entries = append(m.entries, entry)
	return entry, nil
}

func (m *memRepo) seed(actorID int64, action, module string, occurredAt time.Time) Entry {
	entry := Entry{
		ID:         m.nextID,
		ActorID:    actorID,
		Action:     action,
		Module:     module,
		OccurredAt: occurredAt,
	}
	m.nextID++
	m.entries = append(m.entries, entry)
	return entry
}

func (m *memRepo) matches(f Filters, e Entry) bool {
	if f.ActorID > 0 && e.ActorID != f.ActorID {
		return false
	}
	if f.Action != "" && e.Action != f.Action {
		return false
	}
	if f.Module != "" && e.Module != f.Module {
		return false
	}
	if !f.From.IsZero() {
		lower := time.Date(f.From.Year(), f.From.Month(), f.From.Day(), 0, 0, 0, 0, time.UTC)
		if e.OccurredAt.Before(lower) {
			return false
		}
	}
	if !f.To.IsZero() {
		upper := time.Date(f.To.Year(), f.To.Month(), f.To.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
		if !e.OccurredAt.Before(upper) {
			return false
		}
	}
	return true
}

func (m *memRepo) List(ctx context.Context, f Filters, limit, offset int) ([]Entry, error) {
	var filtered []Entry
	for _, e := range m.entries {
		if m.matches(f, e) {
			filtered = append(filtered, e)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		if !filtered[i].OccurredAt.Equal(filtered[j].OccurredAt) {
			return filtered[i].OccurredAt.After(filtered[j].OccurredAt)
		}
		return filtered[i].ID > filtered[j].ID
	})
	if offset >= len(filtered) {
		return nil, nil
	}
	filtered = filtered[offset:]
	if limit >= 0 && limit < len(filtered) {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

func (m *memRepo) Count(ctx context.Context, f Filters) (int64, error) {
	var total int64
	for _, e := range m.entries {
		if m.matches(f, e) {
			total++
		}
	}
	return total, nil
}

func (m *memRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var total int64
	for _, e := range m.entries {
		if !e.OccurredAt.Before(since) {
			total++
		}
	}
	return total, nil
}

func (m *memRepo) CountByAction(ctx context.Context, since time.Time) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, e := range m.entries {
		if !e.OccurredAt.Before(since) {
			out[e.Action]++
		}
	}
	return out, nil
}

func (m *memRepo) TopModules(ctx context.Context, since time.Time, limit int) ([]BucketCount, error) {
	counts := make(map[string]int64)
	for _, e := range m.entries {
		if !e.OccurredAt.Before(since) {
			counts[e.Module]++
		}
	}
	out := make([]BucketCount, 0, len(counts))
	for k, v := range counts {
		out = append(out, BucketCount{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) TopActors(ctx context.Context, since time.Time, limit int) ([]ActorCount, error) {
	counts := make(map[int64]int64)
	for _, e := range m.entries {
		if !e.OccurredAt.Before(since) {
			counts[e.ActorID]++
		}
	}
	out := make([]ActorCount, 0, len(counts))
	for k, v := range counts {
		out = append(out, ActorCount{ActorID: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ActorID < out[j].ActorID
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) CountPerDay(ctx context.Context, since time.Time) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, e := range m.entries {
		if !e.OccurredAt.Before(since) {
			out[e.OccurredAt.UTC().Format("2006-01-02")]++
		}
	}
	return out, nil
}

func (m *memRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	var kept []Entry
	var removed int64
	for _, e := range m.entries {
		if e.OccurredAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	m.entries = kept
	return removed, nil
}

var _ Repository = (*memRepo)(nil)
