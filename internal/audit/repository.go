package audit

import (
	"context"
	"time"
)

// Repository provides append, read and age-bounded delete access to the log
// store. Appends are serialized by the store; entries are never mutated.
type Repository interface {
	Insert(ctx context.Context, ev Event) (Entry, error)
	List(ctx context.Context, f Filters, limit, offset int) ([]Entry, error)
	Count(ctx context.Context, f Filters) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountByAction(ctx context.Context, since time.Time) (map[string]int64, error)
	TopModules(ctx context.Context, since time.Time, limit int) ([]BucketCount, error)
	TopActors(ctx context.Context, since time.Time, limit int) ([]ActorCount, error)
	CountPerDay(ctx context.Context, since time.Time) (map[string]int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
