package audit

import (
	"errors"
	"time"
)

// Actions form a closed set so aggregate statistics stay meaningful; values
// outside the set are rejected rather than silently widened.
const (
	ActionCreate = "CREATE"
	ActionEdit   = "EDIT"
	ActionDelete = "DELETE"
	ActionView   = "VIEW"
)

// Actions lists every known audit action.
func Actions() []string {
	return []string{ActionCreate, ActionEdit, ActionDelete, ActionView}
}

// ValidAction reports whether the value belongs to the closed action set.
func ValidAction(value string) bool {
	switch value {
	case ActionCreate, ActionEdit, ActionDelete, ActionView:
		return true
	}
	return false
}

// RetentionDays is the audit retention horizon. Entries older than this are
// eligible for permanent removal by the sweeper.
const RetentionDays = 90

// ErrInvalidEvent indicates a malformed audit payload. It never propagates to
// the business operation that triggered the write.
var ErrInvalidEvent = errors.New("audit: invalid event")

// ErrInvalidFilter indicates a listing filter outside the closed sets. Filter
// rejection has no side effect and surfaces as a plain validation error.
var ErrInvalidFilter = errors.New("audit: invalid filter")

// Event describes one action to be recorded.
type Event struct {
	ActorID     int64
	Action      string
	Module      string
	EntityLabel string
	Detail      string
	Origin      string
}

// Entry is one immutable record of the trail. The timestamp is assigned by
// the store at write time, never by the caller.
type Entry struct {
	ID          int64     `json:"id"`
	ActorID     int64     `json:"actor_id"`
	Action      string    `json:"action"`
	Module      string    `json:"module"`
	EntityLabel string    `json:"entity_label"`
	Detail      string    `json:"detail,omitempty"`
	Origin      string    `json:"origin,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Filters narrow a listing. All fields are optional and conjunctive; date
// bounds are inclusive on both ends at day granularity.
type Filters struct {
	ActorID  int64
	Action   string
	Module   string
	From     time.Time
	To       time.Time
	Page     int
	PageSize int
}

// ListResult wraps one page of entries with pagination metadata computed
// against the same filtered predicate.
type ListResult struct {
	Entries   []Entry `json:"entries"`
	Total     int64   `json:"total"`
	Page      int     `json:"page"`
	PageSize  int     `json:"page_size"`
	PageCount int     `json:"page_count"`
}

// BucketCount is one named aggregate bucket.
type BucketCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// ActorCount is one per-actor aggregate bucket.
type ActorCount struct {
	ActorID int64 `json:"actor_id"`
	Count   int64 `json:"count"`
}

// DayCount is one day of the trailing activity series.
type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// Report aggregates the non-expired portion of the log.
type Report struct {
	Total      int64            `json:"total"`
	Today      int64            `json:"today"`
	Last7Days  int64            `json:"last_7_days"`
	ByAction   map[string]int64 `json:"by_action"`
	TopModules []BucketCount    `json:"top_modules"`
	TopActors  []ActorCount     `json:"top_actors"`
	Daily      []DayCount       `json:"daily"`
}
