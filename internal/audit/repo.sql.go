package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Insert appends one entry. The timestamp is assigned by the store so append
// order is monotonic regardless of caller clock skew.
func (r *PGRepository) Insert(ctx context.Context, ev Event) (Entry, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO audit_entries (actor_id, action, module, entity_label, detail, origin, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, occurred_at
	`, ev.ActorID, ev.Action, ev.Module, ev.EntityLabel, ev.Detail, ev.Origin)

	entry := Entry{
		ActorID:     ev.ActorID,
		Action:      ev.Action,
		Module:      ev.Module,
		EntityLabel: ev.EntityLabel,
		Detail:      ev.Detail,
		Origin:      ev.Origin,
	}
	if err := row.Scan(&entry.ID, &entry.OccurredAt); err != nil {
		return Entry{}, fmt.Errorf("audit: insert entry: %w", err)
	}
	return entry, nil
}

// filterClause builds the WHERE clause shared by List and Count so pagination
// metadata can never desynchronize from the page slice.
func filterClause(f Filters) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if f.ActorID > 0 {
		conditions = append(conditions, fmt.Sprintf("actor_id = $%d", argPos))
		args = append(args, f.ActorID)
		argPos++
	}
	if f.Action != "" {
		conditions = append(conditions, fmt.Sprintf("action = $%d", argPos))
		args = append(args, f.Action)
		argPos++
	}
	if f.Module != "" {
		conditions = append(conditions, fmt.Sprintf("module = $%d", argPos))
		args = append(args, f.Module)
		argPos++
	}
	if !f.From.IsZero() {
		conditions = append(conditions, fmt.Sprintf("occurred_at >= $%d", argPos))
		args = append(args, startOfDay(f.From))
		argPos++
	}
	if !f.To.IsZero() {
		// Inclusive upper bound at day granularity.
		conditions = append(conditions, fmt.Sprintf("occurred_at < $%d", argPos))
		args = append(args, startOfDay(f.To).AddDate(0, 0, 1))
		argPos++
	}

	clause := ""
	if len(conditions) > 0 {
		clause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			clause += " AND " + conditions[i]
		}
	}
	return clause, args
}

// List returns one page ordered by timestamp descending, ties broken by id
// descending so ordering stays stable under same-timestamp bursts.
func (r *PGRepository) List(ctx context.Context, f Filters, limit, offset int) ([]Entry, error) {
	clause, args := filterClause(f)
	query := fmt.Sprintf(`
		SELECT id, actor_id, action, module, entity_label, detail, origin, occurred_at
		FROM audit_entries
		%s
		ORDER BY occurred_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, clause, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.Module, &e.EntityLabel, &e.Detail, &e.Origin, &e.OccurredAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of entries under the same predicate used by List.
func (r *PGRepository) Count(ctx context.Context, f Filters) (int64, error) {
	clause, args := filterClause(f)
	var total int64
	err := r.pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM audit_entries %s", clause), args...).Scan(&total)
	return total, err
}

// CountSince counts entries with a timestamp at or after since.
func (r *PGRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM audit_entries WHERE occurred_at >= $1`, since).Scan(&total)
	return total, err
}

// CountByAction groups non-expired entries by action.
func (r *PGRepository) CountByAction(ctx context.Context, since time.Time) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT action, COUNT(*)
		FROM audit_entries
		WHERE occurred_at >= $1
		GROUP BY action
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var action string
		var count int64
		if err := rows.Scan(&action, &count); err != nil {
			return nil, err
		}
		counts[action] = count
	}
	return counts, rows.Err()
}

// TopModules returns the busiest modules, descending.
func (r *PGRepository) TopModules(ctx context.Context, since time.Time, limit int) ([]BucketCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT module, COUNT(*) AS total
		FROM audit_entries
		WHERE occurred_at >= $1
		GROUP BY module
		ORDER BY total DESC, module
		LIMIT $2
	`, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []BucketCount
	for rows.Next() {
		var b BucketCount
		if err := rows.Scan(&b.Key, &b.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// TopActors returns the busiest actors, descending.
func (r *PGRepository) TopActors(ctx context.Context, since time.Time, limit int) ([]ActorCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT actor_id, COUNT(*) AS total
		FROM audit_entries
		WHERE occurred_at >= $1
		GROUP BY actor_id
		ORDER BY total DESC, actor_id
		LIMIT $2
	`, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []ActorCount
	for rows.Next() {
		var b ActorCount
		if err := rows.Scan(&b.ActorID, &b.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// CountPerDay buckets entries per UTC day starting at since.
func (r *PGRepository) CountPerDay(ctx context.Context, since time.Time) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(date_trunc('day', occurred_at AT TIME ZONE 'UTC'), 'YYYY-MM-DD'), COUNT(*)
		FROM audit_entries
		WHERE occurred_at >= $1
		GROUP BY 1
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var day string
		var count int64
		if err := rows.Scan(&day, &count); err != nil {
			return nil, err
		}
		counts[day] = count
	}
	return counts, rows.Err()
}

// DeleteOlderThan permanently removes entries older than cutoff and reports
// how many were removed.
func (r *PGRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM audit_entries WHERE occurred_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("audit: delete expired: %w", err)
	}
	return tag.RowsAffected(), nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

var _ Repository = (*PGRepository)(nil)
