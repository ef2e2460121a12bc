package access

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atrium-hq/atrium/internal/platform/db"
	"github.com/atrium-hq/atrium/internal/shared"
)

// Repository defines read access to permission grants, plus the replace
// operation used by the user-management flow.
type Repository interface {
	GetGrant(ctx context.Context, userID int64, module string) (Grant, error)
	ListGrants(ctx context.Context, userID int64) ([]Grant, error)
	ReplaceGrants(ctx context.Context, userID int64, grants []Grant) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// GetGrant fetches the grant for one (user, module) pair.
func (r *PGRepository) GetGrant(ctx context.Context, userID int64, module string) (Grant, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT user_id, module, can_edit, created_at, updated_at
		FROM permission_grants
		WHERE user_id = $1 AND module = $2
	`, userID, module)

	var g Grant
	err := row.Scan(&g.UserID, &g.Module, &g.CanEdit, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Grant{}, shared.ErrNotFound
		}
		return Grant{}, err
	}
	return g, nil
}

// ListGrants returns all grants for a user ordered by module.
func (r *PGRepository) ListGrants(ctx context.Context, userID int64) ([]Grant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, module, can_edit, created_at, updated_at
		FROM permission_grants
		WHERE user_id = $1
		ORDER BY module
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []Grant
	for rows.Next() {
		var g Grant
		if err := rows.Scan(&g.UserID, &g.Module, &g.CanEdit, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

// ReplaceGrants swaps the full grant set for a user in one transaction. The
// (user_id, module) primary key keeps the uniqueness invariant.
func (r *PGRepository) ReplaceGrants(ctx context.Context, userID int64, grants []Grant) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM permission_grants WHERE user_id = $1`, userID); err != nil {
			return err
		}
		for _, g := range grants {
			_, err := tx.Exec(ctx, `
				INSERT INTO permission_grants (user_id, module, can_edit, created_at, updated_at)
				VALUES ($1, $2, $3, NOW(), NOW())
			`, userID, g.Module, g.CanEdit)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

var _ Repository = (*PGRepository)(nil)
