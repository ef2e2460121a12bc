package financials

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atrium-hq/atrium/internal/platform/httpx"
)

var (
	ErrNotFound      = httpx.NotFound("financial terms not found")
	ErrAlreadyExists = httpx.Duplicate("financial terms already exist for this client")
)

type Repository interface {
	Get(ctx context.Context, id int64) (*Terms, error)
	List(ctx context.Context, req ListTermsRequest) ([]Terms, int, error)
	Create(ctx context.Context, terms Terms) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const termsSelect = `
	SELECT t.id, t.client_id, c.name, t.monthly_fee, t.due_day, t.payment_method, t.adjusted_at, t.notes, t.created_at, t.updated_at
	FROM financial_terms t
	JOIN clients c ON c.id = t.client_id
`

func (r *repository) Get(ctx context.Context, id int64) (*Terms, error) {
	row := r.pool.QueryRow(ctx, termsSelect+" WHERE t.id = $1", id)
	terms, err := scanTerms(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return terms, nil
}

func (r *repository) List(ctx context.Context, req ListTermsRequest) ([]Terms, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.ClientID > 0 {
		conditions = append(conditions, fmt.Sprintf("t.client_id = $%d", argPos))
		args = append(args, req.ClientID)
		argPos++
	}
	if req.DueDay > 0 {
		conditions = append(conditions, fmt.Sprintf("t.due_day = $%d", argPos))
		args = append(args, req.DueDay)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM financial_terms t %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("%s %s ORDER BY c.name LIMIT $%d OFFSET $%d", termsSelect, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Terms
	for rows.Next() {
		terms, err := scanTerms(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *terms)
	}
	return result, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, terms Terms) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO financial_terms (client_id, monthly_fee, due_day, payment_method, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id
	`, terms.ClientID, terms.MonthlyFee, terms.DueDay, terms.PaymentMethod, terms.Notes).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrAlreadyExists
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE financial_terms SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, column := range []string{"monthly_fee", "due_day", "payment_method", "notes"} {
		if v, ok := updates[column]; ok {
			query += fmt.Sprintf(", %s = $%d", column, argPos)
			args = append(args, v)
			argPos++
		}
	}
	// Fee changes stamp the adjustment date.
	if _, ok := updates["monthly_fee"]; ok {
		query += ", adjusted_at = NOW()"
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM financial_terms WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTerms(row pgx.Row) (*Terms, error) {
	var t Terms
	err := row.Scan(&t.ID, &t.ClientID, &t.ClientName, &t.MonthlyFee, &t.DueDay, &t.PaymentMethod, &t.AdjustedAt, &t.Notes, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
