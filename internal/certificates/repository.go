package certificates

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
	ErrNotFound      = httpx.NotFound("certificate not found")
	ErrAlreadyExists = httpx.Duplicate("certificate with this serial number already exists")
)

type Repository interface {
	Get(ctx context.Context, id int64) (*Certificate, error)
	List(ctx context.Context, req ListCertificatesRequest) ([]Certificate, int, error)
	Create(ctx context.Context, cert Certificate) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const certificateSelect = `
	SELECT ct.id, ct.client_id, c.name, ct.kind, ct.serial_number, ct.issued_at, ct.expires_at, ct.notes, ct.created_at, ct.updated_at
	FROM certificates ct
	JOIN clients c ON c.id = ct.client_id
`

func (r *repository) Get(ctx context.Context, id int64) (*Certificate, error) {
	row := r.pool.QueryRow(ctx, certificateSelect+" WHERE ct.id = $1", id)
	cert, err := scanCertificate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return cert, nil
}

func (r *repository) List(ctx context.Context, req ListCertificatesRequest) ([]Certificate, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.ClientID > 0 {
		conditions = append(conditions, fmt.Sprintf("ct.client_id = $%d", argPos))
		args = append(args, req.ClientID)
		argPos++
	}
	if req.ExpiringDays > 0 {
		conditions = append(conditions, fmt.Sprintf("ct.expires_at <= NOW() + make_interval(days => $%d)", argPos))
		args = append(args, req.ExpiringDays)
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
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM certificates ct %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("%s %s ORDER BY ct.expires_at ASC, ct.id ASC LIMIT $%d OFFSET $%d", certificateSelect, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Certificate
	for rows.Next() {
		cert, err := scanCertificate(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *cert)
	}
	return result, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, cert Certificate) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO certificates (client_id, kind, serial_number, issued_at, expires_at, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id
	`, cert.ClientID, cert.Kind, cert.SerialNumber, cert.IssuedAt, cert.ExpiresAt, cert.Notes).Scan(&id)
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
	query := "UPDATE certificates SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, column := range []string{"kind", "serial_number", "issued_at", "expires_at", "notes"} {
		if v, ok := updates[column]; ok {
			query += fmt.Sprintf(", %s = $%d", column, argPos)
			args = append(args, v)
			argPos++
		}
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM certificates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCertificate(row pgx.Row) (*Certificate, error) {
	var c Certificate
	err := row.Scan(&c.ID, &c.ClientID, &c.ClientName, &c.Kind, &c.SerialNumber, &c.IssuedAt, &c.ExpiresAt, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
