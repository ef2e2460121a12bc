package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atrium-hq/atrium/internal/platform/httpx"
)

var ErrNotFound = httpx.NotFound("task not found")

type Repository interface {
	Get(ctx context.Context, id int64) (*Task, error)
	List(ctx context.Context, req ListTasksRequest) ([]Task, int, error)
	Create(ctx context.Context, task Task) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const taskSelect = `
	SELECT t.id, t.client_id, c.name, t.title, t.description, t.due_date, t.status, t.completed_at, t.created_at, t.updated_at
	FROM schedule_tasks t
	LEFT JOIN clients c ON c.id = t.client_id
`

func (r *repository) Get(ctx context.Context, id int64) (*Task, error) {
	row := r.pool.QueryRow(ctx, taskSelect+" WHERE t.id = $1", id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return task, nil
}

func (r *repository) List(ctx context.Context, req ListTasksRequest) ([]Task, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.ClientID > 0 {
		conditions = append(conditions, fmt.Sprintf("t.client_id = $%d", argPos))
		args = append(args, req.ClientID)
		argPos++
	}
	if req.Status != "" {
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", argPos))
		args = append(args, req.Status)
		argPos++
	}
	if req.Overdue {
		conditions = append(conditions, "t.status = 'open' AND t.due_date < NOW()")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM schedule_tasks t %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("%s %s ORDER BY t.due_date ASC, t.id ASC LIMIT $%d OFFSET $%d", taskSelect, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *task)
	}
	return result, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, task Task) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO schedule_tasks (client_id, title, description, due_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id
	`, task.ClientID, task.Title, task.Description, task.DueDate, task.Status).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE schedule_tasks SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, column := range []string{"title", "description", "due_date", "status", "completed_at"} {
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM schedule_tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (*Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.ClientID, &t.ClientName, &t.Title, &t.Description, &t.DueDate, &t.Status, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
