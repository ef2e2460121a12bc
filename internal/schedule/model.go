package schedule

import "time"

const (
	StatusOpen      = "open"
	StatusDone      = "done"
	StatusCancelled = "cancelled"
)

// Task is one scheduled obligation, optionally tied to a client.
type Task struct {
	ID          int64      `json:"id" db:"id"`
	ClientID    *int64     `json:"client_id,omitempty" db:"client_id"`
	ClientName  *string    `json:"client_name,omitempty" db:"client_name"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description,omitempty" db:"description"`
	DueDate     time.Time  `json:"due_date" db:"due_date"`
	Status      string     `json:"status" db:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
