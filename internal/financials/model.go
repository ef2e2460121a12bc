package financials

import "time"

// Terms holds the billing agreement for one client.
type Terms struct {
	ID            int64      `json:"id" db:"id"`
	ClientID      int64      `json:"client_id" db:"client_id"`
	ClientName    string     `json:"client_name" db:"client_name"`
	MonthlyFee    float64    `json:"monthly_fee" db:"monthly_fee"`
	DueDay        int        `json:"due_day" db:"due_day"`
	PaymentMethod string     `json:"payment_method" db:"payment_method"`
	AdjustedAt    *time.Time `json:"adjusted_at,omitempty" db:"adjusted_at"`
	Notes         *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}
