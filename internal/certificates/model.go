package certificates

import "time"

// Certificate is one tracked digital certificate.
type Certificate struct {
	ID           int64     `json:"id" db:"id"`
	ClientID     int64     `json:"client_id" db:"client_id"`
	ClientName   string    `json:"client_name" db:"client_name"`
	Kind         string    `json:"kind" db:"kind"`
	SerialNumber *string   `json:"serial_number,omitempty" db:"serial_number"`
	IssuedAt     time.Time `json:"issued_at" db:"issued_at"`
	ExpiresAt    time.Time `json:"expires_at" db:"expires_at"`
	Notes        *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// DaysToExpiry returns whole days until expiry relative to now, negative when
// already expired.
func (c Certificate) DaysToExpiry(now time.Time) int {
	return int(c.ExpiresAt.Sub(now).Hours() / 24)
}
