package access

import (
	"errors"
	"time"
)

// Grant links a user to a module with an edit-capability flag. One grant per
// (user, module) pair; admins have no stored grants at all.
type Grant struct {
	UserID    int64     `json:"user_id"`
	Module    string    `json:"module"`
	CanEdit   bool      `json:"can_edit"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Decision is the outcome of a successful authorization check.
type Decision struct {
	Allowed bool
	CanEdit bool
}

// The two denial reasons stay distinguishable for observability even though
// both surface as HTTP 403.
var (
	// ErrModuleDenied indicates no grant exists for the requested module.
	ErrModuleDenied = errors.New("access: module not granted")
	// ErrEditDenied indicates the grant exists but lacks edit rights.
	ErrEditDenied = errors.New("access: edit not granted")
)
