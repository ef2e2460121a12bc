package shared

import "fmt"

// Role is the closed set of account roles. Admin is a universal super-grant:
// holders bypass the per-module grant lookup entirely.
type Role int

const (
	RoleStandard Role = iota
	RoleAdmin
)

// ParseRole maps the stored/claimed role name onto the closed set.
func ParseRole(value string) (Role, error) {
	switch value {
	case "standard":
		return RoleStandard, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return RoleStandard, fmt.Errorf("shared: unknown role %q", value)
	}
}

func (r Role) String() string {
	if r == RoleAdmin {
		return "admin"
	}
	return "standard"
}

// Identity describes the authenticated caller for the lifetime of one request.
// It is produced by credential verification and passed explicitly; nothing in
// this package persists it.
type Identity struct {
	ID   int64
	Name string
	Role Role
}

// IsAdmin reports whether the identity holds the universal super-grant.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
