package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/atrium-hq/atrium/internal/shared"
)

// Service resolves module permissions for authenticated identities. It never
// mutates state; denial is terminal for the request.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authorize decides whether identity may act on module. When requireEdit is
// set the grant must also carry edit rights. Admin identities are allowed
// everything without a grant lookup.
func (s *Service) Authorize(ctx context.Context, identity shared.Identity, module string, requireEdit bool) (Decision, error) {
	normalized, known := shared.NormalizeModule(module)
	if !known {
		return Decision{}, fmt.Errorf("%w: %s", ErrModuleDenied, normalized)
	}

	if identity.IsAdmin() {
		return Decision{Allowed: true, CanEdit: true}, nil
	}
	if identity.Role != shared.RoleStandard {
		return Decision{}, fmt.Errorf("%w: %s", ErrModuleDenied, normalized)
	}

	grant, err := s.repo.GetGrant(ctx, identity.ID, normalized)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Decision{}, fmt.Errorf("%w: %s", ErrModuleDenied, normalized)
		}
		return Decision{}, fmt.Errorf("access: lookup grant: %w", err)
	}
	if requireEdit && !grant.CanEdit {
		return Decision{}, fmt.Errorf("%w: %s", ErrEditDenied, normalized)
	}
	return Decision{Allowed: true, CanEdit: grant.CanEdit}, nil
}

// GrantsFor lists the stored grants of a user.
func (s *Service) GrantsFor(ctx context.Context, userID int64) ([]Grant, error) {
	return s.repo.ListGrants(ctx, userID)
}

// SetGrants replaces the grant set of a user. Module names are normalized and
// unknown modules rejected so stored casing never drifts.
func (s *Service) SetGrants(ctx context.Context, userID int64, grants []Grant) error {
	seen := make(map[string]struct{}, len(grants))
	normalized := make([]Grant, 0, len(grants))
	for _, g := range grants {
		module, known := shared.NormalizeModule(g.Module)
		if !known {
			return fmt.Errorf("access: unknown module %q", g.Module)
		}
		if _, dup := seen[module]; dup {
			return fmt.Errorf("access: duplicate grant for module %s", module)
		}
		seen[module] = struct{}{}
		normalized = append(normalized, Grant{UserID: userID, Module: module, CanEdit: g.CanEdit})
	}
	return s.repo.ReplaceGrants(ctx, userID, normalized)
}
