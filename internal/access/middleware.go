package access

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/atrium-hq/atrium/internal/platform/httpx"
	"github.com/atrium-hq/atrium/internal/shared"
)

// Middleware wires module authorization helpers for HTTP handlers.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// Require ensures the current identity may access the module.
func (m Middleware) Require(module string) func(http.Handler) http.Handler {
	return m.check(module, false)
}

// RequireEdit ensures the current identity holds edit rights for the module.
func (m Middleware) RequireEdit(module string) func(http.Handler) http.Handler {
	return m.check(module, true)
}

func (m Middleware) check(module string, requireEdit bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := shared.IdentityFromContext(r.Context())
			if !ok {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing or invalid credential")
				return
			}
			if _, err := m.Service.Authorize(r.Context(), identity, module, requireEdit); err != nil {
				m.respondDenied(w, module, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m Middleware) respondDenied(w http.ResponseWriter, module string, err error) {
	switch {
	case errors.Is(err, ErrEditDenied):
		httpx.Problem(w, http.StatusForbidden, "Forbidden", fmt.Sprintf("edit rights required for module %s", module))
	case errors.Is(err, ErrModuleDenied):
		httpx.Problem(w, http.StatusForbidden, "Forbidden", fmt.Sprintf("no access to module %s", module))
	default:
		if m.Logger != nil {
			m.Logger.Error("authorize", slog.Any("error", err))
		}
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
