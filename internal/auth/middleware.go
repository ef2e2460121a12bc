package auth

import (
	"net/http"

	"github.com/atrium-hq/atrium/internal/platform/httpx"
	"github.com/atrium-hq/atrium/internal/shared"
)

// Verifier validates a bearer credential into an identity.
type Verifier interface {
	Verify(authorization string) (shared.Identity, error)
}

// RequireIdentity rejects requests without a valid bearer credential and
// stores the verified identity in the request context. Verification runs
// before any business logic or audit write.
func RequireIdentity(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := verifier.Verify(r.Header.Get("Authorization"))
			if err != nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing or invalid credential")
				return
			}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithIdentity(r.Context(), identity)))
		})
	}
}
