package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/atrium-hq/atrium/internal/access"
	audithttp "github.com/atrium-hq/atrium/internal/audit/http"
	"github.com/atrium-hq/atrium/internal/auth"
	"github.com/atrium-hq/atrium/internal/certificates"
	"github.com/atrium-hq/atrium/internal/clients"
	"github.com/atrium-hq/atrium/internal/financials"
	"github.com/atrium-hq/atrium/internal/observability"
	"github.com/atrium-hq/atrium/internal/schedule"
	"github.com/atrium-hq/atrium/internal/shared"
	"github.com/atrium-hq/atrium/internal/users"
	"github.com/atrium-hq/atrium/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger              *slog.Logger
	Config              *Config
	Verifier            auth.Verifier
	Guard               access.Middleware
	AuthHandler         *auth.Handler
	ClientsHandler      *clients.Handler
	FinancialsHandler   *financials.Handler
	CertificatesHandler *certificates.Handler
	ScheduleHandler     *schedule.Handler
	UsersHandler        *users.Handler
	AuditHandler        *audithttp.Handler
	JobHandler          *jobs.Handler
	Metrics             *observability.Metrics
}

// NewRouter constructs the chi.Router with Atrium defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/auth", params.AuthHandler.MountRoutes)

	// Everything below requires a verified identity; module grants are
	// enforced per route group inside each handler's MountRoutes.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireIdentity(params.Verifier))

		if params.ClientsHandler != nil {
			r.Route("/clients", func(r chi.Router) {
				params.ClientsHandler.MountRoutes(r, params.Guard)
			})
		}
		if params.FinancialsHandler != nil {
			r.Route("/financials", func(r chi.Router) {
				params.FinancialsHandler.MountRoutes(r, params.Guard)
			})
		}
		if params.CertificatesHandler != nil {
			r.Route("/certificates", func(r chi.Router) {
				params.CertificatesHandler.MountRoutes(r, params.Guard)
			})
		}
		if params.ScheduleHandler != nil {
			r.Route("/schedule", func(r chi.Router) {
				params.ScheduleHandler.MountRoutes(r, params.Guard)
			})
		}
		if params.UsersHandler != nil {
			r.Route("/users", func(r chi.Router) {
				params.UsersHandler.MountRoutes(r, params.Guard)
			})
		}
		if params.AuditHandler != nil {
			r.Route("/audit", func(r chi.Router) {
				r.Use(params.Guard.Require(shared.ModuleConfiguration))
				params.AuditHandler.MountRoutes(r)
			})
		}
		if params.JobHandler != nil {
			r.Route("/jobs", func(r chi.Router) {
				r.Use(params.Guard.Require(shared.ModuleConfiguration))
				params.JobHandler.MountRoutes(r)
			})
		}
	})

	return r
}
