package certificates

import (
	"github.com/go-chi/chi/v5"

	"github.com/atrium-hq/atrium/internal/access"
	"github.com/atrium-hq/atrium/internal/shared"
)

func (h *Handler) MountRoutes(r chi.Router, guard access.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(guard.Require(shared.ModuleCertificates))
		r.Get("/", h.List)
		r.Get("/{id}", h.Show)
	})
	r.Group(func(r chi.Router) {
		r.Use(guard.RequireEdit(shared.ModuleCertificates))
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}
