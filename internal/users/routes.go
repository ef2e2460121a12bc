package users

import (
	"github.com/go-chi/chi/v5"

	"github.com/atrium-hq/atrium/internal/access"
	"github.com/atrium-hq/atrium/internal/shared"
)

func (h *Handler) MountRoutes(r chi.Router, guard access.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(guard.Require(shared.ModuleConfiguration))
		r.Get("/", h.List)
		r.Get("/{id}", h.Show)
		r.Get("/{id}/grants", h.ShowGrants)
	})
	r.Group(func(r chi.Router) {
		r.Use(guard.RequireEdit(shared.ModuleConfiguration))
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Put("/{id}/grants", h.ReplaceGrants)
	})
}
