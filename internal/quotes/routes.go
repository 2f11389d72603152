package quotes

import "github.com/go-chi/chi/v5"

// MountRoutes registers the quote CRUD and status routes. The convert route
// belongs to the orders handler, which owns order creation.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/quotes", h.List)
	r.Post("/quotes", h.Create)
	r.Get("/quotes/{id}", h.Get)
	r.Put("/quotes/{id}", h.Update)
	r.Delete("/quotes/{id}", h.Delete)
	r.Put("/quotes/{id}/status", h.SetStatus)
}
