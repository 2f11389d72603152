package stock

import "github.com/go-chi/chi/v5"

// MountRoutes registers the stock routes. The low route is fixed, so it is
// mounted before the id wildcard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/stock", h.List)
	r.Post("/stock", h.Create)
	r.Get("/stock/low", h.LowStock)
	r.Get("/stock/{id}", h.Get)
	r.Put("/stock/{id}", h.Update)
	r.Delete("/stock/{id}", h.Delete)
	r.Post("/stock/{id}/adjust", h.Adjust)
}
