package finance

import "github.com/go-chi/chi/v5"

// MountRoutes registers the ledger and report routes. Fixed paths come
// before the id wildcard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/finance", func(r chi.Router) {
		r.Get("/transactions", h.List)
		r.Post("/transactions", h.Create)
		r.Get("/transactions/summary", h.Summary)
		r.Get("/transactions/overview", h.Overview)
		r.Get("/transactions/{id}", h.Get)
		r.Put("/transactions/{id}", h.Update)
		r.Delete("/transactions/{id}", h.Delete)
		r.Put("/transactions/{id}/status", h.SetStatus)

		r.Get("/reports/monthly", h.Monthly)
		r.Get("/reports/monthly/export", h.ExportMonthly)
		r.Get("/reports/categories", h.ByCategory)
	})
}
