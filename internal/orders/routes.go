package orders

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/orders", h.List)
	r.Post("/orders", h.Create)
	r.Get("/orders/{id}", h.Get)
	r.Put("/orders/{id}", h.Update)
	r.Delete("/orders/{id}", h.Delete)
	r.Put("/orders/{id}/status", h.SetStatus)
	r.Put("/orders/{id}/payment", h.SetPayment)
	r.Post("/quotes/{id}/convert", h.ConvertQuote)
}
