package clients

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/clients", h.List)
	r.Post("/clients", h.Create)
	r.Get("/clients/{id}", h.Get)
	r.Put("/clients/{id}", h.Update)
	r.Delete("/clients/{id}", h.Delete)
}
