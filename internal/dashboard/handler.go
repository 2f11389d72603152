package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/grafica-erp/grafica-erp/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.GetSnapshot(r.Context())
	if err != nil {
		h.logger.Error("dashboard snapshot failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, snap)
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dashboard", h.Get)
}
