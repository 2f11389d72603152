package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/grafica-erp/grafica-erp/internal/platform/httpx"
	"github.com/grafica-erp/grafica-erp/internal/users"
)

// Authenticator is the credential check behind login.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*users.User, error)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  *users.User `json:"user"`
}

type Handler struct {
	logger  *slog.Logger
	users   Authenticator
	manager *Manager
}

func NewHandler(logger *slog.Logger, authenticator Authenticator, manager *Manager) *Handler {
	return &Handler{logger: logger, users: authenticator, manager: manager}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	// Missing fields are a validation error, not a failed login.
	if req.Email == "" || req.Password == "" {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "email and password are required")
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	token, err := h.manager.IssueToken(user.ID, string(user.Role))
	if err != nil {
		h.logger.Error("issue token failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, LoginResponse{Token: token, User: user})
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
}
