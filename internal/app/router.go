package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/grafica-erp/grafica-erp/internal/auth"
	"github.com/grafica-erp/grafica-erp/internal/clients"
	"github.com/grafica-erp/grafica-erp/internal/dashboard"
	"github.com/grafica-erp/grafica-erp/internal/finance"
	"github.com/grafica-erp/grafica-erp/internal/observability"
	"github.com/grafica-erp/grafica-erp/internal/orders"
	"github.com/grafica-erp/grafica-erp/internal/products"
	"github.com/grafica-erp/grafica-erp/internal/quotes"
	"github.com/grafica-erp/grafica-erp/internal/settings"
	"github.com/grafica-erp/grafica-erp/internal/stock"
	"github.com/grafica-erp/grafica-erp/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	AuthManager      *auth.Manager
	AuthHandler      *auth.Handler
	ClientsHandler   *clients.Handler
	ProductsHandler  *products.Handler
	QuotesHandler    *quotes.Handler
	OrdersHandler    *orders.Handler
	StockHandler     *stock.Handler
	FinanceHandler   *finance.Handler
	DashboardHandler *dashboard.Handler
	SettingsHandler  *settings.Handler
	UsersHandler     *users.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with the full API surface.
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
	r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(params.AuthManager.RequireAuth)

			params.ClientsHandler.MountRoutes(r)
			params.ProductsHandler.MountRoutes(r)
			params.QuotesHandler.MountRoutes(r)
			// Mounts CRUD plus the quote conversion route.
			params.OrdersHandler.MountRoutes(r)
			params.StockHandler.MountRoutes(r)
			params.FinanceHandler.MountRoutes(r)
			params.DashboardHandler.MountRoutes(r)
			params.SettingsHandler.MountRoutes(r)
			params.UsersHandler.MountRoutes(r)
		})
	})

	return r
}
