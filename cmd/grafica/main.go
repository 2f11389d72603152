package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/grafica-erp/grafica-erp/internal/app"
	"github.com/grafica-erp/grafica-erp/internal/auth"
	"github.com/grafica-erp/grafica-erp/internal/clients"
	"github.com/grafica-erp/grafica-erp/internal/dashboard"
	"github.com/grafica-erp/grafica-erp/internal/finance"
	"github.com/grafica-erp/grafica-erp/internal/observability"
	"github.com/grafica-erp/grafica-erp/internal/orders"
	"github.com/grafica-erp/grafica-erp/internal/platform/cache"
	"github.com/grafica-erp/grafica-erp/internal/platform/db"
	"github.com/grafica-erp/grafica-erp/internal/platform/migrate"
	"github.com/grafica-erp/grafica-erp/internal/products"
	"github.com/grafica-erp/grafica-erp/internal/quotes"
	"github.com/grafica-erp/grafica-erp/internal/settings"
	"github.com/grafica-erp/grafica-erp/internal/stock"
	"github.com/grafica-erp/grafica-erp/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if err := migrate.Up(cfg.PGDSN); err != nil {
		logger.Error("run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, dashboard cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}
	}()

	clientsService := clients.NewService(clients.NewRepository(pool))
	productsService := products.NewService(products.NewRepository(pool))
	quotesService := quotes.NewService(quotes.NewRepository(pool), clientsService)
	financeService := finance.NewService(finance.NewRepository(pool))
	ordersService := orders.NewService(orders.NewRepository(pool), clientsService, quotesService, financeService, logger)
	stockService := stock.NewService(stock.NewRepository(pool))
	settingsService := settings.NewService(settings.NewRepository(pool))
	usersService := users.NewService(users.NewRepository(pool))
	dashboardService := dashboard.NewService(ordersService, quotesService, stockService, financeService,
		redisClient, cfg.DashboardCacheTTL, logger)

	authManager := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AuthManager:      authManager,
		AuthHandler:      auth.NewHandler(logger, usersService, authManager),
		ClientsHandler:   clients.NewHandler(logger, clientsService),
		ProductsHandler:  products.NewHandler(logger, productsService),
		QuotesHandler:    quotes.NewHandler(logger, quotesService),
		OrdersHandler:    orders.NewHandler(logger, ordersService),
		StockHandler:     stock.NewHandler(logger, stockService),
		FinanceHandler:   finance.NewHandler(logger, financeService),
		DashboardHandler: dashboard.NewHandler(logger, dashboardService),
		SettingsHandler:  settings.NewHandler(logger, settingsService),
		UsersHandler:     users.NewHandler(logger, usersService),
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("http server", slog.Any("error", err))
		os.Exit(1)
	}
}
