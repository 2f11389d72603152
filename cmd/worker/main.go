package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/grafica-erp/grafica-erp/internal/app"
	"github.com/grafica-erp/grafica-erp/internal/clients"
	"github.com/grafica-erp/grafica-erp/internal/finance"
	"github.com/grafica-erp/grafica-erp/internal/jobs"
	"github.com/grafica-erp/grafica-erp/internal/platform/db"
	"github.com/grafica-erp/grafica-erp/internal/quotes"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	clientsService := clients.NewService(clients.NewRepository(pool))
	quotesService := quotes.NewService(quotes.NewRepository(pool), clientsService)
	financeService := finance.NewService(finance.NewRepository(pool))

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Quotes:    quotesService,
		Finance:   financeService,
		Cron: []jobs.CronRegistration{
			{Spec: "0 1 * * *", Task: jobs.NewQuoteExpireSweepTask()},
			{Spec: "15 1 * * *", Task: jobs.NewOverdueSweepTask()},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
