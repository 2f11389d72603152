package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskQuoteExpireSweep moves valid quotes past their validity date to expired.
	TaskQuoteExpireSweep = "quotes:expire_sweep"
	// TaskOverdueSweep moves pending transactions past their due date to overdue.
	TaskOverdueSweep = "finance:overdue_sweep"
)

// QuoteExpirer is the quote-side sweep, implemented by the quotes service.
type QuoteExpirer interface {
	ExpireStale(ctx context.Context, now time.Time) (int, error)
}

// OverdueMarker is the ledger-side sweep, implemented by the finance service.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, now time.Time) (int, error)
}

// NewQuoteExpireSweepTask constructs the nightly quote sweep task.
func NewQuoteExpireSweepTask() *asynq.Task {
	return asynq.NewTask(TaskQuoteExpireSweep, nil)
}

// NewOverdueSweepTask constructs the nightly overdue sweep task.
func NewOverdueSweepTask() *asynq.Task {
	return asynq.NewTask(TaskOverdueSweep, nil)
}

// HandleQuoteExpireSweep returns the handler for TaskQuoteExpireSweep.
func HandleQuoteExpireSweep(expirer QuoteExpirer, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		count, err := expirer.ExpireStale(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("quote expire sweep failed", slog.Any("error", err))
			return err
		}
		logger.Info("quote expire sweep done", slog.Int("expired", count))
		return nil
	}
}

// HandleOverdueSweep returns the handler for TaskOverdueSweep.
func HandleOverdueSweep(marker OverdueMarker, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		count, err := marker.MarkOverdue(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("overdue sweep failed", slog.Any("error", err))
			return err
		}
		logger.Info("overdue sweep done", slog.Int("overdue", count))
		return nil
	}
}
