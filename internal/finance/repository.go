package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/grafica-erp/grafica-erp/internal/money"
	"github.com/grafica-erp/grafica-erp/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context) ([]Transaction, error)
	Get(ctx context.Context, id string) (*Transaction, error)
	Create(ctx context.Context, tx Transaction) error
	Update(ctx context.Context, tx Transaction) error
	Delete(ctx context.Context, id string) error
	MarkOverdue(ctx context.Context, now time.Time) (int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const txColumns = `id, type, status, category, description, value_cents, tx_date, due_date,
	related_type, related_id, created_at, updated_at`

func (r *repository) List(ctx context.Context) ([]Transaction, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+txColumns+" FROM transactions ORDER BY tx_date DESC, created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("finance: list: %w", err)
	}
	defer rows.Close()

	var result []Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("finance: scan: %w", err)
		}
		result = append(result, tx)
	}
	return result, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (*Transaction, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+txColumns+" FROM transactions WHERE id = $1", id)
	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("finance: %w", httpx.ErrNotFound)
		}
		return nil, fmt.Errorf("finance: get: %w", err)
	}
	return &tx, nil
}

func (r *repository) Create(ctx context.Context, tx Transaction) error {
	var relatedType, relatedID *string
	if tx.RelatedEntity != nil {
		relatedType, relatedID = &tx.RelatedEntity.Type, &tx.RelatedEntity.ID
	}
	var dueDate *time.Time
	if !tx.DueDate.IsZero() {
		dueDate = &tx.DueDate
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO transactions (id, type, status, category, description, value_cents,
		                          tx_date, due_date, related_type, related_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`,
		tx.ID, tx.Type, tx.Status, tx.Category, tx.Description, int64(tx.Value),
		tx.Date, dueDate, relatedType, relatedID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("finance: insert: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, tx Transaction) error {
	var dueDate *time.Time
	if !tx.DueDate.IsZero() {
		dueDate = &tx.DueDate
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE transactions
		SET type = $2, status = $3, category = $4, description = $5, value_cents = $6,
		    tx_date = $7, due_date = $8, updated_at = $9
		WHERE id = $1`,
		tx.ID, tx.Type, tx.Status, tx.Category, tx.Description, int64(tx.Value),
		tx.Date, dueDate, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("finance: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("finance: %w", httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM transactions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("finance: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("finance: %w", httpx.ErrNotFound)
	}
	return nil
}

// MarkOverdue is the nightly sweep: pending entries past their due date
// become overdue.
func (r *repository) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx,
		"UPDATE transactions SET status = $1, updated_at = $2 WHERE status = $3 AND due_date IS NOT NULL AND due_date < $2",
		StatusOverdue, now.UTC(), StatusPending)
	if err != nil {
		return 0, fmt.Errorf("finance: mark overdue: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func scanTransaction(row pgx.Row) (Transaction, error) {
	var tx Transaction
	var cents int64
	var dueDate *time.Time
	var relatedType, relatedID *string
	err := row.Scan(&tx.ID, &tx.Type, &tx.Status, &tx.Category, &tx.Description, &cents,
		&tx.Date, &dueDate, &relatedType, &relatedID, &tx.CreatedAt, &tx.UpdatedAt)
	tx.Value = money.Money(cents)
	if dueDate != nil {
		tx.DueDate = *dueDate
	}
	if relatedType != nil && relatedID != nil {
		tx.RelatedEntity = &EntityRef{Type: *relatedType, ID: *relatedID}
	}
	return tx, err
}
