package quotes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/grafica-erp/grafica-erp/internal/documents"
	"github.com/grafica-erp/grafica-erp/internal/money"
	"github.com/grafica-erp/grafica-erp/internal/platform/db"
	"github.com/grafica-erp/grafica-erp/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context) ([]Quote, error)
	Get(ctx context.Context, id string) (*Quote, error)
	Create(ctx context.Context, quote Quote) error
	Replace(ctx context.Context, quote Quote) error
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status Status) error
	NextNumber(ctx context.Context, year int) (string, error)
	ExpireStale(ctx context.Context, now time.Time) (int, error)
	CountByStatus(ctx context.Context, status Status) (int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const quoteColumns = `id, number, client_id, client_name, client_email, client_phone,
	total_cents, quote_date, valid_until, status, created_at, updated_at`

func (r *repository) List(ctx context.Context) ([]Quote, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+quoteColumns+" FROM quotes ORDER BY quote_date DESC, number DESC")
	if err != nil {
		return nil, fmt.Errorf("quotes: list: %w", err)
	}
	defer rows.Close()

	var result []Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("quotes: scan: %w", err)
		}
		result = append(result, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		items, err := r.loadItems(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Items = items
	}
	return result, nil
}

func (r *repository) Get(ctx context.Context, id string) (*Quote, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+quoteColumns+" FROM quotes WHERE id = $1", id)
	q, err := scanQuote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("quotes: %w", httpx.ErrNotFound)
		}
		return nil, fmt.Errorf("quotes: get: %w", err)
	}
	items, err := r.loadItems(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	q.Items = items
	return &q, nil
}

func (r *repository) Create(ctx context.Context, quote Quote) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		now := time.Now().UTC()
		_, err := tx.Exec(ctx, `
			INSERT INTO quotes (id, number, client_id, client_name, client_email, client_phone,
			                    total_cents, quote_date, valid_until, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`,
			quote.ID, quote.Number, quote.Client.ID, quote.Client.Name, quote.Client.Email,
			quote.Client.Phone, int64(quote.Total), quote.Date, quote.ValidUntil, quote.Status, now)
		if err != nil {
			return fmt.Errorf("quotes: insert: %w", err)
		}
		return insertItems(ctx, tx, quote.ID, quote.Items)
	})
}

// Replace swaps the whole document: header fields and the full item list in
// one transaction, matching the editor's save-as-replacement semantics.
func (r *repository) Replace(ctx context.Context, quote Quote) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE quotes
			SET client_id = $2, client_name = $3, client_email = $4, client_phone = $5,
			    total_cents = $6, quote_date = $7, valid_until = $8, updated_at = $9
			WHERE id = $1`,
			quote.ID, quote.Client.ID, quote.Client.Name, quote.Client.Email, quote.Client.Phone,
			int64(quote.Total), quote.Date, quote.ValidUntil, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("quotes: update: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("quotes: %w", httpx.ErrNotFound)
		}
		if _, err := tx.Exec(ctx, "DELETE FROM quote_items WHERE quote_id = $1", quote.ID); err != nil {
			return fmt.Errorf("quotes: delete items: %w", err)
		}
		return insertItems(ctx, tx, quote.ID, quote.Items)
	})
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM quotes WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("quotes: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quotes: %w", httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id string, status Status) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE quotes SET status = $2, updated_at = $3 WHERE id = $1",
		id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("quotes: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quotes: %w", httpx.ErrNotFound)
	}
	return nil
}

// NextNumber allocates the next human-readable sequence number, e.g.
// ORC-2026-0007. The per-year counter lives in doc_numbers.
func (r *repository) NextNumber(ctx context.Context, year int) (string, error) {
	return db.NextDocNumber(ctx, r.pool, "quote", "ORC", year)
}

// ExpireStale marks valid quotes past their validity date as expired.
func (r *repository) ExpireStale(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx,
		"UPDATE quotes SET status = $1, updated_at = $2 WHERE status = $3 AND valid_until < $2",
		StatusExpired, now.UTC(), StatusValid)
	if err != nil {
		return 0, fmt.Errorf("quotes: expire stale: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *repository) CountByStatus(ctx context.Context, status Status) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM quotes WHERE status = $1", status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("quotes: count: %w", err)
	}
	return count, nil
}

func scanQuote(row pgx.Row) (Quote, error) {
	var q Quote
	var cents int64
	err := row.Scan(&q.ID, &q.Number, &q.Client.ID, &q.Client.Name, &q.Client.Email,
		&q.Client.Phone, &cents, &q.Date, &q.ValidUntil, &q.Status, &q.CreatedAt, &q.UpdatedAt)
	q.Total = money.Money(cents)
	return q, err
}

// Items keep their editor position so insertion order survives the round trip.
func insertItems(ctx context.Context, tx pgx.Tx, quoteID string, items []documents.LineItem) error {
	for i, item := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO quote_items (quote_id, position, product_id, product_name, unit, quantity, unit_price_cents, total_cents)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			quoteID, i, item.ProductID, item.ProductName, item.Unit,
			item.Quantity, int64(item.UnitPrice), int64(item.Total))
		if err != nil {
			return fmt.Errorf("quotes: insert item: %w", err)
		}
	}
	return nil
}

func (r *repository) loadItems(ctx context.Context, quoteID string) ([]documents.LineItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT product_id, product_name, unit, quantity, unit_price_cents, total_cents
		FROM quote_items WHERE quote_id = $1 ORDER BY position`, quoteID)
	if err != nil {
		return nil, fmt.Errorf("quotes: load items: %w", err)
	}
	defer rows.Close()

	var items []documents.LineItem
	for rows.Next() {
		var item documents.LineItem
		var priceCents, totalCents int64
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Unit,
			&item.Quantity, &priceCents, &totalCents); err != nil {
			return nil, fmt.Errorf("quotes: scan item: %w", err)
		}
		item.UnitPrice = money.Money(priceCents)
		item.Total = money.Money(totalCents)
		items = append(items, item)
	}
	return items, rows.Err()
}
