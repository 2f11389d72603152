package orders

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
	List(ctx context.Context) ([]Order, error)
	Get(ctx context.Context, id string) (*Order, error)
	Create(ctx context.Context, order Order) error
	CreateFromQuote(ctx context.Context, order Order, quoteID string) error
	Replace(ctx context.Context, order Order) error
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status Status) error
	UpdatePayment(ctx context.Context, id string, status PaymentStatus, method string) error
	NextNumber(ctx context.Context, year int) (string, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const orderColumns = `id, number, client_id, client_name, client_email, client_phone,
	total_cents, order_date, status, payment_status, payment_method, created_at, updated_at`

func (r *repository) List(ctx context.Context) ([]Order, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+orderColumns+" FROM orders ORDER BY order_date DESC, number DESC")
	if err != nil {
		return nil, fmt.Errorf("orders: list: %w", err)
	}
	defer rows.Close()

	var result []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("orders: scan: %w", err)
		}
		result = append(result, o)
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

func (r *repository) Get(ctx context.Context, id string) (*Order, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("orders: %w", httpx.ErrNotFound)
		}
		return nil, fmt.Errorf("orders: get: %w", err)
	}
	items, err := r.loadItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *repository) Create(ctx context.Context, order Order) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return insertOrder(ctx, tx, order)
	})
}

// CreateFromQuote inserts the order and moves the source quote to approved in
// the same transaction, so a failed conversion leaves neither behind. The
// guarded UPDATE doubles as the conversion lock: a quote that already left
// valid aborts the whole write.
func (r *repository) CreateFromQuote(ctx context.Context, order Order, quoteID string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			"UPDATE quotes SET status = 'approved', updated_at = $2 WHERE id = $1 AND status = 'valid'",
			quoteID, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("orders: mark quote converted: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("orders: quote %s no longer converts: %w", quoteID, httpx.ErrTransition)
		}
		return insertOrder(ctx, tx, order)
	})
}

func insertOrder(ctx context.Context, tx pgx.Tx, order Order) error {
	now := time.Now().UTC()
	_, err := tx.Exec(ctx, `
		INSERT INTO orders (id, number, client_id, client_name, client_email, client_phone,
		                    total_cents, order_date, status, payment_status, payment_method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`,
		order.ID, order.Number, order.Client.ID, order.Client.Name, order.Client.Email,
		order.Client.Phone, int64(order.Total), order.Date, order.Status,
		order.PaymentStatus, order.PaymentMethod, now)
	if err != nil {
		return fmt.Errorf("orders: insert: %w", err)
	}
	return insertItems(ctx, tx, order.ID, order.Items)
}

// Replace swaps the whole document in one transaction, like the quote side.
func (r *repository) Replace(ctx context.Context, order Order) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE orders
			SET client_id = $2, client_name = $3, client_email = $4, client_phone = $5,
			    total_cents = $6, order_date = $7, payment_method = $8, updated_at = $9
			WHERE id = $1`,
			order.ID, order.Client.ID, order.Client.Name, order.Client.Email, order.Client.Phone,
			int64(order.Total), order.Date, order.PaymentMethod, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("orders: update: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("orders: %w", httpx.ErrNotFound)
		}
		if _, err := tx.Exec(ctx, "DELETE FROM order_items WHERE order_id = $1", order.ID); err != nil {
			return fmt.Errorf("orders: delete items: %w", err)
		}
		return insertItems(ctx, tx, order.ID, order.Items)
	})
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("orders: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("orders: %w", httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id string, status Status) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1",
		id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("orders: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("orders: %w", httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) UpdatePayment(ctx context.Context, id string, status PaymentStatus, method string) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE orders SET payment_status = $2, payment_method = $3, updated_at = $4 WHERE id = $1",
		id, status, method, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("orders: update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("orders: %w", httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) NextNumber(ctx context.Context, year int) (string, error) {
	return db.NextDocNumber(ctx, r.pool, "order", "PED", year)
}

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	var cents int64
	err := row.Scan(&o.ID, &o.Number, &o.Client.ID, &o.Client.Name, &o.Client.Email,
		&o.Client.Phone, &cents, &o.Date, &o.Status, &o.PaymentStatus, &o.PaymentMethod,
		&o.CreatedAt, &o.UpdatedAt)
	o.Total = money.Money(cents)
	return o, err
}

func insertItems(ctx context.Context, tx pgx.Tx, orderID string, items []documents.LineItem) error {
	for i, item := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, position, product_id, product_name, unit, quantity, unit_price_cents, total_cents)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			orderID, i, item.ProductID, item.ProductName, item.Unit,
			item.Quantity, int64(item.UnitPrice), int64(item.Total))
		if err != nil {
			return fmt.Errorf("orders: insert item: %w", err)
		}
	}
	return nil
}

func (r *repository) loadItems(ctx context.Context, orderID string) ([]documents.LineItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT product_id, product_name, unit, quantity, unit_price_cents, total_cents
		FROM order_items WHERE order_id = $1 ORDER BY position`, orderID)
	if err != nil {
		return nil, fmt.Errorf("orders: load items: %w", err)
	}
	defer rows.Close()

	var items []documents.LineItem
	for rows.Next() {
		var item documents.LineItem
		var priceCents, totalCents int64
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Unit,
			&item.Quantity, &priceCents, &totalCents); err != nil {
			return nil, fmt.Errorf("orders: scan item: %w", err)
		}
		item.UnitPrice = money.Money(priceCents)
		item.Total = money.Money(totalCents)
		items = append(items, item)
	}
	return items, rows.Err()
}
