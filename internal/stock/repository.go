package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/grafica-erp/grafica-erp/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, id string) (*Item, error)
	Create(ctx context.Context, item Item) error
	Update(ctx context.Context, item Item) error
	Delete(ctx context.Context, id string) error
	SetQuantity(ctx context.Context, id string, quantity float64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const itemColumns = "id, name, unit, quantity, min_quantity, supplier, created_at, updated_at"

func (r *repository) List(ctx context.Context) ([]Item, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+itemColumns+" FROM stock_items ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("stock: list: %w", err)
	}
	defer rows.Close()

	var result []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("stock: scan: %w", err)
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (*Item, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+itemColumns+" FROM stock_items WHERE id = $1", id)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("stock: %w", httpx.ErrNotFound)
		}
		return nil, fmt.Errorf("stock: get: %w", err)
	}
	return &item, nil
}

func (r *repository) Create(ctx context.Context, item Item) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO stock_items (id, name, unit, quantity, min_quantity, supplier, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		item.ID, item.Name, item.Unit, item.Quantity, item.MinQuantity, item.Supplier, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("stock: insert: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, item Item) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE stock_items
		SET name = $2, unit = $3, quantity = $4, min_quantity = $5, supplier = $6, updated_at = $7
		WHERE id = $1`,
		item.ID, item.Name, item.Unit, item.Quantity, item.MinQuantity, item.Supplier, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("stock: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("stock: %w", httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM stock_items WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("stock: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("stock: %w", httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) SetQuantity(ctx context.Context, id string, quantity float64) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE stock_items SET quantity = $2, updated_at = $3 WHERE id = $1",
		id, quantity, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("stock: set quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("stock: %w", httpx.ErrNotFound)
	}
	return nil
}

func scanItem(row pgx.Row) (Item, error) {
	var item Item
	err := row.Scan(&item.ID, &item.Name, &item.Unit, &item.Quantity, &item.MinQuantity,
		&item.Supplier, &item.CreatedAt, &item.UpdatedAt)
	return item, err
}
