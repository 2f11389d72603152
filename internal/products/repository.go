package products

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
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, product Product) error
	Update(ctx context.Context, product Product) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const productColumns = "id, name, code, category, status, price_cents, unit, dimensions, materials, description, created_at, updated_at"

func (r *repository) List(ctx context.Context) ([]Product, error) {
	// Catalog order drives the default line item, so keep it stable.
	rows, err := r.pool.Query(ctx, "SELECT "+productColumns+" FROM products ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("products: list: %w", err)
	}
	defer rows.Close()

	var result []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("products: scan: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (*Product, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("products: %w", httpx.ErrNotFound)
		}
		return nil, fmt.Errorf("products: get: %w", err)
	}
	return &p, nil
}

func (r *repository) Create(ctx context.Context, product Product) error {
	now := time.Now().UTC()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO products (id, name, code, category, status, price_cents, unit, dimensions, materials, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`,
		product.ID, product.Name, product.Code, product.Category, product.Status,
		int64(product.Price), product.Unit, product.Dimensions, product.Materials,
		product.Description, now)
	if err != nil {
		return fmt.Errorf("products: create: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, product Product) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE products
		SET name = $2, code = $3, category = $4, status = $5, price_cents = $6,
		    unit = $7, dimensions = $8, materials = $9, description = $10, updated_at = $11
		WHERE id = $1`,
		product.ID, product.Name, product.Code, product.Category, product.Status,
		int64(product.Price), product.Unit, product.Dimensions, product.Materials,
		product.Description, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("products: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("products: %w", httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("products: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("products: %w", httpx.ErrNotFound)
	}
	return nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	var cents int64
	err := row.Scan(&p.ID, &p.Name, &p.Code, &p.Category, &p.Status, &cents,
		&p.Unit, &p.Dimensions, &p.Materials, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	p.Price = money.Money(cents)
	return p, err
}
