package clients

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
	List(ctx context.Context) ([]Client, error)
	Get(ctx context.Context, id string) (*Client, error)
	Create(ctx context.Context, client Client) error
	Update(ctx context.Context, client Client) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const clientColumns = "id, name, email, phone, document, status, company, address, notes, created_at, updated_at"

func (r *repository) List(ctx context.Context) ([]Client, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+clientColumns+" FROM clients ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("clients: list: %w", err)
	}
	defer rows.Close()

	var result []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("clients: scan: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (*Client, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+clientColumns+" FROM clients WHERE id = $1", id)
	c, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("clients: %w", httpx.ErrNotFound)
		}
		return nil, fmt.Errorf("clients: get: %w", err)
	}
	return &c, nil
}

func (r *repository) Create(ctx context.Context, client Client) error {
	now := time.Now().UTC()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO clients (id, name, email, phone, document, status, company, address, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`,
		client.ID, client.Name, client.Email, client.Phone, client.Document,
		client.Status, client.Company, client.Address, client.Notes, now)
	if err != nil {
		return fmt.Errorf("clients: create: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, client Client) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE clients
		SET name = $2, email = $3, phone = $4, document = $5, status = $6,
		    company = $7, address = $8, notes = $9, updated_at = $10
		WHERE id = $1`,
		client.ID, client.Name, client.Email, client.Phone, client.Document,
		client.Status, client.Company, client.Address, client.Notes, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("clients: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("clients: %w", httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM clients WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("clients: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("clients: %w", httpx.ErrNotFound)
	}
	return nil
}

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Document, &c.Status,
		&c.Company, &c.Address, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
