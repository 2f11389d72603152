package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/grafica-erp/grafica-erp/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user User) error
	Update(ctx context.Context, user User) error
	Delete(ctx context.Context, id string) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const userColumns = "id, name, email, role, status, password_hash, last_login, created_at, updated_at"

func (r *repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+userColumns+" FROM users ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	defer rows.Close()

	var result []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("users: scan: %w", err)
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (*User, error) {
	return r.getWhere(ctx, "id = $1", id)
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getWhere(ctx, "email = $1", email)
}

func (r *repository) getWhere(ctx context.Context, where string, arg any) (*User, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE "+where, arg)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("users: %w", httpx.ErrNotFound)
		}
		return nil, fmt.Errorf("users: get: %w", err)
	}
	return &u, nil
}

func (r *repository) Create(ctx context.Context, user User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, role, status, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		user.ID, user.Name, user.Email, user.Role, user.Status, user.PasswordHash, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("users: email taken: %w", httpx.ErrDuplicate)
		}
		return fmt.Errorf("users: insert: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, user User) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET name = $2, email = $3, role = $4, status = $5, password_hash = $6, updated_at = $7
		WHERE id = $1`,
		user.ID, user.Name, user.Email, user.Role, user.Status, user.PasswordHash, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("users: email taken: %w", httpx.ErrDuplicate)
		}
		return fmt.Errorf("users: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("users: %w", httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("users: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("users: %w", httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET last_login = $2 WHERE id = $1", id, at.UTC())
	if err != nil {
		return fmt.Errorf("users: touch last login: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	var lastLogin *time.Time
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Status, &u.PasswordHash,
		&lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if lastLogin != nil {
		u.LastLogin = *lastLogin
	}
	return u, err
}
