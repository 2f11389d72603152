package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/grafica-erp/grafica-erp/internal/platform/httpx"
)

// settingsID keys the single company profile row.
const settingsID = "company"

type Company struct {
	Name      string    `json:"name"`
	Document  string    `json:"document"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zipCode"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UpdateRequest struct {
	Name     string `json:"name" validate:"required"`
	Document string `json:"document"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
}

type Repository interface {
	Get(ctx context.Context) (*Company, error)
	Upsert(ctx context.Context, company Company) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Get(ctx context.Context) (*Company, error) {
	var c Company
	err := r.pool.QueryRow(ctx, `
		SELECT name, document, email, phone, address, city, state, zip_code, updated_at
		FROM settings WHERE id = $1`, settingsID).
		Scan(&c.Name, &c.Document, &c.Email, &c.Phone, &c.Address, &c.City, &c.State, &c.ZipCode, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return &Company{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("settings: get: %w", err)
	}
	return &c, nil
}

func (r *repository) Upsert(ctx context.Context, company Company) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO settings (id, name, document, email, phone, address, city, state, zip_code, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, document = EXCLUDED.document, email = EXCLUDED.email,
			phone = EXCLUDED.phone, address = EXCLUDED.address, city = EXCLUDED.city,
			state = EXCLUDED.state, zip_code = EXCLUDED.zip_code, updated_at = EXCLUDED.updated_at`,
		settingsID, company.Name, company.Document, company.Email, company.Phone,
		company.Address, company.City, company.State, company.ZipCode, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("settings: upsert: %w", err)
	}
	return nil
}

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) Get(ctx context.Context) (*Company, error) {
	return s.repo.Get(ctx)
}

func (s *Service) Update(ctx context.Context, req UpdateRequest) (*Company, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	company := Company{
		Name:     req.Name,
		Document: req.Document,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		City:     req.City,
		State:    req.State,
		ZipCode:  req.ZipCode,
	}
	if err := s.repo.Upsert(ctx, company); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx)
}
