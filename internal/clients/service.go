package clients

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/grafica-erp/grafica-erp/internal/documents"
	"github.com/grafica-erp/grafica-erp/internal/platform/httpx"
)

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) List(ctx context.Context) ([]Client, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Client, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req SaveClientRequest) (*Client, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	client := fromRequest(req)
	client.ID = uuid.NewString()
	if client.Status == "" {
		client.Status = "active"
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, client.ID)
}

func (s *Service) Update(ctx context.Context, id string, req SaveClientRequest) (*Client, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	client := fromRequest(req)
	client.ID = existing.ID
	if client.Status == "" {
		client.Status = existing.Status
	}
	if err := s.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Ref returns the snapshot documents embed. Quotes and orders copy this at
// save time instead of referencing the live row.
func (s *Service) Ref(ctx context.Context, id string) (documents.ClientRef, error) {
	client, err := s.repo.Get(ctx, id)
	if err != nil {
		return documents.ClientRef{}, err
	}
	return documents.ClientRef{
		ID:    client.ID,
		Name:  client.Name,
		Email: client.Email,
		Phone: client.Phone,
	}, nil
}

func fromRequest(req SaveClientRequest) Client {
	return Client{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Document: req.Document,
		Status:   req.Status,
		Company:  req.Company,
		Address:  req.Address,
		Notes:    req.Notes,
	}
}
