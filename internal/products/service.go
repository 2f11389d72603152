package products

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

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req SaveProductRequest) (*Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	product := fromRequest(req)
	product.ID = uuid.NewString()
	if product.Status == "" {
		product.Status = "active"
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, product.ID)
}

func (s *Service) Update(ctx context.Context, id string, req SaveProductRequest) (*Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	product := fromRequest(req)
	product.ID = existing.ID
	if product.Status == "" {
		product.Status = existing.Status
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Catalog exposes the product list in the shape the line-item engine needs.
func (s *Service) Catalog(ctx context.Context) ([]documents.CatalogProduct, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	catalog := make([]documents.CatalogProduct, 0, len(list))
	for _, p := range list {
		catalog = append(catalog, documents.CatalogProduct{
			ID:    p.ID,
			Name:  p.Name,
			Unit:  p.Unit,
			Price: p.Price,
		})
	}
	return catalog, nil
}

// DefaultLine is the row the editor appends when the user adds an item:
// first catalog product, quantity 1.
func (s *Service) DefaultLine(ctx context.Context) (documents.LineItem, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return documents.LineItem{}, err
	}
	item, ok := documents.NewDefaultLine(catalog)
	if !ok {
		return documents.LineItem{}, fmt.Errorf("%w: catalog is empty", httpx.ErrValidation)
	}
	return item, nil
}

func fromRequest(req SaveProductRequest) Product {
	return Product{
		Name:        req.Name,
		Code:        req.Code,
		Category:    req.Category,
		Status:      req.Status,
		Price:       req.Price,
		Unit:        req.Unit,
		Dimensions:  req.Dimensions,
		Materials:   req.Materials,
		Description: req.Description,
	}
}
