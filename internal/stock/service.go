package stock

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/grafica-erp/grafica-erp/internal/platform/httpx"
)

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) List(ctx context.Context) ([]Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].classify()
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Item, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	item.classify()
	return item, nil
}

func (s *Service) Create(ctx context.Context, req SaveItemRequest) (*Item, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	item := Item{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Unit:        req.Unit,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		Supplier:    req.Supplier,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return s.Get(ctx, item.ID)
}

func (s *Service) Update(ctx context.Context, id string, req SaveItemRequest) (*Item, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	item := *existing
	item.Name = req.Name
	item.Unit = req.Unit
	item.Quantity = req.Quantity
	item.MinQuantity = req.MinQuantity
	item.Supplier = req.Supplier
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Adjust moves an item's quantity. Removals clamp at zero so a consumption
// larger than the count leaves the item depleted, not negative.
func (s *Service) Adjust(ctx context.Context, id string, req AdjustRequest) (*Item, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	quantity := existing.Quantity
	switch req.Type {
	case "add":
		quantity += req.Quantity
	case "remove":
		quantity -= req.Quantity
		if quantity < 0 {
			quantity = 0
		}
	case "set":
		quantity = req.Quantity
	}

	if err := s.repo.SetQuantity(ctx, id, quantity); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// LowStock lists items at or below their minimum, depleted ones included.
func (s *Service) LowStock(ctx context.Context) ([]Item, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var low []Item
	for _, item := range items {
		if item.Level != LevelNormal {
			low = append(low, item)
		}
	}
	return low, nil
}

// CountLow feeds the dashboard's low stock indicator.
func (s *Service) CountLow(ctx context.Context) (int, error) {
	low, err := s.LowStock(ctx)
	if err != nil {
		return 0, err
	}
	return len(low), nil
}
