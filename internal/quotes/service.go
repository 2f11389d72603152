package quotes

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/grafica-erp/grafica-erp/internal/documents"
	"github.com/grafica-erp/grafica-erp/internal/money"
	"github.com/grafica-erp/grafica-erp/internal/platform/httpx"
)

// ClientDirectory resolves the client snapshot embedded in a quote.
type ClientDirectory interface {
	Ref(ctx context.Context, id string) (documents.ClientRef, error)
}

type Service struct {
	repo     Repository
	clients  ClientDirectory
	validate *validator.Validate
	now      func() time.Time
}

func NewService(repo Repository, clients ClientDirectory) *Service {
	return &Service{
		repo:     repo,
		clients:  clients,
		validate: validator.New(),
		now:      time.Now,
	}
}

func (s *Service) List(ctx context.Context) ([]Quote, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Quote, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req SaveQuoteRequest) (*Quote, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}

	client, err := s.clients.Ref(ctx, req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("resolve client: %w", err)
	}

	items := toLineItems(req.Items)
	total := documents.Normalize(items)

	now := s.now().UTC()
	date := req.Date
	if date.IsZero() {
		date = now
	}
	validUntil := req.ValidUntil
	if validUntil.IsZero() {
		validUntil = date.AddDate(0, 0, 30)
	}

	number, err := s.repo.NextNumber(ctx, date.Year())
	if err != nil {
		return nil, fmt.Errorf("allocate number: %w", err)
	}

	quote := Quote{
		ID:         uuid.NewString(),
		Number:     number,
		Client:     client,
		Items:      items,
		Total:      total,
		Date:       date,
		ValidUntil: validUntil,
		Status:     StatusValid,
	}
	if err := s.repo.Create(ctx, quote); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, quote.ID)
}

// Update replaces the whole document. Only valid quotes are editable; the
// terminal states freeze the document as it was decided.
func (s *Service) Update(ctx context.Context, id string, req SaveQuoteRequest) (*Quote, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status != StatusValid {
		return nil, fmt.Errorf("%w: quote %s is %s", httpx.ErrTransition, existing.Number, existing.Status)
	}

	client, err := s.clients.Ref(ctx, req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("resolve client: %w", err)
	}

	items := toLineItems(req.Items)
	total := documents.Normalize(items)

	quote := *existing
	quote.Client = client
	quote.Items = items
	quote.Total = total
	if !req.Date.IsZero() {
		quote.Date = req.Date
	}
	if !req.ValidUntil.IsZero() {
		quote.ValidUntil = req.ValidUntil
	}

	if err := s.repo.Replace(ctx, quote); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// SetStatus applies a lifecycle transition from the explicit table.
func (s *Service) SetStatus(ctx context.Context, id string, next Status) (*Quote, error) {
	if !next.Known() {
		return nil, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, next)
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.Status.CanTransition(next) {
		return nil, fmt.Errorf("%w: %s -> %s", httpx.ErrTransition, existing.Status, next)
	}
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// ForConversion hands the document data to the order side. Only valid quotes
// convert; the order side flips the quote to approved in the same transaction
// that creates the order.
func (s *Service) ForConversion(ctx context.Context, id string) (documents.ClientRef, []documents.LineItem, money.Money, error) {
	quote, err := s.repo.Get(ctx, id)
	if err != nil {
		return documents.ClientRef{}, nil, 0, err
	}
	if quote.Status != StatusValid {
		return documents.ClientRef{}, nil, 0,
			fmt.Errorf("%w: quote %s is %s, only valid quotes convert", httpx.ErrTransition, quote.Number, quote.Status)
	}
	return quote.Client, quote.Items, quote.Total, nil
}

// ExpireStale is the nightly sweep: valid quotes past validUntil move to
// expired via the same transition the API exposes.
func (s *Service) ExpireStale(ctx context.Context, now time.Time) (int, error) {
	return s.repo.ExpireStale(ctx, now)
}

// CountActive reports how many quotes are still valid, for the dashboard.
func (s *Service) CountActive(ctx context.Context) (int, error) {
	return s.repo.CountByStatus(ctx, StatusValid)
}
