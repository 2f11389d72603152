package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/grafica-erp/grafica-erp/internal/documents"
	"github.com/grafica-erp/grafica-erp/internal/money"
	"github.com/grafica-erp/grafica-erp/internal/platform/httpx"
)

// ClientDirectory resolves the client snapshot embedded in an order.
type ClientDirectory interface {
	Ref(ctx context.Context, id string) (documents.ClientRef, error)
}

// QuoteSource hands over a quote's document data during conversion.
type QuoteSource interface {
	ForConversion(ctx context.Context, id string) (documents.ClientRef, []documents.LineItem, money.Money, error)
}

// PaymentRecorder books the income transaction when an order is paid.
type PaymentRecorder interface {
	RecordOrderPayment(ctx context.Context, orderID, orderNumber string, total money.Money, paidAt time.Time) error
}

const defaultPaymentMethod = "pix"

type Service struct {
	repo     Repository
	clients  ClientDirectory
	quotes   QuoteSource
	payments PaymentRecorder
	logger   *slog.Logger
	validate *validator.Validate
	now      func() time.Time
}

func NewService(repo Repository, clients ClientDirectory, quotes QuoteSource, payments PaymentRecorder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		clients:  clients,
		quotes:   quotes,
		payments: payments,
		logger:   logger,
		validate: validator.New(),
		now:      time.Now,
	}
}

func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req SaveOrderRequest) (*Order, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}

	client, err := s.clients.Ref(ctx, req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("resolve client: %w", err)
	}

	items := toLineItems(req.Items)
	total := documents.Normalize(items)

	date := req.Date
	if date.IsZero() {
		date = s.now().UTC()
	}
	method := req.PaymentMethod
	if method == "" {
		method = defaultPaymentMethod
	}

	number, err := s.repo.NextNumber(ctx, date.Year())
	if err != nil {
		return nil, fmt.Errorf("allocate number: %w", err)
	}

	order := Order{
		ID:            uuid.NewString(),
		Number:        number,
		Client:        client,
		Items:         items,
		Total:         total,
		Date:          date,
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		PaymentMethod: method,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, order.ID)
}

// Update replaces the document. Terminal orders and paid orders are frozen;
// editing the items of a paid order would desync its booked income.
func (s *Service) Update(ctx context.Context, id string, req SaveOrderRequest) (*Order, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == StatusCompleted || existing.Status == StatusCancelled {
		return nil, fmt.Errorf("%w: order %s is %s", httpx.ErrTransition, existing.Number, existing.Status)
	}
	if existing.PaymentStatus == PaymentPaid {
		return nil, fmt.Errorf("%w: order %s is already paid", httpx.ErrTransition, existing.Number)
	}

	client, err := s.clients.Ref(ctx, req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("resolve client: %w", err)
	}

	items := toLineItems(req.Items)
	total := documents.Normalize(items)

	order := *existing
	order.Client = client
	order.Items = items
	order.Total = total
	if !req.Date.IsZero() {
		order.Date = req.Date
	}
	if req.PaymentMethod != "" {
		order.PaymentMethod = req.PaymentMethod
	}

	if err := s.repo.Replace(ctx, order); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// SetStatus drives the production lifecycle through the transition table.
func (s *Service) SetStatus(ctx context.Context, id string, next Status) (*Order, error) {
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

// SetPayment drives the payment lifecycle. The transition into paid books the
// income transaction exactly once: paid is terminal, so the recorder cannot
// fire twice for the same order.
func (s *Service) SetPayment(ctx context.Context, id string, req PaymentRequest) (*Order, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	if !req.PaymentStatus.Known() {
		return nil, fmt.Errorf("%w: unknown payment status %q", httpx.ErrValidation, req.PaymentStatus)
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.PaymentStatus.CanTransition(req.PaymentStatus) {
		return nil, fmt.Errorf("%w: payment %s -> %s", httpx.ErrTransition, existing.PaymentStatus, req.PaymentStatus)
	}

	method := req.PaymentMethod
	if method == "" {
		method = existing.PaymentMethod
	}
	if err := s.repo.UpdatePayment(ctx, id, req.PaymentStatus, method); err != nil {
		return nil, err
	}

	if req.PaymentStatus == PaymentPaid {
		paidAt := s.now().UTC()
		if err := s.payments.RecordOrderPayment(ctx, existing.ID, existing.Number, existing.Total, paidAt); err != nil {
			s.logger.Error("record order payment failed",
				slog.String("order", existing.Number), slog.Any("error", err))
			return nil, fmt.Errorf("record payment for %s: %w", existing.Number, err)
		}
	}
	return s.repo.Get(ctx, id)
}

// ConvertQuote creates an order from a valid quote. The order copies the
// quote's client snapshot, items and total, gets its own PED number, and
// starts pending on both lifecycles. The order insert and the quote's move
// to approved commit together, so a failed conversion leaves no order
// behind and the quote can be retried.
func (s *Service) ConvertQuote(ctx context.Context, quoteID string) (*Order, error) {
	client, items, total, err := s.quotes.ForConversion(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	date := s.now().UTC()
	number, err := s.repo.NextNumber(ctx, date.Year())
	if err != nil {
		return nil, fmt.Errorf("allocate number: %w", err)
	}

	order := Order{
		ID:            uuid.NewString(),
		Number:        number,
		Client:        client,
		Items:         items,
		Total:         total,
		Date:          date,
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		PaymentMethod: defaultPaymentMethod,
	}
	if err := s.repo.CreateFromQuote(ctx, order, quoteID); err != nil {
		s.logger.Error("convert quote failed",
			slog.String("quote", quoteID), slog.Any("error", err))
		return nil, err
	}
	return s.repo.Get(ctx, order.ID)
}
