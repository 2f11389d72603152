package finance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/grafica-erp/grafica-erp/internal/money"
	"github.com/grafica-erp/grafica-erp/internal/platform/httpx"
)

// SalesCategory labels the income entries booked from order payments.
const SalesCategory = "Vendas"

type Service struct {
	repo     Repository
	validate *validator.Validate
	now      func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New(), now: time.Now}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Transaction, error) {
	if filter.Type != "" && !filter.Type.Known() {
		return nil, fmt.Errorf("%w: unknown type %q", httpx.ErrValidation, filter.Type)
	}
	if filter.Status != "" && !filter.Status.Known() {
		return nil, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, filter.Status)
	}
	switch filter.Period {
	case "", "30days", "90days", "all":
	default:
		return nil, fmt.Errorf("%w: unknown period %q", httpx.ErrValidation, filter.Period)
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(all, filter, s.now().UTC()), nil
}

func (s *Service) Get(ctx context.Context, id string) (*Transaction, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req SaveTransactionRequest) (*Transaction, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}

	status := req.Status
	if status == "" {
		status = StatusPending
	}
	date := req.Date
	if date.IsZero() {
		date = s.now().UTC()
	}

	tx := Transaction{
		ID:          uuid.NewString(),
		Type:        req.Type,
		Status:      status,
		Category:    req.Category,
		Description: req.Description,
		Value:       req.Value,
		Date:        date,
		DueDate:     req.DueDate,
	}
	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, tx.ID)
}

func (s *Service) Update(ctx context.Context, id string, req SaveTransactionRequest) (*Transaction, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	tx := *existing
	tx.Type = req.Type
	if req.Status != "" {
		tx.Status = req.Status
	}
	tx.Category = req.Category
	tx.Description = req.Description
	tx.Value = req.Value
	if !req.Date.IsZero() {
		tx.Date = req.Date
	}
	tx.DueDate = req.DueDate

	if err := s.repo.Update(ctx, tx); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// SetStatus moves a single entry, e.g. marking a pending expense paid.
func (s *Service) SetStatus(ctx context.Context, id string, status Status) (*Transaction, error) {
	if !status.Known() {
		return nil, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, status)
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	tx := *existing
	tx.Status = status
	if err := s.repo.Update(ctx, tx); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// RecordOrderPayment books the income entry for a paid order. The order side
// only calls this on the transition into paid, so each order books once.
func (s *Service) RecordOrderPayment(ctx context.Context, orderID, orderNumber string, total money.Money, paidAt time.Time) error {
	tx := Transaction{
		ID:            uuid.NewString(),
		Type:          TypeIncome,
		Status:        StatusPaid,
		Category:      SalesCategory,
		Description:   "Pagamento do pedido " + orderNumber,
		Value:         total,
		Date:          paidAt,
		DueDate:       paidAt,
		RelatedEntity: &EntityRef{Type: "order", ID: orderID},
	}
	return s.repo.Create(ctx, tx)
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(all, s.now().UTC()), nil
}

// Monthly returns the paid-only month grouping. A month filter without a
// year is ignored rather than rejected.
func (s *Service) Monthly(ctx context.Context, filter ReportFilter) ([]MonthlyRow, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return MonthlyReport(all, filter), nil
}

func (s *Service) ByCategory(ctx context.Context, txType Type) ([]CategoryRow, error) {
	if txType != "" && !txType.Known() {
		return nil, fmt.Errorf("%w: unknown type %q", httpx.ErrValidation, txType)
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return CategoryReport(all, txType), nil
}

// Overview bundles the summary with the five most recent entries.
type Overview struct {
	Summary Summary       `json:"summary"`
	Recent  []Transaction `json:"recent"`
}

func (s *Service) GetOverview(ctx context.Context) (Overview, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return Overview{}, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	recent := all
	if len(recent) > 5 {
		recent = recent[:5]
	}
	return Overview{Summary: Summarize(all, s.now().UTC()), Recent: recent}, nil
}

// MarkOverdue is the nightly sweep behind the finance:overdue_sweep task.
func (s *Service) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	return s.repo.MarkOverdue(ctx, now)
}
