package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/grafica-erp/grafica-erp/internal/documents"
	"github.com/grafica-erp/grafica-erp/internal/money"
	"github.com/grafica-erp/grafica-erp/internal/platform/httpx"
)

type memRepo struct {
	orders     map[string]Order
	seq        int
	converted  []string
	convertErr error
}

func newMemRepo() *memRepo {
	return &memRepo{orders: map[string]Order{}}
}

func (m *memRepo) List(ctx context.Context) ([]Order, error) {
	var out []Order
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, nil
}

func (m *memRepo) Get(ctx context.Context, id string) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return &o, nil
}

func (m *memRepo) Create(ctx context.Context, order Order) error {
	m.orders[order.ID] = order
	return nil
}

// CreateFromQuote mimics the single transaction: on failure neither the
// order nor the conversion mark survives.
func (m *memRepo) CreateFromQuote(ctx context.Context, order Order, quoteID string) error {
	if m.convertErr != nil {
		return m.convertErr
	}
	m.orders[order.ID] = order
	m.converted = append(m.converted, quoteID)
	return nil
}

func (m *memRepo) Replace(ctx context.Context, order Order) error {
	if _, ok := m.orders[order.ID]; !ok {
		return httpx.ErrNotFound
	}
	m.orders[order.ID] = order
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.orders[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *memRepo) UpdateStatus(ctx context.Context, id string, status Status) error {
	o, ok := m.orders[id]
	if !ok {
		return httpx.ErrNotFound
	}
	o.Status = status
	m.orders[id] = o
	return nil
}

func (m *memRepo) UpdatePayment(ctx context.Context, id string, status PaymentStatus, method string) error {
	o, ok := m.orders[id]
	if !ok {
		return httpx.ErrNotFound
	}
	o.PaymentStatus = status
	o.PaymentMethod = method
	m.orders[id] = o
	return nil
}

func (m *memRepo) NextNumber(ctx context.Context, year int) (string, error) {
	m.seq++
	return fmt.Sprintf("PED-%d-%04d", year, m.seq), nil
}

type stubClients struct{}

func (stubClients) Ref(ctx context.Context, id string) (documents.ClientRef, error) {
	return documents.ClientRef{ID: id, Name: "Gráfica Teste"}, nil
}

type stubQuotes struct {
	client documents.ClientRef
	items  []documents.LineItem
	total  money.Money
	err    error
}

func (s *stubQuotes) ForConversion(ctx context.Context, id string) (documents.ClientRef, []documents.LineItem, money.Money, error) {
	if s.err != nil {
		return documents.ClientRef{}, nil, 0, s.err
	}
	return s.client, s.items, s.total, nil
}

type recordedPayment struct {
	orderID string
	number  string
	total   money.Money
	paidAt  time.Time
}

type stubRecorder struct {
	payments []recordedPayment
}

func (s *stubRecorder) RecordOrderPayment(ctx context.Context, orderID, orderNumber string, total money.Money, paidAt time.Time) error {
	s.payments = append(s.payments, recordedPayment{orderID, orderNumber, total, paidAt})
	return nil
}

func newTestService(t *testing.T) (*Service, *memRepo, *stubQuotes, *stubRecorder) {
	t.Helper()
	repo := newMemRepo()
	quotes := &stubQuotes{}
	recorder := &stubRecorder{}
	svc := NewService(repo, stubClients{}, quotes, recorder, slog.Default())
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
	return svc, repo, quotes, recorder
}

func TestCreateRecomputesTotals(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	order, err := svc.Create(context.Background(), SaveOrderRequest{
		ClientID: "c1",
		Items: []ItemRequest{
			{ProductID: "p1", ProductName: "Cartão de visita", Unit: "cento", Quantity: 6, UnitPrice: money.FromFloat(35.30)},
			{ProductID: "p2", ProductName: "Banner", Unit: "un", Quantity: 2.5, UnitPrice: money.FromFloat(35.30)},
		},
	})
	require.NoError(t, err)

	require.Equal(t, money.FromFloat(211.80), order.Items[0].Total)
	require.Equal(t, money.FromFloat(88.25), order.Items[1].Total)
	require.Equal(t, money.FromFloat(300.05), order.Total)
	require.Equal(t, StatusPending, order.Status)
	require.Equal(t, PaymentPending, order.PaymentStatus)
	require.Equal(t, "pix", order.PaymentMethod)
	require.Equal(t, "PED-2025-0001", order.Number)
}

func TestCreateRequiresItems(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), SaveOrderRequest{ClientID: "c1"})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestStatusTransitions(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	order, err := svc.Create(context.Background(), SaveOrderRequest{
		ClientID: "c1",
		Items:    []ItemRequest{{ProductID: "p1", Quantity: 1, UnitPrice: money.FromFloat(10)}},
	})
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), order.ID, StatusReady)
	require.ErrorIs(t, err, httpx.ErrTransition)

	_, err = svc.SetStatus(context.Background(), order.ID, "shipped")
	require.ErrorIs(t, err, httpx.ErrValidation)

	order, err = svc.SetStatus(context.Background(), order.ID, StatusInProduction)
	require.NoError(t, err)
	order, err = svc.SetStatus(context.Background(), order.ID, StatusReady)
	require.NoError(t, err)
	order, err = svc.SetStatus(context.Background(), order.ID, StatusCompleted)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, order.Status)

	_, err = svc.SetStatus(context.Background(), order.ID, StatusCancelled)
	require.ErrorIs(t, err, httpx.ErrTransition)
}

func TestCancelFromAnyActiveState(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	for _, from := range []Status{StatusPending, StatusInProduction, StatusReady} {
		order, err := svc.Create(context.Background(), SaveOrderRequest{
			ClientID: "c1",
			Items:    []ItemRequest{{ProductID: "p1", Quantity: 1, UnitPrice: money.FromFloat(10)}},
		})
		require.NoError(t, err)

		if from != StatusPending {
			_, err = svc.SetStatus(context.Background(), order.ID, StatusInProduction)
			require.NoError(t, err)
		}
		if from == StatusReady {
			_, err = svc.SetStatus(context.Background(), order.ID, StatusReady)
			require.NoError(t, err)
		}

		order, err = svc.SetStatus(context.Background(), order.ID, StatusCancelled)
		require.NoError(t, err)
		require.Equal(t, StatusCancelled, order.Status)
	}
}

func TestPaidRecordsExactlyOneTransaction(t *testing.T) {
	svc, _, _, recorder := newTestService(t)

	order, err := svc.Create(context.Background(), SaveOrderRequest{
		ClientID: "c1",
		Items:    []ItemRequest{{ProductID: "p1", Quantity: 6, UnitPrice: money.FromFloat(35.30)}},
	})
	require.NoError(t, err)

	order, err = svc.SetPayment(context.Background(), order.ID, PaymentRequest{PaymentStatus: PaymentPaid, PaymentMethod: "card"})
	require.NoError(t, err)
	require.Equal(t, PaymentPaid, order.PaymentStatus)
	require.Equal(t, "card", order.PaymentMethod)

	require.Len(t, recorder.payments, 1)
	require.Equal(t, order.ID, recorder.payments[0].orderID)
	require.Equal(t, order.Number, recorder.payments[0].number)
	require.Equal(t, money.FromFloat(211.80), recorder.payments[0].total)

	// Paid is terminal: a second paid request must not book again.
	_, err = svc.SetPayment(context.Background(), order.ID, PaymentRequest{PaymentStatus: PaymentPaid})
	require.ErrorIs(t, err, httpx.ErrTransition)
	require.Len(t, recorder.payments, 1)
}

func TestPartialDoesNotRecord(t *testing.T) {
	svc, _, _, recorder := newTestService(t)

	order, err := svc.Create(context.Background(), SaveOrderRequest{
		ClientID: "c1",
		Items:    []ItemRequest{{ProductID: "p1", Quantity: 1, UnitPrice: money.FromFloat(100)}},
	})
	require.NoError(t, err)

	order, err = svc.SetPayment(context.Background(), order.ID, PaymentRequest{PaymentStatus: PaymentPartial})
	require.NoError(t, err)
	require.Equal(t, PaymentPartial, order.PaymentStatus)
	require.Empty(t, recorder.payments)

	// Partial keeps the existing method when none is sent.
	require.Equal(t, "pix", order.PaymentMethod)

	order, err = svc.SetPayment(context.Background(), order.ID, PaymentRequest{PaymentStatus: PaymentPaid})
	require.NoError(t, err)
	require.Len(t, recorder.payments, 1)

	_, err = svc.SetPayment(context.Background(), order.ID, PaymentRequest{PaymentStatus: PaymentPartial})
	require.ErrorIs(t, err, httpx.ErrTransition)
}

func TestConvertQuote(t *testing.T) {
	svc, repo, quotes, _ := newTestService(t)

	quotes.client = documents.ClientRef{ID: "c9", Name: "Padaria Central"}
	quotes.items = []documents.LineItem{
		{ProductID: "p1", ProductName: "Flyer", Unit: "milheiro", Quantity: 6, UnitPrice: money.FromFloat(35.30), Total: money.FromFloat(211.80)},
	}
	quotes.total = money.FromFloat(211.80)

	order, err := svc.ConvertQuote(context.Background(), "q1")
	require.NoError(t, err)

	require.Equal(t, "Padaria Central", order.Client.Name)
	require.Equal(t, money.FromFloat(211.80), order.Total)
	require.Equal(t, StatusPending, order.Status)
	require.Equal(t, PaymentPending, order.PaymentStatus)
	require.Equal(t, "pix", order.PaymentMethod)
	require.Equal(t, "PED-2025-0001", order.Number)
	require.Equal(t, []string{"q1"}, repo.converted)
}

func TestConvertFailureLeavesNoOrder(t *testing.T) {
	svc, repo, quotes, _ := newTestService(t)

	quotes.client = documents.ClientRef{ID: "c9", Name: "Padaria Central"}
	quotes.items = []documents.LineItem{
		{ProductID: "p1", Quantity: 1, UnitPrice: money.FromFloat(100), Total: money.FromFloat(100)},
	}
	quotes.total = money.FromFloat(100)

	repo.convertErr = errors.New("connection reset")
	_, err := svc.ConvertQuote(context.Background(), "q1")
	require.Error(t, err)
	require.Empty(t, repo.orders)
	require.Empty(t, repo.converted)

	// The quote stayed valid, so a retry mints exactly one order.
	repo.convertErr = nil
	_, err = svc.ConvertQuote(context.Background(), "q1")
	require.NoError(t, err)
	require.Len(t, repo.orders, 1)
	require.Equal(t, []string{"q1"}, repo.converted)
}

func TestConvertRejectedQuoteFails(t *testing.T) {
	svc, repo, quotes, _ := newTestService(t)

	quotes.err = fmt.Errorf("%w: quote is rejected", httpx.ErrTransition)

	_, err := svc.ConvertQuote(context.Background(), "q1")
	require.ErrorIs(t, err, httpx.ErrTransition)
	require.Empty(t, repo.orders)
	require.Empty(t, repo.converted)
}

func TestUpdateFrozenOrders(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	order, err := svc.Create(context.Background(), SaveOrderRequest{
		ClientID: "c1",
		Items:    []ItemRequest{{ProductID: "p1", Quantity: 1, UnitPrice: money.FromFloat(50)}},
	})
	require.NoError(t, err)

	_, err = svc.SetPayment(context.Background(), order.ID, PaymentRequest{PaymentStatus: PaymentPaid})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), order.ID, SaveOrderRequest{
		ClientID: "c1",
		Items:    []ItemRequest{{ProductID: "p1", Quantity: 2, UnitPrice: money.FromFloat(50)}},
	})
	require.ErrorIs(t, err, httpx.ErrTransition)
}
