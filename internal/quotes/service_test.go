package quotes

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/grafica-erp/grafica-erp/internal/documents"
	"github.com/grafica-erp/grafica-erp/internal/money"
	"github.com/grafica-erp/grafica-erp/internal/platform/httpx"
)

type memRepo struct {
	quotes map[string]Quote
	seq    int
}

func newMemRepo() *memRepo {
	return &memRepo{quotes: map[string]Quote{}}
}

func (m *memRepo) List(ctx context.Context) ([]Quote, error) {
	var out []Quote
	for _, q := range m.quotes {
		out = append(out, q)
	}
	return out, nil
}

func (m *memRepo) Get(ctx context.Context, id string) (*Quote, error) {
	q, ok := m.quotes[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return &q, nil
}

func (m *memRepo) Create(ctx context.Context, quote Quote) error {
	m.quotes[quote.ID] = quote
	return nil
}

func (m *memRepo) Replace(ctx context.Context, quote Quote) error {
	if _, ok := m.quotes[quote.ID]; !ok {
		return httpx.ErrNotFound
	}
	m.quotes[quote.ID] = quote
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.quotes[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.quotes, id)
	return nil
}

func (m *memRepo) UpdateStatus(ctx context.Context, id string, status Status) error {
	q, ok := m.quotes[id]
	if !ok {
		return httpx.ErrNotFound
	}
	q.Status = status
	m.quotes[id] = q
	return nil
}

func (m *memRepo) NextNumber(ctx context.Context, year int) (string, error) {
	m.seq++
	return fmt.Sprintf("ORC-%d-%04d", year, m.seq), nil
}

func (m *memRepo) ExpireStale(ctx context.Context, now time.Time) (int, error) {
	count := 0
	for id, q := range m.quotes {
		if q.Status == StatusValid && q.ValidUntil.Before(now) {
			q.Status = StatusExpired
			m.quotes[id] = q
			count++
		}
	}
	return count, nil
}

func (m *memRepo) CountByStatus(ctx context.Context, status Status) (int, error) {
	count := 0
	for _, q := range m.quotes {
		if q.Status == status {
			count++
		}
	}
	return count, nil
}

type stubClients struct{}

func (stubClients) Ref(ctx context.Context, id string) (documents.ClientRef, error) {
	if id == "missing" {
		return documents.ClientRef{}, httpx.ErrNotFound
	}
	return documents.ClientRef{ID: id, Name: "Padaria Central", Email: "contato@padaria.com"}, nil
}

func newTestService(t *testing.T) (*Service, *memRepo) {
	t.Helper()
	repo := newMemRepo()
	svc := NewService(repo, stubClients{})
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestCreateDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	quote, err := svc.Create(context.Background(), SaveQuoteRequest{
		ClientID: "c1",
		Items: []ItemRequest{
			{ProductID: "p1", ProductName: "Flyer A5", Unit: "milheiro", Quantity: 6, UnitPrice: money.FromFloat(35.30)},
		},
	})
	require.NoError(t, err)

	require.Equal(t, "ORC-2025-0001", quote.Number)
	require.Equal(t, StatusValid, quote.Status)
	require.Equal(t, "Padaria Central", quote.Client.Name)
	require.Equal(t, money.FromFloat(211.80), quote.Total)
	require.Equal(t, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC), quote.Date)
	require.Equal(t, quote.Date.AddDate(0, 0, 30), quote.ValidUntil)
}

func TestCreateUnknownClient(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), SaveQuoteRequest{
		ClientID: "missing",
		Items:    []ItemRequest{{ProductID: "p1", Quantity: 1, UnitPrice: money.FromFloat(10)}},
	})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestUpdateRecomputesTotal(t *testing.T) {
	svc, _ := newTestService(t)

	quote, err := svc.Create(context.Background(), SaveQuoteRequest{
		ClientID: "c1",
		Items:    []ItemRequest{{ProductID: "p1", Quantity: 2, UnitPrice: money.FromFloat(50)}},
	})
	require.NoError(t, err)
	require.Equal(t, money.FromFloat(100), quote.Total)

	quote, err = svc.Update(context.Background(), quote.ID, SaveQuoteRequest{
		ClientID: "c1",
		Items: []ItemRequest{
			{ProductID: "p1", Quantity: 2, UnitPrice: money.FromFloat(50)},
			{ProductID: "p2", Quantity: 3, UnitPrice: money.FromFloat(10.50)},
		},
	})
	require.NoError(t, err)
	require.Equal(t, money.FromFloat(131.50), quote.Total)
	require.Len(t, quote.Items, 2)
}

func TestUpdateFrozenAfterDecision(t *testing.T) {
	svc, _ := newTestService(t)

	quote, err := svc.Create(context.Background(), SaveQuoteRequest{
		ClientID: "c1",
		Items:    []ItemRequest{{ProductID: "p1", Quantity: 1, UnitPrice: money.FromFloat(10)}},
	})
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), quote.ID, StatusRejected)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), quote.ID, SaveQuoteRequest{
		ClientID: "c1",
		Items:    []ItemRequest{{ProductID: "p1", Quantity: 5, UnitPrice: money.FromFloat(10)}},
	})
	require.ErrorIs(t, err, httpx.ErrTransition)
}

func TestStatusTransitions(t *testing.T) {
	svc, _ := newTestService(t)

	quote, err := svc.Create(context.Background(), SaveQuoteRequest{
		ClientID: "c1",
		Items:    []ItemRequest{{ProductID: "p1", Quantity: 1, UnitPrice: money.FromFloat(10)}},
	})
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), quote.ID, "draft")
	require.ErrorIs(t, err, httpx.ErrValidation)

	quote, err = svc.SetStatus(context.Background(), quote.ID, StatusApproved)
	require.NoError(t, err)
	require.Equal(t, StatusApproved, quote.Status)

	// Decided quotes never change status again.
	_, err = svc.SetStatus(context.Background(), quote.ID, StatusRejected)
	require.ErrorIs(t, err, httpx.ErrTransition)
}

func TestForConversionOnlyValid(t *testing.T) {
	svc, _ := newTestService(t)

	quote, err := svc.Create(context.Background(), SaveQuoteRequest{
		ClientID: "c1",
		Items:    []ItemRequest{{ProductID: "p1", Quantity: 6, UnitPrice: money.FromFloat(35.30)}},
	})
	require.NoError(t, err)

	client, items, total, err := svc.ForConversion(context.Background(), quote.ID)
	require.NoError(t, err)
	require.Equal(t, "Padaria Central", client.Name)
	require.Len(t, items, 1)
	require.Equal(t, money.FromFloat(211.80), total)

	_, err = svc.SetStatus(context.Background(), quote.ID, StatusRejected)
	require.NoError(t, err)

	_, _, _, err = svc.ForConversion(context.Background(), quote.ID)
	require.ErrorIs(t, err, httpx.ErrTransition)
}

func TestExpireStaleSweep(t *testing.T) {
	svc, repo := newTestService(t)

	fresh, err := svc.Create(context.Background(), SaveQuoteRequest{
		ClientID: "c1",
		Items:    []ItemRequest{{ProductID: "p1", Quantity: 1, UnitPrice: money.FromFloat(10)}},
	})
	require.NoError(t, err)

	stale, err := svc.Create(context.Background(), SaveQuoteRequest{
		ClientID:   "c1",
		Date:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil: time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		Items:      []ItemRequest{{ProductID: "p1", Quantity: 1, UnitPrice: money.FromFloat(10)}},
	})
	require.NoError(t, err)

	count, err := svc.ExpireStale(context.Background(), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.Equal(t, StatusExpired, repo.quotes[stale.ID].Status)
	require.Equal(t, StatusValid, repo.quotes[fresh.ID].Status)

	active, err := svc.CountActive(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, active)
}
