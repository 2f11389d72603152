package products

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grafica-erp/grafica-erp/internal/money"
	"github.com/grafica-erp/grafica-erp/internal/platform/httpx"
)

type memRepo struct {
	order    []string
	products map[string]Product
}

func newMemRepo() *memRepo {
	return &memRepo{products: map[string]Product{}}
}

func (m *memRepo) List(ctx context.Context) ([]Product, error) {
	out := make([]Product, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.products[id])
	}
	return out, nil
}

func (m *memRepo) Get(ctx context.Context, id string) (*Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return &p, nil
}

func (m *memRepo) Create(ctx context.Context, product Product) error {
	m.order = append(m.order, product.ID)
	m.products[product.ID] = product
	return nil
}

func (m *memRepo) Update(ctx context.Context, product Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return httpx.ErrNotFound
	}
	m.products[product.ID] = product
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.products[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.products, id)
	for i, pid := range m.order {
		if pid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func TestCreateDefaultsStatus(t *testing.T) {
	svc := NewService(newMemRepo())

	product, err := svc.Create(context.Background(), SaveProductRequest{
		Name: "Cartão de visita", Unit: "cento", Price: money.FromFloat(35.30),
	})
	require.NoError(t, err)
	require.Equal(t, "active", product.Status)
	require.NotEmpty(t, product.ID)

	_, err = svc.Create(context.Background(), SaveProductRequest{})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestDefaultLine(t *testing.T) {
	svc := NewService(newMemRepo())

	// Empty catalog cannot produce a row.
	_, err := svc.DefaultLine(context.Background())
	require.ErrorIs(t, err, httpx.ErrValidation)

	first, err := svc.Create(context.Background(), SaveProductRequest{
		Name: "Cartão de visita", Unit: "cento", Price: money.FromFloat(35.30),
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), SaveProductRequest{
		Name: "Banner", Unit: "un", Price: money.FromFloat(120),
	})
	require.NoError(t, err)

	line, err := svc.DefaultLine(context.Background())
	require.NoError(t, err)
	require.Equal(t, first.ID, line.ProductID)
	require.Equal(t, "Cartão de visita", line.ProductName)
	require.Equal(t, 1.0, line.Quantity)
	require.Equal(t, money.FromFloat(35.30), line.UnitPrice)
	require.Equal(t, money.FromFloat(35.30), line.Total)
}
