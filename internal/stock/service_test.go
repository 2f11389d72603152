package stock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grafica-erp/grafica-erp/internal/platform/httpx"
)

type memRepo struct {
	items map[string]Item
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[string]Item{}}
}

func (m *memRepo) List(ctx context.Context) ([]Item, error) {
	var out []Item
	for _, item := range m.items {
		out = append(out, item)
	}
	return out, nil
}

func (m *memRepo) Get(ctx context.Context, id string) (*Item, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return &item, nil
}

func (m *memRepo) Create(ctx context.Context, item Item) error {
	m.items[item.ID] = item
	return nil
}

func (m *memRepo) Update(ctx context.Context, item Item) error {
	if _, ok := m.items[item.ID]; !ok {
		return httpx.ErrNotFound
	}
	m.items[item.ID] = item
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memRepo) SetQuantity(ctx context.Context, id string, quantity float64) error {
	item, ok := m.items[id]
	if !ok {
		return httpx.ErrNotFound
	}
	item.Quantity = quantity
	m.items[id] = item
	return nil
}

func TestClassify(t *testing.T) {
	cases := []struct {
		quantity float64
		min      float64
		want     Level
	}{
		{0, 5, LevelDepleted},
		{-1, 5, LevelDepleted},
		{3, 5, LevelLow},
		{5, 5, LevelLow},
		{10, 5, LevelNormal},
		{0.5, 0, LevelNormal},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Classify(tc.quantity, tc.min),
			"quantity=%v min=%v", tc.quantity, tc.min)
	}
}

func TestAdjust(t *testing.T) {
	svc := NewService(newMemRepo())

	item, err := svc.Create(context.Background(), SaveItemRequest{
		Name: "Papel couché 170g", Unit: "resma", Quantity: 10, MinQuantity: 5,
	})
	require.NoError(t, err)
	require.Equal(t, LevelNormal, item.Level)

	item, err = svc.Adjust(context.Background(), item.ID, AdjustRequest{Type: "add", Quantity: 4})
	require.NoError(t, err)
	require.Equal(t, 14.0, item.Quantity)

	item, err = svc.Adjust(context.Background(), item.ID, AdjustRequest{Type: "remove", Quantity: 11})
	require.NoError(t, err)
	require.Equal(t, 3.0, item.Quantity)
	require.Equal(t, LevelLow, item.Level)

	// Removing more than is left clamps at zero.
	item, err = svc.Adjust(context.Background(), item.ID, AdjustRequest{Type: "remove", Quantity: 100})
	require.NoError(t, err)
	require.Equal(t, 0.0, item.Quantity)
	require.Equal(t, LevelDepleted, item.Level)

	item, err = svc.Adjust(context.Background(), item.ID, AdjustRequest{Type: "set", Quantity: 25})
	require.NoError(t, err)
	require.Equal(t, 25.0, item.Quantity)
	require.Equal(t, LevelNormal, item.Level)

	_, err = svc.Adjust(context.Background(), item.ID, AdjustRequest{Type: "drain", Quantity: 1})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestLowStock(t *testing.T) {
	svc := NewService(newMemRepo())

	_, err := svc.Create(context.Background(), SaveItemRequest{Name: "Tinta ciano", Quantity: 0, MinQuantity: 2})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), SaveItemRequest{Name: "Tinta magenta", Quantity: 1, MinQuantity: 2})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), SaveItemRequest{Name: "Papel sulfite", Quantity: 50, MinQuantity: 10})
	require.NoError(t, err)

	low, err := svc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 2)

	count, err := svc.CountLow(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, count)
}
