package finance

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/grafica-erp/grafica-erp/internal/money"
	"github.com/grafica-erp/grafica-erp/internal/platform/httpx"
)

type memRepo struct {
	transactions map[string]Transaction
}

func newMemRepo() *memRepo {
	return &memRepo{transactions: map[string]Transaction{}}
}

func (m *memRepo) List(ctx context.Context) ([]Transaction, error) {
	var out []Transaction
	for _, tx := range m.transactions {
		out = append(out, tx)
	}
	return out, nil
}

func (m *memRepo) Get(ctx context.Context, id string) (*Transaction, error) {
	tx, ok := m.transactions[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return &tx, nil
}

func (m *memRepo) Create(ctx context.Context, tx Transaction) error {
	m.transactions[tx.ID] = tx
	return nil
}

func (m *memRepo) Update(ctx context.Context, tx Transaction) error {
	if _, ok := m.transactions[tx.ID]; !ok {
		return httpx.ErrNotFound
	}
	m.transactions[tx.ID] = tx
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.transactions[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.transactions, id)
	return nil
}

func (m *memRepo) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	count := 0
	for id, tx := range m.transactions {
		if tx.Status == StatusPending && !tx.DueDate.IsZero() && tx.DueDate.Before(now) {
			tx.Status = StatusOverdue
			m.transactions[id] = tx
			count++
		}
	}
	return count, nil
}

func newTestService(t *testing.T) (*Service, *memRepo) {
	t.Helper()
	repo := newMemRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return reportNow }
	return svc, repo
}

func TestRecordOrderPayment(t *testing.T) {
	svc, repo := newTestService(t)

	err := svc.RecordOrderPayment(context.Background(), "o1", "PED-2025-0003", money.FromFloat(211.80), reportNow)
	require.NoError(t, err)

	require.Len(t, repo.transactions, 1)
	var tx Transaction
	for _, v := range repo.transactions {
		tx = v
	}
	require.Equal(t, TypeIncome, tx.Type)
	require.Equal(t, StatusPaid, tx.Status)
	require.Equal(t, SalesCategory, tx.Category)
	require.Equal(t, "Pagamento do pedido PED-2025-0003", tx.Description)
	require.Equal(t, money.FromFloat(211.80), tx.Value)
	require.NotNil(t, tx.RelatedEntity)
	require.Equal(t, EntityRef{Type: "order", ID: "o1"}, *tx.RelatedEntity)
}

func TestCreateDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	tx, err := svc.Create(context.Background(), SaveTransactionRequest{
		Type:     TypeExpense,
		Category: "Aluguel",
		Value:    money.FromFloat(1200),
	})
	require.NoError(t, err)
	require.Equal(t, StatusPending, tx.Status)
	require.Equal(t, reportNow, tx.Date)

	_, err = svc.Create(context.Background(), SaveTransactionRequest{Type: "transfer", Category: "x"})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestListRejectsBadFilters(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.List(context.Background(), ListFilter{Period: "1year"})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.List(context.Background(), ListFilter{Type: "transfer"})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestMonthlyIgnoresMonthWithoutYear(t *testing.T) {
	svc, repo := newTestService(t)

	repo.transactions["t1"] = Transaction{ID: "t1", Type: TypeIncome, Status: StatusPaid,
		Category: "Vendas", Value: money.FromFloat(150), Date: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)}
	repo.transactions["t2"] = Transaction{ID: "t2", Type: TypeIncome, Status: StatusPaid,
		Category: "Vendas", Value: money.FromFloat(200), Date: time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)}

	// Month alone is ignored: the full report comes back.
	rows, err := svc.Monthly(context.Background(), ReportFilter{Month: time.February})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	rows, err = svc.Monthly(context.Background(), ReportFilter{Year: 2025, Month: time.February})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 2, rows[0].Month)
}

func TestMarkOverdueSweep(t *testing.T) {
	svc, repo := newTestService(t)

	due, err := svc.Create(context.Background(), SaveTransactionRequest{
		Type: TypeExpense, Category: "Fornecedores", Value: money.FromFloat(100),
		DueDate: reportNow.AddDate(0, 0, -1),
	})
	require.NoError(t, err)
	notDue, err := svc.Create(context.Background(), SaveTransactionRequest{
		Type: TypeExpense, Category: "Fornecedores", Value: money.FromFloat(100),
		DueDate: reportNow.AddDate(0, 0, 5),
	})
	require.NoError(t, err)

	count, err := svc.MarkOverdue(context.Background(), reportNow)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Equal(t, StatusOverdue, repo.transactions[due.ID].Status)
	require.Equal(t, StatusPending, repo.transactions[notDue.ID].Status)
}

func TestOverviewCapsRecent(t *testing.T) {
	svc, _ := newTestService(t)

	for i := 0; i < 7; i++ {
		_, err := svc.Create(context.Background(), SaveTransactionRequest{
			Type: TypeIncome, Status: StatusPaid, Category: "Vendas",
			Value: money.FromFloat(10), Date: reportNow.AddDate(0, 0, -i),
		})
		require.NoError(t, err)
	}

	overview, err := svc.GetOverview(context.Background())
	require.NoError(t, err)
	require.Len(t, overview.Recent, 5)
	require.Equal(t, money.FromFloat(70), overview.Summary.TotalIncome)
	for i := 1; i < len(overview.Recent); i++ {
		require.False(t, overview.Recent[i].Date.After(overview.Recent[i-1].Date))
	}
}

func TestExportMonthlyWritesWorkbook(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), SaveTransactionRequest{
		Type: TypeIncome, Status: StatusPaid, Category: "Vendas",
		Value: money.FromFloat(300), Date: time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportMonthly(context.Background(), &buf, ReportFilter{Year: 2025}))
	require.NotZero(t, buf.Len())
	// XLSX is a zip container.
	require.Equal(t, []byte{'P', 'K'}, buf.Bytes()[:2])
}
