package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/grafica-erp/grafica-erp/internal/documents"
	"github.com/grafica-erp/grafica-erp/internal/finance"
	"github.com/grafica-erp/grafica-erp/internal/money"
	"github.com/grafica-erp/grafica-erp/internal/orders"
)

// deliveryLeadDays is the production lead time used to project delivery
// dates for the schedule panel.
const deliveryLeadDays = 7

const cacheKey = "dashboard:snapshot"

type OrderBook interface {
	List(ctx context.Context) ([]orders.Order, error)
}

type QuoteBook interface {
	CountActive(ctx context.Context) (int, error)
}

type StockRoom interface {
	CountLow(ctx context.Context) (int, error)
}

type Ledger interface {
	Summary(ctx context.Context) (finance.Summary, error)
}

type Stats struct {
	TotalSales    money.Money `json:"totalSales"`
	PendingOrders int         `json:"pendingOrders"`
	ActiveQuotes  int         `json:"activeQuotes"`
	LowStockItems int         `json:"lowStockItems"`
}

// Delivery is an order heading for handoff, with its projected date.
type Delivery struct {
	OrderID      string              `json:"orderId"`
	Number       string              `json:"number"`
	Client       documents.ClientRef `json:"client"`
	Status       orders.Status       `json:"status"`
	DeliveryDate time.Time           `json:"deliveryDate"`
}

type Snapshot struct {
	Stats              Stats          `json:"stats"`
	RecentOrders       []orders.Order `json:"recentOrders"`
	UpcomingDeliveries []Delivery     `json:"upcomingDeliveries"`
	GeneratedAt        time.Time      `json:"generatedAt"`
}

type Service struct {
	orders   OrderBook
	quotes   QuoteBook
	stock    StockRoom
	ledger   Ledger
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(orderBook OrderBook, quoteBook QuoteBook, stockRoom StockRoom, ledger Ledger,
	cache *redis.Client, cacheTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		orders:   orderBook,
		quotes:   quoteBook,
		stock:    stockRoom,
		ledger:   ledger,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// GetSnapshot serves the cached snapshot when fresh; a miss recomputes and
// repopulates. Cache failures degrade to a recompute, never to an error.
func (s *Service) GetSnapshot(ctx context.Context) (*Snapshot, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var snap Snapshot
			if err := json.Unmarshal(raw, &snap); err == nil {
				return &snap, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("dashboard cache read failed", slog.Any("error", err))
		}
	}

	snap, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(snap); err == nil {
			if err := s.cache.Set(ctx, cacheKey, raw, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("dashboard cache write failed", slog.Any("error", err))
			}
		}
	}
	return snap, nil
}

func (s *Service) compute(ctx context.Context) (*Snapshot, error) {
	allOrders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	activeQuotes, err := s.quotes.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.stock.CountLow(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := s.ledger.Summary(ctx)
	if err != nil {
		return nil, err
	}

	pending := 0
	for _, o := range allOrders {
		if o.Status == orders.StatusPending {
			pending++
		}
	}

	recent := make([]orders.Order, len(allOrders))
	copy(recent, allOrders)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].Date.After(recent[j].Date) })
	if len(recent) > 5 {
		recent = recent[:5]
	}

	var upcoming []Delivery
	for _, o := range allOrders {
		if o.Status != orders.StatusInProduction && o.Status != orders.StatusReady {
			continue
		}
		upcoming = append(upcoming, Delivery{
			OrderID:      o.ID,
			Number:       o.Number,
			Client:       o.Client,
			Status:       o.Status,
			DeliveryDate: o.Date.AddDate(0, 0, deliveryLeadDays),
		})
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].DeliveryDate.Before(upcoming[j].DeliveryDate)
	})
	if len(upcoming) > 5 {
		upcoming = upcoming[:5]
	}

	return &Snapshot{
		Stats: Stats{
			TotalSales:    summary.TotalIncome,
			PendingOrders: pending,
			ActiveQuotes:  activeQuotes,
			LowStockItems: lowStock,
		},
		RecentOrders:       recent,
		UpcomingDeliveries: upcoming,
		GeneratedAt:        s.now().UTC(),
	}, nil
}
