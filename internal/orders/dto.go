package orders

import (
	"time"

	"github.com/grafica-erp/grafica-erp/internal/documents"
	"github.com/grafica-erp/grafica-erp/internal/money"
)

// ItemRequest mirrors the quote editor row; totals are recomputed server-side.
type ItemRequest struct {
	ProductID   string      `json:"productId" validate:"required"`
	ProductName string      `json:"productName"`
	Unit        string      `json:"unit"`
	Quantity    float64     `json:"quantity"`
	UnitPrice   money.Money `json:"unitPrice"`
}

// SaveOrderRequest carries the full document for create and update.
type SaveOrderRequest struct {
	ClientID      string        `json:"clientId" validate:"required"`
	Date          time.Time     `json:"date"`
	PaymentMethod string        `json:"paymentMethod" validate:"omitempty,oneof=pix cash card transfer boleto"`
	Items         []ItemRequest `json:"items" validate:"required,min=1,dive"`
}

// StatusRequest asks for a production lifecycle transition.
type StatusRequest struct {
	Status Status `json:"status" validate:"required"`
}

// PaymentRequest asks for a payment transition, optionally updating the
// method used.
type PaymentRequest struct {
	PaymentStatus PaymentStatus `json:"paymentStatus" validate:"required"`
	PaymentMethod string        `json:"paymentMethod"`
}

// ConvertResponse is returned when a quote becomes an order.
type ConvertResponse struct {
	Message string `json:"message"`
	Order   *Order `json:"order"`
}

func toLineItems(reqs []ItemRequest) []documents.LineItem {
	items := make([]documents.LineItem, 0, len(reqs))
	for _, req := range reqs {
		items = append(items, documents.LineItem{
			ProductID:   req.ProductID,
			ProductName: req.ProductName,
			Unit:        req.Unit,
			Quantity:    req.Quantity,
			UnitPrice:   req.UnitPrice,
		})
	}
	return items
}
