package quotes

import (
	"time"

	"github.com/grafica-erp/grafica-erp/internal/documents"
	"github.com/grafica-erp/grafica-erp/internal/money"
)

// ItemRequest is one editor row. Totals submitted by the client are ignored;
// the server revalues every line.
type ItemRequest struct {
	ProductID   string      `json:"productId" validate:"required"`
	ProductName string      `json:"productName"`
	Unit        string      `json:"unit"`
	Quantity    float64     `json:"quantity"`
	UnitPrice   money.Money `json:"unitPrice"`
}

// SaveQuoteRequest carries the full document. Saves replace the whole quote,
// items included; there is no per-field patch.
type SaveQuoteRequest struct {
	ClientID   string        `json:"clientId" validate:"required"`
	Date       time.Time     `json:"date"`
	ValidUntil time.Time     `json:"validUntil"`
	Items      []ItemRequest `json:"items" validate:"required,min=1,dive"`
}

// StatusRequest asks for a lifecycle transition.
type StatusRequest struct {
	Status Status `json:"status" validate:"required"`
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
