package products

import (
	"time"

	"github.com/grafica-erp/grafica-erp/internal/money"
)

// Product is a catalog entry. The price here is a default; documents snapshot
// it into their line items and may edit it independently.
type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Code        string      `json:"code"`
	Category    string      `json:"category"`
	Status      string      `json:"status"`
	Price       money.Money `json:"price"`
	Unit        string      `json:"unit"`
	Dimensions  string      `json:"dimensions"`
	Materials   string      `json:"materials"`
	Description string      `json:"description"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
