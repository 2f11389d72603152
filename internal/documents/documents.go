// Package documents holds the line-item engine shared by quotes and orders.
// A document's grand total is never stored independently of its lines; every
// mutation goes through Normalize so the stored total is always the sum of
// round(quantity * unitPrice) over the current lines.
package documents

import (
	"math"

	"github.com/grafica-erp/grafica-erp/internal/money"
)

// ClientRef is the client snapshot carried on a document.
type ClientRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// LineItem is one product reference plus quantity and pricing inside a
// quote or order. UnitPrice is a snapshot, editable independently of the
// catalog price.
type LineItem struct {
	ProductID   string      `json:"productId"`
	ProductName string      `json:"productName"`
	Unit        string      `json:"unit"`
	Quantity    float64     `json:"quantity"`
	UnitPrice   money.Money `json:"unitPrice"`
	Total       money.Money `json:"totalPrice"`
}

// CatalogProduct is the slice of the product catalog the engine needs to
// build a default line.
type CatalogProduct struct {
	ID    string
	Name  string
	Unit  string
	Price money.Money
}

// LineTotal values a single line: quantity times unit price, rounded
// half-up to the centavo. Non-finite or negative quantities count as zero.
func LineTotal(quantity float64, unitPrice money.Money) money.Money {
	return unitPrice.Scale(quantity)
}

// Normalize recomputes every line's total in place and returns the grand
// total. Quantities are clamped so the stored lines satisfy the same
// invariant the valuation applies.
func Normalize(items []LineItem) money.Money {
	for i := range items {
		items[i].Quantity = clampQuantity(items[i].Quantity)
		items[i].Total = LineTotal(items[i].Quantity, items[i].UnitPrice)
	}
	return Sum(items)
}

// Sum reduces the lines to a grand total without touching them. Insertion
// order is preserved by the caller; summation is order-independent on
// integer centavos.
func Sum(items []LineItem) money.Money {
	var total money.Money
	for _, item := range items {
		total = total.Add(item.Total)
	}
	return total
}

// RemoveAt drops the line at index i, shifting later lines down one
// position. Out-of-range indexes leave the slice untouched.
func RemoveAt(items []LineItem, i int) []LineItem {
	if i < 0 || i >= len(items) {
		return items
	}
	return append(items[:i], items[i+1:]...)
}

// NewDefaultLine builds the line appended when the user adds a row:
// the first catalog product with quantity 1. Which product is "first"
// depends on catalog order, same as the console behaved.
func NewDefaultLine(catalog []CatalogProduct) (LineItem, bool) {
	if len(catalog) == 0 {
		return LineItem{}, false
	}
	first := catalog[0]
	return LineItem{
		ProductID:   first.ID,
		ProductName: first.Name,
		Unit:        first.Unit,
		Quantity:    1,
		UnitPrice:   first.Price,
		Total:       LineTotal(1, first.Price),
	}, true
}

func clampQuantity(q float64) float64 {
	if math.IsNaN(q) || math.IsInf(q, 0) || q < 0 {
		return 0
	}
	return q
}
