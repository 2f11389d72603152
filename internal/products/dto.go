package products

import "github.com/grafica-erp/grafica-erp/internal/money"

// SaveProductRequest carries the full product payload for create and update.
type SaveProductRequest struct {
	Name        string      `json:"name" validate:"required"`
	Code        string      `json:"code"`
	Category    string      `json:"category"`
	Status      string      `json:"status" validate:"omitempty,oneof=active inactive"`
	Price       money.Money `json:"price"`
	Unit        string      `json:"unit"`
	Dimensions  string      `json:"dimensions"`
	Materials   string      `json:"materials"`
	Description string      `json:"description"`
}
