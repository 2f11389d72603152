package stock

// SaveItemRequest carries the item fields for create and update.
type SaveItemRequest struct {
	Name        string  `json:"name" validate:"required"`
	Unit        string  `json:"unit"`
	Quantity    float64 `json:"quantity" validate:"gte=0"`
	MinQuantity float64 `json:"minQuantity" validate:"gte=0"`
	Supplier    string  `json:"supplier"`
}

// AdjustRequest moves an item's quantity: add receives material, remove
// consumes it, set overwrites the count after a physical inventory.
type AdjustRequest struct {
	Type     string  `json:"type" validate:"required,oneof=add remove set"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
	Reason   string  `json:"reason"`
}

// AdjustResponse echoes the movement applied along with the updated item.
type AdjustResponse struct {
	Item       *Item         `json:"item"`
	Adjustment AdjustRequest `json:"adjustment"`
}
