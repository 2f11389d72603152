package stock

import "time"

type Level string

const (
	LevelDepleted Level = "depleted"
	LevelLow      Level = "low"
	LevelNormal   Level = "normal"
)

// Classify buckets an item by its remaining quantity. Sitting exactly on the
// minimum still counts as low.
func Classify(quantity, minQuantity float64) Level {
	switch {
	case quantity <= 0:
		return LevelDepleted
	case quantity <= minQuantity:
		return LevelLow
	default:
		return LevelNormal
	}
}

// Item is a raw material or consumable tracked by the shop. Level is computed
// from quantity and minQuantity on the way out, never stored.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Unit        string    `json:"unit"`
	Quantity    float64   `json:"quantity"`
	MinQuantity float64   `json:"minQuantity"`
	Supplier    string    `json:"supplier,omitempty"`
	Level       Level     `json:"level"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (i *Item) classify() {
	i.Level = Classify(i.Quantity, i.MinQuantity)
}
