package finance

import (
	"time"

	"github.com/grafica-erp/grafica-erp/internal/money"
)

type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Known() bool {
	return t == TypeIncome || t == TypeExpense
}

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// EntityRef ties a transaction back to the record that produced it, e.g. the
// order whose payment booked an income.
type EntityRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type Transaction struct {
	ID            string      `json:"id"`
	Type          Type        `json:"type"`
	Status        Status      `json:"status"`
	Category      string      `json:"category"`
	Description   string      `json:"description"`
	Value         money.Money `json:"value"`
	Date          time.Time   `json:"date"`
	DueDate       time.Time   `json:"dueDate,omitzero"`
	RelatedEntity *EntityRef  `json:"relatedEntity,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}
