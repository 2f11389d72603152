package orders

import (
	"time"

	"github.com/grafica-erp/grafica-erp/internal/documents"
	"github.com/grafica-erp/grafica-erp/internal/money"
)

type Status string

const (
	StatusPending      Status = "pending"
	StatusInProduction Status = "in_production"
	StatusReady        Status = "ready"
	StatusCompleted    Status = "completed"
	StatusCancelled    Status = "cancelled"
)

// statusTransitions is the production lifecycle. Cancellation is allowed from
// any non-terminal state; completed and cancelled are final.
var statusTransitions = map[Status][]Status{
	StatusPending:      {StatusInProduction, StatusCancelled},
	StatusInProduction: {StatusReady, StatusCancelled},
	StatusReady:        {StatusCompleted, StatusCancelled},
}

func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusInProduction, StatusReady, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) CanTransition(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// paymentTransitions runs independently of the production lifecycle. Paid is
// terminal, which is what guarantees at most one income transaction per order.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending: {PaymentPartial, PaymentPaid},
	PaymentPartial: {PaymentPaid},
}

func (s PaymentStatus) Known() bool {
	switch s {
	case PaymentPending, PaymentPartial, PaymentPaid:
		return true
	}
	return false
}

func (s PaymentStatus) CanTransition(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order shares the document structure with quotes and adds the production
// and payment lifecycles.
type Order struct {
	ID            string               `json:"id"`
	Number        string               `json:"number"`
	Client        documents.ClientRef  `json:"client"`
	Items         []documents.LineItem `json:"items"`
	Total         money.Money          `json:"total"`
	Date          time.Time            `json:"date"`
	Status        Status               `json:"status"`
	PaymentStatus PaymentStatus        `json:"paymentStatus"`
	PaymentMethod string               `json:"paymentMethod"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}
