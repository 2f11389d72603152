package quotes

import (
	"time"

	"github.com/grafica-erp/grafica-erp/internal/documents"
	"github.com/grafica-erp/grafica-erp/internal/money"
)

type Status string

const (
	StatusValid    Status = "valid"
	StatusExpired  Status = "expired"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// transitions is the explicit lifecycle table. Expired, approved and rejected
// are terminal.
var transitions = map[Status][]Status{
	StatusValid: {StatusExpired, StatusApproved, StatusRejected},
}

// Known reports whether s is a recognised status value.
func (s Status) Known() bool {
	switch s {
	case StatusValid, StatusExpired, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// CanTransition reports whether the lifecycle allows moving from s to next.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Quote is a priced proposal. Total is derived from the items and recomputed
// on every save; it is never accepted from the client.
type Quote struct {
	ID         string               `json:"id"`
	Number     string               `json:"number"`
	Client     documents.ClientRef  `json:"client"`
	Items      []documents.LineItem `json:"items"`
	Total      money.Money          `json:"total"`
	Date       time.Time            `json:"date"`
	ValidUntil time.Time            `json:"validUntil"`
	Status     Status               `json:"status"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}
