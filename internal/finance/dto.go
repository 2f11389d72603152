package finance

import (
	"time"

	"github.com/grafica-erp/grafica-erp/internal/money"
)

// SaveTransactionRequest carries a manual ledger entry for create and update.
type SaveTransactionRequest struct {
	Type        Type        `json:"type" validate:"required,oneof=income expense"`
	Status      Status      `json:"status" validate:"omitempty,oneof=pending paid overdue"`
	Category    string      `json:"category" validate:"required"`
	Description string      `json:"description"`
	Value       money.Money `json:"value"`
	Date        time.Time   `json:"date"`
	DueDate     time.Time   `json:"dueDate"`
}

// ListFilter narrows the transaction list. Zero values mean no filtering;
// Period is one of 30days, 90days or all.
type ListFilter struct {
	Type   Type
	Status Status
	Period string
}

// ReportFilter selects the monthly report range. Month only applies when a
// year is given.
type ReportFilter struct {
	Year  int
	Month time.Month
}
