package finance

import (
	"sort"
	"time"

	"github.com/grafica-erp/grafica-erp/internal/money"
)

// pendingHorizonDays bounds the receivables and payables shown in the
// summary: only entries due inside this window count.
const pendingHorizonDays = 30

// Summary is the cash position: paid entries drive the totals, pending
// entries due soon drive the outlook.
type Summary struct {
	TotalIncome    money.Money `json:"totalIncome"`
	TotalExpense   money.Money `json:"totalExpense"`
	Balance        money.Money `json:"balance"`
	PendingIncome  money.Money `json:"pendingIncome"`
	PendingExpense money.Money `json:"pendingExpense"`
}

func Summarize(transactions []Transaction, now time.Time) Summary {
	horizon := now.AddDate(0, 0, pendingHorizonDays)
	var s Summary
	for _, tx := range transactions {
		switch {
		case tx.Status == StatusPaid && tx.Type == TypeIncome:
			s.TotalIncome = s.TotalIncome.Add(tx.Value)
		case tx.Status == StatusPaid && tx.Type == TypeExpense:
			s.TotalExpense = s.TotalExpense.Add(tx.Value)
		case tx.Status == StatusPending && !tx.DueDate.IsZero() && !tx.DueDate.After(horizon):
			if tx.Type == TypeIncome {
				s.PendingIncome = s.PendingIncome.Add(tx.Value)
			} else {
				s.PendingExpense = s.PendingExpense.Add(tx.Value)
			}
		}
	}
	s.Balance = s.TotalIncome.Sub(s.TotalExpense)
	return s
}

// MonthlyRow aggregates the paid entries of one calendar month.
type MonthlyRow struct {
	Year    int         `json:"year"`
	Month   int         `json:"month"`
	Income  money.Money `json:"income"`
	Expense money.Money `json:"expense"`
	Balance money.Money `json:"balance"`
}

// MonthlyReport groups paid transactions by calendar month, oldest first.
// The month filter only applies together with a year.
func MonthlyReport(transactions []Transaction, filter ReportFilter) []MonthlyRow {
	type key struct {
		year  int
		month time.Month
	}
	buckets := map[key]*MonthlyRow{}
	for _, tx := range transactions {
		if tx.Status != StatusPaid || tx.Date.IsZero() {
			continue
		}
		year, month := tx.Date.Year(), tx.Date.Month()
		if filter.Year != 0 {
			if year != filter.Year {
				continue
			}
			if filter.Month != 0 && month != filter.Month {
				continue
			}
		}
		k := key{year, month}
		row, ok := buckets[k]
		if !ok {
			row = &MonthlyRow{Year: year, Month: int(month)}
			buckets[k] = row
		}
		if tx.Type == TypeIncome {
			row.Income = row.Income.Add(tx.Value)
		} else {
			row.Expense = row.Expense.Add(tx.Value)
		}
	}

	rows := make([]MonthlyRow, 0, len(buckets))
	for _, row := range buckets {
		row.Balance = row.Income.Sub(row.Expense)
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return rows[i].Month < rows[j].Month
	})
	return rows
}

// CategoryRow aggregates the paid entries of one category.
type CategoryRow struct {
	Category string      `json:"category"`
	Type     Type        `json:"type"`
	Total    money.Money `json:"total"`
	Count    int         `json:"count"`
}

// CategoryReport groups paid transactions by category name, exact match,
// sorted alphabetically. An empty txType keeps both sides of the ledger.
func CategoryReport(transactions []Transaction, txType Type) []CategoryRow {
	type key struct {
		category string
		txType   Type
	}
	buckets := map[key]*CategoryRow{}
	for _, tx := range transactions {
		if tx.Status != StatusPaid {
			continue
		}
		if txType != "" && tx.Type != txType {
			continue
		}
		k := key{tx.Category, tx.Type}
		row, ok := buckets[k]
		if !ok {
			row = &CategoryRow{Category: tx.Category, Type: tx.Type}
			buckets[k] = row
		}
		row.Total = row.Total.Add(tx.Value)
		row.Count++
	}

	rows := make([]CategoryRow, 0, len(buckets))
	for _, row := range buckets {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Category != rows[j].Category {
			return rows[i].Category < rows[j].Category
		}
		return rows[i].Type < rows[j].Type
	})
	return rows
}

// Filter narrows a transaction list in memory. Undated entries drop out when
// a bounded period is requested.
func Filter(transactions []Transaction, filter ListFilter, now time.Time) []Transaction {
	var cutoff time.Time
	switch filter.Period {
	case "30days":
		cutoff = now.AddDate(0, 0, -30)
	case "90days":
		cutoff = now.AddDate(0, 0, -90)
	}

	var out []Transaction
	for _, tx := range transactions {
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		if filter.Status != "" && tx.Status != filter.Status {
			continue
		}
		if !cutoff.IsZero() {
			if tx.Date.IsZero() || tx.Date.Before(cutoff) {
				continue
			}
		}
		out = append(out, tx)
	}
	return out
}
