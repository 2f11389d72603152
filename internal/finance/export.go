package finance

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/grafica-erp/grafica-erp/internal/money"
)

var monthNames = [...]string{"", "Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro"}

var brl = message.NewPrinter(language.BrazilianPortuguese)

func formatBRL(v money.Money) string {
	return brl.Sprintf("R$ %.2f", v.Float())
}

// ExportMonthly writes the monthly report as a spreadsheet, one row per
// month plus a totals row.
func (s *Service) ExportMonthly(ctx context.Context, w io.Writer, filter ReportFilter) error {
	rows, err := s.Monthly(ctx, filter)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Relatório Mensal"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Mês", "Receitas", "Despesas", "Saldo"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("finance: export header: %w", err)
		}
	}

	var totalIncome, totalExpense money.Money
	for i, row := range rows {
		values := []any{
			fmt.Sprintf("%s %d", monthNames[row.Month], row.Year),
			formatBRL(row.Income),
			formatBRL(row.Expense),
			formatBRL(row.Balance),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("finance: export row: %w", err)
			}
		}
		totalIncome = totalIncome.Add(row.Income)
		totalExpense = totalExpense.Add(row.Expense)
	}

	totalRow := len(rows) + 2
	totals := []any{"Total", formatBRL(totalIncome), formatBRL(totalExpense),
		formatBRL(totalIncome.Sub(totalExpense))}
	for j, v := range totals {
		cell, _ := excelize.CoordinatesToCellName(j+1, totalRow)
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("finance: export totals: %w", err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "D", 18); err != nil {
		return fmt.Errorf("finance: export width: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("finance: export write: %w", err)
	}
	return nil
}
