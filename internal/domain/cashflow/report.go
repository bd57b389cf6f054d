package cashflow

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/diillson/finanzas-dashboard-go/internal/domain/entity"
)

// BuildReport flattens the context into the concept-by-month matrix: income
// rows, expense rows, then total income, total outcome, net and cumulative.
func BuildReport(c *Context, generatedAt time.Time) entity.DashboardReport {
	report := entity.DashboardReport{
		GeneratedAt: generatedAt,
		Lifetime:    c.Lifetime,
	}
	phases := make([]CellPhase, len(c.Months))
	for i, m := range c.Months {
		phases[i] = c.Resolver.PhaseAt(i)
		report.Columns = append(report.Columns, entity.ReportColumn{
			MonthID:   m.ID,
			MonthName: m.MonthName,
			Phase:     phases[i].String(),
			Projected: phases[i].ShowsProjection(),
		})
	}

	conceptRows := func(kind string, names []string) {
		for _, name := range names {
			row := entity.ReportRow{Kind: kind, Label: name, Cells: make([]entity.ReportCell, len(c.Months))}
			for i := range c.Months {
				cell := c.Resolver.Resolve(name, i)
				if cell.Entry != nil && row.ConceptID == 0 {
					row.ConceptID = cell.Entry.ID
				}
				row.Cells[i] = entity.ReportCell{
					Real:      valuePtr(cell.Real),
					Projected: valuePtr(cell.Projected),
					Mismatch:  cell.HasMismatch(),
				}
			}
			report.Rows = append(report.Rows, row)
		}
	}
	conceptRows(entity.RowIncome, c.Concepts.Income)
	conceptRows(entity.RowExpense, c.Concepts.Expense)

	summaryRow := func(kind, label string, pick func(i int) (decimal.Decimal, decimal.Decimal)) {
		row := entity.ReportRow{Kind: kind, Label: label, Cells: make([]entity.ReportCell, len(c.Months))}
		for i := range c.Months {
			booked, projected := pick(i)
			cell := entity.ReportCell{Real: amountPtr(booked)}
			if phases[i].ShowsProjection() {
				cell.Projected = amountPtr(projected)
			}
			row.Cells[i] = cell
		}
		report.Rows = append(report.Rows, row)
	}
	summaryRow(entity.RowTotalIncome, "Total Ingresos", func(i int) (decimal.Decimal, decimal.Decimal) {
		s := c.Totals.ForMonth(i)
		return s.Real.Income, s.Projected.Income
	})
	summaryRow(entity.RowTotalOutcome, "Total Gastos", func(i int) (decimal.Decimal, decimal.Decimal) {
		s := c.Totals.ForMonth(i)
		return s.Real.Outcome, s.Projected.Outcome
	})
	summaryRow(entity.RowNet, "Ganancia Neta", func(i int) (decimal.Decimal, decimal.Decimal) {
		s := c.Totals.ForMonth(i)
		return s.Real.Net, s.Projected.Net
	})
	summaryRow(entity.RowCumulative, "Total Acumulado", func(i int) (decimal.Decimal, decimal.Decimal) {
		cum := c.Totals.CumulativeAt(i)
		return cum.Real, cum.Projected
	})

	return report
}

func valuePtr(v Value) *decimal.Decimal {
	if !v.Present {
		return nil
	}
	return amountPtr(v.Amount)
}

func amountPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
