package cashflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/diillson/finanzas-dashboard-go/internal/domain/entity"
)

func TestBuildReportLayout(t *testing.T) {
	months := []entity.MonthRecord{
		month(1, "July 2025", income("Salary", "1000"), expense("Rent", "-400")),
		month(2, "August 2025",
			projected(income("Salary", "1000"), "1200"),
			projected(expense("Rent", "-400"), "-400")),
	}
	ctx := NewContext(months, nil, fixedClock(august2025))
	report := BuildReport(ctx, august2025)

	require.Len(t, report.Columns, 2)
	require.False(t, report.Columns[0].Projected)
	require.True(t, report.Columns[1].Projected)
	require.Equal(t, PhaseCurrent.String(), report.Columns[1].Phase)

	kinds := make([]string, len(report.Rows))
	for i, row := range report.Rows {
		kinds[i] = row.Kind
	}
	require.Equal(t, []string{
		entity.RowIncome, entity.RowExpense,
		entity.RowTotalIncome, entity.RowTotalOutcome, entity.RowNet, entity.RowCumulative,
	}, kinds)

	salary := report.Rows[0]
	require.Nil(t, salary.Cells[0].Projected)
	require.True(t, salary.Cells[1].Projected.Equal(dec("1200")))
	require.True(t, salary.Cells[1].Mismatch)
	require.False(t, report.Rows[1].Cells[1].Mismatch)

	net := report.Rows[4]
	require.True(t, net.Cells[0].Real.Equal(dec("600")))
	require.Nil(t, net.Cells[0].Projected)
	require.True(t, net.Cells[1].Projected.Equal(dec("800")))

	cumulative := report.Rows[5]
	require.True(t, cumulative.Cells[1].Real.Equal(dec("1200")))
}

func TestBuildReportMissingConceptIsNil(t *testing.T) {
	months := []entity.MonthRecord{
		month(1, "June 2025", income("Bonus", "50")),
		month(2, "July 2025"),
	}
	report := BuildReport(NewContext(months, nil, fixedClock(august2025)), time.Time{})
	require.NotNil(t, report.Rows[0].Cells[0].Real)
	require.Nil(t, report.Rows[0].Cells[1].Real)
}
