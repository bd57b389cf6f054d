package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Row kinds of a DashboardReport.
const (
	RowIncome       = "income"
	RowExpense      = "expense"
	RowTotalIncome  = "total_income"
	RowTotalOutcome = "total_outcome"
	RowNet          = "net"
	RowCumulative   = "cumulative"
)

// ReportColumn is one month column of the dashboard matrix.
type ReportColumn struct {
	MonthID   int64  `json:"month_id"`
	MonthName string `json:"month_name"`
	Phase     string `json:"phase"`
	// Projected is true when the column has a projected sub-column.
	Projected bool `json:"projected"`
}

// ReportCell is one (row, month) value pair. Nil means "no data".
type ReportCell struct {
	Real      *decimal.Decimal `json:"real"`
	Projected *decimal.Decimal `json:"projected,omitempty"`
	Mismatch  bool             `json:"mismatch,omitempty"`
}

// ReportRow is one concept or summary row.
type ReportRow struct {
	Kind      string       `json:"kind"`
	Label     string       `json:"label"`
	ConceptID int64        `json:"concept_id,omitempty"`
	Cells     []ReportCell `json:"cells"`
}

// DashboardReport is the rendered concept-by-month matrix, shared by the
// console renderer and the exporters.
type DashboardReport struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Columns     []ReportColumn  `json:"columns"`
	Rows        []ReportRow     `json:"rows"`
	Lifetime    *LifetimeTotals `json:"lifetime,omitempty"`
}

// DashboardSnapshot is the last good payload fetched from the backend.
type DashboardSnapshot struct {
	TakenAt  time.Time       `json:"taken_at"`
	Months   []MonthRecord   `json:"months"`
	Lifetime *LifetimeTotals `json:"lifetime,omitempty"`
}
