package cashflow

import (
	"github.com/shopspring/decimal"

	"github.com/diillson/finanzas-dashboard-go/internal/domain/entity"
)

// Series is one income/outcome/net triple.
type Series struct {
	Income  decimal.Decimal `json:"income"`
	Outcome decimal.Decimal `json:"outcome"`
	Net     decimal.Decimal `json:"net"`
}

// MonthSummary holds the real and projected series of a month.
type MonthSummary struct {
	Real      Series `json:"real"`
	Projected Series `json:"projected"`
	// FromBackend is true when the values come from MonthTotals.
	FromBackend bool `json:"from_backend"`
}

// CumulativeSource tells where a cumulative figure was taken from.
type CumulativeSource string

const (
	CumulativeFromBackend  CumulativeSource = "backend"
	CumulativeFromLifetime CumulativeSource = "lifetime"
	CumulativeFromRunning  CumulativeSource = "running"
)

// Cumulative is the running balance through a month.
type Cumulative struct {
	Real      decimal.Decimal  `json:"real"`
	Projected decimal.Decimal  `json:"projected"`
	Source    CumulativeSource `json:"source"`
}

// Totals computes summary rows over a snapshot of loaded months.
type Totals struct {
	months   []entity.MonthRecord
	lifetime *entity.LifetimeTotals
}

// NewTotals cria a calculadora; lifetime pode ser nil.
func NewTotals(months []entity.MonthRecord, lifetime *entity.LifetimeTotals) *Totals {
	return &Totals{months: months, lifetime: lifetime}
}

// ForMonth returns the month's totals, preferring backend MonthTotals and
// falling back to summing concept entries.
func (t *Totals) ForMonth(monthIndex int) MonthSummary {
	if monthIndex < 0 || monthIndex >= len(t.months) {
		return MonthSummary{}
	}
	month := t.months[monthIndex]
	if mt := month.Totals; mt != nil {
		return MonthSummary{
			Real: Series{
				Income:  mt.TotalIncome,
				Outcome: mt.TotalOutcome,
				Net:     mt.NetProfit,
			},
			Projected: Series{
				Income:  orDefault(mt.TotalIncomeProjected, mt.TotalIncome),
				Outcome: orDefault(mt.TotalOutcomeProjected, mt.TotalOutcome),
				Net:     orDefault(mt.NetProfitProjected, mt.NetProfit),
			},
			FromBackend: true,
		}
	}
	return MonthSummary{
		Real:      SumConcepts(month.Concepts, false),
		Projected: SumConcepts(month.Concepts, true),
	}
}

// SumConcepts adds up entry balances by classification. Outcome already carries
// its sign, so net is income + outcome. With projected set, an entry's projected
// balance is used when present and its real balance otherwise.
func SumConcepts(entries []entity.ConceptEntry, projected bool) Series {
	income, outcome := decimal.Zero, decimal.Zero
	for _, c := range entries {
		v := c.Balance
		if projected && c.ProjectedBalance != nil {
			v = *c.ProjectedBalance
		}
		if c.IsIncome {
			income = income.Add(v)
		} else {
			outcome = outcome.Add(v)
		}
	}
	return Series{Income: income, Outcome: outcome, Net: income.Add(outcome)}
}

// CumulativeAt returns the running total through monthIndex.
//
// The backend cumulative_total wins when present. Otherwise, with lifetime
// totals available, the figure is the lifetime net minus the net of every
// loaded month after monthIndex: the lifetime total is anchored at "now", not
// at the oldest loaded month. Without either, it is the sum of nets from the
// first loaded month.
func (t *Totals) CumulativeAt(monthIndex int) Cumulative {
	if monthIndex < 0 || monthIndex >= len(t.months) {
		return Cumulative{Source: CumulativeFromRunning}
	}
	if mt := t.months[monthIndex].Totals; mt != nil && mt.CumulativeTotal != nil {
		booked := *mt.CumulativeTotal
		return Cumulative{
			Real:      booked,
			Projected: orDefault(mt.CumulativeTotalProjected, booked),
			Source:    CumulativeFromBackend,
		}
	}
	if t.lifetime != nil {
		total := t.lifetime.Net()
		for j := monthIndex + 1; j < len(t.months); j++ {
			total = total.Sub(t.ForMonth(j).Real.Net)
		}
		return Cumulative{Real: total, Projected: total, Source: CumulativeFromLifetime}
	}
	booked, projected := t.running(monthIndex)
	return Cumulative{Real: booked, Projected: projected, Source: CumulativeFromRunning}
}

// RunningTotal is the plain sum of real nets from the first loaded month
// through monthIndex, inclusive.
func (t *Totals) RunningTotal(monthIndex int) decimal.Decimal {
	booked, _ := t.running(monthIndex)
	return booked
}

func (t *Totals) running(monthIndex int) (decimal.Decimal, decimal.Decimal) {
	booked, projected := decimal.Zero, decimal.Zero
	for j := 0; j <= monthIndex && j < len(t.months); j++ {
		s := t.ForMonth(j)
		booked = booked.Add(s.Real.Net)
		projected = projected.Add(s.Projected.Net)
	}
	return booked, projected
}

// GrandTotal is the running total across every loaded month.
func (t *Totals) GrandTotal() decimal.Decimal {
	return t.RunningTotal(len(t.months) - 1)
}

func orDefault(p *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if p == nil {
		return def
	}
	return *p
}

// Status is the colour class of a summary value.
type Status int

const (
	StatusNeutral Status = iota
	StatusGood
	StatusBad
)

// SignStatus is used for net and cumulative rows: non-negative is good.
func SignStatus(v decimal.Decimal) Status {
	if v.IsNegative() {
		return StatusBad
	}
	return StatusGood
}

// ThreeWayStatus is used for income and outcome rows: zero stays neutral.
func ThreeWayStatus(v decimal.Decimal) Status {
	switch v.Sign() {
	case 1:
		return StatusGood
	case -1:
		return StatusBad
	}
	return StatusNeutral
}
