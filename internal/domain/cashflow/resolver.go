package cashflow

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/diillson/finanzas-dashboard-go/internal/domain/entity"
)

// CellPhase classifies a month column relative to the wall clock.
type CellPhase int

const (
	PhasePast CellPhase = iota
	PhaseCurrent
	PhaseFuture
)

func (p CellPhase) String() string {
	switch p {
	case PhaseCurrent:
		return "current"
	case PhaseFuture:
		return "future"
	default:
		return "past"
	}
}

// ShowsProjection reports whether the column has a projected sub-column.
func (p CellPhase) ShowsProjection() bool {
	return p != PhasePast
}

// Value is an amount that may be absent. Absent means "no data" and is
// rendered as a dash, never as a zero amount.
type Value struct {
	Amount  decimal.Decimal
	Present bool
}

// Some wraps a present amount.
func Some(d decimal.Decimal) Value { return Value{Amount: d, Present: true} }

// None is the "no data" sentinel.
var None = Value{}

// OrZero returns the amount, or zero when absent.
func (v Value) OrZero() decimal.Decimal {
	if !v.Present {
		return decimal.Zero
	}
	return v.Amount
}

// Cell is what to render for one (concept, month) pair.
type Cell struct {
	Phase     CellPhase
	Real      Value
	Projected Value
	// Entry is the underlying concept entry, nil when the month has none.
	Entry *entity.ConceptEntry
	Month *entity.MonthRecord
}

// Clock returns "now". Every resolution calls it again.
type Clock func() time.Time

// Resolver resolves cells over a snapshot of loaded months.
type Resolver struct {
	months []entity.MonthRecord
	now    Clock
}

// NewResolver cria um resolver sobre o snapshot informado.
func NewResolver(months []entity.MonthRecord, now Clock) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{months: months, now: now}
}

// PhaseOf classifies month against the current wall-clock month.
// Records whose name does not parse are treated as past.
func (r *Resolver) PhaseOf(month entity.MonthRecord) CellPhase {
	return phaseOf(month, entity.MonthOf(r.now()))
}

// PhaseAt is PhaseOf for a loaded month index.
func (r *Resolver) PhaseAt(monthIndex int) CellPhase {
	if monthIndex < 0 || monthIndex >= len(r.months) {
		return PhasePast
	}
	return r.PhaseOf(r.months[monthIndex])
}

func phaseOf(month entity.MonthRecord, today entity.MonthDate) CellPhase {
	d, err := month.Date()
	if err != nil {
		return PhasePast
	}
	switch {
	case d.Before(today):
		return PhasePast
	case month.IsCurrentMonth || d.Compare(today) == 0:
		return PhaseCurrent
	default:
		return PhaseFuture
	}
}

// Resolve returns the real and, outside past months, projected value of a
// concept in the month at monthIndex. A missing entry yields None, not zero.
func (r *Resolver) Resolve(conceptName string, monthIndex int) Cell {
	if monthIndex < 0 || monthIndex >= len(r.months) {
		return Cell{}
	}
	month := &r.months[monthIndex]
	cell := Cell{Phase: r.PhaseOf(*month), Month: month}

	entry, ok := month.Concept(conceptName)
	if !ok {
		return cell
	}
	cell.Entry = &entry
	cell.Real = Some(entry.Balance)

	if cell.Phase == PhasePast {
		return cell
	}
	if entry.ProjectedBalance != nil {
		cell.Projected = Some(*entry.ProjectedBalance)
	}
	return cell
}

// HasMismatch applies the mismatch rule to a resolved cell.
func (c Cell) HasMismatch() bool {
	return Mismatch(c.Real, c.Projected, c.Phase == PhaseCurrent)
}

// MarkCurrentMonth recomputes IsCurrentMonth from each record's name and now,
// overriding the flag the backend sent.
func MarkCurrentMonth(records []entity.MonthRecord, now time.Time) {
	today := entity.MonthOf(now)
	for i := range records {
		d, err := records[i].Date()
		records[i].IsCurrentMonth = err == nil && d.Compare(today) == 0
	}
}
