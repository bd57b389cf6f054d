package cashflow

import (
	"github.com/diillson/finanzas-dashboard-go/internal/domain/entity"
)

// Context is the read-only bundle handed to row renderers. It is built from a
// single store snapshot so every derived value agrees with the same months.
type Context struct {
	Months   []entity.MonthRecord
	Concepts ConceptIndex
	Resolver *Resolver
	Totals   *Totals
	Lifetime *entity.LifetimeTotals
}

// NewContext derives everything from months. Nothing is cached across calls;
// building a new Context after each store change is always safe.
func NewContext(months []entity.MonthRecord, lifetime *entity.LifetimeTotals, now Clock) *Context {
	return &Context{
		Months:   months,
		Concepts: BuildConceptIndex(months),
		Resolver: NewResolver(months, now),
		Totals:   NewTotals(months, lifetime),
		Lifetime: lifetime,
	}
}

// FromStore snapshots the store and builds a Context over it.
func FromStore(store *Store, lifetime *entity.LifetimeTotals, now Clock) *Context {
	return NewContext(store.Months(), lifetime, now)
}

// Mismatches returns, per concept name, the month indexes flagged for highlighting.
func (c *Context) Mismatches() map[string][]int {
	out := map[string][]int{}
	names := append(append([]string{}, c.Concepts.Income...), c.Concepts.Expense...)
	for _, name := range names {
		for i := range c.Months {
			if c.Resolver.Resolve(name, i).HasMismatch() {
				out[name] = append(out[name], i)
			}
		}
	}
	return out
}

// CurrentMonthIndex returns the index of the current month, or -1.
func (c *Context) CurrentMonthIndex() int {
	for i := range c.Months {
		if c.Resolver.PhaseAt(i) == PhaseCurrent {
			return i
		}
	}
	return -1
}
