package entity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidMonthName is returned when a month display name cannot be parsed
// into a (month, year) pair.
var ErrInvalidMonthName = errors.New("invalid month name")

var monthNames = map[string]time.Month{
	"Jan": time.January, "January": time.January,
	"Feb": time.February, "February": time.February,
	"Mar": time.March, "March": time.March,
	"Apr": time.April, "April": time.April,
	"May": time.May,
	"Jun": time.June, "June": time.June,
	"Jul": time.July, "July": time.July,
	"Aug": time.August, "August": time.August,
	"Sep": time.September, "September": time.September,
	"Oct": time.October, "October": time.October,
	"Nov": time.November, "November": time.November,
	"Dec": time.December, "December": time.December,
}

// MonthDate is a calendar month, used as the chronological sort key of a MonthRecord.
type MonthDate struct {
	Year  int
	Month time.Month
}

// ParseMonthName converte "August 2025" ou "Aug 2025" em um MonthDate.
func ParseMonthName(name string) (MonthDate, error) {
	parts := strings.Fields(name)
	if len(parts) != 2 {
		return MonthDate{}, fmt.Errorf("%w: %q", ErrInvalidMonthName, name)
	}
	month, ok := monthNames[parts[0]]
	if !ok {
		return MonthDate{}, fmt.Errorf("%w: unknown month %q", ErrInvalidMonthName, parts[0])
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil || year < 1 {
		return MonthDate{}, fmt.Errorf("%w: bad year in %q", ErrInvalidMonthName, name)
	}
	return MonthDate{Year: year, Month: month}, nil
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) MonthDate {
	return MonthDate{Year: t.Year(), Month: t.Month()}
}

// Start returns the first day of the month at midnight UTC.
func (d MonthDate) Start() time.Time {
	return time.Date(d.Year, d.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Compare returns -1, 0 or +1.
func (d MonthDate) Compare(other MonthDate) int {
	switch {
	case d.Year < other.Year:
		return -1
	case d.Year > other.Year:
		return 1
	case d.Month < other.Month:
		return -1
	case d.Month > other.Month:
		return 1
	}
	return 0
}

// Before reports whether d is strictly earlier than other.
func (d MonthDate) Before(other MonthDate) bool { return d.Compare(other) < 0 }

// After reports whether d is strictly later than other.
func (d MonthDate) After(other MonthDate) bool { return d.Compare(other) > 0 }

// String formats the month the way the backend names it, e.g. "August 2025".
func (d MonthDate) String() string {
	return fmt.Sprintf("%s %d", d.Month.String(), d.Year)
}

// ConceptEntry is one concept's balance within one month.
type ConceptEntry struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	IsIncome         bool             `json:"is_income"`
	Balance          decimal.Decimal  `json:"balance"`
	ProjectedBalance *decimal.Decimal `json:"projected_balance"`
}

// MonthTotals holds the backend-computed aggregates of a month.
type MonthTotals struct {
	TotalIncome              decimal.Decimal  `json:"total_income"`
	TotalOutcome             decimal.Decimal  `json:"total_outcome"`
	NetProfit                decimal.Decimal  `json:"net_profit"`
	CumulativeTotal          *decimal.Decimal `json:"cumulative_total,omitempty"`
	TotalIncomeProjected     *decimal.Decimal `json:"total_income_projected,omitempty"`
	TotalOutcomeProjected    *decimal.Decimal `json:"total_outcome_projected,omitempty"`
	NetProfitProjected       *decimal.Decimal `json:"net_profit_projected,omitempty"`
	CumulativeTotalProjected *decimal.Decimal `json:"cumulative_total_projected,omitempty"`
}

// MonthRecord represents one calendar month's financial snapshot.
type MonthRecord struct {
	ID             int64          `json:"id"`
	MonthName      string         `json:"month_name"`
	IsCurrentMonth bool           `json:"is_current_month"`
	Concepts       []ConceptEntry `json:"concepts_data"`
	Totals         *MonthTotals   `json:"totals,omitempty"`
}

// Date parses the record's display name.
func (m MonthRecord) Date() (MonthDate, error) {
	return ParseMonthName(m.MonthName)
}

// Concept procura uma entrada pelo nome do conceito.
func (m MonthRecord) Concept(name string) (ConceptEntry, bool) {
	for _, c := range m.Concepts {
		if c.Name == name {
			return c, true
		}
	}
	return ConceptEntry{}, false
}

// Validate checks the fields the aggregation engine relies on.
func (m MonthRecord) Validate() error {
	if m.ID == 0 {
		return errors.New("month record without id")
	}
	if _, err := m.Date(); err != nil {
		return err
	}
	for _, c := range m.Concepts {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("month %q has a concept without name", m.MonthName)
		}
	}
	return nil
}

// LifetimeTotals is the all-time income/outcome figure anchored at "now".
type LifetimeTotals struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalOutcome decimal.Decimal `json:"total_outcome"`
}

// Net returns income + outcome.
func (t LifetimeTotals) Net() decimal.Decimal {
	return t.TotalIncome.Add(t.TotalOutcome)
}

// ProjectionUpsert is the payload of the upsert-projection call.
type ProjectionUpsert struct {
	Concept int64           `json:"concept"`
	Month   int64           `json:"month"`
	Balance decimal.Decimal `json:"balance"`
}
