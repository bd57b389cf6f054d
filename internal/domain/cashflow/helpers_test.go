package cashflow

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/diillson/finanzas-dashboard-go/internal/domain/entity"
)

var august2025 = time.Date(2025, time.August, 15, 10, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func month(id int64, name string, concepts ...entity.ConceptEntry) entity.MonthRecord {
	return entity.MonthRecord{ID: id, MonthName: name, Concepts: concepts}
}

func income(name, balance string) entity.ConceptEntry {
	return entity.ConceptEntry{Name: name, IsIncome: true, Balance: dec(balance)}
}

func expense(name, balance string) entity.ConceptEntry {
	return entity.ConceptEntry{Name: name, Balance: dec(balance)}
}

func projected(c entity.ConceptEntry, p string) entity.ConceptEntry {
	c.ProjectedBalance = decPtr(p)
	return c
}

func names(months []entity.MonthRecord) []string {
	out := make([]string, len(months))
	for i, m := range months {
		out[i] = m.MonthName
	}
	return out
}
