package cashflow

import (
	"sort"

	"github.com/diillson/finanzas-dashboard-go/internal/domain/entity"
)

// ConceptIndex is the sorted list of row names, split by classification.
type ConceptIndex struct {
	Income  []string
	Expense []string
}

// BuildConceptIndex collects every concept name seen in any month, so a concept
// present in a single month still gets a permanent row.
func BuildConceptIndex(months []entity.MonthRecord) ConceptIndex {
	income := map[string]struct{}{}
	expense := map[string]struct{}{}
	for _, m := range months {
		for _, c := range m.Concepts {
			if c.IsIncome {
				income[c.Name] = struct{}{}
			} else {
				expense[c.Name] = struct{}{}
			}
		}
	}
	return ConceptIndex{
		Income:  sortedKeys(income),
		Expense: sortedKeys(expense),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
