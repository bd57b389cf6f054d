// Package cashflow holds the month-window aggregation engine behind the
// dashboard: the store of loaded months and the pure derivations computed over
// a snapshot of it (concept index, cell resolution, totals and mismatches).
package cashflow

import (
	"fmt"
	"sort"
	"sync"

	"github.com/diillson/finanzas-dashboard-go/internal/domain/entity"
)

// Store is the authoritative, de-duplicated, chronologically sorted list of
// months visible in the dashboard. Safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	months     []entity.MonthRecord
	generation uint64
}

// NewStore cria um store vazio.
func NewStore() *Store {
	return &Store{}
}

// ReplaceInitialWindow replaces the whole content with records.
func (s *Store) ReplaceInitialWindow(records []entity.MonthRecord) error {
	sorted, err := sortByMonth(dedupe(nil, records))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.months = sorted
	s.generation++
	return nil
}

// MergeOlderWindow combines records with the loaded months. On an ID
// collision the month already in the store is kept.
func (s *Store) MergeOlderWindow(records []entity.MonthRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mergeLocked(records)
}

// MergeOlderWindowAt merges only if the store is still at generation gen.
// It returns false, without touching the store, when a reset or a new initial
// window happened after the caller captured gen.
func (s *Store) MergeOlderWindowAt(gen uint64, records []entity.MonthRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false, nil
	}
	if err := s.mergeLocked(records); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) mergeLocked(records []entity.MonthRecord) error {
	sorted, err := sortByMonth(dedupe(s.months, records))
	if err != nil {
		return err
	}
	s.months = sorted
	return nil
}

// Reset clears every loaded month.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.months = nil
	s.generation++
}

// Months returns a copy of the loaded months in ascending order.
func (s *Store) Months() []entity.MonthRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.MonthRecord, len(s.months))
	copy(out, s.months)
	return out
}

// Len returns the number of loaded months.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.months)
}

// Generation identifies the current content epoch. It changes on every
// ReplaceInitialWindow and Reset, never on merges.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// dedupe keys by ID; entries from existing win over incoming ones.
func dedupe(existing, incoming []entity.MonthRecord) []entity.MonthRecord {
	byID := make(map[int64]entity.MonthRecord, len(existing)+len(incoming))
	for _, m := range incoming {
		byID[m.ID] = m
	}
	for _, m := range existing {
		byID[m.ID] = m
	}
	out := make([]entity.MonthRecord, 0, len(byID))
	for _, m := range byID {
		out = append(out, m)
	}
	return out
}

// sortByMonth orders by parsed (year, month). Display names are never compared
// as strings: "April" > "August" lexically.
func sortByMonth(months []entity.MonthRecord) ([]entity.MonthRecord, error) {
	dates := make(map[int64]entity.MonthDate, len(months))
	for _, m := range months {
		d, err := m.Date()
		if err != nil {
			return nil, fmt.Errorf("month record %d: %w", m.ID, err)
		}
		dates[m.ID] = d
	}
	sort.Slice(months, func(i, j int) bool {
		if c := dates[months[i].ID].Compare(dates[months[j].ID]); c != 0 {
			return c < 0
		}
		return months[i].ID < months[j].ID
	})
	return months, nil
}
