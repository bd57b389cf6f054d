package entity

import (
	"github.com/shopspring/decimal"
)

// FilterCriteria restricts a transaction listing. A zero field means "no constraint".
type FilterCriteria struct {
	AccountID int64 `json:"account,omitempty"`
	ConceptID int64 `json:"concept,omitempty"`
	MonthID   int64 `json:"month,omitempty"`
}

// IsEmpty reports whether no constraint is set.
func (f FilterCriteria) IsEmpty() bool {
	return f.AccountID == 0 && f.ConceptID == 0 && f.MonthID == 0
}

// Transaction is a single ledger movement as returned by the backend.
type Transaction struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	AccountID   int64           `json:"account"`
	AccountName string          `json:"account_name,omitempty"`
	ConceptID   int64           `json:"concept"`
	ConceptName string          `json:"concept_name,omitempty"`
	MonthID     int64           `json:"month"`
	MonthName   string          `json:"month_name,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// TransactionPage is one page of a server-side paginated transaction listing.
type TransactionPage struct {
	Count   int           `json:"count"`
	HasNext bool          `json:"-"`
	Results []Transaction `json:"results"`
}

// Account is a money container (bank account, wallet, card).
type Account struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Currency string          `json:"currency,omitempty"`
	Balance  decimal.Decimal `json:"balance"`
	Archived bool            `json:"archived"`
}

// Concept is a named income or expense category.
type Concept struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsIncome bool   `json:"is_income"`
	Archived bool   `json:"archived"`
}

// Month is a backend month row used by the listing filters.
type Month struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	StartingDate string `json:"starting_date"`
}

// Investment is a tracked investment with its internal rate of return.
type Investment struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	Invested     decimal.Decimal  `json:"total_invested"`
	CurrentValue decimal.Decimal  `json:"current_value"`
	XIRR         *decimal.Decimal `json:"xirr"`
	Archived     bool             `json:"archived"`
}
