package repository

import (
	"context"
	"time"

	"github.com/diillson/finanzas-dashboard-go/internal/domain/entity"
)

// WindowRequest selects a month window. A positive Offset asks for the most
// recent months plus a forward offset for projections; a negative Offset asks
// for months strictly older than Reference (or than today when Reference is nil).
type WindowRequest struct {
	Offset    int
	Reference *time.Time
}

// PageRequest selects one page of a server-side paginated listing.
type PageRequest struct {
	Page     int
	PageSize int
}

// FinanceRepository defines the interface for the finance backend REST API.
type FinanceRepository interface {
	// Dashboard
	FetchMonthWindow(ctx context.Context, req WindowRequest) ([]entity.MonthRecord, error)
	FetchLifetimeTotals(ctx context.Context) (entity.LifetimeTotals, error)
	UpsertProjection(ctx context.Context, upsert entity.ProjectionUpsert) error

	// Ledger
	ListTransactions(ctx context.Context, filter entity.FilterCriteria, page PageRequest) (entity.TransactionPage, error)
	ListAccounts(ctx context.Context) ([]entity.Account, error)
	ListConcepts(ctx context.Context) ([]entity.Concept, error)
	ListMonths(ctx context.Context) ([]entity.Month, error)
	ListInvestments(ctx context.Context) ([]entity.Investment, error)
}
