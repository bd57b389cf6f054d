package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/diillson/finanzas-dashboard-go/internal/domain/cashflow"
	"github.com/diillson/finanzas-dashboard-go/internal/domain/entity"
	"github.com/diillson/finanzas-dashboard-go/internal/domain/money"
	"github.com/diillson/finanzas-dashboard-go/internal/domain/repository"
	"github.com/diillson/finanzas-dashboard-go/internal/shared/types"
)

func salary(balance string, projected string) entity.ConceptEntry {
	if projected == "" {
		return concept(7, "Salary", true, balance, nil)
	}
	return concept(7, "Salary", true, balance, decPtr(projected))
}

func rent(balance string) entity.ConceptEntry {
	return concept(8, "Rent", false, balance, nil)
}

// sixMonthsToAugust is an initial window ending in the current month.
func sixMonthsToAugust() []entity.MonthRecord {
	return []entity.MonthRecord{
		monthRecord(3, "March 2025", salary("2000", "1900"), rent("-800")),
		monthRecord(4, "April 2025", salary("2000", ""), rent("-800")),
		monthRecord(5, "May 2025", salary("2000", ""), rent("-800")),
		monthRecord(6, "June 2025", salary("2000", ""), rent("-800")),
		monthRecord(7, "July 2025", salary("2000", ""), rent("-800")),
		monthRecord(12, "August 2025", salary("1000", "2000"), rent("-800")),
	}
}

// juneToNovember is an initial window starting in June with three future months.
func juneToNovember() []entity.MonthRecord {
	return []entity.MonthRecord{
		monthRecord(6, "June 2025", salary("2000", ""), rent("-800")),
		monthRecord(7, "July 2025", salary("2000", ""), rent("-800")),
		monthRecord(12, "August 2025", salary("1000", "2000"), rent("-800")),
		monthRecord(13, "September 2025", salary("0", "2000")),
		monthRecord(14, "October 2025"),
		monthRecord(15, "November 2025"),
	}
}

func newDashboard(repo *fakeFinanceRepo, snapshots repository.SnapshotRepository, publisher repository.ReportPublisher) (*DashboardUseCase, *fakeConsole, *fakeExportRepo) {
	console := &fakeConsole{}
	exports := &fakeExportRepo{}
	uc := NewDashboardUseCase(repo, exports, snapshots, publisher, console, 3, fixedClock)
	return uc, console, exports
}

func windowBackend(initial []entity.MonthRecord, older func(req repository.WindowRequest) ([]entity.MonthRecord, error)) func(req repository.WindowRequest) ([]entity.MonthRecord, error) {
	return func(req repository.WindowRequest) ([]entity.MonthRecord, error) {
		if req.Offset > 0 {
			return initial, nil
		}
		if older == nil {
			return nil, nil
		}
		return older(req)
	}
}

func TestInitialLoadShowsProjectionOnlyForCurrentMonth(t *testing.T) {
	repo := &fakeFinanceRepo{window: windowBackend(sixMonthsToAugust(), nil)}
	uc, _, _ := newDashboard(repo, nil, nil)

	require.NoError(t, uc.Load(context.Background(), 6))
	require.Equal(t, 6, repo.calls()[0].Offset)

	report := uc.Report()
	require.Len(t, report.Columns, 6)
	for _, col := range report.Columns[:5] {
		require.False(t, col.Projected, col.MonthName)
	}
	require.True(t, report.Columns[5].Projected)
	require.Equal(t, cashflow.PhaseCurrent.String(), report.Columns[5].Phase)

	// March has a stored projection but is past: no projected value
	require.Nil(t, report.Rows[0].Cells[0].Projected)

	rendered := uc.RenderReport(report)
	require.Contains(t, rendered, "August 2025 (actual)\nReal")
	require.Contains(t, rendered, "August 2025 (actual)\nProyectado")
	require.Len(t, uc.console.(*fakeConsole).lastTable().columns, 1+5+2)
}

// firstPageThenOlder serves the June-August overlap for the first page and
// delegates the next request, anchored at June, to next.
func firstPageThenOlder(t *testing.T, next []entity.MonthRecord) func(req repository.WindowRequest) ([]entity.MonthRecord, error) {
	return func(req repository.WindowRequest) ([]entity.MonthRecord, error) {
		require.Equal(t, -3, req.Offset)
		if req.Reference == nil {
			return juneToNovember()[:3], nil
		}
		require.Equal(t, "2025-06-01", req.Reference.Format("2006-01-02"))
		return next, nil
	}
}

func TestLoadMoreMergesThreeOlderMonths(t *testing.T) {
	older := firstPageThenOlder(t, []entity.MonthRecord{
		monthRecord(3, "March 2025"), monthRecord(4, "April 2025"), monthRecord(5, "May 2025"),
	})
	repo := &fakeFinanceRepo{window: windowBackend(juneToNovember(), older)}
	uc, _, _ := newDashboard(repo, nil, nil)
	require.NoError(t, uc.Load(context.Background(), 6))

	// the first page only repeats months already in the window
	res, err := uc.Pagination().LoadMore(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, res.Returned)
	require.Equal(t, 6, uc.Store().Len())
	require.True(t, uc.Pagination().HasMore())
	require.Equal(t, "June 2025", uc.Pagination().Oldest().MonthName)

	res, err = uc.Pagination().LoadMore(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, res.Returned)
	require.Equal(t, 9, uc.Store().Len())
	require.True(t, uc.Pagination().HasMore())
	require.Equal(t, "March 2025", uc.Store().Months()[0].MonthName)
}

func TestLoadMoreExhaustedHistory(t *testing.T) {
	older := firstPageThenOlder(t, []entity.MonthRecord{monthRecord(5, "May 2025")})
	repo := &fakeFinanceRepo{window: windowBackend(juneToNovember(), older)}
	uc, _, _ := newDashboard(repo, nil, nil)
	require.NoError(t, uc.Load(context.Background(), 6))

	_, err := uc.Pagination().LoadMore(context.Background())
	require.NoError(t, err)
	require.Equal(t, "June 2025", uc.Pagination().Oldest().MonthName)

	_, err = uc.Pagination().LoadMore(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, uc.Store().Len())
	require.False(t, uc.Pagination().HasMore())
}

func TestSetProjectionUpsertsAndRefetches(t *testing.T) {
	repo := &fakeFinanceRepo{window: windowBackend(juneToNovember(), nil)}
	uc, console, _ := newDashboard(repo, nil, nil)

	err := uc.SetProjection(context.Background(), &types.Config{MonthOffset: 6}, &types.ProjectionArgs{
		Concept: "salary", Month: "August 2025", Amount: "2500,50",
	})
	require.NoError(t, err)

	require.Len(t, repo.upserts, 1)
	require.Equal(t, entity.ProjectionUpsert{Concept: 7, Month: 12, Balance: repo.upserts[0].Balance}, repo.upserts[0])
	require.True(t, repo.upserts[0].Balance.Equal(dec("2500.50")))

	initialLoads := 0
	for _, c := range repo.calls() {
		if c.Offset == 6 {
			initialLoads++
		}
	}
	require.Equal(t, 2, initialLoads)
	require.Len(t, console.success, 1)
	require.Contains(t, console.success[0], "Salary")
}

func TestSetProjectionRejectsPastMonthAndUnknownNames(t *testing.T) {
	repo := &fakeFinanceRepo{window: windowBackend(juneToNovember(), nil)}
	uc, _, _ := newDashboard(repo, nil, nil)
	cfg := &types.Config{MonthOffset: 6}

	err := uc.SetProjection(context.Background(), cfg, &types.ProjectionArgs{Concept: "Salary", Month: "July 2025", Amount: "1"})
	require.ErrorIs(t, err, types.ErrPastMonth)

	err = uc.SetProjection(context.Background(), cfg, &types.ProjectionArgs{Concept: "Travel", Month: "August 2025", Amount: "1"})
	require.ErrorIs(t, err, types.ErrConceptNotFound)

	err = uc.SetProjection(context.Background(), cfg, &types.ProjectionArgs{Concept: "Salary", Month: "January 2020", Amount: "1"})
	require.ErrorIs(t, err, types.ErrMonthNotFound)

	err = uc.SetProjection(context.Background(), cfg, &types.ProjectionArgs{Concept: "Salary", Month: "Agosto 2025", Amount: "1"})
	require.ErrorIs(t, err, entity.ErrInvalidMonthName)
	require.Empty(t, repo.upserts)
}

func TestSetProjectionFindsConceptFromBackendList(t *testing.T) {
	repo := &fakeFinanceRepo{
		window:   windowBackend(juneToNovember(), nil),
		concepts: []entity.Concept{{ID: 30, Name: "Travel"}},
	}
	uc, _, _ := newDashboard(repo, nil, nil)

	err := uc.SetProjection(context.Background(), &types.Config{MonthOffset: 6}, &types.ProjectionArgs{Concept: "travel", Month: "October 2025", Amount: "-300"})
	require.NoError(t, err)
	require.Equal(t, int64(30), repo.upserts[0].Concept)
	require.Equal(t, int64(14), repo.upserts[0].Month)
}

func TestFailedLoadKeepsLastGoodState(t *testing.T) {
	repo := &fakeFinanceRepo{window: windowBackend(sixMonthsToAugust(), nil)}
	uc, _, _ := newDashboard(repo, nil, nil)
	require.NoError(t, uc.Load(context.Background(), 6))

	repo.lifetimeErr = errors.New("dial tcp: connection refused")
	require.Error(t, uc.Load(context.Background(), 6))
	require.Equal(t, 6, uc.Store().Len())
}

func TestRunDashboardRendersExportsAndPublishes(t *testing.T) {
	repo := &fakeFinanceRepo{
		window:   windowBackend(sixMonthsToAugust(), nil),
		lifetime: entity.LifetimeTotals{TotalIncome: dec("20000"), TotalOutcome: dec("-15000")},
	}
	snapshots := &fakeSnapshotRepo{}
	publisher := &fakePublisher{}
	uc, console, exports := newDashboard(repo, snapshots, publisher)

	cfg := &types.Config{MonthOffset: 6, ReportName: "flujo", ReportType: []string{"csv", "pdf", "xlsx"}}
	require.NoError(t, uc.RunDashboard(context.Background(), cfg, &types.CLIArgs{Bars: true}))

	require.Equal(t, []string{"csv", "pdf"}, exports.exports)
	require.Len(t, publisher.published, 2)
	require.Len(t, snapshots.saved, 1)
	require.Len(t, snapshots.saved[0].Months, 6)
	require.Len(t, console.bars, 1)
	require.Len(t, console.bars[0], 6)
	require.True(t, console.bars[0][5].Net.Equal(dec("200")), console.bars[0][5].Net.String())
	require.NotEmpty(t, console.printed)

	var sawUnknown, sawMismatch bool
	for _, w := range console.warnings {
		sawUnknown = sawUnknown || strings.Contains(w, "xlsx")
		sawMismatch = sawMismatch || strings.Contains(w, "Salary")
	}
	require.True(t, sawUnknown)
	require.True(t, sawMismatch)
}

func TestRunDashboardOfflineFallback(t *testing.T) {
	snapshots := &fakeSnapshotRepo{saved: []entity.DashboardSnapshot{{
		TakenAt: august2025,
		Months:  sixMonthsToAugust(),
	}}}
	repo := &fakeFinanceRepo{lifetimeErr: errors.New("no route to host")}
	uc, console, _ := newDashboard(repo, snapshots, nil)

	cfg := &types.Config{MonthOffset: 6}
	require.Error(t, uc.RunDashboard(context.Background(), cfg, &types.CLIArgs{}))

	require.NoError(t, uc.RunDashboard(context.Background(), cfg, &types.CLIArgs{OfflineFallback: true}))
	require.Equal(t, 6, uc.Store().Len())
	require.NotEmpty(t, console.printed)
	// offline data is never written back as a new snapshot
	require.Len(t, snapshots.saved, 1)
}

func TestRunDashboardDoesNotFallBackWhenUnauthorized(t *testing.T) {
	snapshots := &fakeSnapshotRepo{saved: []entity.DashboardSnapshot{{Months: sixMonthsToAugust()}}}
	repo := &fakeFinanceRepo{lifetimeErr: types.ErrUnauthorized}
	uc, _, _ := newDashboard(repo, snapshots, nil)

	err := uc.RunDashboard(context.Background(), &types.Config{MonthOffset: 6}, &types.CLIArgs{OfflineFallback: true})
	require.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestRunDashboardLoadsConfiguredPages(t *testing.T) {
	history := []entity.MonthRecord{
		monthRecord(1, "December 2024"), monthRecord(2, "January 2025"), monthRecord(3, "February 2025"),
		monthRecord(4, "March 2025"), monthRecord(5, "April 2025"), monthRecord(16, "May 2025"),
	}
	repo := &fakeFinanceRepo{window: windowBackend(juneToNovember(), pagedBackend(history))}
	uc, _, _ := newDashboard(repo, nil, nil)

	require.NoError(t, uc.RunDashboard(context.Background(), &types.Config{MonthOffset: 6, Pages: 5}, &types.CLIArgs{}))
	require.Equal(t, 12, uc.Store().Len())
	require.Equal(t, "December 2024", uc.Store().Months()[0].MonthName)
}

func TestOlderPageReusingAnIDKeepsLoadedMonth(t *testing.T) {
	// "May 2025" arrives with the ID the window already uses for June
	older := func(req repository.WindowRequest) ([]entity.MonthRecord, error) {
		return []entity.MonthRecord{
			monthRecord(3, "March 2025"), monthRecord(4, "April 2025"), monthRecord(6, "May 2025"),
		}, nil
	}
	repo := &fakeFinanceRepo{window: windowBackend(juneToNovember(), older)}
	uc, _, _ := newDashboard(repo, nil, nil)
	require.NoError(t, uc.Load(context.Background(), 6))

	_, err := uc.Pagination().LoadMore(context.Background())
	require.NoError(t, err)

	require.Equal(t, 8, uc.Store().Len())
	names := monthNames(uc.Store().Months())
	require.NotContains(t, names, "May 2025")
	for _, m := range uc.Store().Months() {
		if m.ID == 6 {
			require.Equal(t, "June 2025", m.MonthName)
		}
	}
}

func TestSetProjectionRejectsBadAmountBeforeLoading(t *testing.T) {
	repo := &fakeFinanceRepo{window: windowBackend(juneToNovember(), nil)}
	uc, console, _ := newDashboard(repo, nil, nil)
	cfg := &types.Config{MonthOffset: 6}

	err := uc.SetProjection(context.Background(), cfg, &types.ProjectionArgs{Concept: "Salary", Month: "August 2025", Amount: "dos mil"})
	require.ErrorIs(t, err, money.ErrInvalidAmount)

	err = uc.SetProjection(context.Background(), cfg, &types.ProjectionArgs{Concept: "Salary", Month: "August 2025", Amount: "1.000.000.000,00"})
	require.ErrorIs(t, err, types.ErrAmountOutOfRange)

	require.Empty(t, repo.calls())
	require.Empty(t, repo.upserts)
	require.Empty(t, console.success)
}
