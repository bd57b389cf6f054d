package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/diillson/finanzas-dashboard-go/internal/domain/cashflow"
	"github.com/diillson/finanzas-dashboard-go/internal/domain/entity"
	"github.com/diillson/finanzas-dashboard-go/internal/domain/money"
	"github.com/diillson/finanzas-dashboard-go/internal/domain/repository"
	"github.com/diillson/finanzas-dashboard-go/internal/shared/types"
)

// DashboardUseCase handles the cashflow dashboard: loading, pagination,
// rendering, export and projection edits.
type DashboardUseCase struct {
	financeRepo  repository.FinanceRepository
	exportRepo   repository.ExportRepository
	snapshotRepo repository.SnapshotRepository
	publisher    repository.ReportPublisher
	console      types.ConsoleInterface
	clock        cashflow.Clock

	store      *cashflow.Store
	pagination *PaginationController

	mu       sync.RWMutex
	lifetime *entity.LifetimeTotals
	offset   int
	offline  bool
}

// NewDashboardUseCase creates a new dashboard use case. snapshotRepo and
// publisher may be nil.
func NewDashboardUseCase(
	financeRepo repository.FinanceRepository,
	exportRepo repository.ExportRepository,
	snapshotRepo repository.SnapshotRepository,
	publisher repository.ReportPublisher,
	console types.ConsoleInterface,
	monthsPerPage int,
	clock cashflow.Clock,
) *DashboardUseCase {
	if clock == nil {
		clock = time.Now
	}
	store := cashflow.NewStore()
	return &DashboardUseCase{
		financeRepo:  financeRepo,
		exportRepo:   exportRepo,
		snapshotRepo: snapshotRepo,
		publisher:    publisher,
		console:      console,
		clock:        clock,
		store:        store,
		pagination:   NewPaginationController(financeRepo, store, console, monthsPerPage, clock),
		offset:       types.DefaultMonthOffset,
	}
}

// Store exposes the month window store.
func (uc *DashboardUseCase) Store() *cashflow.Store { return uc.store }

// Pagination exposes the pagination controller.
func (uc *DashboardUseCase) Pagination() *PaginationController { return uc.pagination }

// Load fetches the initial window and the lifetime totals in parallel and
// replaces the store. On any failure the store keeps its last good state.
func (uc *DashboardUseCase) Load(ctx context.Context, offset int) error {
	var (
		months   []entity.MonthRecord
		lifetime entity.LifetimeTotals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		months, err = uc.financeRepo.FetchMonthWindow(gctx, repository.WindowRequest{Offset: offset})
		return err
	})
	g.Go(func() error {
		var err error
		lifetime, err = uc.financeRepo.FetchLifetimeTotals(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("loading dashboard: %w", err)
	}

	cashflow.MarkCurrentMonth(months, uc.clock())
	if err := uc.store.ReplaceInitialWindow(months); err != nil {
		return fmt.Errorf("loading dashboard: %w", err)
	}
	uc.pagination.Reset()

	uc.mu.Lock()
	uc.lifetime = &lifetime
	uc.offset = offset
	uc.offline = false
	uc.mu.Unlock()
	return nil
}

// Refresh reloads the initial window with the last used offset.
func (uc *DashboardUseCase) Refresh(ctx context.Context) error {
	uc.mu.RLock()
	offset := uc.offset
	uc.mu.RUnlock()
	return uc.Load(ctx, offset)
}

// LoadFromSnapshot replaces the store with the last saved snapshot.
func (uc *DashboardUseCase) LoadFromSnapshot(ctx context.Context) (time.Time, error) {
	if uc.snapshotRepo == nil {
		return time.Time{}, types.ErrSnapshotNotFound
	}
	snap, err := uc.snapshotRepo.LatestSnapshot(ctx)
	if err != nil {
		return time.Time{}, err
	}
	cashflow.MarkCurrentMonth(snap.Months, uc.clock())
	if err := uc.store.ReplaceInitialWindow(snap.Months); err != nil {
		return time.Time{}, fmt.Errorf("restoring snapshot: %w", err)
	}
	uc.pagination.Reset()

	uc.mu.Lock()
	uc.lifetime = snap.Lifetime
	uc.offline = true
	uc.mu.Unlock()
	return snap.TakenAt, nil
}

// SaveSnapshot stores the current months and lifetime totals.
func (uc *DashboardUseCase) SaveSnapshot(ctx context.Context) error {
	if uc.snapshotRepo == nil {
		return nil
	}
	uc.mu.RLock()
	lifetime := uc.lifetime
	offline := uc.offline
	uc.mu.RUnlock()
	if offline {
		return nil
	}
	return uc.snapshotRepo.SaveSnapshot(ctx, entity.DashboardSnapshot{
		TakenAt:  uc.clock(),
		Months:   uc.store.Months(),
		Lifetime: lifetime,
	})
}

// LoadPages loads up to pages older windows, stopping early when the
// backend runs out of months or a page fails.
func (uc *DashboardUseCase) LoadPages(ctx context.Context, pages int) int {
	if pages <= 0 {
		return 0
	}
	progress := uc.console.ProgressWithTotal("Loading older months", pages)
	defer progress.Stop()

	loaded := 0
	for i := 0; i < pages && uc.pagination.HasMore(); i++ {
		res, err := uc.pagination.LoadMore(ctx)
		if err != nil {
			uc.console.LogWarning("Could not load older months: %s", err)
			break
		}
		loaded += res.Returned
		progress.Increment()
	}
	return loaded
}

// Context snapshots the store into an aggregation context.
func (uc *DashboardUseCase) Context() *cashflow.Context {
	uc.mu.RLock()
	lifetime := uc.lifetime
	uc.mu.RUnlock()
	return cashflow.FromStore(uc.store, lifetime, uc.clock)
}

// Report builds the concept-by-month matrix of the loaded months.
func (uc *DashboardUseCase) Report() entity.DashboardReport {
	return cashflow.BuildReport(uc.Context(), uc.clock())
}

// MonthlyNets returns the real net of every loaded month, oldest first.
func (uc *DashboardUseCase) MonthlyNets() []types.MonthlyNet {
	c := uc.Context()
	out := make([]types.MonthlyNet, len(c.Months))
	for i, m := range c.Months {
		out[i] = types.MonthlyNet{
			Month: m.MonthName,
			Net:   c.Totals.ForMonth(i).Real.Net,
		}
	}
	return out
}

// RunDashboard loads, renders and optionally exports the dashboard.
func (uc *DashboardUseCase) RunDashboard(ctx context.Context, cfg *types.Config, args *types.CLIArgs) error {
	status := uc.console.Status("Loading dashboard...")
	err := uc.Load(ctx, cfg.MonthOffset)
	status.Stop()

	if err != nil {
		if !args.OfflineFallback || errors.Is(err, types.ErrUnauthorized) {
			return err
		}
		uc.console.LogWarning("Backend unavailable: %s", err)
		takenAt, snapErr := uc.LoadFromSnapshot(ctx)
		if snapErr != nil {
			return fmt.Errorf("%w (no offline snapshot: %v)", err, snapErr)
		}
		uc.console.LogWarning("Showing the snapshot saved at %s", takenAt.Local().Format("2006-01-02 15:04"))
	} else {
		uc.LoadPages(ctx, cfg.Pages)
		if err := uc.SaveSnapshot(ctx); err != nil {
			uc.console.LogWarning("Could not save dashboard snapshot: %s", err)
		}
	}

	if uc.store.Len() == 0 {
		uc.console.LogWarning("No months to show")
		return nil
	}

	report := uc.Report()
	uc.console.Print(uc.RenderReport(report))
	uc.printMismatches()

	if args.Bars {
		uc.console.DisplayCashflowBars(uc.MonthlyNets())
	}

	if cfg.ReportName != "" && len(cfg.ReportType) > 0 {
		uc.exportReport(ctx, report, cfg)
	}
	return nil
}

// RenderReport renders the matrix as a console table. Current and future
// months get a Real and a Proyectado sub-column; absent values show "-".
func (uc *DashboardUseCase) RenderReport(report entity.DashboardReport) string {
	table := uc.console.CreateTable()
	table.AddColumn("Concepto")
	for _, col := range report.Columns {
		name := col.MonthName
		if col.Phase == cashflow.PhaseCurrent.String() {
			name += " (actual)"
		}
		if col.Projected {
			table.AddColumn(name + "\nReal")
			table.AddColumn(name + "\nProyectado")
			continue
		}
		table.AddColumn(name)
	}

	for _, row := range report.Rows {
		cells := []interface{}{rowLabel(row)}
		for i, col := range report.Columns {
			cell := row.Cells[i]
			cells = append(cells, formatCell(row.Kind, cell.Real, cell.Mismatch))
			if col.Projected {
				cells = append(cells, formatCell(row.Kind, cell.Projected, cell.Mismatch))
			}
		}
		table.AddRow(cells...)
	}
	return table.Render()
}

func (uc *DashboardUseCase) printMismatches() {
	c := uc.Context()
	idx := c.CurrentMonthIndex()
	if idx < 0 {
		return
	}
	var names []string
	for name, months := range c.Mismatches() {
		for _, m := range months {
			if m == idx {
				names = append(names, name)
			}
		}
	}
	if len(names) == 0 {
		return
	}
	sort.Strings(names)
	uc.console.LogWarning("Real and projected differ this month for: %s", strings.Join(names, ", "))
}

func (uc *DashboardUseCase) exportReport(ctx context.Context, report entity.DashboardReport, cfg *types.Config) {
	for _, reportType := range cfg.ReportType {
		var (
			path string
			err  error
		)
		switch strings.ToLower(reportType) {
		case "csv":
			path, err = uc.exportRepo.ExportDashboardToCSV(report, cfg.ReportName, cfg.Dir)
		case "json":
			path, err = uc.exportRepo.ExportDashboardToJSON(report, cfg.ReportName, cfg.Dir)
		case "pdf":
			path, err = uc.exportRepo.ExportDashboardToPDF(report, cfg.ReportName, cfg.Dir)
		default:
			uc.console.LogWarning("%s: %s", types.ErrUnknownReportType, reportType)
			continue
		}
		if err != nil {
			uc.console.LogError("Failed to export to %s: %s", strings.ToUpper(reportType), err)
			continue
		}
		uc.console.LogSuccess("Successfully exported to %s: %s", strings.ToUpper(reportType), path)
		uc.publish(ctx, path)
	}
}

func (uc *DashboardUseCase) publish(ctx context.Context, path string) {
	if uc.publisher == nil {
		return
	}
	uri, err := uc.publisher.Publish(ctx, path)
	if err != nil {
		uc.console.LogError("Failed to publish %s: %s", path, err)
		return
	}
	uc.console.LogSuccess("Published report to %s", uri)
}

// SetProjection loads the dashboard, locates the concept and month by name
// and saves the projected amount through a ProjectionEditor.
func (uc *DashboardUseCase) SetProjection(ctx context.Context, cfg *types.Config, pargs *types.ProjectionArgs) error {
	monthDate, err := entity.ParseMonthName(pargs.Month)
	if err != nil {
		return err
	}
	amount, err := ParseProjectionAmount(pargs.Amount)
	if err != nil {
		return err
	}
	if err := uc.Load(ctx, cfg.MonthOffset); err != nil {
		return err
	}

	month, ok := uc.findMonth(monthDate)
	for !ok && uc.pagination.HasMore() {
		res, err := uc.pagination.LoadMore(ctx)
		if err != nil {
			return err
		}
		if res.Returned == 0 {
			break
		}
		month, ok = uc.findMonth(monthDate)
	}
	if !ok {
		return fmt.Errorf("%w: %s", types.ErrMonthNotFound, pargs.Month)
	}

	resolver := cashflow.NewResolver(nil, uc.clock)
	if resolver.PhaseOf(month) == cashflow.PhasePast {
		return fmt.Errorf("%w: %s", types.ErrPastMonth, month.MonthName)
	}

	conceptID, conceptName, current, err := uc.findConcept(ctx, month, pargs.Concept)
	if err != nil {
		return err
	}

	editor := NewProjectionEditor(uc.financeRepo, uc.Refresh, uc.console, AwaitConfirmation)
	target := ProjectionTarget{ConceptID: conceptID, ConceptName: conceptName, MonthID: month.ID, MonthName: month.MonthName}
	if err := editor.Begin(target, current); err != nil {
		return err
	}
	if err := editor.SetText(pargs.Amount); err != nil {
		return err
	}

	status := uc.console.Status(fmt.Sprintf("Saving projection for %s (%s)...", conceptName, month.MonthName))
	err = editor.Confirm(ctx)
	status.Stop()
	if err != nil {
		return err
	}

	uc.console.LogSuccess("Projection for %s in %s set to %s", conceptName, month.MonthName, money.FormatCurrency(amount))
	return nil
}

func (uc *DashboardUseCase) findMonth(date entity.MonthDate) (entity.MonthRecord, bool) {
	for _, m := range uc.store.Months() {
		d, err := m.Date()
		if err == nil && d.Compare(date) == 0 {
			return m, true
		}
	}
	return entity.MonthRecord{}, false
}

// findConcept resolves a concept by case-insensitive name: first in the
// target month, then in any loaded month, then in the backend's concept list.
func (uc *DashboardUseCase) findConcept(ctx context.Context, month entity.MonthRecord, name string) (int64, string, *decimal.Decimal, error) {
	for _, c := range month.Concepts {
		if strings.EqualFold(c.Name, name) {
			return c.ID, c.Name, c.ProjectedBalance, nil
		}
	}
	for _, m := range uc.store.Months() {
		for _, c := range m.Concepts {
			if strings.EqualFold(c.Name, name) {
				return c.ID, c.Name, nil, nil
			}
		}
	}
	concepts, err := uc.financeRepo.ListConcepts(ctx)
	if err != nil {
		return 0, "", nil, err
	}
	for _, c := range concepts {
		if strings.EqualFold(c.Name, name) {
			return c.ID, c.Name, nil, nil
		}
	}
	return 0, "", nil, fmt.Errorf("%w: %s", types.ErrConceptNotFound, name)
}

func rowLabel(row entity.ReportRow) string {
	switch row.Kind {
	case entity.RowIncome, entity.RowExpense:
		return row.Label
	default:
		return pterm.Bold.Sprint(row.Label)
	}
}

func formatCell(kind string, amount *decimal.Decimal, mismatch bool) string {
	if amount == nil {
		return pterm.FgGray.Sprint("-")
	}
	text := money.FormatCurrency(*amount)
	if mismatch {
		return pterm.FgRed.Sprint(text + " !")
	}

	var status cashflow.Status
	switch kind {
	case entity.RowTotalIncome, entity.RowTotalOutcome:
		status = cashflow.ThreeWayStatus(*amount)
	case entity.RowNet, entity.RowCumulative:
		status = cashflow.SignStatus(*amount)
	default:
		return text
	}
	switch status {
	case cashflow.StatusGood:
		return pterm.FgGreen.Sprint(text)
	case cashflow.StatusBad:
		return pterm.FgRed.Sprint(text)
	default:
		return text
	}
}
