package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/diillson/finanzas-dashboard-go/internal/domain/entity"
	"github.com/diillson/finanzas-dashboard-go/internal/domain/repository"
	"github.com/diillson/finanzas-dashboard-go/internal/shared/types"
)

var august2025 = time.Date(2025, time.August, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return august2025 }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func monthRecord(id int64, name string, concepts ...entity.ConceptEntry) entity.MonthRecord {
	return entity.MonthRecord{ID: id, MonthName: name, Concepts: concepts}
}

func concept(id int64, name string, income bool, balance string, projected *decimal.Decimal) entity.ConceptEntry {
	return entity.ConceptEntry{ID: id, Name: name, IsIncome: income, Balance: dec(balance), ProjectedBalance: projected}
}

// fakeFinanceRepo serves month windows from a function and records writes.
type fakeFinanceRepo struct {
	mu sync.Mutex

	window      func(req repository.WindowRequest) ([]entity.MonthRecord, error)
	windowCalls []repository.WindowRequest
	// entered/release let a test hold FetchMonthWindow open.
	entered chan struct{}
	release chan struct{}

	lifetime    entity.LifetimeTotals
	lifetimeErr error

	upserts   []entity.ProjectionUpsert
	upsertErr error

	transactions []entity.TransactionPage
	txCalls      []repository.PageRequest
	accounts     []entity.Account
	concepts     []entity.Concept
	months       []entity.Month
	investments  []entity.Investment
}

func (f *fakeFinanceRepo) FetchMonthWindow(ctx context.Context, req repository.WindowRequest) ([]entity.MonthRecord, error) {
	f.mu.Lock()
	f.windowCalls = append(f.windowCalls, req)
	window := f.window
	entered, release := f.entered, f.release
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if release != nil {
		<-release
	}
	if window == nil {
		return nil, nil
	}
	return window(req)
}

func (f *fakeFinanceRepo) FetchLifetimeTotals(ctx context.Context) (entity.LifetimeTotals, error) {
	return f.lifetime, f.lifetimeErr
}

func (f *fakeFinanceRepo) UpsertProjection(ctx context.Context, upsert entity.ProjectionUpsert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, upsert)
	return f.upsertErr
}

func (f *fakeFinanceRepo) ListTransactions(ctx context.Context, filter entity.FilterCriteria, page repository.PageRequest) (entity.TransactionPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txCalls = append(f.txCalls, page)
	if page.Page < 1 || page.Page > len(f.transactions) {
		return entity.TransactionPage{}, nil
	}
	return f.transactions[page.Page-1], nil
}

func (f *fakeFinanceRepo) ListAccounts(ctx context.Context) ([]entity.Account, error) {
	return f.accounts, nil
}

func (f *fakeFinanceRepo) ListConcepts(ctx context.Context) ([]entity.Concept, error) {
	return f.concepts, nil
}

func (f *fakeFinanceRepo) ListMonths(ctx context.Context) ([]entity.Month, error) {
	return f.months, nil
}

func (f *fakeFinanceRepo) ListInvestments(ctx context.Context) ([]entity.Investment, error) {
	return f.investments, nil
}

func (f *fakeFinanceRepo) calls() []repository.WindowRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]repository.WindowRequest(nil), f.windowCalls...)
}

// fakeConsole records everything written through ConsoleInterface.
type fakeConsole struct {
	mu       sync.Mutex
	printed  []string
	infos    []string
	warnings []string
	errors   []string
	success  []string
	tables   []*fakeTable
	bars     [][]types.MonthlyNet
}

func (c *fakeConsole) record(dst *[]string, format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*dst = append(*dst, fmt.Sprintf(format, a...))
}

func (c *fakeConsole) LogInfo(format string, a ...interface{})    { c.record(&c.infos, format, a...) }
func (c *fakeConsole) LogWarning(format string, a ...interface{}) { c.record(&c.warnings, format, a...) }
func (c *fakeConsole) LogError(format string, a ...interface{})   { c.record(&c.errors, format, a...) }
func (c *fakeConsole) LogDebug(format string, a ...interface{})   {}
func (c *fakeConsole) LogSuccess(format string, a ...interface{}) { c.record(&c.success, format, a...) }
func (c *fakeConsole) Print(a ...interface{})                     { c.record(&c.printed, "%s", fmt.Sprint(a...)) }
func (c *fakeConsole) Printf(format string, a ...interface{})     { c.record(&c.printed, format, a...) }
func (c *fakeConsole) Println(a ...interface{})                   { c.record(&c.printed, "%s", fmt.Sprint(a...)) }

func (c *fakeConsole) Status(message string) types.StatusHandle { return noopHandle{} }

func (c *fakeConsole) ProgressWithTotal(title string, total int) types.ProgressHandle {
	return noopHandle{}
}

func (c *fakeConsole) CreateTable() types.TableInterface {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTable{}
	c.tables = append(c.tables, t)
	return t
}

func (c *fakeConsole) DisplayCashflowBars(monthlyNets []types.MonthlyNet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bars = append(c.bars, monthlyNets)
}

func (c *fakeConsole) lastTable() *fakeTable {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.tables) == 0 {
		return nil
	}
	return c.tables[len(c.tables)-1]
}

type noopHandle struct{}

func (noopHandle) Update(string) {}
func (noopHandle) Increment()    {}
func (noopHandle) Stop()         {}

type fakeTable struct {
	columns []string
	rows    [][]string
}

func (t *fakeTable) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

func (t *fakeTable) AddRow(cells ...interface{}) {
	row := make([]string, len(cells))
	for i, c := range cells {
		row[i] = fmt.Sprint(c)
	}
	t.rows = append(t.rows, row)
}

func (t *fakeTable) Render() string {
	var b strings.Builder
	b.WriteString(strings.Join(t.columns, " | "))
	for _, r := range t.rows {
		b.WriteString("\n" + strings.Join(r, " | "))
	}
	return b.String()
}

type fakeExportRepo struct {
	mu      sync.Mutex
	exports []string
	fail    map[string]error
}

func (e *fakeExportRepo) record(kind, filename string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.fail[kind]; err != nil {
		return "", err
	}
	e.exports = append(e.exports, kind)
	return "/tmp/" + filename + "." + kind, nil
}

func (e *fakeExportRepo) ExportDashboardToCSV(report entity.DashboardReport, filename, outputDir string) (string, error) {
	return e.record("csv", filename)
}

func (e *fakeExportRepo) ExportDashboardToJSON(report entity.DashboardReport, filename, outputDir string) (string, error) {
	return e.record("json", filename)
}

func (e *fakeExportRepo) ExportDashboardToPDF(report entity.DashboardReport, filename, outputDir string) (string, error) {
	return e.record("pdf", filename)
}

func (e *fakeExportRepo) ExportTransactionsToCSV(transactions []entity.Transaction, filename, outputDir string) (string, error) {
	return e.record("transactions.csv", filename)
}

type fakeSnapshotRepo struct {
	saved []entity.DashboardSnapshot
}

func (s *fakeSnapshotRepo) SaveSnapshot(ctx context.Context, snap entity.DashboardSnapshot) error {
	s.saved = append(s.saved, snap)
	return nil
}

func (s *fakeSnapshotRepo) LatestSnapshot(ctx context.Context) (entity.DashboardSnapshot, error) {
	if len(s.saved) == 0 {
		return entity.DashboardSnapshot{}, types.ErrSnapshotNotFound
	}
	return s.saved[len(s.saved)-1], nil
}

func (s *fakeSnapshotRepo) Close() error { return nil }

type fakePublisher struct {
	published []string
}

func (p *fakePublisher) Publish(ctx context.Context, localPath string) (string, error) {
	p.published = append(p.published, localPath)
	return "s3://bucket/" + localPath, nil
}
