package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"

	"github.com/diillson/finanzas-dashboard-go/internal/domain/entity"
	"github.com/diillson/finanzas-dashboard-go/internal/domain/money"
	"github.com/diillson/finanzas-dashboard-go/internal/domain/repository"
	"github.com/diillson/finanzas-dashboard-go/internal/shared/types"
)

// DefaultTransactionPageSize is the page size of the transactions listing.
const DefaultTransactionPageSize = 50

// maxTransactionPages bounds "--all" so a misbehaving backend cannot loop forever.
const maxTransactionPages = 1000

// LedgerUseCase handles the read-only listings: transactions, accounts,
// concepts, months, investments and lifetime totals.
type LedgerUseCase struct {
	financeRepo repository.FinanceRepository
	exportRepo  repository.ExportRepository
	console     types.ConsoleInterface
}

// NewLedgerUseCase creates a new ledger use case.
func NewLedgerUseCase(
	financeRepo repository.FinanceRepository,
	exportRepo repository.ExportRepository,
	console types.ConsoleInterface,
) *LedgerUseCase {
	return &LedgerUseCase{
		financeRepo: financeRepo,
		exportRepo:  exportRepo,
		console:     console,
	}
}

// ListTransactions returns one page, or every page when args.All is set.
func (uc *LedgerUseCase) ListTransactions(ctx context.Context, args *types.TransactionArgs) ([]entity.Transaction, int, error) {
	filter := entity.FilterCriteria{AccountID: args.AccountID, ConceptID: args.ConceptID, MonthID: args.MonthID}
	page := repository.PageRequest{Page: args.Page, PageSize: args.PageSize}
	if page.Page <= 0 {
		page.Page = 1
	}
	if page.PageSize <= 0 {
		page.PageSize = DefaultTransactionPageSize
	}

	var all []entity.Transaction
	count := 0
	for i := 0; i < maxTransactionPages; i++ {
		res, err := uc.financeRepo.ListTransactions(ctx, filter, page)
		if err != nil {
			return nil, 0, err
		}
		all = append(all, res.Results...)
		count = res.Count
		if !args.All || !res.HasNext {
			break
		}
		page.Page++
	}
	return all, count, nil
}

// RunTransactions prints the filtered transactions and optionally exports them to CSV.
func (uc *LedgerUseCase) RunTransactions(ctx context.Context, cfg *types.Config, args *types.TransactionArgs) error {
	status := uc.console.Status("Loading transactions...")
	transactions, count, err := uc.ListTransactions(ctx, args)
	status.Stop()
	if err != nil {
		return err
	}
	if len(transactions) == 0 {
		uc.console.LogInfo("No transactions match the filter")
		return nil
	}

	table := uc.console.CreateTable()
	for _, col := range []string{"ID", "Fecha", "Mes", "Cuenta", "Concepto", "Descripción", "Monto"} {
		table.AddColumn(col)
	}
	total := decimal.Zero
	for _, t := range transactions {
		total = total.Add(t.Amount)
		table.AddRow(
			strconv.FormatInt(t.ID, 10),
			t.Date,
			t.MonthName,
			t.AccountName,
			t.ConceptName,
			t.Description,
			signed(t.Amount),
		)
	}
	uc.console.Print(table.Render())
	uc.console.LogInfo("Showing %d of %d transactions, total %s", len(transactions), count, money.FormatCurrency(total))

	if cfg != nil && cfg.ReportName != "" && containsFold(cfg.ReportType, "csv") {
		path, err := uc.exportRepo.ExportTransactionsToCSV(transactions, cfg.ReportName, cfg.Dir)
		if err != nil {
			uc.console.LogError("Failed to export transactions to CSV: %s", err)
		} else {
			uc.console.LogSuccess("Successfully exported transactions to CSV: %s", path)
		}
	}
	return nil
}

// RunAccounts prints the accounts with their balances.
func (uc *LedgerUseCase) RunAccounts(ctx context.Context) error {
	accounts, err := uc.financeRepo.ListAccounts(ctx)
	if err != nil {
		return err
	}
	table := uc.console.CreateTable()
	table.AddColumn("ID")
	table.AddColumn("Cuenta")
	table.AddColumn("Moneda")
	table.AddColumn("Saldo")
	for _, a := range accounts {
		if a.Archived {
			continue
		}
		table.AddRow(strconv.FormatInt(a.ID, 10), a.Name, a.Currency, signed(a.Balance))
	}
	uc.console.Print(table.Render())
	return nil
}

// RunConcepts prints the non-archived concepts.
func (uc *LedgerUseCase) RunConcepts(ctx context.Context) error {
	concepts, err := uc.financeRepo.ListConcepts(ctx)
	if err != nil {
		return err
	}
	table := uc.console.CreateTable()
	table.AddColumn("ID")
	table.AddColumn("Concepto")
	table.AddColumn("Tipo")
	for _, c := range concepts {
		kind := pterm.FgRed.Sprint("Gasto")
		if c.IsIncome {
			kind = pterm.FgGreen.Sprint("Ingreso")
		}
		table.AddRow(strconv.FormatInt(c.ID, 10), c.Name, kind)
	}
	uc.console.Print(table.Render())
	return nil
}

// RunMonths prints the months known to the backend.
func (uc *LedgerUseCase) RunMonths(ctx context.Context) error {
	months, err := uc.financeRepo.ListMonths(ctx)
	if err != nil {
		return err
	}
	table := uc.console.CreateTable()
	table.AddColumn("ID")
	table.AddColumn("Mes")
	table.AddColumn("Inicio")
	for _, m := range months {
		table.AddRow(strconv.FormatInt(m.ID, 10), m.Name, m.StartingDate)
	}
	uc.console.Print(table.Render())
	return nil
}

// RunInvestments prints each investment with its gain and IRR.
func (uc *LedgerUseCase) RunInvestments(ctx context.Context) error {
	investments, err := uc.financeRepo.ListInvestments(ctx)
	if err != nil {
		return err
	}
	table := uc.console.CreateTable()
	for _, col := range []string{"Inversión", "Invertido", "Valor actual", "Ganancia", "TIR"} {
		table.AddColumn(col)
	}
	for _, inv := range investments {
		if inv.Archived {
			continue
		}
		irr := "-"
		if inv.XIRR != nil {
			irr = money.FormatPercentage(*inv.XIRR)
		}
		table.AddRow(
			inv.Name,
			money.FormatCurrency(inv.Invested),
			money.FormatCurrency(inv.CurrentValue),
			signed(inv.CurrentValue.Sub(inv.Invested)),
			irr,
		)
	}
	uc.console.Print(table.Render())
	return nil
}

// RunTotals prints lifetime income, outcome and net.
func (uc *LedgerUseCase) RunTotals(ctx context.Context) error {
	totals, err := uc.financeRepo.FetchLifetimeTotals(ctx)
	if err != nil {
		return fmt.Errorf("fetching totals: %w", err)
	}
	table := uc.console.CreateTable()
	table.AddColumn("Total Ingresos")
	table.AddColumn("Total Gastos")
	table.AddColumn("Neto")
	table.AddRow(
		money.FormatCurrency(totals.TotalIncome),
		money.FormatCurrency(totals.TotalOutcome),
		signed(totals.Net()),
	)
	uc.console.Print(table.Render())
	return nil
}

func signed(d decimal.Decimal) string {
	text := money.FormatCurrency(d)
	if d.IsNegative() {
		return pterm.FgRed.Sprint(text)
	}
	return pterm.FgGreen.Sprint(text)
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
