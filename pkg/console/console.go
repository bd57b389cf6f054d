package console

import (
	"fmt"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"

	"github.com/diillson/finanzas-dashboard-go/internal/domain/money"
	"github.com/diillson/finanzas-dashboard-go/internal/shared/types"
)

// Console é uma implementação do ConsoleInterface.
type Console struct{}

// NewConsole cria um novo Console.
func NewConsole() *Console {
	return &Console{}
}

// Print imprime no console.
func (c *Console) Print(a ...interface{}) {
	fmt.Print(a...)
}

// Printf imprime uma string formatada no console.
func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Printf(format, a...)
}

// Println imprime no console com uma nova linha.
func (c *Console) Println(a ...interface{}) {
	fmt.Println(a...)
}

// LogInfo registra uma mensagem de informação.
func (c *Console) LogInfo(format string, a ...interface{}) {
	pterm.Info.Printfln(format, a...)
}

// LogWarning registra uma mensagem de aviso.
func (c *Console) LogWarning(format string, a ...interface{}) {
	pterm.Warning.Printfln(format, a...)
}

// LogError registra uma mensagem de erro.
func (c *Console) LogError(format string, a ...interface{}) {
	pterm.Error.Printfln(format, a...)
}

// LogDebug registra uma mensagem de depuração, visível apenas com --debug.
func (c *Console) LogDebug(format string, a ...interface{}) {
	pterm.Debug.Printfln(format, a...)
}

// LogSuccess registra uma mensagem de sucesso.
func (c *Console) LogSuccess(format string, a ...interface{}) {
	pterm.Success.Printfln(format, a...)
}

// statusHandle é uma implementação do StatusHandle.
type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status cria um spinner de status com a mensagem especificada.
func (c *Console) Status(message string) types.StatusHandle {
	spinner, _ := pterm.DefaultSpinner.Start(message)
	return &statusHandle{spinner: spinner}
}

// Cores predefinidas para uso consistente
var (
	BrightGreen = color.New(color.FgGreen, color.Bold).SprintFunc()
	BrightCyan  = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// Update atualiza a mensagem de status.
func (h *statusHandle) Update(message string) {
	if h.spinner != nil {
		h.spinner.UpdateText(message)
	}
}

// Stop pára o spinner de status.
func (h *statusHandle) Stop() {
	if h.spinner != nil {
		h.spinner.Stop()
	}
}

// progressHandle é uma implementação do ProgressHandle.
type progressHandle struct {
	bar *pterm.ProgressbarPrinter
}

// ProgressWithTotal cria uma barra de progresso com título e total.
func (c *Console) ProgressWithTotal(title string, total int) types.ProgressHandle {
	bar, _ := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle(title).
		WithShowElapsedTime(true).
		WithShowCount(true).
		WithRemoveWhenDone(true).
		Start()
	return &progressHandle{bar: bar}
}

// Increment incrementa a barra de progresso.
func (h *progressHandle) Increment() {
	if h.bar != nil {
		h.bar.Increment()
	}
}

// Stop pára a barra de progresso.
func (h *progressHandle) Stop() {
	if h.bar != nil {
		h.bar.Stop()
	}
}

// Table é uma implementação do TableInterface.
type Table struct {
	columns []string
	rows    [][]string
}

// CreateTable cria uma nova tabela.
func (c *Console) CreateTable() types.TableInterface {
	return &Table{
		columns: []string{},
		rows:    [][]string{},
	}
}

// AddColumn adiciona uma coluna à tabela.
func (t *Table) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

// AddRow adiciona uma linha à tabela.
func (t *Table) AddRow(cells ...interface{}) {
	// Convertemos cada célula para string
	processedCells := make([]string, len(cells))
	for i, cell := range cells {
		processedCells[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, processedCells)
}

// Render renderiza a tabela como uma string.
func (t *Table) Render() string {
	// Use o pterm para criar uma tabela visualmente agradável
	tableData := pterm.TableData{t.columns}
	for _, row := range t.rows {
		tableData = append(tableData, row)
	}

	table := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(tableData)

	renderedTable, _ := table.Srender()
	return renderedTable
}

const barWidth = 40

// DisplayCashflowBars exibe o saldo líquido mensal como gráfico de barras.
func (c *Console) DisplayCashflowBars(monthlyNets []types.MonthlyNet) {
	fmt.Println("\n" + RenderCashflowBars(monthlyNets))
}

// RenderCashflowBars renders the bar panel. Bars are scaled to the largest
// absolute net; positive months are green and negative months red.
func RenderCashflowBars(monthlyNets []types.MonthlyNet) string {
	maxNet := 0.0
	for _, mn := range monthlyNets {
		maxNet = math.Max(maxNet, math.Abs(mn.Net.InexactFloat64()))
	}
	if maxNet == 0 {
		return pterm.Warning.Sprintf("Net cashflow is %s for every loaded month", money.FormatCurrency(decimal.Zero))
	}

	tableData := pterm.TableData{
		{"Mes", "Neto", "", "Variación"},
	}

	var prev *float64
	for _, mn := range monthlyNets {
		net := mn.Net.InexactFloat64()
		bar := strings.Repeat("█", barLength(net, maxNet))
		barColor := pterm.FgGreen.Sprint(bar)
		if mn.Net.IsNegative() {
			barColor = pterm.FgRed.Sprint(bar)
		}

		change := ""
		if prev != nil {
			change = netChange(*prev, net)
		}

		tableData = append(tableData, []string{
			mn.Month,
			money.FormatCurrency(mn.Net),
			barColor,
			change,
		})

		prev = &net
	}

	table := pterm.DefaultTable.WithHasHeader().WithData(tableData)
	renderedTable, _ := table.Srender()

	return pterm.DefaultBox.WithTitle("Cashflow neto mensual").WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(renderedTable)
}

func barLength(net, maxNet float64) int {
	if maxNet == 0 {
		return 0
	}
	return int(math.Abs(net) / maxNet * barWidth)
}

// netChange formats the month over month change. A rise in net is good.
func netChange(prev, cur float64) string {
	if math.Abs(prev) < 0.01 {
		if math.Abs(cur) < 0.01 {
			return pterm.FgYellow.Sprint("0%")
		}
		return pterm.FgYellow.Sprint("N/A")
	}

	changePercent := (cur - prev) / math.Abs(prev) * 100.0
	switch {
	case math.Abs(changePercent) < 0.01:
		return pterm.FgYellow.Sprint("0%")
	case changePercent > 999:
		return pterm.FgGreen.Sprint(">+999%")
	case changePercent < -999:
		return pterm.FgRed.Sprint(">-999%")
	case changePercent > 0:
		return pterm.FgGreen.Sprintf("+%.2f%%", changePercent)
	default:
		return pterm.FgRed.Sprintf("%.2f%%", changePercent)
	}
}
