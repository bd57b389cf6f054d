package types

import "github.com/shopspring/decimal"

// Logger is the subset of the console that adapters write diagnostics to.
type Logger interface {
	LogInfo(format string, a ...interface{})
	LogWarning(format string, a ...interface{})
	LogError(format string, a ...interface{})
	LogDebug(format string, a ...interface{})
}

// ConsoleInterface define a interface para saída no console.
type ConsoleInterface interface {
	Logger

	Print(a ...interface{})
	Printf(format string, a ...interface{})
	Println(a ...interface{})

	LogSuccess(format string, a ...interface{})

	Status(message string) StatusHandle
	ProgressWithTotal(title string, total int) ProgressHandle

	CreateTable() TableInterface
	DisplayCashflowBars(monthlyNets []MonthlyNet)
}

// StatusHandle é uma interface para atualizar uma mensagem de status.
type StatusHandle interface {
	Update(message string)
	Stop()
}

// ProgressHandle é uma interface para atualizar uma barra de progresso.
type ProgressHandle interface {
	Increment()
	Stop()
}

// TableInterface define a interface para criar e manipular tabelas.
type TableInterface interface {
	AddColumn(name string, options ...interface{})
	AddRow(cells ...interface{})
	Render() string
}

// MonthlyNet representa o saldo líquido de um mês, usado no gráfico de barras.
type MonthlyNet struct {
	Month string  `json:"month"`
	Net   decimal.Decimal `json:"net"`
}
