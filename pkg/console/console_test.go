package console

import (
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/finanzas-dashboard-go/internal/domain/money"
	"github.com/diillson/finanzas-dashboard-go/internal/shared/types"
)

func TestMain(m *testing.M) {
	pterm.DisableColor()
	m.Run()
}

func TestBarLength(t *testing.T) {
	assert.Equal(t, barWidth, barLength(500, 500))
	assert.Equal(t, barWidth, barLength(-500, 500))
	assert.Equal(t, barWidth/2, barLength(250, 500))
	assert.Zero(t, barLength(10, 0))
}

func TestNetChange(t *testing.T) {
	assert.Equal(t, "0%", netChange(0, 0))
	assert.Equal(t, "N/A", netChange(0, 100))
	assert.Equal(t, "+50.00%", netChange(100, 150))
	assert.Equal(t, "-200.00%", netChange(100, -100))
	// improving from a loss is a positive change
	assert.Equal(t, "+50.00%", netChange(-200, -100))
	assert.Equal(t, ">+999%", netChange(1, 100))
}

func TestRenderCashflowBars(t *testing.T) {
	out := RenderCashflowBars([]types.MonthlyNet{
		{Month: "July 2025", Net: decimal.RequireFromString("1200")},
		{Month: "August 2025", Net: decimal.RequireFromString("-300.5")},
	})
	require.Contains(t, out, "July 2025")
	require.Contains(t, out, money.FormatCurrency(decimal.RequireFromString("1200")))
	require.Contains(t, out, money.FormatCurrency(decimal.RequireFromString("-300.5")))
	require.Contains(t, out, "300,50")
	require.NotContains(t, out, "€")
	require.Contains(t, out, strings.Repeat("█", barWidth))

	empty := RenderCashflowBars([]types.MonthlyNet{{Month: "July 2025"}})
	require.Contains(t, empty, money.CurrencySymbol+" 0,00")
}

func TestTableRender(t *testing.T) {
	table := NewConsole().CreateTable()
	table.AddColumn("Concepto")
	table.AddColumn("August 2025")
	table.AddRow("Salary", 2000)
	out := table.Render()
	require.Contains(t, out, "Concepto")
	require.Contains(t, out, "Salary")
	require.Contains(t, out, "2000")
}
