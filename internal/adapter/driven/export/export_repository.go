package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/diillson/finanzas-dashboard-go/internal/domain/entity"
	"github.com/diillson/finanzas-dashboard-go/internal/domain/money"
	"github.com/diillson/finanzas-dashboard-go/internal/domain/repository"
)

const emptyCell = "-"

// monthsPerPDFTable limita quantos meses cabem lado a lado numa página A4 paisagem.
const monthsPerPDFTable = 4

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct{}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{}
}

// --- Dashboard ---

func (r *ExportRepositoryImpl) ExportDashboardToCSV(report entity.DashboardReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	headers := []string{"Tipo", "Concepto"}
	for _, col := range report.Columns {
		if col.Projected {
			headers = append(headers, col.MonthName+" Real", col.MonthName+" Proyectado")
			continue
		}
		headers = append(headers, col.MonthName)
	}
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, row := range report.Rows {
		record := []string{row.Kind, row.Label}
		for i, col := range report.Columns {
			cell := row.Cells[i]
			record = append(record, amountText(cell.Real))
			if col.Projected {
				record = append(record, amountText(cell.Projected))
			}
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("error writing CSV row %q: %w", row.Label, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("error flushing CSV file: %w", err)
	}
	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportDashboardToJSON(report entity.DashboardReport, filename, outputDir string) (string, error) {
	return writeJSON(report, filename, outputDir)
}

func (r *ExportRepositoryImpl) ExportDashboardToPDF(report entity.DashboardReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	bodyTextColor := [3]int{50, 50, 50}
	mismatchColor := [3]int{192, 0, 0}
	lineColor := [3]int{200, 200, 200}

	const labelWidth = 60.0
	const usableWidth = 277.0

	generated := report.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	chunks := chunkColumns(len(report.Columns), monthsPerPDFTable)
	if len(chunks) == 0 {
		chunks = [][2]int{{0, 0}}
	}

	for page, chunk := range chunks {
		pdf.AddPage()

		pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
		pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 12, tr("  Flujo de Caja"), "", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		pdf.SetFillColor(240, 240, 240)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		subtitle := fmt.Sprintf("  Generado: %s", generated.Format("2006-01-02 15:04"))
		if report.Lifetime != nil {
			subtitle += fmt.Sprintf("   |   Total histórico: %s", money.FormatCurrency(report.Lifetime.Net()))
		}
		pdf.CellFormat(0, 8, tr(subtitle), "", 1, "L", true, 0, "")
		pdf.Ln(6)

		columns := report.Columns[chunk[0]:chunk[1]]
		subColumns := 0
		for _, col := range columns {
			subColumns++
			if col.Projected {
				subColumns++
			}
		}
		valueWidth := usableWidth - labelWidth
		if subColumns > 0 {
			valueWidth = (usableWidth - labelWidth) / float64(subColumns)
		}

		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(labelWidth, 7, tr("Concepto"), "B", 0, "L", false, 0, "")
		for _, col := range columns {
			width := valueWidth
			if col.Projected {
				width *= 2
			}
			pdf.CellFormat(width, 7, tr(col.MonthName), "B", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(labelWidth, 5, "", "", 0, "L", false, 0, "")
		for _, col := range columns {
			pdf.CellFormat(valueWidth, 5, "Real", "", 0, "R", false, 0, "")
			if col.Projected {
				pdf.CellFormat(valueWidth, 5, tr("Proyectado"), "", 0, "R", false, 0, "")
			}
		}
		pdf.Ln(-1)

		for _, row := range report.Rows {
			style := ""
			border := ""
			if isSummaryRow(row.Kind) {
				style = "B"
				border = "T"
			}
			pdf.SetFont("Arial", style, 9)
			pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
			pdf.CellFormat(labelWidth, 6, tr(row.Label), border, 0, "L", false, 0, "")
			for i, col := range columns {
				cell := row.Cells[chunk[0]+i]
				if cell.Mismatch {
					pdf.SetTextColor(mismatchColor[0], mismatchColor[1], mismatchColor[2])
				}
				pdf.CellFormat(valueWidth, 6, tr(currencyText(cell.Real)), border, 0, "R", false, 0, "")
				if col.Projected {
					pdf.CellFormat(valueWidth, 6, tr(currencyText(cell.Projected)), border, 0, "R", false, 0, "")
				}
				pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
			}
			pdf.Ln(-1)
		}

		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		footerText := fmt.Sprintf("Generated by Finanzas Dashboard (Go) | %s", generated.Format("2006-01-02"))
		pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Page %d", page+1)), "", 0, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// --- Ledger ---

func (r *ExportRepositoryImpl) ExportTransactionsToCSV(transactions []entity.Transaction, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	headers := []string{"ID", "Fecha", "Mes", "Cuenta", "Concepto", "Descripción", "Monto", "Notas"}
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}
	for _, t := range transactions {
		record := []string{
			strconv.FormatInt(t.ID, 10),
			t.Date,
			t.MonthName,
			t.AccountName,
			t.ConceptName,
			t.Description,
			money.FormatAmountText(t.Amount),
			t.Notes,
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("error writing transaction %d: %w", t.ID, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("error flushing CSV file: %w", err)
	}
	return filepath.Abs(outputFilename)
}

func writeJSON(data interface{}, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}

// chunkColumns splits n columns into [start, end) ranges of at most size.
func chunkColumns(n, size int) [][2]int {
	var out [][2]int
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

func isSummaryRow(kind string) bool {
	return kind != entity.RowIncome && kind != entity.RowExpense
}

func amountText(d *decimal.Decimal) string {
	if d == nil {
		return emptyCell
	}
	return money.FormatAmountText(*d)
}

func currencyText(d *decimal.Decimal) string {
	if d == nil {
		return emptyCell
	}
	return money.FormatCurrency(*d)
}
