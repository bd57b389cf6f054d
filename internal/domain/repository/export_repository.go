package repository

import (
	"github.com/diillson/finanzas-dashboard-go/internal/domain/entity"
)

type ExportRepository interface {
	ExportDashboardToCSV(report entity.DashboardReport, filename, outputDir string) (string, error)
	ExportDashboardToJSON(report entity.DashboardReport, filename, outputDir string) (string, error)
	ExportDashboardToPDF(report entity.DashboardReport, filename, outputDir string) (string, error)

	ExportTransactionsToCSV(transactions []entity.Transaction, filename, outputDir string) (string, error)
}
