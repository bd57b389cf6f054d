package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/diillson/finanzas-dashboard-go/internal/adapter/driven/api"
	"github.com/diillson/finanzas-dashboard-go/internal/adapter/driven/aws"
	"github.com/diillson/finanzas-dashboard-go/internal/adapter/driven/config"
	"github.com/diillson/finanzas-dashboard-go/internal/adapter/driven/export"
	"github.com/diillson/finanzas-dashboard-go/internal/adapter/driven/snapshot"
	"github.com/diillson/finanzas-dashboard-go/internal/adapter/driving/cli"
	"github.com/diillson/finanzas-dashboard-go/internal/application/usecase"
	"github.com/diillson/finanzas-dashboard-go/internal/domain/repository"
	"github.com/diillson/finanzas-dashboard-go/internal/shared/types"
	"github.com/diillson/finanzas-dashboard-go/pkg/console"
	"github.com/diillson/finanzas-dashboard-go/pkg/version"
)

func main() {
	// Inicializa o aplicativo CLI
	configRepo := config.NewConfigRepository()
	app := cli.NewCLIApp(version.Version, configRepo)

	consoleImpl := console.NewConsole()
	app.SetServiceFactory(newServiceFactory(consoleImpl))

	// Executa o aplicativo
	if err := app.Execute(); err != nil {
		if errors.Is(err, types.ErrUnauthorized) {
			fmt.Fprintf(os.Stderr, "Error: %v (set %s / %s)\n", err, config.EnvAccessToken, config.EnvRefreshToken)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newServiceFactory wires repositories into use cases for a resolved config.
func newServiceFactory(consoleImpl *console.Console) cli.ServiceFactory {
	return func(cfg *types.Config) (*cli.Services, error) {
		client, err := api.NewClient(api.Options{
			BaseURL:      cfg.APIURL,
			AccessToken:  cfg.AccessToken,
			RefreshToken: cfg.RefreshToken,
			Timeout:      time.Duration(cfg.TimeoutSeconds) * time.Second,
			Logger:       consoleImpl,
			OnLogout: func() {
				consoleImpl.LogError("Session expired. Log in again and update %s", config.EnvAccessToken)
			},
		})
		if err != nil {
			return nil, err
		}

		financeRepo := api.NewFinanceRepository(client)
		exportRepo := export.NewExportRepository()

		var snapshotRepo repository.SnapshotRepository
		dbPath := cfg.SnapshotDB
		if dbPath == "" {
			dbPath = snapshot.DefaultPath()
		}
		if repo, err := snapshot.NewSnapshotRepository(dbPath); err != nil {
			consoleImpl.LogWarning("Snapshot cache disabled: %s", err)
		} else {
			snapshotRepo = repo
		}

		var publisher repository.ReportPublisher
		if cfg.S3Bucket != "" {
			publisher = aws.NewS3Publisher(cfg.S3Bucket, cfg.S3Prefix, cfg.AWSProfile)
		}

		services := &cli.Services{
			Dashboard: usecase.NewDashboardUseCase(
				financeRepo,
				exportRepo,
				snapshotRepo,
				publisher,
				consoleImpl,
				cfg.MonthsPerPage,
				time.Now,
			),
			Ledger: usecase.NewLedgerUseCase(financeRepo, exportRepo, consoleImpl),
		}
		if snapshotRepo != nil {
			services.Close = snapshotRepo.Close
		}
		return services, nil
	}
}
