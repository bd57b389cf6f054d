package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/diillson/finanzas-dashboard-go/internal/application/usecase"
	"github.com/diillson/finanzas-dashboard-go/internal/domain/repository"
	"github.com/diillson/finanzas-dashboard-go/internal/shared/types"
	"github.com/diillson/finanzas-dashboard-go/pkg/version"
)

// Services bundles the use cases built from a resolved configuration.
type Services struct {
	Dashboard *usecase.DashboardUseCase
	Ledger    *usecase.LedgerUseCase
	// Close releases resources opened by the factory (snapshot database).
	Close func() error
}

// ServiceFactory builds the use cases once flags, environment and config
// file have been merged.
type ServiceFactory func(cfg *types.Config) (*Services, error)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd    *cobra.Command
	configRepo repository.ConfigRepository
	factory    ServiceFactory
	version    string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string, configRepo repository.ConfigRepository) *CLIApp {
	app := &CLIApp{
		version:    versionStr,
		configRepo: configRepo,
	}

	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:           "finanzas",
		Short:         "Personal finance cashflow dashboard",
		Long:          "Shows income, expenses, net and cumulative cashflow per month, with projections for the current and future months.",
		Version:       formattedVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          app.runDashboard,
	}

	rootCmd.SetVersionTemplate(`{{printf "Finanzas Dashboard version: %s\n" .Version}}`)

	pf := rootCmd.PersistentFlags()
	pf.StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	pf.String("api-url", "", "Base URL of the finance API (overrides FINANZAS_API_URL)")
	pf.IntP("month-offset", "o", 0, "Months around today in the initial window (default 6)")
	pf.Int("months-per-page", 0, "Older months fetched per page (default 3)")
	pf.StringP("report-name", "n", "", "Specify the base name for the report file (without extension)")
	pf.StringSliceP("report-type", "y", nil, "Specify report types: csv, json, pdf (default csv)")
	pf.StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	pf.Bool("debug", false, "Print debug messages (HTTP requests, token refreshes)")

	f := rootCmd.Flags()
	f.IntP("pages", "P", 0, "Older pages to load before rendering")
	f.Bool("bars", false, "Display the monthly net cashflow as bars")
	f.Bool("offline-fallback", false, "Show the last saved snapshot when the API is unreachable")
	f.String("snapshot-db", "", "Path of the SQLite snapshot database")
	f.String("s3-bucket", "", "Upload exported reports to this S3 bucket")
	f.String("s3-prefix", "", "Key prefix for uploaded reports")
	f.String("aws-profile", "", "AWS profile used for the S3 upload")

	rootCmd.AddCommand(
		app.projectionCommand(),
		app.transactionsCommand(),
		app.listCommand("accounts", "List accounts and balances", func(ctx context.Context, s *Services) error {
			return s.Ledger.RunAccounts(ctx)
		}),
		app.listCommand("concepts", "List income and expense concepts", func(ctx context.Context, s *Services) error {
			return s.Ledger.RunConcepts(ctx)
		}),
		app.listCommand("months", "List the months known to the backend", func(ctx context.Context, s *Services) error {
			return s.Ledger.RunMonths(ctx)
		}),
		app.listCommand("investments", "List investments with gain and IRR", func(ctx context.Context, s *Services) error {
			return s.Ledger.RunInvestments(ctx)
		}),
		app.listCommand("totals", "Show lifetime income, outcome and net", func(ctx context.Context, s *Services) error {
			return s.Ledger.RunTotals(ctx)
		}),
	)

	app.rootCmd = rootCmd
	return app
}

// SetServiceFactory sets how use cases are built for each command.
func (app *CLIApp) SetServiceFactory(factory ServiceFactory) {
	app.factory = factory
}

// Execute runs the CLI application. SIGINT and SIGTERM cancel the context.
func (app *CLIApp) Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.rootCmd.ExecuteContext(ctx)
}

// Root exposes the root command, mainly for tests.
func (app *CLIApp) Root() *cobra.Command {
	return app.rootCmd
}

func (app *CLIApp) projectionCommand() *cobra.Command {
	projectionCmd := &cobra.Command{
		Use:   "projection",
		Short: "Manage projected amounts",
	}

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Set the projected amount of a concept in the current or a future month",
		Example: `  finanzas projection set --concept Salary --month "August 2025" --amount 2500,50`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pargs := &types.ProjectionArgs{}
			pargs.Concept, _ = cmd.Flags().GetString("concept")
			pargs.Month, _ = cmd.Flags().GetString("month")
			pargs.Amount, _ = cmd.Flags().GetString("amount")

			return app.withServices(cmd, func(ctx context.Context, cfg *types.Config, s *Services) error {
				return s.Dashboard.SetProjection(ctx, cfg, pargs)
			})
		},
	}
	setCmd.Flags().String("concept", "", "Concept name (case-insensitive)")
	setCmd.Flags().String("month", "", `Month name, e.g. "August 2025"`)
	setCmd.Flags().String("amount", "", "Projected amount, e.g. 2500,50 or -800")
	for _, name := range []string{"concept", "month", "amount"} {
		_ = setCmd.MarkFlagRequired(name)
	}

	projectionCmd.AddCommand(setCmd)
	return projectionCmd
}

func (app *CLIApp) transactionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "List transactions, optionally filtered by account, concept or month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			targs := &types.TransactionArgs{}
			targs.AccountID, _ = cmd.Flags().GetInt64("account")
			targs.ConceptID, _ = cmd.Flags().GetInt64("concept")
			targs.MonthID, _ = cmd.Flags().GetInt64("month")
			targs.Page, _ = cmd.Flags().GetInt("page")
			targs.PageSize, _ = cmd.Flags().GetInt("page-size")
			targs.All, _ = cmd.Flags().GetBool("all")

			return app.withServices(cmd, func(ctx context.Context, cfg *types.Config, s *Services) error {
				return s.Ledger.RunTransactions(ctx, cfg, targs)
			})
		},
	}
	cmd.Flags().Int64("account", 0, "Filter by account ID")
	cmd.Flags().Int64("concept", 0, "Filter by concept ID")
	cmd.Flags().Int64("month", 0, "Filter by month ID")
	cmd.Flags().Int("page", 1, "Page number")
	cmd.Flags().Int("page-size", usecase.DefaultTransactionPageSize, "Transactions per page")
	cmd.Flags().BoolP("all", "a", false, "Fetch every page")
	return cmd
}

func (app *CLIApp) listCommand(use, short string, run func(ctx context.Context, s *Services) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.withServices(cmd, func(ctx context.Context, _ *types.Config, s *Services) error {
				return run(ctx, s)
			})
		},
	}
}

// parseArgs parses command-line arguments into a CLIArgs struct. Flags that
// a command does not define are left at their zero value.
func (app *CLIApp) parseArgs(cmd *cobra.Command) (*types.CLIArgs, error) {
	flags := cmd.Flags()
	args := &types.CLIArgs{}
	args.ConfigFile, _ = flags.GetString("config-file")
	args.APIURL, _ = flags.GetString("api-url")
	args.MonthOffset, _ = flags.GetInt("month-offset")
	args.MonthsPerPage, _ = flags.GetInt("months-per-page")
	args.Pages, _ = flags.GetInt("pages")
	args.ReportName, _ = flags.GetString("report-name")
	args.ReportType, _ = flags.GetStringSlice("report-type")
	args.Dir, _ = flags.GetString("dir")
	args.Bars, _ = flags.GetBool("bars")
	args.OfflineFallback, _ = flags.GetBool("offline-fallback")
	args.SnapshotDB, _ = flags.GetString("snapshot-db")
	args.S3Bucket, _ = flags.GetString("s3-bucket")
	args.S3Prefix, _ = flags.GetString("s3-prefix")
	args.AWSProfile, _ = flags.GetString("aws-profile")
	args.Debug, _ = flags.GetBool("debug")

	if args.MonthOffset < 0 {
		return nil, fmt.Errorf("--month-offset must not be negative, got %d", args.MonthOffset)
	}
	if args.Pages < 0 {
		return nil, fmt.Errorf("--pages must not be negative, got %d", args.Pages)
	}

	if args.Dir != "" {
		absDir, err := filepath.Abs(args.Dir)
		if err != nil {
			return nil, err
		}
		args.Dir = absDir
	}
	return args, nil
}

// resolveConfig merges flags, environment and config file.
func (app *CLIApp) resolveConfig(cmd *cobra.Command) (*types.Config, error) {
	args, err := app.parseArgs(cmd)
	if err != nil {
		return nil, err
	}
	if args.Debug {
		pterm.EnableDebugMessages()
	}

	cfg, err := app.configRepo.Resolve(args)
	if err != nil {
		return nil, err
	}

	if cfg.Dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		cfg.Dir = cwd
	}
	if cfg.ReportName != "" && len(cfg.ReportType) == 0 {
		cfg.ReportType = []string{"csv"}
	}
	return cfg, nil
}

func (app *CLIApp) withServices(cmd *cobra.Command, run func(ctx context.Context, cfg *types.Config, s *Services) error) error {
	if app.factory == nil {
		return fmt.Errorf("no service factory configured")
	}
	cfg, err := app.resolveConfig(cmd)
	if err != nil {
		return err
	}
	services, err := app.factory(cfg)
	if err != nil {
		return err
	}
	if services.Close != nil {
		defer services.Close()
	}
	return run(cmd.Context(), cfg, services)
}

// runDashboard é o ponto de entrada principal para o comando CLI.
func (app *CLIApp) runDashboard(cmd *cobra.Command, _ []string) error {
	displayWelcomeBanner(app.version)

	go checkLatestVersion(app.version)

	return app.withServices(cmd, func(ctx context.Context, cfg *types.Config, s *Services) error {
		cliArgs, err := app.parseArgs(cmd)
		if err != nil {
			return err
		}
		return s.Dashboard.RunDashboard(ctx, cfg, cliArgs)
	})
}
