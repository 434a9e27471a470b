// Package cli implementa o comando cloud-insights com cobra.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/diillson/cloud-insights-reports/internal/adapter/driving/httpapi"
	"github.com/diillson/cloud-insights-reports/internal/application/usecase"
	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
	"github.com/diillson/cloud-insights-reports/internal/domain/repository"
	"github.com/diillson/cloud-insights-reports/internal/shared/types"
	"github.com/diillson/cloud-insights-reports/pkg/console"
	"github.com/diillson/cloud-insights-reports/pkg/logger"
	"github.com/diillson/cloud-insights-reports/pkg/version"
)

// Builder monta o caso de uso a partir da configuração carregada.
type Builder func(ctx context.Context, cfg *types.Config) (*usecase.ReportUseCase, error)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd    *cobra.Command
	configRepo repository.ConfigRepository
	console    *console.Console
	build      Builder

	cfg     *types.Config
	logger  zerolog.Logger
	reports *usecase.ReportUseCase
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(configRepo repository.ConfigRepository, con *console.Console, build Builder) *CLIApp {
	app := &CLIApp{
		configRepo: configRepo,
		console:    con,
		build:      build,
	}

	rootCmd := &cobra.Command{
		Use:               "cloud-insights",
		Short:             "Utilization and billing PDF reports for cloud accounts",
		Version:           version.FormatVersion(),
		SilenceUsage:      true,
		PersistentPreRunE: app.setup,
	}
	rootCmd.SetVersionTemplate(`{{printf "Cloud Insights Reports version: %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")

	rootCmd.AddCommand(
		app.clientsCmd(),
		app.discoverCmd(),
		app.utilizationCmd(),
		app.billingCmd(),
		app.previewBillingCmd(),
		app.serveCmd(),
	)

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute(ctx context.Context) error {
	return app.rootCmd.ExecuteContext(ctx)
}

func accountFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("provider", "p", "AWS", "Cloud provider: AWS or Azure")
	cmd.Flags().StringP("client", "c", "", "Client (account) name as registered in the credential store")
	_ = cmd.MarkFlagRequired("client")
}

func periodFlags(cmd *cobra.Command, defaultFrequency string) {
	cmd.Flags().IntP("month", "m", 0, "Billing month 1-12 (default: current month)")
	cmd.Flags().IntP("year", "y", 0, "Billing year (default: current year)")
	cmd.Flags().StringP("frequency", "f", defaultFrequency, "Granularity: daily or monthly")
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func parseArgs(cmd *cobra.Command) (*types.CLIArgs, error) {
	flags := cmd.Flags()
	configFile, _ := flags.GetString("config-file")
	logLevel, _ := flags.GetString("log-level")
	dir, _ := flags.GetString("dir")
	provider, _ := flags.GetString("provider")
	client, _ := flags.GetString("client")
	resources, _ := flags.GetStringSlice("resource")
	allResources, _ := flags.GetBool("all")
	frequency, _ := flags.GetString("frequency")
	month, _ := flags.GetInt("month")
	year, _ := flags.GetInt("year")
	addr, _ := flags.GetString("addr")

	if dir != "" {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		dir = absDir
	}

	return &types.CLIArgs{
		ConfigFile:   configFile,
		LogLevel:     logLevel,
		Dir:          dir,
		Provider:     provider,
		Client:       client,
		Resources:    resources,
		AllResources: allResources,
		Frequency:    frequency,
		Month:        month,
		Year:         year,
		Addr:         addr,
	}, nil
}

// setup carrega a configuração, cria o logger e monta o caso de uso antes de
// qualquer subcomando.
func (app *CLIApp) setup(cmd *cobra.Command, _ []string) error {
	args, err := parseArgs(cmd)
	if err != nil {
		return err
	}

	cfg := types.DefaultConfig()
	if args.ConfigFile != "" {
		cfg, err = app.configRepo.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return err
		}
	}
	if err := app.configRepo.ApplyEnvOverrides(cfg); err != nil {
		return err
	}
	if args.LogLevel != "" {
		cfg.LogLevel = args.LogLevel
	}
	if args.Dir != "" {
		cfg.Report.OutputDir = args.Dir
	}
	if args.Addr != "" {
		cfg.Server.Addr = args.Addr
	}
	app.cfg = cfg

	format := cfg.LogFormat
	if cmd.Name() == "serve" && format == "console" {
		format = "json"
	}
	app.logger = logger.New(cfg.LogLevel, format)
	ctx := logger.WithContext(cmd.Context(), app.logger)
	cmd.SetContext(ctx)

	if cmd.Name() != "serve" {
		displayWelcomeBanner()
	}

	app.reports, err = app.build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("error initializing services: %w", err)
	}
	return nil
}

func (app *CLIApp) clientsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clients",
		Short: "List the clients registered in the credential store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			clients, err := app.reports.ListClients(cmd.Context())
			if err != nil {
				return err
			}
			table := app.console.CreateTable()
			table.AddColumn("Client ID")
			table.AddColumn("Name")
			for _, c := range clients {
				table.AddRow(c.ID, c.Name)
			}
			app.console.Println(table.Render())
			app.console.LogInfo("%d clients found", len(clients))
			return nil
		},
	}
}

func (app *CLIApp) discoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Discover compute instances and managed databases of a client account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			args, err := parseArgs(cmd)
			if err != nil {
				return err
			}
			resources, err := app.discover(cmd.Context(), args)
			if err != nil {
				return err
			}
			app.console.Println(app.console.ResourceTable(resources).Render())
			app.console.LogInfo("%d resources found", len(resources))
			return nil
		},
	}
	accountFlags(cmd)
	return cmd
}

func (app *CLIApp) discover(ctx context.Context, args *types.CLIArgs) ([]entity.ResourceDescriptor, error) {
	provider, err := entity.ParseProvider(args.Provider)
	if err != nil {
		return nil, err
	}
	status := app.console.Status(fmt.Sprintf("Discovering %s resources for %s...", provider, args.Client))
	out, err := app.reports.DiscoverResources(ctx, provider, args.Client)
	status.Stop()
	if err != nil {
		return nil, err
	}
	for _, reason := range out.Reasons {
		app.console.LogWarning("%s", reason)
	}
	return out.Value, nil
}

func (app *CLIApp) utilizationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "utilization",
		Short: "Generate the CPU, memory and disk utilization report",
		Example: `  cloud-insights utilization -c acme -r "EC2|i-0abc123|us-east-1" -r "RDS|orders|us-east-1"
  cloud-insights utilization -c acme --all -f weekly`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			args, err := parseArgs(cmd)
			if err != nil {
				return err
			}
			provider, err := entity.ParseProvider(args.Provider)
			if err != nil {
				return err
			}
			freq, err := entity.ParseFrequency(args.Frequency)
			if err != nil {
				return err
			}

			refs := args.Resources
			if args.AllResources {
				resources, err := app.discover(cmd.Context(), args)
				if err != nil {
					return err
				}
				refs = runningRefs(resources)
			}

			status := app.console.Status(fmt.Sprintf("Generating %s utilization report for %s...", freq, args.Client))
			report, err := app.reports.GenerateUtilizationReport(cmd.Context(), usecase.UtilizationRequest{
				AccountName:  args.Client,
				Provider:     provider,
				ResourceRefs: refs,
				Frequency:    freq,
			})
			status.Stop()
			if err != nil {
				return err
			}
			app.reportDone(report)
			return nil
		},
	}
	accountFlags(cmd)
	cmd.Flags().StringSliceP("resource", "r", nil, `Resource reference "type|id|region" (repeatable)`)
	cmd.Flags().Bool("all", false, "Use every running resource found by discovery")
	cmd.Flags().StringP("frequency", "f", string(entity.FrequencyDaily), "Window: daily (1 day) or weekly (7 days)")
	return cmd
}

// runningRefs keeps the references of resources that can produce metrics.
func runningRefs(resources []entity.ResourceDescriptor) []string {
	refs := make([]string, 0, len(resources))
	for _, r := range resources {
		if !r.IsStopped() {
			refs = append(refs, r.Ref().String())
		}
	}
	return refs
}

func (app *CLIApp) billingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "billing",
		Short: "Generate the billing report of a month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := billingRequest(cmd)
			if err != nil {
				return err
			}
			status := app.console.Status(fmt.Sprintf("Generating billing report for %s (%02d/%d)...", req.AccountName, req.Month, req.Year))
			report, err := app.reports.GenerateBillingReport(cmd.Context(), req)
			status.Stop()
			if err != nil {
				return err
			}
			app.reportDone(report)
			return nil
		},
	}
	accountFlags(cmd)
	periodFlags(cmd, string(entity.FrequencyMonthly))
	return cmd
}

func (app *CLIApp) previewBillingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview-billing",
		Short: "Print the cost by service of a month without generating a PDF",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := billingRequest(cmd)
			if err != nil {
				return err
			}
			breakdown, err := app.reports.PreviewClientBilling(cmd.Context(), req)
			if err != nil {
				return err
			}
			app.console.DisplayCostBars(breakdown)
			return nil
		},
	}
	accountFlags(cmd)
	periodFlags(cmd, string(entity.FrequencyDaily))
	return cmd
}

func billingRequest(cmd *cobra.Command) (usecase.BillingRequest, error) {
	args, err := parseArgs(cmd)
	if err != nil {
		return usecase.BillingRequest{}, err
	}
	provider, err := entity.ParseProvider(args.Provider)
	if err != nil {
		return usecase.BillingRequest{}, err
	}
	freq, err := entity.ParseFrequency(args.Frequency)
	if err != nil {
		return usecase.BillingRequest{}, err
	}
	month, year := defaultPeriod(args.Month, args.Year, time.Now())
	return usecase.BillingRequest{
		AccountName: args.Client,
		Provider:    provider,
		Month:       month,
		Year:        year,
		Frequency:   freq,
	}, nil
}

// defaultPeriod completa mês e ano ausentes, cada um por si, com a data atual.
func defaultPeriod(month, year int, now time.Time) (int, int) {
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	return month, year
}

func (app *CLIApp) reportDone(report *entity.GeneratedReport) {
	for _, n := range report.Notices {
		app.console.LogWarning("%s", n)
	}
	where := report.Location
	if where == "" {
		where = report.Filename
	}
	app.console.LogSuccess("Report saved: %s", where)
}

func (app *CLIApp) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := httpapi.NewServer(app.logger, httpapi.Config{
				Addr:            app.cfg.Server.Addr,
				ShutdownTimeout: types.Seconds(app.cfg.Server.ShutdownTimeoutSec),
				ServiceName:     strings.ToLower(app.cfg.Report.Company) + "-cloud-insights",
			}, app.reports)
			return server.Start(ctx)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default from config, :8080)")
	return cmd
}
