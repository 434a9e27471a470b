package main

import (
	"context"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"github.com/diillson/cloud-insights-reports/internal/adapter/driven/artifact"
	"github.com/diillson/cloud-insights-reports/internal/adapter/driven/aws"
	"github.com/diillson/cloud-insights-reports/internal/adapter/driven/azure"
	"github.com/diillson/cloud-insights-reports/internal/adapter/driven/chart"
	"github.com/diillson/cloud-insights-reports/internal/adapter/driven/cloud"
	"github.com/diillson/cloud-insights-reports/internal/adapter/driven/config"
	"github.com/diillson/cloud-insights-reports/internal/adapter/driven/export"
	"github.com/diillson/cloud-insights-reports/internal/adapter/driving/cli"
	"github.com/diillson/cloud-insights-reports/internal/application/usecase"
	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
	"github.com/diillson/cloud-insights-reports/internal/shared/types"
	"github.com/diillson/cloud-insights-reports/pkg/console"
)

func main() {
	// .env é opcional
	_ = godotenv.Load()

	app := cli.NewCLIApp(config.NewConfigRepository(), console.NewConsole(), buildReports)

	if err := app.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildReports liga os adaptadores ao caso de uso.
func buildReports(ctx context.Context, cfg *types.Config) (*usecase.ReportUseCase, error) {
	loc, err := time.LoadLocation(cfg.Report.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid report timezone %q: %w", cfg.Report.Timezone, err)
	}

	ssmClient, err := aws.NewSSMClient(ctx, cfg.Credentials)
	if err != nil {
		return nil, err
	}
	resolver := aws.NewSSMCredentialResolver(ssmClient, cfg.Credentials.SSMPrefix, cfg.Credentials.DefaultRegion)

	providers := cloud.NewRegistry().
		Register(entity.ProviderAWS, aws.NewFactory(aws.OptionsFromConfig(cfg))).
		Register(entity.ProviderAzure, azure.NewFactory(cfg.Azure))

	renderer := export.NewRenderer(chart.NewRenderer(loc), export.Letterhead{
		Website:  cfg.Report.Website,
		Company:  cfg.Report.Company,
		LogoPath: cfg.Report.LogoPath,
	}, loc)

	sink, err := artifact.New(ctx, cfg.Artifact, cfg.Report.OutputDir)
	if err != nil {
		return nil, err
	}

	return usecase.NewReportUseCase(resolver, providers, renderer, sink, cfg.Report), nil
}
