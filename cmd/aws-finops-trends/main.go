package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/diillson/aws-finops-trends/internal/adapter/driven/aws"
	"github.com/diillson/aws-finops-trends/internal/adapter/driven/config"
	"github.com/diillson/aws-finops-trends/internal/adapter/driven/dataset"
	"github.com/diillson/aws-finops-trends/internal/adapter/driven/export"
	"github.com/diillson/aws-finops-trends/internal/adapter/driving/cli"
	"github.com/diillson/aws-finops-trends/internal/application/usecase"
	"github.com/diillson/aws-finops-trends/pkg/console"
	"github.com/diillson/aws-finops-trends/pkg/version"
)

func main() {
	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.Version)

	// Inicializa os repositórios
	awsRepo := aws.NewAWSRepository()
	exportRepo := export.NewExportRepository()
	configRepo := config.NewConfigRepository()
	datasetRepo := dataset.NewDatasetRepository()
	consoleImpl := console.NewConsole()

	// Inicializa o caso de uso
	trendUseCase := usecase.NewTrendUseCase(
		awsRepo,
		exportRepo,
		configRepo,
		datasetRepo,
		consoleImpl,
	)
	app.SetTrendUseCase(trendUseCase)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Executa o aplicativo
	if err := app.Execute(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
