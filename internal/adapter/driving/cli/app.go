package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/diillson/aws-finops-trends/internal/application/usecase"
	"github.com/diillson/aws-finops-trends/internal/domain/entity"
	"github.com/diillson/aws-finops-trends/internal/shared/types"
	"github.com/diillson/aws-finops-trends/pkg/version"
)

// DefaultTopN é o número de categorias exibidas antes do bucket "Others".
const DefaultTopN = 5

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd      *cobra.Command
	trendUseCase *usecase.TrendUseCase
	version      string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	rootCmd := &cobra.Command{
		Use:           "aws-finops-trends",
		Short:         "AWS FinOps Trends CLI",
		Long:          "Stacked cost, inventory and dataset trends with top-N bucketing and cumulative views.",
		Version:       version.FormatVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.run(cmd, app.trendUseCase.RunCostTrend)
		},
	}
	rootCmd.SetVersionTemplate(`{{printf "AWS FinOps Trends version: %s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	flags.String("env-file", ".env", "Path to a .env file with FINOPS_* variables")
	flags.StringSliceP("profiles", "p", nil, "Specific AWS profiles to use (comma-separated)")
	flags.StringSliceP("regions", "r", nil, "AWS regions to inventory (comma-separated, default: all accessible)")
	flags.BoolP("all", "a", false, "Use all available AWS profiles")
	flags.BoolP("combine", "c", false, "Combine profiles from the same AWS account")
	flags.Bool("merge-all", false, "Merge every selected account into a single trend")
	flags.StringP("report-name", "n", "", "Specify the base name for the report file (without extension)")
	flags.StringSliceP("report-type", "y", []string{"csv"}, "Specify report types: csv, json, pdf, html")
	flags.StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	flags.StringSliceP("tag", "g", nil, "Cost allocation tag to filter costs, e.g., --tag Team=DevOps")
	flags.String("granularity", string(entity.GranularityMonthly), "Period size: daily, monthly, yearly")
	flags.String("mode", string(entity.ModeTrending), "Series mode: trending (per period) or aggregated (cumulative)")
	flags.IntP("top", "k", DefaultTopN, "Categories kept distinct before the Others bucket (-1 keeps all)")
	flags.String("group-by", entity.DimensionService, "Cost breakdown: SERVICE, LINKED_ACCOUNT, REGION, USAGE_TYPE or tag:<key>")
	flags.Int("months", 0, "Lookback in months for monthly and yearly trends (default 6)")
	flags.Int("days", 0, "Lookback in days for daily trends (default 30)")
	flags.Bool("total-from-breakdown", false, "Use the sum of the breakdown as the period total")

	inventoryCmd := &cobra.Command{
		Use:   "inventory",
		Short: "Record a resource inventory snapshot and show the resource count trend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.run(cmd, app.trendUseCase.RunInventoryTrend)
		},
	}
	inventoryCmd.Flags().String("history", usecase.DefaultHistoryDir, "Directory holding one inventory history file per profile")

	datasetCmd := &cobra.Command{
		Use:   "dataset",
		Short: "Show the trend of a local cost, resource or findings dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.run(cmd, app.trendUseCase.RunDatasetTrend)
		},
	}
	datasetCmd.Flags().String("file", "", "Dataset file (JSON, YAML or TOML)")
	datasetCmd.Flags().String("kind", entity.DatasetCost, "Dataset kind: cost, resource, findings")
	_ = datasetCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(inventoryCmd, datasetCmd)

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application. Cancelling ctx interrupts the AWS calls.
func (app *CLIApp) Execute(ctx context.Context) error {
	return app.rootCmd.ExecuteContext(ctx)
}

// SetTrendUseCase sets the trend use case for the CLI app.
func (app *CLIApp) SetTrendUseCase(useCase *usecase.TrendUseCase) {
	app.trendUseCase = useCase
}

func (app *CLIApp) run(cmd *cobra.Command, action func(context.Context, *types.CLIArgs) error) error {
	// Exibe o banner de boas-vindas
	displayWelcomeBanner()

	// Verifica a versão mais recente disponível
	go version.CheckLatestVersion(app.version)

	cliArgs, err := parseArgs(cmd)
	if err != nil {
		return err
	}

	envFile, _ := cmd.Flags().GetString("env-file")
	fileCfg, envCfg, err := app.trendUseCase.LoadConfiguration(cliArgs.ConfigFile, envFile)
	if err != nil {
		return err
	}
	applyConfig(cliArgs, cmd.Flags().Changed, fileCfg, envCfg)

	if err := finalizeArgs(cliArgs); err != nil {
		return err
	}

	return action(cmd.Context(), cliArgs)
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func parseArgs(cmd *cobra.Command) (*types.CLIArgs, error) {
	flags := cmd.Flags()

	args := &types.CLIArgs{}
	args.ConfigFile, _ = flags.GetString("config-file")
	args.Profiles, _ = flags.GetStringSlice("profiles")
	args.Regions, _ = flags.GetStringSlice("regions")
	args.All, _ = flags.GetBool("all")
	args.Combine, _ = flags.GetBool("combine")
	args.MergeAll, _ = flags.GetBool("merge-all")
	args.ReportName, _ = flags.GetString("report-name")
	args.ReportType, _ = flags.GetStringSlice("report-type")
	args.Dir, _ = flags.GetString("dir")
	args.Tag, _ = flags.GetStringSlice("tag")
	args.Granularity, _ = flags.GetString("granularity")
	args.Mode, _ = flags.GetString("mode")
	args.TopN, _ = flags.GetInt("top")
	args.GroupBy, _ = flags.GetString("group-by")
	args.Months, _ = flags.GetInt("months")
	args.Days, _ = flags.GetInt("days")
	args.TotalFromBreakdown, _ = flags.GetBool("total-from-breakdown")

	// Flags dos subcomandos só existem no próprio subcomando.
	if flags.Lookup("history") != nil {
		args.HistoryDir, _ = flags.GetString("history")
	}
	if flags.Lookup("file") != nil {
		args.DatasetFile, _ = flags.GetString("file")
		args.DatasetKind, _ = flags.GetString("kind")
	}

	return args, nil
}

// applyConfig aplica as configurações na ordem recebida (arquivo, depois
// ambiente). Valores de flags passadas explicitamente nunca são sobrescritos.
func applyConfig(args *types.CLIArgs, changed func(string) bool, sources ...*types.Config) {
	palette := types.DefaultPalette()

	for _, cfg := range sources {
		if cfg == nil {
			continue
		}

		setStrings(&args.Profiles, cfg.Profiles, !changed("profiles"))
		setStrings(&args.Regions, cfg.Regions, !changed("regions"))
		setStrings(&args.ReportType, cfg.ReportType, !changed("report-type"))
		setStrings(&args.Tag, cfg.Tag, !changed("tag"))

		setString(&args.ReportName, cfg.ReportName, !changed("report-name"))
		setString(&args.Dir, cfg.Dir, !changed("dir"))
		setString(&args.Granularity, cfg.Granularity, !changed("granularity"))
		setString(&args.Mode, cfg.Mode, !changed("mode"))
		setString(&args.GroupBy, cfg.GroupBy, !changed("group-by"))
		setString(&args.HistoryDir, cfg.History, !changed("history"))

		if cfg.Combine && !changed("combine") {
			args.Combine = true
		}
		if cfg.MergeAll && !changed("merge-all") {
			args.MergeAll = true
		}
		if cfg.TotalFromBreakdown && !changed("total-from-breakdown") {
			args.TotalFromBreakdown = true
		}
		if cfg.Top != nil && !changed("top") {
			args.TopN = *cfg.Top
		}
		if cfg.Months > 0 && !changed("months") {
			args.Months = cfg.Months
		}
		if cfg.Days > 0 && !changed("days") {
			args.Days = cfg.Days
		}

		palette = palette.Merge(cfg.Colors)
	}

	args.Palette = palette
}

// finalizeArgs valida os valores finais e resolve o diretório de saída.
func finalizeArgs(args *types.CLIArgs) error {
	top := args.TopN
	check := types.Config{
		Granularity: args.Granularity,
		Mode:        args.Mode,
		ReportType:  args.ReportType,
		Top:         &top,
		Months:      args.Months,
		Days:        args.Days,
	}
	if err := check.Validate(); err != nil {
		return err
	}

	// Set default directory to current working directory if not specified
	if args.Dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		args.Dir = cwd
		return nil
	}

	absDir, err := filepath.Abs(args.Dir)
	if err != nil {
		return err
	}
	args.Dir = absDir
	return nil
}

func setString(dst *string, v string, allowed bool) {
	if allowed && v != "" {
		*dst = v
	}
}

func setStrings(dst *[]string, v []string, allowed bool) {
	if allowed && len(v) > 0 {
		*dst = v
	}
}
