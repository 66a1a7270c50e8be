package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/diillson/aws-finops-trends/internal/domain/entity"
	"github.com/diillson/aws-finops-trends/internal/domain/repository"
	"github.com/diillson/aws-finops-trends/internal/domain/trend"
	"github.com/diillson/aws-finops-trends/internal/shared/types"
)

// DefaultHistoryDir guarda um histórico de inventário por perfil.
const DefaultHistoryDir = ".finops-history"

// TrendUseCase handles the trend views: cost, inventory and dataset files.
type TrendUseCase struct {
	awsRepo     repository.AWSRepository
	exportRepo  repository.ExportRepository
	configRepo  repository.ConfigRepository
	datasetRepo repository.DatasetRepository
	console     types.ConsoleInterface
}

// NewTrendUseCase creates a new trend use case.
func NewTrendUseCase(
	awsRepo repository.AWSRepository,
	exportRepo repository.ExportRepository,
	configRepo repository.ConfigRepository,
	datasetRepo repository.DatasetRepository,
	console types.ConsoleInterface,
) *TrendUseCase {
	return &TrendUseCase{
		awsRepo:     awsRepo,
		exportRepo:  exportRepo,
		configRepo:  configRepo,
		datasetRepo: datasetRepo,
		console:     console,
	}
}

// LoadConfiguration carrega o arquivo de configuração (se informado) e as
// variáveis FINOPS_* (com o .env opcional).
func (uc *TrendUseCase) LoadConfiguration(configFile, envFile string) (fileCfg, envCfg *types.Config, err error) {
	if configFile != "" {
		fileCfg, err = uc.configRepo.LoadConfigFile(configFile)
		if err != nil {
			return nil, nil, err
		}
	}
	envCfg, err = uc.configRepo.LoadEnvironment(envFile)
	if err != nil {
		return nil, nil, err
	}
	return fileCfg, envCfg, nil
}

// InitializeProfiles determines which AWS profiles to use based on CLI args.
func (uc *TrendUseCase) InitializeProfiles(args *types.CLIArgs) ([]string, error) {
	availableProfiles := uc.awsRepo.GetAWSProfiles()
	if len(availableProfiles) == 0 {
		return nil, types.ErrNoProfilesFound
	}

	var profilesToUse []string

	switch {
	case len(args.Profiles) > 0:
		for _, profile := range args.Profiles {
			if lo.Contains(availableProfiles, profile) {
				profilesToUse = append(profilesToUse, profile)
			} else {
				uc.console.LogWarning("Profile '%s' not found in AWS configuration", profile)
			}
		}
		if len(profilesToUse) == 0 {
			return nil, types.ErrNoValidProfilesFound
		}
	case args.All:
		profilesToUse = availableProfiles
	case lo.Contains(availableProfiles, "default"):
		profilesToUse = []string{"default"}
	default:
		profilesToUse = availableProfiles
		uc.console.LogWarning("No default profile found. Using all available profiles.")
	}

	return profilesToUse, nil
}

// groupProfiles monta as visões do relatório. Com --combine há uma por conta,
// com --merge-all uma única visão; em ambos os casos só o primeiro perfil de
// cada conta é consultado, pois o custo é da conta inteira.
func (uc *TrendUseCase) groupProfiles(ctx context.Context, profiles []string, args *types.CLIArgs) []entity.ProfileGroup {
	if !args.Combine && !args.MergeAll {
		return lo.Map(profiles, func(p string, _ int) entity.ProfileGroup {
			return entity.ProfileGroup{Identifier: p, Profiles: []string{p}}
		})
	}

	accountProfiles := make(map[string][]string)
	var accounts []string
	for _, profile := range profiles {
		accountID, err := uc.awsRepo.GetAccountID(ctx, profile)
		if err != nil {
			uc.console.LogError("Error checking account ID for profile %s: %s", profile, err)
			continue
		}
		if _, ok := accountProfiles[accountID]; !ok {
			accounts = append(accounts, accountID)
		}
		accountProfiles[accountID] = append(accountProfiles[accountID], profile)
	}
	sort.Strings(accounts)

	if args.MergeAll {
		if len(accounts) == 0 {
			return nil
		}
		primaries := lo.Map(accounts, func(a string, _ int) string { return accountProfiles[a][0] })
		return []entity.ProfileGroup{{
			Identifier: fmt.Sprintf("All accounts (%d)", len(accounts)),
			Profiles:   primaries,
			IsCombined: true,
		}}
	}

	groups := make([]entity.ProfileGroup, 0, len(accounts))
	for _, accountID := range accounts {
		members := accountProfiles[accountID]
		groups = append(groups, entity.ProfileGroup{
			Identifier: fmt.Sprintf("Account %s (Profiles: %s)", accountID, strings.Join(members, ", ")),
			AccountID:  accountID,
			Profiles:   members[:1],
			IsCombined: len(members) > 1,
		})
	}
	return groups
}

// RunCostTrend monta a tendência de custo de cada visão, exibe e exporta.
func (uc *TrendUseCase) RunCostTrend(ctx context.Context, args *types.CLIArgs) error {
	profiles, err := uc.InitializeProfiles(args)
	if err != nil {
		return err
	}

	groups := uc.groupProfiles(ctx, profiles, args)
	if len(groups) == 0 {
		return types.ErrNoTrendData
	}

	query := entity.TrendQuery{
		Granularity: entity.Granularity(args.Granularity),
		GroupBy:     args.GroupBy,
		Months:      args.Months,
		Days:        args.Days,
		Tags:        args.Tag,
	}

	uc.console.LogInfo("Analysing cost trends for %d view(s)...", len(groups))
	progress := uc.console.ProgressWithTotal(len(groups))

	var reports []entity.TrendReport
	for _, group := range groups {
		report, ok := uc.buildCostReport(ctx, group, query, args)
		progress.Increment()
		if ok {
			reports = append(reports, report)
		}
	}
	progress.Stop()

	return uc.presentReports(reports, args)
}

func (uc *TrendUseCase) buildCostReport(ctx context.Context, group entity.ProfileGroup, query entity.TrendQuery, args *types.CLIArgs) (entity.TrendReport, bool) {
	var series [][]entity.RawDatapoint
	var budgets []entity.BudgetInfo

	for _, profile := range group.Profiles {
		raw, err := uc.awsRepo.GetCostTrend(ctx, profile, query)
		if err != nil {
			uc.console.LogError("Error getting cost trend for %s: %s", profile, err)
			continue
		}
		series = append(series, raw)

		if entity.Mode(args.Mode) == entity.ModeAggregated {
			b, err := uc.awsRepo.GetBudgets(ctx, profile)
			if err != nil {
				uc.console.LogWarning("Could not read budgets for %s: %s", profile, err)
			}
			budgets = append(budgets, b...)
		}
	}
	if len(series) == 0 {
		return entity.TrendReport{}, false
	}

	raw := series[0]
	if len(series) > 1 {
		raw = trend.MergeRaw(series...)
	}

	accountID := group.AccountID
	if accountID == "" && !group.IsCombined {
		accountID, _ = uc.awsRepo.GetAccountID(ctx, group.Profiles[0])
	}

	dimension := query.GroupBy
	if dimension == "" {
		dimension = entity.DimensionService
	}

	report, ok := uc.buildReport(raw, args, entity.TrendReport{
		Title:     fmt.Sprintf("Cost trend | %s", group.Identifier),
		Profile:   strings.Join(group.Profiles, ", "),
		AccountID: accountID,
		Dimension: dimension,
		Budgets:   budgets,
		Unit:      "USD",
	})
	if !ok {
		uc.console.LogWarning("No trend data available for %s", group.Identifier)
	}
	return report, ok
}

// RunInventoryTrend registra um snapshot de inventário por perfil no
// histórico e monta a tendência de contagem de recursos a partir dele.
func (uc *TrendUseCase) RunInventoryTrend(ctx context.Context, args *types.CLIArgs) error {
	profiles, err := uc.InitializeProfiles(args)
	if err != nil {
		return err
	}

	historyDir := args.HistoryDir
	if historyDir == "" {
		historyDir = DefaultHistoryDir
	}

	var reports []entity.TrendReport
	for _, profile := range profiles {
		snapshot, raw, err := uc.recordSnapshot(ctx, profile, args.Regions, historyDir)
		if err != nil {
			uc.console.LogError("Inventory for profile %s: %s", profile, err)
			continue
		}
		if snapshot.DescribedRegions < snapshot.ExpectedRegions {
			uc.console.LogWarning("Profile %s: only %.0f%% of %d scope(s) could be fully described",
				profile, trend.Coverage(snapshot.DescribedRegions, snapshot.ExpectedRegions), snapshot.ExpectedRegions)
		}

		report, ok := uc.buildReport(raw, args, entity.TrendReport{
			Title:     fmt.Sprintf("Resource trend | %s", profile),
			Profile:   profile,
			AccountID: snapshot.AccountID,
			Dimension: "RESOURCE_TYPE",
			Unit:      entity.DatasetUnit(entity.DatasetResource),
		})
		if ok {
			reports = append(reports, report)
		}
	}

	return uc.presentReports(reports, args)
}

// recordSnapshot conta os recursos do perfil, grava o snapshot no histórico e
// devolve o histórico completo como datapoints.
func (uc *TrendUseCase) recordSnapshot(ctx context.Context, profile string, regions []string, historyDir string) (entity.ResourceSnapshot, []entity.RawDatapoint, error) {
	status := uc.console.Status(fmt.Sprintf("Listing regions for %s...", profile))
	defer status.Stop()

	if len(regions) == 0 {
		var err error
		regions, err = uc.awsRepo.GetAccessibleRegions(ctx, profile)
		if err != nil {
			uc.console.LogWarning("Error getting accessible regions for %s: %s", profile, err)
		}
	}

	status.Update(fmt.Sprintf("Counting resources for %s in %d region(s)...", profile, len(regions)))
	snapshot, err := uc.awsRepo.GetInventorySnapshot(ctx, profile, regions)
	if err != nil {
		return entity.ResourceSnapshot{}, nil, fmt.Errorf("error getting inventory: %w", err)
	}

	historyFile := filepath.Join(historyDir, profile+".json")
	status.Update(fmt.Sprintf("Saving inventory history to %s...", historyFile))
	if err := uc.datasetRepo.AppendResourceSnapshot(historyFile, snapshot); err != nil {
		return entity.ResourceSnapshot{}, nil, fmt.Errorf("error saving inventory history: %w", err)
	}

	raw, err := uc.datasetRepo.LoadDataset(historyFile, entity.DatasetResource)
	if err != nil {
		return entity.ResourceSnapshot{}, nil, fmt.Errorf("error reading inventory history: %w", err)
	}
	return snapshot, raw, nil
}

// RunDatasetTrend monta a tendência de um arquivo de dataset local.
func (uc *TrendUseCase) RunDatasetTrend(_ context.Context, args *types.CLIArgs) error {
	raw, err := uc.datasetRepo.LoadDataset(args.DatasetFile, args.DatasetKind)
	if err != nil {
		return err
	}

	report, ok := uc.buildReport(raw, args, entity.TrendReport{
		Title:     fmt.Sprintf("%s trend | %s", titleCase(args.DatasetKind), filepath.Base(args.DatasetFile)),
		Dimension: strings.ToUpper(args.DatasetKind),
		Unit:      entity.DatasetUnit(args.DatasetKind),
	})
	if !ok {
		return types.ErrNoTrendData
	}
	return uc.presentReports([]entity.TrendReport{report}, args)
}

// buildReport executa o pipeline e completa o relatório base com a série.
func (uc *TrendUseCase) buildReport(raw []entity.RawDatapoint, args *types.CLIArgs, base entity.TrendReport) (entity.TrendReport, bool) {
	result := trend.Build(raw, trend.Options{
		Granularity:        entity.Granularity(args.Granularity),
		Mode:               entity.Mode(args.Mode),
		TopN:               args.TopN,
		TotalFromBreakdown: args.TotalFromBreakdown,
	})
	if result.Series.Len() == 0 {
		return entity.TrendReport{}, false
	}

	base.Granularity = entity.Granularity(args.Granularity)
	base.Mode = entity.Mode(args.Mode)
	base.TopN = args.TopN
	base.Ranking = result.Ranking
	base.Series = result.Series
	return base, true
}

func (uc *TrendUseCase) presentReports(reports []entity.TrendReport, args *types.CLIArgs) error {
	if len(reports) == 0 {
		return types.ErrNoTrendData
	}

	palette := args.Palette
	if palette == nil {
		palette = types.DefaultPalette()
	}

	for _, report := range reports {
		// Uma única categoria fica melhor como barras com variação.
		if len(report.Series.CategoryLabels()) <= 1 {
			uc.console.DisplayTrendBars(report.Title, types.TotalsOf(report.Series))
			continue
		}
		uc.console.DisplayStackedTrend(report, palette)
	}

	uc.exportReports(reports, palette, args)
	return nil
}

// exportReports grava os relatórios em cada formato pedido.
func (uc *TrendUseCase) exportReports(reports []entity.TrendReport, palette types.Palette, args *types.CLIArgs) {
	if args.ReportName == "" {
		return
	}

	for _, reportType := range args.ReportType {
		var path string
		var err error

		switch reportType {
		case "csv":
			path, err = uc.exportRepo.ExportTrendToCSV(reports, args.ReportName, args.Dir)
		case "json":
			path, err = uc.exportRepo.ExportTrendToJSON(reports, args.ReportName, args.Dir)
		case "pdf":
			path, err = uc.exportRepo.ExportTrendToPDF(reports, args.ReportName, args.Dir)
		case "html":
			path, err = uc.exportRepo.ExportTrendToHTML(reports, palette, args.ReportName, args.Dir)
		default:
			uc.console.LogWarning("Unsupported report type '%s'", reportType)
			continue
		}

		if err != nil {
			uc.console.LogError("Failed to export trend report to %s: %s", strings.ToUpper(reportType), err)
			continue
		}
		uc.console.LogSuccess("Successfully exported trend report to %s: %s", strings.ToUpper(reportType), path)
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
