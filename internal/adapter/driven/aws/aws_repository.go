package aws

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/budgets"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/diillson/aws-finops-trends/internal/domain/entity"
	"github.com/diillson/aws-finops-trends/internal/domain/repository"
)

// Cost Explorer e Budgets só respondem em us-east-1.
const globalRegion = "us-east-1"

var defaultRegions = []string{"us-east-1", "us-east-2", "us-west-1", "us-west-2", "eu-west-1", "eu-central-1"}

// AWSRepositoryImpl implementa o AWSRepository com cache de configs e clientes.
type AWSRepositoryImpl struct {
	cfgCache    map[string]aws.Config
	clientCache map[string]any
	mu          sync.Mutex
}

// NewAWSRepository cria uma nova implementação do AWSRepository.
func NewAWSRepository() repository.AWSRepository {
	return newRepository()
}

func newRepository() *AWSRepositoryImpl {
	return &AWSRepositoryImpl{
		cfgCache:    make(map[string]aws.Config),
		clientCache: make(map[string]any),
	}
}

func (r *AWSRepositoryImpl) getAWSConfig(ctx context.Context, profile string) (aws.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg, ok := r.cfgCache[profile]; ok {
		return cfg, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithSharedConfigProfile(profile))
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config for profile %s: %w", profile, err)
	}

	r.cfgCache[profile] = cfg
	return cfg, nil
}

// serviceClient devolve o cliente em cache para perfil-região-serviço ou cria
// um novo com build. Uma região vazia mantém a região do perfil.
func serviceClient[T any](ctx context.Context, r *AWSRepositoryImpl, profile, region, service string, build func(aws.Config) T) (T, error) {
	cacheKey := fmt.Sprintf("%s-%s-%s", profile, region, service)

	r.mu.Lock()
	if client, ok := r.clientCache[cacheKey].(T); ok {
		r.mu.Unlock()
		return client, nil
	}
	r.mu.Unlock()

	var zero T
	cfg, err := r.getAWSConfig(ctx, profile)
	if err != nil {
		return zero, err
	}

	regionalCfg := cfg.Copy()
	if region != "" {
		regionalCfg.Region = region
	}
	client := build(regionalCfg)

	r.mu.Lock()
	r.clientCache[cacheKey] = client
	r.mu.Unlock()

	return client, nil
}

// GetAWSProfiles lista os perfis de ~/.aws/credentials e ~/.aws/config.
func (r *AWSRepositoryImpl) GetAWSProfiles() []string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return []string{"default"}
	}

	profiles := make(map[string]bool)
	profileRegex := regexp.MustCompile(`(?m)^\s*\[([^]]+)\]`)

	parseFile := func(path string, isConfig bool) {
		content, err := os.ReadFile(path)
		if err != nil {
			return
		}
		for _, match := range profileRegex.FindAllStringSubmatch(string(content), -1) {
			name := strings.TrimSpace(match[1])
			if isConfig {
				// sso-session e services não são perfis
				if strings.HasPrefix(name, "sso-session ") || strings.HasPrefix(name, "services ") {
					continue
				}
				name = strings.TrimPrefix(name, "profile ")
			}
			profiles[name] = true
		}
	}

	parseFile(filepath.Join(homeDir, ".aws", "credentials"), false)
	parseFile(filepath.Join(homeDir, ".aws", "config"), true)

	if len(profiles) == 0 {
		profiles["default"] = true
	}

	result := make([]string, 0, len(profiles))
	for profile := range profiles {
		result = append(result, profile)
	}
	sort.Strings(result)
	return result
}

// GetAccountID resolve o ID da conta via STS.
func (r *AWSRepositoryImpl) GetAccountID(ctx context.Context, profile string) (string, error) {
	client, err := serviceClient(ctx, r, profile, globalRegion, "sts", func(cfg aws.Config) *sts.Client {
		return sts.NewFromConfig(cfg)
	})
	if err != nil {
		return "", err
	}

	result, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("error getting account ID for profile %s: %w", profile, err)
	}
	return aws.ToString(result.Account), nil
}

// GetAccessibleRegions lista as regiões habilitadas na conta. Se a chamada
// falhar, devolve um conjunto padrão de regiões.
func (r *AWSRepositoryImpl) GetAccessibleRegions(ctx context.Context, profile string) ([]string, error) {
	client, err := serviceClient(ctx, r, profile, globalRegion, "ec2", func(cfg aws.Config) *ec2.Client {
		return ec2.NewFromConfig(cfg)
	})
	if err != nil {
		return defaultRegions, fmt.Errorf("could not create EC2 client to list regions: %w", err)
	}

	output, err := client.DescribeRegions(ctx, &ec2.DescribeRegionsInput{AllRegions: aws.Bool(false)})
	if err != nil {
		return defaultRegions, nil
	}

	regions := make([]string, 0, len(output.Regions))
	for _, region := range output.Regions {
		regions = append(regions, aws.ToString(region.RegionName))
	}
	sort.Strings(regions)
	return regions, nil
}

// GetBudgets lê os budgets da conta. A falta de permissão não é fatal.
func (r *AWSRepositoryImpl) GetBudgets(ctx context.Context, profile string) ([]entity.BudgetInfo, error) {
	client, err := serviceClient(ctx, r, profile, globalRegion, "budgets", func(cfg aws.Config) *budgets.Client {
		return budgets.NewFromConfig(cfg)
	})
	if err != nil {
		return nil, err
	}

	accountID, err := r.GetAccountID(ctx, profile)
	if err != nil {
		return nil, err
	}

	var result []entity.BudgetInfo
	paginator := budgets.NewDescribeBudgetsPaginator(client, &budgets.DescribeBudgetsInput{
		AccountId: aws.String(accountID),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return result, nil
		}
		for _, budget := range page.Budgets {
			b := entity.BudgetInfo{
				Name:     aws.ToString(budget.BudgetName),
				TimeUnit: string(budget.TimeUnit),
			}
			if budget.BudgetLimit != nil {
				b.Limit = parseAmount(budget.BudgetLimit.Amount)
			}
			if spend := budget.CalculatedSpend; spend != nil {
				if spend.ActualSpend != nil {
					b.Actual = parseAmount(spend.ActualSpend.Amount)
				}
				if spend.ForecastedSpend != nil {
					b.Forecast = parseAmount(spend.ForecastedSpend.Amount)
				}
			}
			result = append(result, b)
		}
	}
	return result, nil
}

func parseAmount(amount *string) float64 {
	v, _ := strconv.ParseFloat(aws.ToString(amount), 64)
	return v
}
