package aws

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/diillson/aws-finops-trends/internal/domain/entity"
	"github.com/shopspring/decimal"
)

const (
	costMetric     = "UnblendedCost"
	tagGroupPrefix = "tag:"
	untaggedLabel  = "(untagged)"

	DefaultTrendMonths = 6
	DefaultTrendDays   = 30
)

// costExplorerAPI é o subconjunto do cliente Cost Explorer usado pela tendência.
type costExplorerAPI interface {
	GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
}

// GetCostTrend busca a série de custo do perfil agrupada pela dimensão da query.
func (r *AWSRepositoryImpl) GetCostTrend(ctx context.Context, profile string, query entity.TrendQuery) ([]entity.RawDatapoint, error) {
	client, err := serviceClient(ctx, r, profile, globalRegion, "costexplorer", func(cfg aws.Config) *costexplorer.Client {
		return costexplorer.NewFromConfig(cfg)
	})
	if err != nil {
		return nil, err
	}

	raw, err := fetchCostTrend(ctx, client, query, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("error getting cost trend for profile %s: %w", profile, err)
	}
	return raw, nil
}

type costPeriod struct {
	start     string
	total     decimal.Decimal
	breakdown []entity.BreakdownEntry
	estimated bool
}

func fetchCostTrend(ctx context.Context, api costExplorerAPI, query entity.TrendQuery, now time.Time) ([]entity.RawDatapoint, error) {
	filter, err := parseTagFilter(query.Tags)
	if err != nil {
		return nil, err
	}
	groupBy, err := groupDefinition(query.GroupBy)
	if err != nil {
		return nil, err
	}

	start, end := costWindow(query, now)
	granularity := ceTypes.GranularityMonthly
	if query.Granularity == entity.GranularityDaily {
		granularity = ceTypes.GranularityDaily
	}

	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &ceTypes.DateInterval{
			Start: aws.String(start.Format("2006-01-02")),
			End:   aws.String(end.Format("2006-01-02")),
		},
		Granularity: granularity,
		Metrics:     []string{costMetric},
		GroupBy:     []ceTypes.GroupDefinition{groupBy},
		Filter:      filter,
	}

	// Com GroupBy a mesma janela pode vir repartida em várias páginas.
	var periods []*costPeriod
	index := make(map[string]*costPeriod)

	for {
		output, err := api.GetCostAndUsage(ctx, input)
		if err != nil {
			return nil, err
		}

		for _, result := range output.ResultsByTime {
			periodStart := ""
			if result.TimePeriod != nil {
				periodStart = aws.ToString(result.TimePeriod.Start)
			}
			p, ok := index[periodStart]
			if !ok {
				p = &costPeriod{start: periodStart}
				index[periodStart] = p
				periods = append(periods, p)
			}
			p.estimated = p.estimated || result.Estimated

			if len(result.Groups) == 0 {
				p.total = p.total.Add(metricAmount(result.Total))
				continue
			}
			for _, group := range result.Groups {
				amount := metricAmount(group.Metrics)
				key := strings.Join(group.Keys, "|")
				p.total = p.total.Add(amount)
				p.breakdown = append(p.breakdown, entity.BreakdownEntry{
					Key:   key,
					Label: groupLabel(key),
					Value: amount.InexactFloat64(),
				})
			}
		}

		if output.NextPageToken == nil || aws.ToString(output.NextPageToken) == "" {
			break
		}
		input.NextPageToken = output.NextPageToken
	}

	if query.Granularity == entity.GranularityYearly {
		return rollUpYears(periods), nil
	}

	raw := make([]entity.RawDatapoint, 0, len(periods))
	for _, p := range periods {
		described := 1
		if p.estimated {
			described = 0
		}
		raw = append(raw, datapoint(p.start, p.total, p.breakdown, described, 1))
	}
	return raw, nil
}

// rollUpYears soma os meses de cada ano civil. O ano fica incompleto enquanto
// algum dos seus meses ainda for estimado.
func rollUpYears(months []*costPeriod) []entity.RawDatapoint {
	type year struct {
		costPeriod
		final, months int
	}
	var years []*year
	index := make(map[string]*year)

	for _, m := range months {
		key := m.start
		if len(key) >= 4 {
			key = key[:4]
		}
		y, ok := index[key]
		if !ok {
			y = &year{costPeriod: costPeriod{start: key}}
			index[key] = y
			years = append(years, y)
		}
		y.total = y.total.Add(m.total)
		y.breakdown = append(y.breakdown, m.breakdown...)
		y.months++
		if !m.estimated {
			y.final++
		}
	}

	raw := make([]entity.RawDatapoint, 0, len(years))
	for _, y := range years {
		raw = append(raw, datapoint(y.start, y.total, y.breakdown, y.final, y.months))
	}
	return raw
}

func datapoint(period string, total decimal.Decimal, breakdown []entity.BreakdownEntry, described, expected int) entity.RawDatapoint {
	return entity.RawDatapoint{
		Period:         period,
		Total:          total.InexactFloat64(),
		Breakdown:      breakdown,
		DescribedCount: &described,
		ExpectedCount:  &expected,
	}
}

// costWindow devolve o intervalo [start, end) consultado. O fim é exclusivo
// no Cost Explorer, então amanhã inclui o dia corrente.
func costWindow(query entity.TrendQuery, now time.Time) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := today.AddDate(0, 0, 1)

	if query.Granularity == entity.GranularityDaily {
		days := query.Days
		if days <= 0 {
			days = DefaultTrendDays
		}
		return end.AddDate(0, 0, -days), end
	}

	months := query.Months
	if months <= 0 {
		months = DefaultTrendMonths
	}
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, -(months - 1), 0), end
}

func groupDefinition(groupBy string) (ceTypes.GroupDefinition, error) {
	if groupBy == "" {
		groupBy = entity.DimensionService
	}
	if strings.HasPrefix(strings.ToLower(groupBy), tagGroupPrefix) {
		key := strings.TrimSpace(groupBy[len(tagGroupPrefix):])
		if key == "" {
			return ceTypes.GroupDefinition{}, fmt.Errorf("invalid group by '%s': missing tag key", groupBy)
		}
		return ceTypes.GroupDefinition{Type: ceTypes.GroupDefinitionTypeTag, Key: aws.String(key)}, nil
	}

	dimension := strings.ToUpper(groupBy)
	switch dimension {
	case entity.DimensionService, entity.DimensionLinkedAccount, entity.DimensionRegion, entity.DimensionUsageType:
		return ceTypes.GroupDefinition{Type: ceTypes.GroupDefinitionTypeDimension, Key: aws.String(dimension)}, nil
	default:
		return ceTypes.GroupDefinition{}, fmt.Errorf("invalid group by '%s'", groupBy)
	}
}

// groupLabel limpa chaves de tag ("team$payments" -> "payments").
func groupLabel(key string) string {
	if i := strings.Index(key, "$"); i >= 0 {
		if value := key[i+1:]; value != "" {
			return value
		}
		return untaggedLabel
	}
	return key
}

func metricAmount(metrics map[string]ceTypes.MetricValue) decimal.Decimal {
	metric, ok := metrics[costMetric]
	if !ok || metric.Amount == nil {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(*metric.Amount)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// parseTagFilter converte "Key=Value" em um filtro do Cost Explorer.
func parseTagFilter(tags []string) (*ceTypes.Expression, error) {
	if len(tags) == 0 {
		return nil, nil
	}

	var expressions []ceTypes.Expression
	for _, t := range tags {
		parts := strings.SplitN(t, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid tag format: %s", t)
		}
		expressions = append(expressions, ceTypes.Expression{
			Tags: &ceTypes.TagValues{
				Key:    aws.String(parts[0]),
				Values: []string{parts[1]},
			},
		})
	}

	if len(expressions) == 1 {
		return &expressions[0], nil
	}
	return &ceTypes.Expression{And: expressions}, nil
}
