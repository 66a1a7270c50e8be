package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/diillson/aws-finops-trends/internal/domain/entity"
	"github.com/diillson/aws-finops-trends/internal/domain/trend"
	"github.com/diillson/aws-finops-trends/internal/shared/types"
)

const (
	chartWidth       = "1200px"
	chartHeight      = "600px"
	chartStack       = "total"
	incompleteColor  = "rgba(245, 158, 11, 0.15)"
	incompleteLabel  = "#B45309"
	budgetLabelColor = "#DC2626"
	incompletePeriod = "Incomplete"
)

// ExportTrendToHTML gera uma página com um gráfico empilhado por relatório:
// barras para trending, linhas acumuladas para aggregated.
func (r *ExportRepositoryImpl) ExportTrendToHTML(reports []entity.TrendReport, palette types.Palette, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "html")
	if err != nil {
		return "", err
	}

	page := components.NewPage()
	page.PageTitle = "AWS FinOps Trends"
	for _, report := range reports {
		page.AddCharts(buildTrendChart(report, palette))
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating HTML file: %w", err)
	}
	defer file.Close()

	if err := page.Render(file); err != nil {
		return "", fmt.Errorf("error rendering HTML chart: %w", err)
	}
	return filepath.Abs(outputFilename)
}

// chartSeries é uma categoria do gráfico com um valor por frame.
type chartSeries struct {
	label  string
	values []float64
}

// stackSeries transpõe os frames em séries por categoria, na ordem de empilhamento.
func stackSeries(report entity.TrendReport) []chartSeries {
	labels := report.Series.CategoryLabels()
	series := make([]chartSeries, len(labels))
	for i, label := range labels {
		values := make([]float64, report.Series.Len())
		for f, frame := range report.Series.Data {
			v := types.FrameValue(frame, label)
			if report.IsCurrency() {
				v = trend.RoundCurrency(v)
			}
			values[f] = v
		}
		series[i] = chartSeries{label: label, values: values}
	}
	return series
}

func buildTrendChart(report entity.TrendReport, palette types.Palette) components.Charter {
	series := stackSeries(report)
	labels := make([]string, len(series))
	for i, s := range series {
		labels[i] = s.label
	}

	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:  chartWidth,
			Height: chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    cleanRichTags(report.Title),
			Subtitle: fmt.Sprintf("%s | %s | %s", report.Dimension, report.Granularity, report.Mode),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:   opts.Bool(true),
			Right:  "10",
			Orient: "vertical",
			Type:   "scroll",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:         "Period",
			NameLocation: "center",
			NameGap:      30,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         report.Unit,
			NameLocation: "center",
			NameGap:      60,
		}),
		charts.WithGridOpts(opts.Grid{
			Left:   "90",
			Right:  "240",
			Bottom: "60",
		}),
		charts.WithColorsOpts(opts.Colors(palette.Colors(labels))),
	}

	markAreas := incompleteAreas(report.Series)
	markLines := budgetLines(report)

	if report.Mode == entity.ModeAggregated {
		line := charts.NewLine()
		line.SetGlobalOptions(global...)
		line.SetXAxis(report.Series.Labels)
		for i, s := range series {
			data := make([]opts.LineData, len(s.values))
			for f, v := range s.values {
				data[f] = opts.LineData{Value: v}
			}
			line.AddSeries(s.label, data, firstSeriesOpts(i, markAreas, markLines)...)
		}
		line.SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{Stack: chartStack, Smooth: opts.Bool(true)}),
		)
		return line
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(global...)
	bar.SetXAxis(report.Series.Labels)
	for i, s := range series {
		data := make([]opts.BarData, len(s.values))
		for f, v := range s.values {
			data[f] = opts.BarData{Value: v}
		}
		bar.AddSeries(s.label, data, firstSeriesOpts(i, markAreas, markLines)...)
	}
	bar.SetSeriesOptions(
		charts.WithBarChartOpts(opts.BarChart{Stack: chartStack}),
	)
	return bar
}

// As marcações ficam só na primeira série para não se repetirem.
func firstSeriesOpts(i int, markAreas [][]opts.MarkAreaData, markLines []opts.MarkLineNameYAxisItem) []charts.SeriesOpts {
	if i != 0 {
		return nil
	}
	var seriesOpts []charts.SeriesOpts
	if len(markAreas) > 0 {
		seriesOpts = append(seriesOpts, charts.WithMarkAreaData(markAreas...))
	}
	for _, ml := range markLines {
		seriesOpts = append(seriesOpts, charts.WithMarkLineNameYAxisItemOpts(ml))
	}
	if len(markLines) > 0 {
		seriesOpts = append(seriesOpts, charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
			Symbol: []string{"none", "none"},
			Label:  &opts.Label{Show: opts.Bool(true), Formatter: "{b}", Color: budgetLabelColor},
		}))
	}
	return seriesOpts
}

// incompleteAreas destaca cada frame incompleto.
func incompleteAreas(series entity.StackedSeries) [][]opts.MarkAreaData {
	var areas [][]opts.MarkAreaData
	for i, flagged := range series.Flags {
		if !flagged {
			continue
		}
		areas = append(areas, []opts.MarkAreaData{
			{
				Name:  incompletePeriod,
				XAxis: series.Labels[i],
				MarkAreaStyle: opts.MarkAreaStyle{
					ItemStyle: &opts.ItemStyle{Color: incompleteColor},
					Label: &opts.Label{
						Show:     opts.Bool(true),
						Position: "insideTop",
						Color:    incompleteLabel,
					},
				},
			},
			{XAxis: series.Labels[i]},
		})
	}
	return areas
}

// budgetLines só faz sentido sobre o gasto acumulado.
func budgetLines(report entity.TrendReport) []opts.MarkLineNameYAxisItem {
	if report.Mode != entity.ModeAggregated || !report.IsCurrency() {
		return nil
	}
	var lines []opts.MarkLineNameYAxisItem
	for _, b := range report.Budgets {
		if b.Limit <= 0 {
			continue
		}
		lines = append(lines, opts.MarkLineNameYAxisItem{
			Name:  fmt.Sprintf("%s ($%.2f)", b.Name, b.Limit),
			YAxis: trend.RoundCurrency(b.Limit),
		})
	}
	return lines
}
