package console

import (
	"fmt"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/diillson/aws-finops-trends/internal/domain/entity"
	"github.com/diillson/aws-finops-trends/internal/domain/trend"
	"github.com/diillson/aws-finops-trends/internal/shared/types"
)

const (
	barWidth         = 40
	frameTopSegments = 3
)

// Console é uma implementação do ConsoleInterface.
type Console struct{}

// NewConsole cria um novo Console.
func NewConsole() *Console {
	return &Console{}
}

// LogInfo registra uma mensagem de informação.
func (c *Console) LogInfo(format string, a ...interface{}) {
	pterm.Info.Printfln(format, a...)
}

// LogWarning registra uma mensagem de aviso.
func (c *Console) LogWarning(format string, a ...interface{}) {
	pterm.Warning.Printfln(format, a...)
}

// LogError registra uma mensagem de erro.
func (c *Console) LogError(format string, a ...interface{}) {
	pterm.Error.Printfln(format, a...)
}

// LogSuccess registra uma mensagem de sucesso.
func (c *Console) LogSuccess(format string, a ...interface{}) {
	pterm.Success.Printfln(format, a...)
}

// statusHandle é uma implementação do StatusHandle.
type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status cria um spinner de status com a mensagem especificada.
func (c *Console) Status(message string) types.StatusHandle {
	spinner, _ := pterm.DefaultSpinner.Start(message)
	return &statusHandle{spinner: spinner}
}

// Update atualiza a mensagem de status.
func (h *statusHandle) Update(message string) {
	if h.spinner != nil {
		h.spinner.UpdateText(message)
	}
}

// Stop pára o spinner de status.
func (h *statusHandle) Stop() {
	if h.spinner != nil {
		h.spinner.Stop()
	}
}

// progressHandle é uma implementação do ProgressHandle.
type progressHandle struct {
	bar *pterm.ProgressbarPrinter
}

// ProgressWithTotal cria uma barra de progresso com o total de itens.
func (c *Console) ProgressWithTotal(total int) types.ProgressHandle {
	bar, _ := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("Building trends").
		WithShowElapsedTime(true).
		WithShowCount(true).
		WithRemoveWhenDone(false).
		Start()
	return &progressHandle{bar: bar}
}

// Increment incrementa a barra de progresso.
func (h *progressHandle) Increment() {
	if h.bar != nil {
		h.bar.Increment()
	}
}

// Stop pára a barra de progresso.
func (h *progressHandle) Stop() {
	if h.bar != nil {
		h.bar.Stop()
	}
}

// Table é uma implementação do TableInterface.
type Table struct {
	columns []string
	rows    [][]string
}

// CreateTable cria uma nova tabela com as colunas informadas.
func (c *Console) CreateTable(columns ...string) types.TableInterface {
	return &Table{columns: columns}
}

// AddColumn adiciona uma coluna à tabela.
func (t *Table) AddColumn(name string) {
	t.columns = append(t.columns, name)
}

// AddRow adiciona uma linha à tabela.
func (t *Table) AddRow(cells ...interface{}) {
	processedCells := make([]string, len(cells))
	for i, cell := range cells {
		processedCells[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, processedCells)
}

// Render renderiza a tabela como uma string.
func (t *Table) Render() string {
	tableData := pterm.TableData{t.columns}
	for _, row := range t.rows {
		tableData = append(tableData, row)
	}

	// As tabelas ficam dentro de um box, por isso sem borda própria.
	table := pterm.DefaultTable.
		WithHasHeader().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(tableData)

	renderedTable, _ := table.Srender()
	return renderedTable
}

var incompleteMarker = color.New(color.FgYellow, color.Bold).Sprint("⚠")

// DisplayTrendBars exibe o total de cada período em barras, com a variação
// em relação ao período anterior.
func (c *Console) DisplayTrendBars(title string, totals []types.PeriodTotal) {
	maxValue := 0.0
	for _, t := range totals {
		maxValue = math.Max(maxValue, t.Value)
	}
	if maxValue == 0 {
		pterm.Warning.Println("All totals are 0 for this period")
		return
	}

	table := c.CreateTable("Period", "Total", "", "Change", "")

	var prev *float64
	for _, t := range totals {
		bar := strings.Repeat("█", int((t.Value/maxValue)*barWidth))
		barColor := pterm.FgBlue.Sprint(bar)
		change := ""

		if prev != nil {
			switch {
			case *prev < 0.01 && t.Value < 0.01:
				change = pterm.FgYellow.Sprint("0%")
				barColor = pterm.FgYellow.Sprint(bar)
			case *prev < 0.01:
				change = pterm.FgRed.Sprint("N/A")
				barColor = pterm.FgRed.Sprint(bar)
			default:
				changePercent := trend.Percent(t.Value-*prev, *prev)
				switch {
				case math.Abs(changePercent) < 0.01:
					change = pterm.FgYellow.Sprint("0%")
					barColor = pterm.FgYellow.Sprint(bar)
				case changePercent > 999:
					change = pterm.FgRed.Sprint(">+999%")
					barColor = pterm.FgRed.Sprint(bar)
				case changePercent > 0:
					change = pterm.FgRed.Sprintf("+%.2f%%", changePercent)
					barColor = pterm.FgRed.Sprint(bar)
				default:
					change = pterm.FgGreen.Sprintf("%.2f%%", changePercent)
					barColor = pterm.FgGreen.Sprint(bar)
				}
			}
		}

		marker := ""
		if t.Incomplete {
			marker = incompleteMarker
		}
		table.AddRow(t.Label, fmt.Sprintf("%.2f", t.Value), barColor, change, marker)

		v := t.Value
		prev = &v
	}

	panel := pterm.DefaultBox.WithTitle(title).WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(table.Render())
	fmt.Println("\n" + panel)
}

// DisplayStackedTrend exibe a série empilhada: uma linha por frame com o
// total, a barra segmentada por categoria e os maiores segmentos.
func (c *Console) DisplayStackedTrend(report entity.TrendReport, palette types.Palette) {
	fmt.Println("\n" + c.renderStackedTrend(report, palette))
}

func (c *Console) renderStackedTrend(report entity.TrendReport, palette types.Palette) string {
	series := report.Series
	labels := series.CategoryLabels()
	colors := make(map[string]string, len(labels))
	for i, hex := range palette.Colors(labels) {
		colors[labels[i]] = hex
	}

	maxTotal := 0.0
	for f, frame := range series.Data {
		maxTotal = math.Max(maxTotal, math.Max(series.Totals[f], sumOf(frame)))
	}

	table := c.CreateTable("Period", "Total", "")
	table.AddColumn(fmt.Sprintf("Top %d", frameTopSegments))
	table.AddColumn("")
	for f, frame := range series.Data {
		marker := ""
		if series.Flags[f] {
			marker = incompleteMarker
		}
		table.AddRow(
			series.Labels[f],
			types.FormatValue(report, series.Totals[f]),
			stackedBar(frame, maxTotal, colors),
			topSegments(report, frame, series.Totals[f]),
			marker,
		)
	}
	renderedTable := table.Render()

	var legend []string
	for _, label := range labels {
		legend = append(legend, paint(colors[label], "■")+" "+label)
	}
	body := renderedTable + "\n" + strings.Join(legend, "  ")
	if series.HasIncomplete() {
		body += "\n" + incompleteMarker + " incomplete period: not every source reported data"
	}

	title := fmt.Sprintf("%s (%s, %s)", report.Title, report.Granularity, report.Mode)
	return pterm.DefaultBox.WithTitle(title).WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(body)
}

func stackedBar(frame []entity.CategoryValue, maxTotal float64, colors map[string]string) string {
	if maxTotal <= 0 {
		return ""
	}
	var b strings.Builder
	for _, c := range frame {
		if c.Value <= 0 {
			continue
		}
		width := int(math.Round(c.Value / maxTotal * barWidth))
		if width == 0 {
			continue
		}
		b.WriteString(paint(colors[c.Label], strings.Repeat("█", width)))
	}
	return b.String()
}

func topSegments(report entity.TrendReport, frame []entity.CategoryValue, total float64) string {
	shares := trend.Share(frame, total)
	parts := make([]string, 0, frameTopSegments)
	for i, c := range frame {
		if i == frameTopSegments {
			break
		}
		parts = append(parts, fmt.Sprintf("%s %s (%.0f%%)", c.Label, types.FormatValue(report, c.Value), shares[i]))
	}
	return strings.Join(parts, ", ")
}

// paint aplica a cor hex do palette; cores inválidas ficam sem estilo.
func paint(hex, text string) string {
	rgb, err := pterm.NewRGBFromHex(hex)
	if err != nil {
		return text
	}
	return rgb.Sprint(text)
}

func sumOf(frame []entity.CategoryValue) float64 {
	var sum float64
	for _, c := range frame {
		sum += c.Value
	}
	return sum
}
