package types

import "github.com/diillson/aws-finops-trends/internal/domain/entity"

// ConsoleInterface define a interface para saída no console.
type ConsoleInterface interface {
	LogInfo(format string, a ...interface{})
	LogWarning(format string, a ...interface{})
	LogError(format string, a ...interface{})
	LogSuccess(format string, a ...interface{})

	Status(message string) StatusHandle
	ProgressWithTotal(total int) ProgressHandle

	DisplayTrendBars(title string, totals []PeriodTotal)
	DisplayStackedTrend(report entity.TrendReport, palette Palette)
}

// StatusHandle é uma interface para atualizar uma mensagem de status.
type StatusHandle interface {
	Update(message string)
	Stop()
}

// ProgressHandle é uma interface para atualizar uma barra de progresso.
type ProgressHandle interface {
	Increment()
	Stop()
}

// TableInterface define a interface para montar e renderizar tabelas.
type TableInterface interface {
	AddColumn(name string)
	AddRow(cells ...interface{})
	Render() string
}

// PeriodTotal representa o total de um período, usado nos gráficos de barras.
type PeriodTotal struct {
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	Incomplete bool    `json:"incomplete"`
}

// TotalsOf extrai os totais por período de uma série empilhada.
func TotalsOf(series entity.StackedSeries) []PeriodTotal {
	totals := make([]PeriodTotal, series.Len())
	for i := range totals {
		totals[i] = PeriodTotal{
			Label:      series.Labels[i],
			Value:      series.Totals[i],
			Incomplete: series.Flags[i],
		}
	}
	return totals
}
