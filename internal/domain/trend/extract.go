package trend

import (
	"time"

	"github.com/diillson/aws-finops-trends/internal/domain/entity"
)

// LabelFormatter turns a parsed period into its display label.
type LabelFormatter interface {
	FormatDate(t time.Time) string
	FormatYear(t time.Time) string
}

// DefaultFormatter formats dates as "Jan 2, 2006" and years as "2006".
type DefaultFormatter struct{}

func (DefaultFormatter) FormatDate(t time.Time) string { return t.Format("Jan 2, 2006") }
func (DefaultFormatter) FormatYear(t time.Time) string { return t.Format("2006") }

var periodLayouts = []string{"2006-01-02", time.RFC3339, "2006-01", "2006"}

type extractConfig struct {
	formatter          LabelFormatter
	totalFromBreakdown bool
}

// ExtractOption customizes Extract.
type ExtractOption func(*extractConfig)

// WithFormatter replaces the default label formatter.
func WithFormatter(f LabelFormatter) ExtractOption {
	return func(c *extractConfig) {
		if f != nil {
			c.formatter = f
		}
	}
}

// WithTotalFromBreakdown recomputes each period total as the breakdown sum.
func WithTotalFromBreakdown() ExtractOption {
	return func(c *extractConfig) {
		c.totalFromBreakdown = true
	}
}

// Extract normalizes raw datapoints into periods, in input order.
func Extract(raw []entity.RawDatapoint, granularity entity.Granularity, opts ...ExtractOption) []entity.NormalizedPeriod {
	cfg := extractConfig{formatter: DefaultFormatter{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	periods := make([]entity.NormalizedPeriod, 0, len(raw))
	for _, dp := range raw {
		categories := mergeBreakdown(dp.Breakdown)

		total := finite(dp.Total)
		if cfg.totalFromBreakdown {
			total = sumValues(categories)
		}

		periods = append(periods, entity.NormalizedPeriod{
			Label:      periodLabel(dp.Period, granularity, cfg.formatter),
			Period:     dp.Period,
			Total:      total,
			Categories: categories,
			Incomplete: isIncomplete(dp),
		})
	}
	return periods
}

func periodLabel(period string, granularity entity.Granularity, f LabelFormatter) string {
	t, ok := parsePeriod(period)
	if !ok {
		return period
	}
	if granularity == entity.GranularityYearly {
		return f.FormatYear(t)
	}
	return f.FormatDate(t)
}

func parsePeriod(period string) (time.Time, bool) {
	for _, layout := range periodLayouts {
		if t, err := time.Parse(layout, period); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func mergeBreakdown(entries []entity.BreakdownEntry) []entity.CategoryValue {
	merged := newAccumulator(len(entries))
	for _, e := range entries {
		label := e.Label
		if label == "" {
			label = e.Key
		}
		merged.add(label, e.Value)
	}
	return merged.values()
}

func isIncomplete(dp entity.RawDatapoint) bool {
	if dp.DescribedCount == nil && dp.ExpectedCount == nil {
		return false
	}
	return deref(dp.DescribedCount) != deref(dp.ExpectedCount)
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func sumValues(values []entity.CategoryValue) float64 {
	var sum float64
	for _, v := range values {
		sum += v.Value
	}
	return sum
}

// accumulator sums values by label and remembers first-appearance order.
type accumulator struct {
	index map[string]int
	items []entity.CategoryValue
}

func newAccumulator(size int) *accumulator {
	return &accumulator{
		index: make(map[string]int, size),
		items: make([]entity.CategoryValue, 0, size),
	}
}

func (a *accumulator) add(label string, value float64) {
	value = finite(value)
	if i, ok := a.index[label]; ok {
		a.items[i].Value += value
		return
	}
	a.index[label] = len(a.items)
	a.items = append(a.items, entity.CategoryValue{Label: label, Value: value})
}

func (a *accumulator) values() []entity.CategoryValue {
	return a.items
}
