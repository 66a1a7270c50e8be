package entity

// OthersLabel is the shared bucket for every category outside the top N.
const OthersLabel = "Others"

// Granularity is the size of one period in a time series.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityMonthly Granularity = "monthly"
	GranularityYearly  Granularity = "yearly"
)

// Mode selects between per-period values and running cumulative totals.
type Mode string

const (
	ModeTrending   Mode = "trending"
	ModeAggregated Mode = "aggregated"
)

// BreakdownEntry is one named share of a period's total.
// Key may repeat inside a single datapoint; repeated entries are summed.
type BreakdownEntry struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// RawDatapoint is the canonical input of the trend pipeline. Every dataset
// adapter maps its own payload into this shape.
type RawDatapoint struct {
	Period    string           `json:"period"`
	Total     float64          `json:"total"`
	Breakdown []BreakdownEntry `json:"breakdown,omitempty"`

	// DescribedCount and ExpectedCount are the completeness pair
	// (e.g. accounts scanned vs accounts eligible). nil means not reported.
	DescribedCount *int `json:"described_count,omitempty"`
	ExpectedCount  *int `json:"expected_count,omitempty"`
}

// CategoryValue is a labelled value inside one period.
type CategoryValue struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// NormalizedPeriod is one period after extraction. Categories are unique by
// label and kept in first-appearance order.
type NormalizedPeriod struct {
	Label      string          `json:"label"`
	Period     string          `json:"period"`
	Total      float64         `json:"total"`
	Categories []CategoryValue `json:"categories"`
	Incomplete bool            `json:"incomplete"`
}

// Value returns the value recorded for label, or 0 when absent.
func (p NormalizedPeriod) Value(label string) float64 {
	for _, c := range p.Categories {
		if c.Label == label {
			return c.Value
		}
	}
	return 0
}

// CategorySum returns the sum of every category value in the period.
func (p NormalizedPeriod) CategorySum() float64 {
	var sum float64
	for _, c := range p.Categories {
		sum += c.Value
	}
	return sum
}

// RankedCategory is a category with its total across all periods.
type RankedCategory struct {
	Label string  `json:"label"`
	Total float64 `json:"total"`
}

// CategoryRanking is ordered descending by Total, ties in first-seen order.
type CategoryRanking []RankedCategory

// Labels returns the ranked labels in order.
func (r CategoryRanking) Labels() []string {
	labels := make([]string, len(r))
	for i, c := range r {
		labels[i] = c.Label
	}
	return labels
}

// StackedSeries is the chart-ready output: one entry per period in every slice.
type StackedSeries struct {
	Labels []string          `json:"labels"`
	Data   [][]CategoryValue `json:"data"`
	Totals []float64         `json:"totals"`
	Flags  []bool            `json:"flag"`
}

// Len returns the number of frames in the series.
func (s StackedSeries) Len() int {
	return len(s.Labels)
}

// HasIncomplete reports whether any frame is flagged as incomplete.
func (s StackedSeries) HasIncomplete() bool {
	for _, f := range s.Flags {
		if f {
			return true
		}
	}
	return false
}

// CategoryLabels returns every label that appears in any frame, in first-seen order.
func (s StackedSeries) CategoryLabels() []string {
	seen := make(map[string]bool)
	var labels []string
	for _, frame := range s.Data {
		for _, c := range frame {
			if !seen[c.Label] {
				seen[c.Label] = true
				labels = append(labels, c.Label)
			}
		}
	}
	return labels
}
