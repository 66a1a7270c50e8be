package entity

// BudgetInfo represents a budget with actual and forecasted spend.
type BudgetInfo struct {
	Name     string  `json:"name"`
	Limit    float64 `json:"limit"`
	Actual   float64 `json:"actual"`
	Forecast float64 `json:"forecast,omitempty"`
	TimeUnit string  `json:"time_unit,omitempty"`
}

// Exceeded reports whether actual spend is over the limit.
func (b BudgetInfo) Exceeded() bool {
	return b.Limit > 0 && b.Actual > b.Limit
}
