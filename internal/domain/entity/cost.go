package entity

// Dimension names accepted by Cost Explorer GroupBy.
const (
	DimensionService       = "SERVICE"
	DimensionLinkedAccount = "LINKED_ACCOUNT"
	DimensionRegion        = "REGION"
	DimensionUsageType     = "USAGE_TYPE"
)

// TrendQuery describes which cost series to fetch for a profile.
type TrendQuery struct {
	Granularity Granularity `json:"granularity"`
	// GroupBy is a Cost Explorer dimension or "tag:<key>".
	GroupBy string   `json:"group_by"`
	Months  int      `json:"months,omitempty"`
	Days    int      `json:"days,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// TrendReport is one rendered trend view, ready for display and export.
type TrendReport struct {
	Title       string          `json:"title"`
	Profile     string          `json:"profile"`
	AccountID   string          `json:"account_id"`
	Dimension   string          `json:"dimension"`
	Granularity Granularity     `json:"granularity"`
	Mode        Mode            `json:"mode"`
	TopN        int             `json:"top_n"`
	Ranking     CategoryRanking `json:"ranking"`
	Series      StackedSeries   `json:"series"`
	Budgets     []BudgetInfo    `json:"budgets,omitempty"`
	Unit        string          `json:"unit"`
}

// IsCurrency reports whether values of the report are amounts of money.
func (r TrendReport) IsCurrency() bool {
	return r.Unit == "USD"
}
