package trend

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/diillson/aws-finops-trends/internal/domain/entity"
)

// finite maps NaN and ±Inf to 0 so they never reach a chart.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Percent returns part/whole*100. A zero whole is treated as 1.
func Percent(part, whole float64) float64 {
	part, whole = finite(part), finite(whole)
	if whole == 0 {
		whole = 1
	}
	return part / whole * 100
}

// Coverage returns described/expected as a percentage, 0 when nothing was
// expected.
func Coverage(described, expected int) float64 {
	if expected <= 0 {
		return 0
	}
	return Percent(float64(described), float64(expected))
}

// RoundCurrency rounds v to cents, half away from zero.
func RoundCurrency(v float64) float64 {
	rounded, _ := decimal.NewFromFloat(finite(v)).Round(2).Float64()
	return rounded
}

// Share returns each category's percentage of the frame total.
func Share(frame []entity.CategoryValue, total float64) []float64 {
	shares := make([]float64, len(frame))
	for i, c := range frame {
		shares[i] = Percent(c.Value, total)
	}
	return shares
}
