package types

import (
	"fmt"
	"math"

	"github.com/diillson/aws-finops-trends/internal/domain/entity"
	"github.com/diillson/aws-finops-trends/internal/domain/trend"
)

// FormatValue formata um valor do relatório: moeda com centavos, contagens
// inteiras sem casas decimais.
func FormatValue(report entity.TrendReport, v float64) string {
	if report.IsCurrency() {
		return fmt.Sprintf("$%.2f", trend.RoundCurrency(v))
	}
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// FrameValue devolve o valor de label no frame, ou 0.
func FrameValue(frame []entity.CategoryValue, label string) float64 {
	for _, c := range frame {
		if c.Label == label {
			return c.Value
		}
	}
	return 0
}
