package repository

import (
	"github.com/diillson/aws-finops-trends/internal/domain/entity"
	"github.com/diillson/aws-finops-trends/internal/shared/types"
)

// ExportRepository writes trend reports to disk and returns the absolute path.
type ExportRepository interface {
	ExportTrendToCSV(reports []entity.TrendReport, filename, outputDir string) (string, error)
	ExportTrendToJSON(reports []entity.TrendReport, filename, outputDir string) (string, error)
	ExportTrendToPDF(reports []entity.TrendReport, filename, outputDir string) (string, error)
	ExportTrendToHTML(reports []entity.TrendReport, palette types.Palette, filename, outputDir string) (string, error)
}
