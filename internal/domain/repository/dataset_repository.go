package repository

import (
	"github.com/diillson/aws-finops-trends/internal/domain/entity"
)

// DatasetRepository reads local time-series datasets and maps them into
// the canonical datapoint shape.
type DatasetRepository interface {
	LoadDataset(filePath, kind string) ([]entity.RawDatapoint, error)
	AppendResourceSnapshot(filePath string, snapshot entity.ResourceSnapshot) error
}
