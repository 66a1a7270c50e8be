package entity

// Dataset kinds accepted by the dataset loader.
const (
	DatasetCost     = "cost"
	DatasetResource = "resource"
	DatasetFindings = "findings"
)

// DatasetKinds lists every dataset kind.
var DatasetKinds = []string{DatasetCost, DatasetResource, DatasetFindings}

// DatasetUnit returns the unit of the values of a dataset kind.
func DatasetUnit(kind string) string {
	switch kind {
	case DatasetCost:
		return "USD"
	case DatasetResource:
		return "resources"
	default:
		return kind
	}
}
