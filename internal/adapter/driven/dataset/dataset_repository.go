package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/diillson/aws-finops-trends/internal/adapter/driven/config"
	"github.com/diillson/aws-finops-trends/internal/domain/entity"
	"github.com/diillson/aws-finops-trends/internal/domain/repository"
	"github.com/diillson/aws-finops-trends/internal/shared/types"
)

// DatasetRepositoryImpl implementa o DatasetRepository sobre arquivos locais.
type DatasetRepositoryImpl struct{}

// NewDatasetRepository cria uma nova implementação do DatasetRepository.
func NewDatasetRepository() repository.DatasetRepository {
	return &DatasetRepositoryImpl{}
}

type namedValue struct {
	Name  string   `json:"name" yaml:"name" toml:"name"`
	Cost  *float64 `json:"cost,omitempty" yaml:"cost,omitempty" toml:"cost,omitempty"`
	Count *float64 `json:"count,omitempty" yaml:"count,omitempty" toml:"count,omitempty"`
}

type costPoint struct {
	Date     string       `json:"date" yaml:"date" toml:"date"`
	Cost     *float64     `json:"cost,omitempty" yaml:"cost,omitempty" toml:"cost,omitempty"`
	Services []namedValue `json:"services,omitempty" yaml:"services,omitempty" toml:"services,omitempty"`
}

type resourcePoint struct {
	Timestamp         string       `json:"timestamp" yaml:"timestamp" toml:"timestamp"`
	Count             *float64     `json:"count,omitempty" yaml:"count,omitempty" toml:"count,omitempty"`
	ResourceTypes     []namedValue `json:"resourceTypes,omitempty" yaml:"resourceTypes,omitempty" toml:"resourceTypes,omitempty"`
	TotalConnections  *int         `json:"totalConnectionCount,omitempty" yaml:"totalConnectionCount,omitempty" toml:"totalConnectionCount,omitempty"`
	DescribedConnects *int         `json:"totalSuccessfulDescribedConnectionCount,omitempty" yaml:"totalSuccessfulDescribedConnectionCount,omitempty" toml:"totalSuccessfulDescribedConnectionCount,omitempty"`
}

type findingsPoint struct {
	Date              string       `json:"date" yaml:"date" toml:"date"`
	Total             *float64     `json:"total,omitempty" yaml:"total,omitempty" toml:"total,omitempty"`
	Severities        []namedValue `json:"severities,omitempty" yaml:"severities,omitempty" toml:"severities,omitempty"`
	TotalConnections  *int         `json:"totalConnectionCount,omitempty" yaml:"totalConnectionCount,omitempty" toml:"totalConnectionCount,omitempty"`
	DescribedConnects *int         `json:"totalSuccessfulDescribedConnectionCount,omitempty" yaml:"totalSuccessfulDescribedConnectionCount,omitempty" toml:"totalSuccessfulDescribedConnectionCount,omitempty"`
}

// Os formatos TOML não aceitam arrays no topo do documento, por isso os
// pontos ficam sempre sob a chave "points".
type document[T any] struct {
	Points []T `json:"points" yaml:"points" toml:"points"`
}

// LoadDataset lê o arquivo e converte cada ponto para RawDatapoint.
// Arquivos JSON e YAML também podem trazer a lista de pontos diretamente no topo.
func (r *DatasetRepositoryImpl) LoadDataset(filePath, kind string) ([]entity.RawDatapoint, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading dataset file: %w", err)
	}
	ext := filepath.Ext(filePath)

	switch kind {
	case entity.DatasetCost:
		points, err := decodePoints[costPoint](ext, data)
		if err != nil {
			return nil, err
		}
		return mapPoints(points, fromCost), nil
	case entity.DatasetResource:
		points, err := decodePoints[resourcePoint](ext, data)
		if err != nil {
			return nil, err
		}
		return mapPoints(points, fromResource), nil
	case entity.DatasetFindings:
		points, err := decodePoints[findingsPoint](ext, data)
		if err != nil {
			return nil, err
		}
		return mapPoints(points, fromFindings), nil
	default:
		return nil, fmt.Errorf("%w: '%s' (expected one of %v)", types.ErrUnknownDataset, kind, entity.DatasetKinds)
	}
}

func decodePoints[T any](ext string, data []byte) ([]T, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, nil
	}

	var doc document[T]
	docErr := config.Decode(ext, data, &doc)
	if docErr == nil {
		return doc.Points, nil
	}

	// JSON e YAML também aceitam a lista de pontos no topo do documento.
	var points []T
	if err := config.Decode(ext, data, &points); err != nil {
		return nil, docErr
	}
	return points, nil
}

func mapPoints[T any](points []T, fn func(T) entity.RawDatapoint) []entity.RawDatapoint {
	raw := make([]entity.RawDatapoint, 0, len(points))
	for _, p := range points {
		raw = append(raw, fn(p))
	}
	return raw
}

func fromCost(p costPoint) entity.RawDatapoint {
	dp := entity.RawDatapoint{Period: p.Date, Total: value(p.Cost)}
	for _, s := range p.Services {
		dp.Breakdown = append(dp.Breakdown, entity.BreakdownEntry{Key: s.Name, Label: s.Name, Value: value(s.Cost)})
	}
	return dp
}

func fromResource(p resourcePoint) entity.RawDatapoint {
	dp := entity.RawDatapoint{
		Period:         p.Timestamp,
		Total:          value(p.Count),
		DescribedCount: p.DescribedConnects,
		ExpectedCount:  p.TotalConnections,
	}
	for _, rt := range p.ResourceTypes {
		dp.Breakdown = append(dp.Breakdown, entity.BreakdownEntry{Key: rt.Name, Label: rt.Name, Value: value(rt.Count)})
	}
	return dp
}

func fromFindings(p findingsPoint) entity.RawDatapoint {
	dp := entity.RawDatapoint{
		Period:         p.Date,
		Total:          value(p.Total),
		DescribedCount: p.DescribedConnects,
		ExpectedCount:  p.TotalConnections,
	}
	for _, s := range p.Severities {
		dp.Breakdown = append(dp.Breakdown, entity.BreakdownEntry{
			Key:   s.Name,
			Label: strings.ToUpper(s.Name),
			Value: value(s.Count),
		})
	}
	return dp
}

func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// AppendResourceSnapshot acrescenta um snapshot de inventário ao histórico
// (formato "resource", JSON). Um snapshot com o mesmo timestamp é substituído.
func (r *DatasetRepositoryImpl) AppendResourceSnapshot(filePath string, snapshot entity.ResourceSnapshot) error {
	var points []resourcePoint
	if data, err := os.ReadFile(filePath); err == nil {
		points, err = decodePoints[resourcePoint](".json", data)
		if err != nil {
			return fmt.Errorf("error reading history file %s: %w", filePath, err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error reading history file %s: %w", filePath, err)
	}

	point := snapshotPoint(snapshot)
	replaced := false
	for i := range points {
		if points[i].Timestamp == point.Timestamp {
			points[i] = point
			replaced = true
		}
	}
	if !replaced {
		points = append(points, point)
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp < points[j].Timestamp
	})

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("error creating history directory: %w", err)
	}
	data, err := json.MarshalIndent(document[resourcePoint]{Points: points}, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding history: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing history file: %w", err)
	}
	return nil
}

// snapshotPoint converte o snapshot em um ponto diário. Cada tipo aparece uma
// vez por região; a soma por rótulo acontece na extração.
func snapshotPoint(s entity.ResourceSnapshot) resourcePoint {
	total := float64(s.Total())
	expected, described := s.ExpectedRegions, s.DescribedRegions
	point := resourcePoint{
		Timestamp:         s.Timestamp.UTC().Truncate(24 * time.Hour).Format("2006-01-02"),
		Count:             &total,
		TotalConnections:  &expected,
		DescribedConnects: &described,
	}
	for _, c := range s.Counts {
		count := float64(c.Count)
		point.ResourceTypes = append(point.ResourceTypes, namedValue{Name: c.Kind, Count: &count})
	}
	return point
}
