package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/diillson/aws-finops-trends/internal/domain/entity"
	"github.com/diillson/aws-finops-trends/internal/domain/repository"
	"github.com/diillson/aws-finops-trends/internal/domain/trend"
	"github.com/diillson/aws-finops-trends/internal/shared/types"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct {
	now func() time.Time
}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{now: time.Now}
}

// ExportTrendToCSV grava um bloco por relatório: cabeçalho e uma linha por frame,
// com as categorias na ordem de empilhamento.
func (r *ExportRepositoryImpl) ExportTrendToCSV(reports []entity.TrendReport, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	for _, report := range reports {
		for _, record := range csvRecords(report) {
			if err := writer.Write(record); err != nil {
				return "", fmt.Errorf("error writing CSV record: %w", err)
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("error writing CSV file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func csvRecords(report entity.TrendReport) [][]string {
	categories := report.Series.CategoryLabels()
	header := append([]string{"Report", "Period", "Total", "Incomplete"}, categories...)

	records := [][]string{header}
	title := cleanRichTags(report.Title)
	for i, frame := range report.Series.Data {
		record := []string{
			title,
			report.Series.Labels[i],
			csvNumber(report, report.Series.Totals[i]),
			strconv.FormatBool(report.Series.Flags[i]),
		}
		for _, label := range categories {
			record = append(record, csvNumber(report, types.FrameValue(frame, label)))
		}
		records = append(records, record)
	}
	return records
}

func csvNumber(report entity.TrendReport, v float64) string {
	if report.IsCurrency() {
		v = trend.RoundCurrency(v)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ExportTrendToJSON grava os relatórios com a série no contrato
// labels/data/totals/flag.
func (r *ExportRepositoryImpl) ExportTrendToJSON(reports []entity.TrendReport, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(reports); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// --- Funções Auxiliares ---

// generateFilename cria um nome de arquivo único com timestamp e garante que o diretório exista.
func (r *ExportRepositoryImpl) generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := r.now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}

// Regex para limpar formatação pterm (rich tags) e sequências ANSI de cor/estilo.
var richTagRegex = regexp.MustCompile(`\[/?([a-zA-Z]+|#[0-9a-fA-F]{6})\]`)
var ansiRegex = regexp.MustCompile(`\x1B\[[0-9;]*[A-Za-z]`)

// cleanRichTags remove tags de formatação do pterm e sequências ANSI.
func cleanRichTags(text string) string {
	text = richTagRegex.ReplaceAllString(text, "")
	text = ansiRegex.ReplaceAllString(text, "")
	return text
}
