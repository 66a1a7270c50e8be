package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/diillson/aws-finops-trends/internal/domain/entity"
	"github.com/diillson/aws-finops-trends/internal/domain/trend"
	"github.com/diillson/aws-finops-trends/internal/shared/types"
	"github.com/jung-kurt/gofpdf"
)

// Segmentos mostrados por frame na tabela do PDF.
const pdfFrameSegments = 3

// ExportTrendToPDF gera uma página por relatório: cabeçalho, resumo, budgets
// e a tabela de frames.
func (r *ExportRepositoryImpl) ExportTrendToPDF(reports []entity.TrendReport, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	sectionTitleColor := [3]int{0, 0, 0}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}
	warnColor := [3]int{192, 96, 0}

	drawSectionTitle := func(title string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)
		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(4)
	}

	drawSection := func(title string, content string) {
		content = cleanRichTags(content)
		if strings.TrimSpace(content) == "" {
			return
		}
		drawSectionTitle(title)
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.MultiCell(190, 5, tr(content), "", "L", false)
		pdf.Ln(8)
	}

	for i, report := range reports {
		pdf.AddPage()

		// Cabeçalho
		title := cleanRichTags(report.Title)
		if len(title) > 80 {
			title = title[:77] + "..."
		}
		pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
		pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 12, tr(fmt.Sprintf("  %s", title)), "", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		pdf.SetFillColor(240, 240, 240)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		if report.AccountID != "" {
			pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Account ID: %s", report.AccountID)), "", 1, "L", true, 0, "")
		}
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("  %s | %s | %s", report.Dimension, report.Granularity, report.Mode)), "", 1, "L", true, 0, "")
		pdf.Ln(8)

		drawSection("Summary", summaryText(report))
		drawSection("Budgets", budgetText(report.Budgets))

		// Tabela de frames
		drawSectionTitle("Periods")
		pdf.SetFont("Arial", "B", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.CellFormat(40, 7, "Period", "B", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, "Total", "B", 0, "R", false, 0, "")
		pdf.CellFormat(115, 7, tr(fmt.Sprintf("  Top %d segments", pdfFrameSegments)), "B", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "", 9)
		for f, frame := range report.Series.Data {
			label := report.Series.Labels[f]
			if report.Series.Flags[f] {
				pdf.SetTextColor(warnColor[0], warnColor[1], warnColor[2])
				label += " *"
			}
			pdf.CellFormat(40, 6, tr(label), "", 0, "L", false, 0, "")
			pdf.CellFormat(35, 6, tr(types.FormatValue(report, report.Series.Totals[f])), "", 0, "R", false, 0, "")
			pdf.CellFormat(115, 6, tr("  "+segmentsText(report, frame, report.Series.Totals[f])), "", 1, "L", false, 0, "")
			pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		}
		if report.Series.HasIncomplete() {
			pdf.Ln(3)
			pdf.SetFont("Arial", "I", 8)
			pdf.CellFormat(0, 5, tr("* incomplete period: not every source reported data"), "", 1, "L", false, 0, "")
		}

		// Rodapé
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		footerText := fmt.Sprintf("Generated by AWS FinOps Trends (Go) | %s", r.now().Format("2006-01-02"))
		pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Page %d", i+1)), "", 0, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}
	return filepath.Abs(outputFilename)
}

func summaryText(report entity.TrendReport) string {
	var b strings.Builder
	n := report.Series.Len()
	fmt.Fprintf(&b, "Periods: %d\n", n)
	if n > 0 {
		fmt.Fprintf(&b, "Latest (%s): %s\n", report.Series.Labels[n-1], types.FormatValue(report, report.Series.Totals[n-1]))
	}
	if report.TopN >= 0 {
		fmt.Fprintf(&b, "Top categories: %d (the rest grouped as %s)\n", report.TopN, entity.OthersLabel)
	}
	limit := len(report.Ranking)
	if limit > 10 {
		limit = 10
	}
	if limit > 0 {
		b.WriteString("\nRanking:\n")
	}
	for i := 0; i < limit; i++ {
		c := report.Ranking[i]
		fmt.Fprintf(&b, "%2d. %s: %s\n", i+1, c.Label, types.FormatValue(report, c.Total))
	}
	if len(report.Ranking) > limit {
		fmt.Fprintf(&b, "... (+%d more)\n", len(report.Ranking)-limit)
	}
	return b.String()
}

func budgetText(budgets []entity.BudgetInfo) string {
	var b strings.Builder
	for _, budget := range budgets {
		status := "OK"
		if budget.Exceeded() {
			status = "EXCEEDED"
		}
		fmt.Fprintf(&b, "%s: $%.2f of $%.2f (%.1f%%) %s\n",
			budget.Name, budget.Actual, budget.Limit, trend.Percent(budget.Actual, budget.Limit), status)
	}
	return b.String()
}

func segmentsText(report entity.TrendReport, frame []entity.CategoryValue, total float64) string {
	parts := make([]string, 0, pdfFrameSegments+1)
	shares := trend.Share(frame, total)
	for i, c := range frame {
		if i == pdfFrameSegments {
			parts = append(parts, fmt.Sprintf("+%d", len(frame)-pdfFrameSegments))
			break
		}
		parts = append(parts, fmt.Sprintf("%s %s (%.0f%%)", c.Label, types.FormatValue(report, c.Value), shares[i]))
	}
	return strings.Join(parts, ", ")
}
