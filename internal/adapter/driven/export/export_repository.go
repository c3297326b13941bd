package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/diillson/consumption-fraud-go/internal/domain/entity"
	"github.com/diillson/consumption-fraud-go/internal/domain/repository"
	"github.com/jung-kurt/gofpdf"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct{}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{}
}

var csvHeaders = []string{"Run ID", "Client ID", "Probability", "Verdict", "Record Count", "Label"}

// ExportToCSV grava uma linha por cliente, na ordem do lote.
func (r *ExportRepositoryImpl) ExportToCSV(report entity.ScoringReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(csvHeaders); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}
	for _, v := range report.Verdicts {
		record := []string{
			report.RunID,
			cleanRichTags(string(v.ClientID)),
			strconv.FormatFloat(v.Probability, 'f', 6, 64),
			string(v.Verdict),
			strconv.Itoa(v.RecordCount),
			formatLabel(v.Label),
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("error writing CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("error flushing CSV file: %w", err)
	}
	return filepath.Abs(outputFilename)
}

// ExportToJSON grava o relatório completo.
func (r *ExportRepositoryImpl) ExportToJSON(report entity.ScoringReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "json")
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
	if err := encoder.Encode(report); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// ExportToPDF gera um resumo seguido da tabela de vereditos.
func (r *ExportRepositoryImpl) ExportToPDF(report entity.ScoringReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	bodyTextColor := [3]int{50, 50, 50}
	generated := report.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Fraud Verdicts | %s", generated.Format("2006-01-02"))), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Page %d", pdf.PageNo())), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	drawSection := func(title string, content string) {
		content = cleanRichTags(content)
		if strings.TrimSpace(content) == "" {
			return
		}
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(0, 0, 0)
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)
		pdf.SetDrawColor(200, 200, 200)
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(4)
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.MultiCell(190, 5, tr(content), "", "L", false)
		pdf.Ln(6)
	}

	// Cabeçalho
	pdf.SetFillColor(0, 102, 204)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr("  Consumption Fraud Verdicts"), "", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Run ID: %s", report.RunID)), "", 1, "L", true, 0, "")
	if report.AccountID != "" {
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Account ID: %s", report.AccountID)), "", 1, "L", true, 0, "")
	}
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Model: %s  |  Mode: %s", report.Model, report.Mode)), "", 1, "L", true, 0, "")
	pdf.Ln(6)

	summary := fmt.Sprintf("Sources: %s\nRecords: %d\nClients: %d\nFraudulent: %d\nLegitimate: %d",
		strings.Join(report.Sources, ", "), report.RecordCount, len(report.Verdicts), report.Fraudulent, report.Legitimate)
	drawSection("Summary", summary)
	drawSection("Class Balance (first-seen labels)", formatBalance(report.ClassBalance))

	// Tabela de vereditos
	widths := []float64{60, 35, 40, 30, 25}
	headers := []string{"Client ID", "Probability", "Verdict", "Records", "Label"}
	drawHeader := func() {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(51, 51, 51)
		pdf.SetTextColor(255, 255, 255)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}

	if len(report.Verdicts) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(0, 0, 0)
		pdf.Cell(0, 8, tr("Verdicts"))
		pdf.Ln(9)
		drawHeader()

		_, pageHeight := pdf.GetPageSize()
		_, _, _, bottom := pdf.GetMargins()
		for _, v := range report.Verdicts {
			if pdf.GetY()+7 > pageHeight-bottom-15 {
				pdf.AddPage()
				drawHeader()
			}
			if v.Verdict == entity.VerdictFraudulent {
				pdf.SetTextColor(200, 30, 30)
			} else {
				pdf.SetTextColor(30, 130, 30)
			}
			cells := []string{
				cleanRichTags(string(v.ClientID)),
				fmt.Sprintf("%.4f", v.Probability),
				string(v.Verdict),
				strconv.Itoa(v.RecordCount),
				formatLabel(v.Label),
			}
			for i, c := range cells {
				pdf.CellFormat(widths[i], 7, tr(c), "1", 0, "C", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}
	return filepath.Abs(outputFilename)
}

// --- Funções Auxiliares ---

// generateFilename cria um nome de arquivo único com timestamp e garante que o diretório exista.
func generateFilename(base, dir, ext string) (string, error) {
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
	timestamp := time.Now().Format("20060102_150405")
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

func formatLabel(label *int) string {
	if label == nil {
		return ""
	}
	return strconv.Itoa(*label)
}

func formatBalance(balance map[string]int) string {
	keys := make([]string, 0, len(balance))
	for k := range balance {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("%s: %d\n", k, balance[k]))
	}
	return b.String()
}
