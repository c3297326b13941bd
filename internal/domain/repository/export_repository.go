package repository

import (
	"github.com/diillson/consumption-fraud-go/internal/domain/entity"
)

type ExportRepository interface {
	ExportToCSV(report entity.ScoringReport, filename string, outputDir string) (string, error)
	ExportToJSON(report entity.ScoringReport, filename string, outputDir string) (string, error)
	ExportToPDF(report entity.ScoringReport, filename string, outputDir string) (string, error)
}
