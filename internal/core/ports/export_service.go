package ports

import (
	"context"

	"github.com/99minutos/expense-system/internal/core/domain"
)

const (
	ExportFormatJSON = "json"
	ExportFormatCSV  = "csv"
)

// ExportInput carries the export query. Dates are YYYY-MM-DD; Format
// defaults to json.
type ExportInput struct {
	StartDate string
	EndDate   string
	Format    string
}

// ExportResult holds either the JSON document or the rendered CSV.
type ExportResult struct {
	Format   string
	Document *domain.ExpenseExport
	CSV      []byte
	Filename string
}

type ExportService interface {
	Export(ctx context.Context, input ExportInput) (*ExportResult, error)
}
