package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/99minutos/expense-system/internal/core/domain"
	"github.com/99minutos/expense-system/internal/core/ports"
	"github.com/99minutos/expense-system/internal/pkg/clock"
	"github.com/99minutos/expense-system/internal/pkg/metrics"
)

// ExportOptions tunes the CSV rendering.
type ExportOptions struct {
	// ReplaceDescriptionCommas swaps commas in descriptions for semicolons.
	ReplaceDescriptionCommas bool
}

type ExportService struct {
	expenses ports.ExpenseRepository
	users    ports.UserRepository
	clock    clock.Clock
	opts     ExportOptions
	log      zerolog.Logger
}

func NewExportService(
	expenses ports.ExpenseRepository,
	users ports.UserRepository,
	clk clock.Clock,
	opts ExportOptions,
	log zerolog.Logger,
) *ExportService {
	return &ExportService{expenses: expenses, users: users, clock: clk, opts: opts, log: log}
}

// Export returns the expenses submitted within the inclusive date range as a
// JSON document or a CSV file.
func (s *ExportService) Export(ctx context.Context, input ports.ExportInput) (*ports.ExportResult, error) {
	format := strings.ToLower(input.Format)
	if format == "" {
		format = ports.ExportFormatJSON
	}
	if format != ports.ExportFormatJSON && format != ports.ExportFormatCSV {
		return nil, fmt.Errorf("export: %w", domain.ValidationError("unknown format "+input.Format))
	}

	rng, err := domain.ParseDateRange(input.StartDate, input.EndDate, s.clock.Location())
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	expenses, err := s.expenses.FindInDateRange(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	result := &ports.ExportResult{Format: format}
	switch format {
	case ports.ExportFormatCSV:
		body, err := renderCSV(expenses, users, s.opts)
		if err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
		result.CSV = body
		result.Filename = fmt.Sprintf("expenses-%s-%s.csv", input.StartDate, input.EndDate)
	default:
		result.Document = &domain.ExpenseExport{
			Expenses:    expenses,
			Users:       users,
			TotalAmount: totalAmount(expenses),
			DateRange:   domain.DateRangeLabel{Start: input.StartDate, End: input.EndDate},
		}
	}

	metrics.ExportsTotal.WithLabelValues(format).Inc()
	s.log.Info().
		Str("format", format).
		Str("start", input.StartDate).
		Str("end", input.EndDate).
		Int("count", len(expenses)).
		Msg("expenses exported")
	return result, nil
}

func totalAmount(expenses []*domain.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}
