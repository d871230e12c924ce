package service

import (
	"bytes"
	"encoding/csv"
	"strings"
	"time"

	"github.com/99minutos/expense-system/internal/core/domain"
)

var csvHeader = []string{
	"ID", "User", "Title", "Description", "Amount", "Category",
	"Status", "Submitted Date", "Approved Date", "Approved By",
}

const unknownUser = "Unknown"

// renderCSV writes one row per expense through an RFC 4180 writer. Owner names
// fall back to "Unknown"; a missing approver leaves the column empty.
func renderCSV(expenses []*domain.Expense, users []*domain.User, opts ExportOptions) ([]byte, error) {
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for _, e := range expenses {
		owner, ok := names[e.UserID]
		if !ok {
			owner = unknownUser
		}
		description := e.Description
		if opts.ReplaceDescriptionCommas {
			description = strings.ReplaceAll(description, ",", ";")
		}
		var approvedAt, approver string
		if e.ApprovedAt != nil {
			approvedAt = e.ApprovedAt.Format(time.RFC3339)
		}
		if e.ApprovedBy != "" {
			approver = names[e.ApprovedBy]
		}

		row := []string{
			e.ID,
			owner,
			e.Title,
			description,
			e.Amount.StringFixed(2),
			string(e.Category),
			string(e.Status),
			e.SubmittedAt.Format(time.RFC3339),
			approvedAt,
			approver,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
