package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/99minutos/expense-system/internal/core/domain"
)

func TestLogPublisher_WritesStructuredEvent(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(zerolog.New(&buf))

	err := p.Publish(context.Background(), domain.ExpenseEvent{
		ID:         "evt-1",
		Type:       domain.EventExpenseApproved,
		ExpenseID:  "exp-1",
		UserID:     "user-3",
		ActorID:    "user-2",
		Status:     domain.StatusApproved,
		Amount:     decimal.RequireFromString("85.50"),
		OccurredAt: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if line["event_type"] != "expense.approved" {
		t.Errorf("expected event_type expense.approved, got %v", line["event_type"])
	}
	if line["amount"] != "85.5" {
		t.Errorf("expected amount 85.5, got %v", line["amount"])
	}
	if line["message"] != "expense event" {
		t.Errorf("unexpected message %v", line["message"])
	}
}
