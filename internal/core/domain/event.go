package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType names a change in an expense's lifecycle.
type EventType string

const (
	EventExpenseSubmitted EventType = "expense.submitted"
	EventExpenseUpdated   EventType = "expense.updated"
	EventExpenseApproved  EventType = "expense.approved"
	EventExpenseRejected  EventType = "expense.rejected"
)

// ExpenseEvent is published after an expense write has been committed.
type ExpenseEvent struct {
	ID         string          `json:"id"`
	Type       EventType       `json:"type"`
	ExpenseID  string          `json:"expenseId"`
	UserID     string          `json:"userId"`
	ActorID    string          `json:"actorId,omitempty"`
	Status     ExpenseStatus   `json:"status"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurredAt"`
}
