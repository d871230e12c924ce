package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/99minutos/expense-system/internal/core/domain"
)

// CreateExpenseInput carries the caller-supplied fields of a new expense.
type CreateExpenseInput struct {
	UserID          string
	Title           string
	Description     string
	Amount          decimal.Decimal
	Category        string
	Status          string // empty = pending
	RejectionReason string
	ReceiptURL      string
}

// ListExpensesInput selects which expenses to list. The first non-empty
// field in declaration order wins; all empty lists everything.
type ListExpensesInput struct {
	UserID    string
	Status    string
	ManagerID string
}

// ExpenseService defines use-case operations for expenses.
type ExpenseService interface {
	Create(ctx context.Context, input CreateExpenseInput) (*domain.Expense, error)
	Get(ctx context.Context, id string) (*domain.Expense, error)
	List(ctx context.Context, input ListExpensesInput) ([]*domain.Expense, error)
	Update(ctx context.Context, id string, patch domain.ExpensePatch) (*domain.Expense, error)
	// Approvals returns the audit trail of an existing expense.
	Approvals(ctx context.Context, id string) ([]*domain.Approval, error)
}
