package ports

import (
	"context"

	"github.com/99minutos/expense-system/internal/core/domain"
)

// ApprovalRepository handles the approval audit trail and decision writes.
type ApprovalRepository interface {
	// Create appends an approval record, assigning its ID and timestamp.
	Create(ctx context.Context, a *domain.Approval) (*domain.Approval, error)
	// FindByExpense returns the approvals of an expense in creation order.
	FindByExpense(ctx context.Context, expenseID string) ([]*domain.Approval, error)
	// RecordDecision appends the approval record and applies the status change
	// as one unit: either both are visible afterwards or neither is.
	// Returns domain.ErrExpenseNotFound or domain.ErrInvalidTransition.
	RecordDecision(ctx context.Context, d domain.Decision) (*domain.Expense, *domain.Approval, error)
}

// Seeder loads fixed records, preserving their IDs.
type Seeder interface {
	Seed(ctx context.Context, users []*domain.User, expenses []*domain.Expense) error
}
