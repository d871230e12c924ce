package ports

import (
	"context"

	"github.com/99minutos/expense-system/internal/core/domain"
)

// ExpenseRepository defines persistence operations for expenses.
// All list results are ordered by ID sequence.
type ExpenseRepository interface {
	// Create assigns the next sequential ID and stamps SubmittedAt with the
	// store's clock. The status is stored as supplied.
	Create(ctx context.Context, e *domain.Expense) (*domain.Expense, error)
	FindByID(ctx context.Context, id string) (*domain.Expense, error)
	FindByUser(ctx context.Context, userID string) ([]*domain.Expense, error)
	FindByStatus(ctx context.Context, status domain.ExpenseStatus) ([]*domain.Expense, error)
	// FindPendingByManager returns the pending expenses owned by direct
	// reports of managerID.
	FindPendingByManager(ctx context.Context, managerID string) ([]*domain.Expense, error)
	// FindInDateRange returns expenses whose submission day lies in r.
	FindInDateRange(ctx context.Context, r domain.DateRange) ([]*domain.Expense, error)
	List(ctx context.Context) ([]*domain.Expense, error)
	// Update merges patch into the stored expense. Returns
	// domain.ErrExpenseNotFound without side effects when id is unknown.
	Update(ctx context.Context, id string, patch domain.ExpensePatch) (*domain.Expense, error)
}
