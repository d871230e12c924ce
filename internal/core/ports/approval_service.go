package ports

import (
	"context"

	"github.com/99minutos/expense-system/internal/core/domain"
)

// DecisionResult is returned after an approve or reject.
type DecisionResult struct {
	Expense  *domain.Expense
	Approval *domain.Approval
}

// ApprovalService runs the approve/reject workflow.
type ApprovalService interface {
	Approve(ctx context.Context, expenseID, approverID, reason string) (*DecisionResult, error)
	Reject(ctx context.Context, expenseID, approverID, reason string) (*DecisionResult, error)
}
