package memory

import (
	"context"
	"fmt"

	"github.com/99minutos/expense-system/internal/core/domain"
)

// ApprovalRepository implements ports.ApprovalRepository on a Store.
type ApprovalRepository struct {
	s *Store
}

func (r *ApprovalRepository) Create(_ context.Context, a *domain.Approval) (*domain.Approval, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.insertApproval(a), nil
}

func (r *ApprovalRepository) FindByExpense(_ context.Context, expenseID string) ([]*domain.Approval, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Approval, 0)
	for _, id := range r.s.approvalOrder {
		if a := r.s.approvals[id]; a.ExpenseID == expenseID {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

// RecordDecision checks the transition, appends the approval and updates the
// expense while holding the write lock, so no reader observes one without the other.
func (r *ApprovalRepository) RecordDecision(_ context.Context, d domain.Decision) (*domain.Expense, *domain.Approval, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.expenses[d.ExpenseID]
	if !ok {
		return nil, nil, domain.ErrExpenseNotFound
	}
	target := d.Action.TargetStatus()
	if !e.Status.CanTransitionTo(target) {
		return nil, nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, e.Status, target)
	}

	approval := r.s.insertApproval(&domain.Approval{
		ExpenseID:  d.ExpenseID,
		ApproverID: d.ApproverID,
		Action:     d.Action,
		Reason:     d.Reason,
	})

	updated := e.Clone()
	d.Apply(updated, approval.Timestamp)
	r.s.expenses[d.ExpenseID] = updated

	return updated.Clone(), approval, nil
}
