package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/expense-system/internal/core/domain"
	"github.com/99minutos/expense-system/internal/core/ports"
	"github.com/99minutos/expense-system/internal/pkg/clock"
	"github.com/99minutos/expense-system/internal/pkg/metrics"
)

type approvalService struct {
	repo   ports.ApprovalRepository
	notify changeNotifier
	log    zerolog.Logger
}

// NewApprovalService returns an ApprovalService implementation. cache and
// events may be nil.
func NewApprovalService(
	repo ports.ApprovalRepository,
	cache ports.StatsCache,
	events ports.EventQueue,
	clk clock.Clock,
	log zerolog.Logger,
) ports.ApprovalService {
	return &approvalService{
		repo:   repo,
		notify: changeNotifier{cache: cache, events: events, clock: clk, log: log},
		log:    log,
	}
}

func (s *approvalService) Approve(ctx context.Context, expenseID, approverID, reason string) (*ports.DecisionResult, error) {
	return s.decide(ctx, domain.Decision{
		ExpenseID:  expenseID,
		ApproverID: approverID,
		Action:     domain.ActionApprove,
		Reason:     reason,
	})
}

func (s *approvalService) Reject(ctx context.Context, expenseID, approverID, reason string) (*ports.DecisionResult, error) {
	return s.decide(ctx, domain.Decision{
		ExpenseID:  expenseID,
		ApproverID: approverID,
		Action:     domain.ActionReject,
		Reason:     reason,
	})
}

// decide records the approval and the status change as one store operation,
// then runs the post-commit side effects.
func (s *approvalService) decide(ctx context.Context, d domain.Decision) (*ports.DecisionResult, error) {
	if d.ApproverID == "" {
		return nil, fmt.Errorf("%s expense: %w", d.Action, domain.ValidationError("approverId is required"))
	}

	expense, approval, err := s.repo.RecordDecision(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("%s expense: %w", d.Action, err)
	}

	metrics.DecisionsTotal.WithLabelValues(string(d.Action)).Inc()

	evt := domain.EventExpenseApproved
	if d.Action == domain.ActionReject {
		evt = domain.EventExpenseRejected
	}
	s.notify.expenseChanged(ctx, evt, expense, d.ApproverID)

	s.log.Info().
		Str("expense_id", expense.ID).
		Str("approver_id", d.ApproverID).
		Str("action", string(d.Action)).
		Str("approval_id", approval.ID).
		Msg("decision recorded")

	return &ports.DecisionResult{Expense: expense, Approval: approval}, nil
}
