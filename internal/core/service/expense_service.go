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

type ExpenseService struct {
	expenses  ports.ExpenseRepository
	approvals ports.ApprovalRepository
	notify    changeNotifier
	logger    zerolog.Logger
}

// NewExpenseService builds the expense use cases. cache and events may be nil.
func NewExpenseService(
	expenses ports.ExpenseRepository,
	approvals ports.ApprovalRepository,
	cache ports.StatsCache,
	events ports.EventQueue,
	clk clock.Clock,
	logger zerolog.Logger,
) *ExpenseService {
	return &ExpenseService{
		expenses:  expenses,
		approvals: approvals,
		notify:    changeNotifier{cache: cache, events: events, clock: clk, log: logger},
		logger:    logger,
	}
}

// Create stores a new expense. The status defaults to pending; the store
// stamps the submission time.
func (s *ExpenseService) Create(ctx context.Context, input ports.CreateExpenseInput) (*domain.Expense, error) {
	status := domain.ExpenseStatus(input.Status)
	if status == "" {
		status = domain.StatusPending
	}
	e := &domain.Expense{
		UserID:          input.UserID,
		Title:           input.Title,
		Description:     input.Description,
		Amount:          input.Amount,
		Category:        domain.Category(input.Category),
		Status:          status,
		RejectionReason: input.RejectionReason,
		ReceiptURL:      input.ReceiptURL,
	}
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	created, err := s.expenses.Create(ctx, e)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create expense")
		return nil, fmt.Errorf("create expense: %w", err)
	}

	metrics.ExpensesCreatedTotal.WithLabelValues(string(created.Category)).Inc()
	s.notify.expenseChanged(ctx, domain.EventExpenseSubmitted, created, created.UserID)

	s.logger.Info().
		Str("expense_id", created.ID).
		Str("user_id", created.UserID).
		Str("amount", created.Amount.String()).
		Msg("expense created")
	return created, nil
}

func (s *ExpenseService) Get(ctx context.Context, id string) (*domain.Expense, error) {
	e, err := s.expenses.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// List applies the first non-empty filter of userId, status, managerId.
func (s *ExpenseService) List(ctx context.Context, input ports.ListExpensesInput) ([]*domain.Expense, error) {
	var (
		out []*domain.Expense
		err error
	)
	switch {
	case input.UserID != "":
		out, err = s.expenses.FindByUser(ctx, input.UserID)
	case input.Status != "":
		status := domain.ExpenseStatus(input.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("list expenses: %w", domain.ValidationError("unknown status "+input.Status))
		}
		out, err = s.expenses.FindByStatus(ctx, status)
	case input.ManagerID != "":
		out, err = s.expenses.FindPendingByManager(ctx, input.ManagerID)
	default:
		out, err = s.expenses.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return out, nil
}

// Update merges patch into the expense. The merged record must still be valid.
func (s *ExpenseService) Update(ctx context.Context, id string, patch domain.ExpensePatch) (*domain.Expense, error) {
	current, err := s.expenses.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	next := current.Clone()
	patch.Apply(next)
	if err := next.Validate(); err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}

	updated, err := s.expenses.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}

	s.notify.expenseChanged(ctx, domain.EventExpenseUpdated, updated, "")
	s.logger.Info().Str("expense_id", id).Str("status", string(updated.Status)).Msg("expense updated")
	return updated, nil
}

func (s *ExpenseService) Approvals(ctx context.Context, id string) ([]*domain.Approval, error) {
	if _, err := s.expenses.FindByID(ctx, id); err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	trail, err := s.approvals.FindByExpense(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	return trail, nil
}
