package memory

import (
	"context"

	"github.com/99minutos/expense-system/internal/core/domain"
)

// ExpenseRepository implements ports.ExpenseRepository on a Store.
type ExpenseRepository struct {
	s *Store
}

func (r *ExpenseRepository) Create(_ context.Context, e *domain.Expense) (*domain.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := e.Clone()
	stored.ID = r.s.newExpenseID()
	stored.SubmittedAt = r.s.clock.Now()
	r.s.expenses[stored.ID] = stored
	r.s.expenseOrder = append(r.s.expenseOrder, stored.ID)

	return stored.Clone(), nil
}

func (r *ExpenseRepository) FindByID(_ context.Context, id string) (*domain.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.expenses[id]
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}
	return e.Clone(), nil
}

func (r *ExpenseRepository) FindByUser(_ context.Context, userID string) ([]*domain.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.filterExpenses(func(e *domain.Expense) bool { return e.UserID == userID }), nil
}

func (r *ExpenseRepository) FindByStatus(_ context.Context, status domain.ExpenseStatus) ([]*domain.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.filterExpenses(func(e *domain.Expense) bool { return e.Status == status }), nil
}

func (r *ExpenseRepository) FindPendingByManager(_ context.Context, managerID string) ([]*domain.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	reports := make(map[string]struct{})
	for _, u := range r.s.users {
		if u.ManagerID == managerID {
			reports[u.ID] = struct{}{}
		}
	}
	return r.s.filterExpenses(func(e *domain.Expense) bool {
		_, ok := reports[e.UserID]
		return ok && e.Status == domain.StatusPending
	}), nil
}

func (r *ExpenseRepository) FindInDateRange(_ context.Context, rng domain.DateRange) ([]*domain.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.filterExpenses(func(e *domain.Expense) bool { return rng.Contains(e.SubmittedAt) }), nil
}

func (r *ExpenseRepository) List(_ context.Context) ([]*domain.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.filterExpenses(func(*domain.Expense) bool { return true }), nil
}

func (r *ExpenseRepository) Update(_ context.Context, id string, patch domain.ExpensePatch) (*domain.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.expenses[id]
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}
	updated := e.Clone()
	patch.Apply(updated)
	r.s.expenses[id] = updated

	return updated.Clone(), nil
}
