package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/99minutos/expense-system/internal/core/domain"
	"github.com/99minutos/expense-system/internal/core/ports"
)

func validExpenseInput() ports.CreateExpenseInput {
	return ports.CreateExpenseInput{
		UserID:   "user-3",
		Title:    "Taxi",
		Amount:   decimal.RequireFromString("23.40"),
		Category: "travel",
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestExpenseService_Create_DefaultsToPending(t *testing.T) {
	f := newFixture()
	svc := f.expenseService()

	e, err := svc.Create(context.Background(), validExpenseInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Status != domain.StatusPending {
		t.Errorf("expected status pending, got %s", e.Status)
	}
	if !e.SubmittedAt.Equal(fixedNow) {
		t.Errorf("expected submittedAt %v, got %v", fixedNow, e.SubmittedAt)
	}
}

func TestExpenseService_Create_KeepsSuppliedStatus(t *testing.T) {
	f := newFixture()
	svc := f.expenseService()

	in := validExpenseInput()
	in.Status = "submitted"
	e, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Status != domain.StatusSubmitted {
		t.Errorf("expected status submitted, got %s", e.Status)
	}
}

func TestExpenseService_Create_Validation(t *testing.T) {
	cases := map[string]func(*ports.CreateExpenseInput){
		"zero amount":      func(in *ports.CreateExpenseInput) { in.Amount = decimal.Zero },
		"negative amount":  func(in *ports.CreateExpenseInput) { in.Amount = decimal.NewFromInt(-1) },
		"unknown category": func(in *ports.CreateExpenseInput) { in.Category = "yachts" },
		"unknown status":   func(in *ports.CreateExpenseInput) { in.Status = "paid" },
		"missing title":    func(in *ports.CreateExpenseInput) { in.Title = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			in := validExpenseInput()
			mutate(&in)
			_, err := f.expenseService().Create(context.Background(), in)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestExpenseService_Create_InvalidatesCacheAndEnqueues(t *testing.T) {
	f := newFixture()
	svc := f.expenseService()

	if _, err := svc.Create(context.Background(), validExpenseInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.cache.invalidated != 1 {
		t.Errorf("expected 1 invalidation, got %d", f.cache.invalidated)
	}
	types := f.queue.types()
	if len(types) != 1 || types[0] != domain.EventExpenseSubmitted {
		t.Errorf("expected [expense.submitted], got %v", types)
	}
	if f.queue.events[0].ID == "" {
		t.Error("event id must be set")
	}
}

func TestExpenseService_Create_NilCollaborators(t *testing.T) {
	f := newFixture()
	svc := NewExpenseService(f.store.Expenses(), f.store.Approvals(), nil, nil, f.clock, discardLogger)

	if _, err := svc.Create(context.Background(), validExpenseInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestExpenseService_List_FirstFilterWins(t *testing.T) {
	f := newFixture()
	f.seed()
	svc := f.expenseService()
	ctx := context.Background()

	byUser, _ := svc.List(ctx, ports.ListExpensesInput{UserID: "user-2", Status: "pending"})
	if len(byUser) != 1 || byUser[0].ID != "exp-3" {
		t.Errorf("userId filter must win, got %v", ids(byUser))
	}

	byStatus, _ := svc.List(ctx, ports.ListExpensesInput{Status: "approved", ManagerID: "user-2"})
	if len(byStatus) != 2 {
		t.Errorf("expected 2 approved expenses, got %v", ids(byStatus))
	}

	byManager, _ := svc.List(ctx, ports.ListExpensesInput{ManagerID: "user-2"})
	if len(byManager) != 1 || byManager[0].ID != "exp-1" {
		t.Errorf("expected [exp-1] for manager user-2, got %v", ids(byManager))
	}

	all, _ := svc.List(ctx, ports.ListExpensesInput{})
	if got := ids(all); len(got) != 3 || got[0] != "exp-1" || got[2] != "exp-3" {
		t.Errorf("expected all expenses in id order, got %v", got)
	}
}

func TestExpenseService_List_UnknownStatus(t *testing.T) {
	f := newFixture()
	_, err := f.expenseService().List(context.Background(), ports.ListExpensesInput{Status: "paid"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Update / Approvals
// ---------------------------------------------------------------------------

func TestExpenseService_Update_KeepsSubmittedAt(t *testing.T) {
	f := newFixture()
	f.seed()
	svc := f.expenseService()

	f.clock.Advance(time.Hour)
	amount := decimal.NewFromInt(1300)
	e, err := svc.Update(context.Background(), "exp-1", domain.ExpensePatch{Amount: &amount})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.Amount.Equal(amount) {
		t.Errorf("expected amount 1300, got %s", e.Amount)
	}
	if !e.SubmittedAt.Equal(fixedNow) {
		t.Errorf("submittedAt must not change, got %v", e.SubmittedAt)
	}
	if types := f.queue.types(); len(types) != 1 || types[0] != domain.EventExpenseUpdated {
		t.Errorf("expected [expense.updated], got %v", types)
	}
}

func TestExpenseService_Update_InvalidAmount(t *testing.T) {
	f := newFixture()
	f.seed()
	zero := decimal.Zero
	_, err := f.expenseService().Update(context.Background(), "exp-1", domain.ExpensePatch{Amount: &zero})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestExpenseService_Update_NotFound(t *testing.T) {
	f := newFixture()
	title := "x"
	_, err := f.expenseService().Update(context.Background(), "exp-9", domain.ExpensePatch{Title: &title})
	if !errors.Is(err, domain.ErrExpenseNotFound) {
		t.Fatalf("expected ErrExpenseNotFound, got %v", err)
	}
	if f.cache.invalidated != 0 {
		t.Error("failed update must not invalidate the cache")
	}
}

func TestExpenseService_Approvals_NotFound(t *testing.T) {
	f := newFixture()
	_, err := f.expenseService().Approvals(context.Background(), "exp-9")
	if !errors.Is(err, domain.ErrExpenseNotFound) {
		t.Fatalf("expected ErrExpenseNotFound, got %v", err)
	}
}

func ids(expenses []*domain.Expense) []string {
	out := make([]string, len(expenses))
	for i, e := range expenses {
		out[i] = e.ID
	}
	return out
}
