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

func TestDashboardService_SampleData(t *testing.T) {
	f := newFixture()
	f.seed()
	svc := NewDashboardService(f.store.Expenses(), nil, f.clock, discardLogger)

	stats, err := svc.Stats(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalExpenses != 3 {
		t.Errorf("expected 3 expenses, got %d", stats.TotalExpenses)
	}
	if stats.PendingApprovals != 1 {
		t.Errorf("expected 1 pending, got %d", stats.PendingApprovals)
	}
	if !stats.ApprovedAmount.Equal(decimal.RequireFromString("130.80")) {
		t.Errorf("expected approved amount 130.80, got %s", stats.ApprovedAmount)
	}
	if stats.RejectedCount != 0 {
		t.Errorf("expected 0 rejected, got %d", stats.RejectedCount)
	}
	if !stats.MonthlyTotal.Equal(decimal.RequireFromString("1380.80")) {
		t.Errorf("expected monthly total 1380.80, got %s", stats.MonthlyTotal)
	}
}

func TestDashboardService_UserScope(t *testing.T) {
	f := newFixture()
	f.seed()
	svc := NewDashboardService(f.store.Expenses(), nil, f.clock, discardLogger)

	stats, err := svc.Stats(context.Background(), "user-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalExpenses != 1 || !stats.ApprovedAmount.Equal(decimal.RequireFromString("45.30")) {
		t.Errorf("unexpected stats for user-2: %+v", stats)
	}

	empty, _ := svc.Stats(context.Background(), "user-404")
	if empty.TotalExpenses != 0 || !empty.MonthlyTotal.IsZero() {
		t.Errorf("expected zero stats for unknown user, got %+v", empty)
	}
}

func TestAggregate_MonthUsesClockLocation(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	now := time.Date(2026, 4, 1, 0, 30, 0, 0, time.UTC)
	expenses := []*domain.Expense{{
		Amount:      decimal.NewFromInt(10),
		Status:      domain.StatusPending,
		SubmittedAt: time.Date(2026, 3, 31, 23, 0, 0, 0, time.UTC),
	}}

	if got := aggregate(expenses, now).MonthlyTotal; !got.IsZero() {
		t.Errorf("in UTC the expense belongs to March, expected 0, got %s", got)
	}
	if got := aggregate(expenses, now.In(est)).MonthlyTotal; !got.Equal(decimal.NewFromInt(10)) {
		t.Errorf("in EST both instants are in March, expected 10, got %s", got)
	}
}

func TestAggregate_SubmittedCountsOnlyTowardsTotals(t *testing.T) {
	expenses := []*domain.Expense{
		{Amount: decimal.NewFromInt(5), Status: domain.StatusSubmitted, SubmittedAt: fixedNow},
		{Amount: decimal.NewFromInt(7), Status: domain.StatusRejected, SubmittedAt: fixedNow},
	}
	stats := aggregate(expenses, fixedNow)
	if stats.PendingApprovals != 0 || stats.RejectedCount != 1 || stats.TotalExpenses != 2 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if !stats.MonthlyTotal.Equal(decimal.NewFromInt(12)) {
		t.Errorf("expected monthly total 12, got %s", stats.MonthlyTotal)
	}
}

func TestDashboardService_ServesFromCache(t *testing.T) {
	f := newFixture()
	f.seed()
	svc := NewDashboardService(f.store.Expenses(), f.cache, f.clock, discardLogger)
	ctx := context.Background()

	first, _ := svc.Stats(ctx, "")
	if f.cache.lastPeriod != "2026-03" {
		t.Errorf("expected period 2026-03, got %q", f.cache.lastPeriod)
	}

	// a write that bypasses the services leaves the cached value in place
	_, _ = f.store.Expenses().Create(ctx, &domain.Expense{
		UserID: "user-1", Title: "x", Amount: decimal.NewFromInt(1),
		Category: domain.CategoryOther, Status: domain.StatusPending,
	})
	second, _ := svc.Stats(ctx, "")
	if second != first {
		t.Error("expected the cached stats on the second call")
	}

	_ = f.cache.Invalidate(ctx)
	third, _ := svc.Stats(ctx, "")
	if third.TotalExpenses != 4 {
		t.Errorf("expected recomputed stats after invalidation, got %d", third.TotalExpenses)
	}
}

func TestDashboardService_CacheErrorIsBypassed(t *testing.T) {
	f := newFixture()
	f.seed()
	f.cache.getErr = errors.New("redis down")
	svc := NewDashboardService(f.store.Expenses(), f.cache, f.clock, discardLogger)

	stats, err := svc.Stats(context.Background(), "")
	if err != nil {
		t.Fatalf("cache failures must not surface, got %v", err)
	}
	if stats.TotalExpenses != 3 {
		t.Errorf("expected 3 expenses, got %d", stats.TotalExpenses)
	}
}

// writeDuringList runs afterRead once, after List has read the store and
// before its result reaches the caller.
type writeDuringList struct {
	ports.ExpenseRepository
	afterRead func()
}

func (r *writeDuringList) List(ctx context.Context) ([]*domain.Expense, error) {
	out, err := r.ExpenseRepository.List(ctx)
	if r.afterRead != nil {
		hook := r.afterRead
		r.afterRead = nil
		hook()
	}
	return out, err
}

func TestDashboardService_WriteDuringReadIsNotCached(t *testing.T) {
	f := newFixture()
	f.seed()
	ctx := context.Background()
	approvals := NewApprovalService(f.store.Approvals(), f.cache, f.queue, f.clock, discardLogger)

	repo := &writeDuringList{
		ExpenseRepository: f.store.Expenses(),
		afterRead: func() {
			if _, err := approvals.Approve(ctx, "exp-1", "user-2", ""); err != nil {
				t.Fatalf("approve: %v", err)
			}
		},
	}
	svc := NewDashboardService(repo, f.cache, f.clock, discardLogger)

	// computed from the pre-approval snapshot
	first, err := svc.Stats(ctx, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.PendingApprovals != 1 {
		t.Fatalf("expected the pre-approval snapshot, got %+v", first)
	}
	if len(f.cache.entries) != 0 {
		t.Fatal("stats computed across an invalidation must not be cached")
	}

	second, err := svc.Stats(ctx, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.PendingApprovals != 0 || !second.ApprovedAmount.Equal(decimal.RequireFromString("1380.80")) {
		t.Errorf("expected stats after the approval, got pending=%d approved=%s",
			second.PendingApprovals, second.ApprovedAmount)
	}
	if len(f.cache.entries) != 1 {
		t.Errorf("expected the fresh stats to be cached, got %d entries", len(f.cache.entries))
	}
}
