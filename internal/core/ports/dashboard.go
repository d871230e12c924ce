package ports

import (
	"context"

	"github.com/99minutos/expense-system/internal/core/domain"
)

// DashboardService computes summary statistics. An empty userID means all users.
type DashboardService interface {
	Stats(ctx context.Context, userID string) (*domain.DashboardStats, error)
}

// StatsCache stores computed dashboard stats. period identifies the calendar
// month the monthly total was computed for; scope is a user ID or "all".
//
// Every Invalidate advances a generation counter. Stats computed from a store
// read that started at generation gen are stored with Set(gen, ...), which
// discards them when an Invalidate ran in between.
type StatsCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, period, scope string) (*domain.DashboardStats, bool, error)
	// Set reports whether stats were stored.
	Set(ctx context.Context, gen int64, period, scope string, stats *domain.DashboardStats) (bool, error)
	// Invalidate drops every cached entry and advances the generation.
	Invalidate(ctx context.Context) error
}
