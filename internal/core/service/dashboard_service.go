package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/99minutos/expense-system/internal/core/domain"
	"github.com/99minutos/expense-system/internal/core/ports"
	"github.com/99minutos/expense-system/internal/pkg/clock"
	"github.com/99minutos/expense-system/internal/pkg/metrics"
)

const scopeAll = "all"

type DashboardService struct {
	expenses ports.ExpenseRepository
	cache    ports.StatsCache
	clock    clock.Clock
	log      zerolog.Logger
}

// NewDashboardService returns the stats aggregator. cache may be nil.
func NewDashboardService(expenses ports.ExpenseRepository, cache ports.StatsCache, clk clock.Clock, log zerolog.Logger) *DashboardService {
	return &DashboardService{expenses: expenses, cache: cache, clock: clk, log: log}
}

// Stats summarizes the expenses of userID, or of everyone when userID is empty.
func (s *DashboardService) Stats(ctx context.Context, userID string) (*domain.DashboardStats, error) {
	now := s.clock.Now().In(s.clock.Location())
	period := now.Format("2006-01")
	scope := userID
	if scope == "" {
		scope = scopeAll
	}

	// gen must be read before the store query.
	gen, cacheable := int64(0), false
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, period, scope)
		switch {
		case err != nil:
			metrics.StatsCacheTotal.WithLabelValues("error").Inc()
			s.log.Warn().Err(err).Str("scope", scope).Msg("stats cache read failed")
		case ok:
			metrics.StatsCacheTotal.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			metrics.StatsCacheTotal.WithLabelValues("miss").Inc()
		}

		if g, err := s.cache.Generation(ctx); err != nil {
			s.log.Warn().Err(err).Str("scope", scope).Msg("stats cache generation read failed")
		} else {
			gen, cacheable = g, true
		}
	}

	var (
		subset []*domain.Expense
		err    error
	)
	if userID != "" {
		subset, err = s.expenses.FindByUser(ctx, userID)
	} else {
		subset, err = s.expenses.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	stats := aggregate(subset, now)

	if cacheable {
		stored, err := s.cache.Set(ctx, gen, period, scope, stats)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("scope", scope).Msg("stats cache write failed")
		case !stored:
			metrics.StatsCacheTotal.WithLabelValues("stale").Inc()
		}
	}
	return stats, nil
}

// aggregate computes the dashboard figures for expenses. The monthly total
// covers submissions in now's calendar month, in now's location.
func aggregate(expenses []*domain.Expense, now time.Time) *domain.DashboardStats {
	stats := &domain.DashboardStats{
		TotalExpenses:  len(expenses),
		ApprovedAmount: decimal.Zero,
		MonthlyTotal:   decimal.Zero,
	}
	year, month, _ := now.Date()
	loc := now.Location()

	for _, e := range expenses {
		switch e.Status {
		case domain.StatusPending:
			stats.PendingApprovals++
		case domain.StatusApproved:
			stats.ApprovedAmount = stats.ApprovedAmount.Add(e.Amount)
		case domain.StatusRejected:
			stats.RejectedCount++
		}
		if y, m, _ := e.SubmittedAt.In(loc).Date(); y == year && m == month {
			stats.MonthlyTotal = stats.MonthlyTotal.Add(e.Amount)
		}
	}
	return stats
}
