package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/expense-system/internal/core/domain"
	"github.com/99minutos/expense-system/internal/core/ports"
	"github.com/99minutos/expense-system/internal/pkg/clock"
)

// changeNotifier runs the side effects of a committed expense write: it drops
// cached dashboard stats and enqueues an ExpenseEvent. Both collaborators are
// optional.
type changeNotifier struct {
	cache  ports.StatsCache
	events ports.EventQueue
	clock  clock.Clock
	log    zerolog.Logger
}

func (n changeNotifier) expenseChanged(ctx context.Context, typ domain.EventType, e *domain.Expense, actorID string) {
	if n.cache != nil {
		if err := n.cache.Invalidate(ctx); err != nil {
			n.log.Warn().Err(err).Str("expense_id", e.ID).Msg("failed to invalidate stats cache")
		}
	}
	if n.events == nil {
		return
	}
	n.events.Enqueue(domain.ExpenseEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		ExpenseID:  e.ID,
		UserID:     e.UserID,
		ActorID:    actorID,
		Status:     e.Status,
		Amount:     e.Amount,
		OccurredAt: n.clock.Now(),
	})
}
