package messaging

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/99minutos/expense-system/internal/core/domain"
)

// LogPublisher writes expense events to the application log. It is used when
// no broker is configured.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, event domain.ExpenseEvent) error {
	p.log.Info().
		Str("event_id", event.ID).
		Str("event_type", string(event.Type)).
		Str("expense_id", event.ExpenseID).
		Str("user_id", event.UserID).
		Str("actor_id", event.ActorID).
		Str("status", string(event.Status)).
		Str("amount", event.Amount.String()).
		Time("occurred_at", event.OccurredAt).
		Msg("expense event")
	return nil
}
