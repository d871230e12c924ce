package ports

import (
	"context"

	"github.com/99minutos/expense-system/internal/core/domain"
)

// EventPublisher delivers an expense event to an external sink.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ExpenseEvent) error
}

// EventQueue accepts events for asynchronous publication. Enqueue must not block.
type EventQueue interface {
	Enqueue(event domain.ExpenseEvent)
}
