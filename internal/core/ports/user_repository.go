package ports

import (
	"context"

	"github.com/99minutos/expense-system/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create assigns the next sequential ID and stores the user.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail returns the first user, in ID order, with the given email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// ListByManager returns the direct reports of managerID.
	ListByManager(ctx context.Context, managerID string) ([]*domain.User, error)
	// Update merges patch into the stored user. Returns domain.ErrUserNotFound
	// without side effects when id is unknown.
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
}
