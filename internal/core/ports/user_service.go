package ports

import (
	"context"

	"github.com/99minutos/expense-system/internal/core/domain"
)

// CreateUserInput carries the fields of a new user.
type CreateUserInput struct {
	Name       string
	Email      string
	Role       string
	Department string
	ManagerID  string
}

type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
}
