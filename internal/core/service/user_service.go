package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/expense-system/internal/core/domain"
	"github.com/99minutos/expense-system/internal/core/ports"
)

type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger

	// managerMu serializes manager changes so that the chain check and the
	// write see the same hierarchy.
	managerMu sync.Mutex
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	user := &domain.User{
		Name:       input.Name,
		Email:      input.Email,
		Role:       domain.Role(input.Role),
		Department: input.Department,
		ManagerID:  input.ManagerID,
	}
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create user")
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user created")
	return created, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Update applies patch to the user. A manager change is refused when the new
// manager chain leads back to the user.
func (s *UserService) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	if patch.ManagerID != nil {
		s.managerMu.Lock()
		defer s.managerMu.Unlock()
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	next := *current
	patch.Apply(&next)
	if err := next.Validate(); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if patch.ManagerID != nil && next.ManagerID != current.ManagerID {
		if err := s.checkManagerChain(ctx, id, next.ManagerID); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info().Str("user_id", id).Msg("user updated")
	return updated, nil
}

// checkManagerChain walks managerID upwards. Reaching userID is a cycle; an
// unknown manager ends the walk.
func (s *UserService) checkManagerChain(ctx context.Context, userID, managerID string) error {
	seen := map[string]struct{}{}
	for cur := managerID; cur != ""; {
		if cur == userID {
			return domain.ErrManagerCycle
		}
		if _, ok := seen[cur]; ok {
			// pre-existing loop above userID
			return nil
		}
		seen[cur] = struct{}{}

		m, err := s.repo.FindByID(ctx, cur)
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		cur = m.ManagerID
	}
	return nil
}
