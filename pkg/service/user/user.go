package user

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/amirasaad/minibank/pkg/domain/user"
	"github.com/amirasaad/minibank/pkg/repository"
)

// Service provides business logic for user registration and lookup.
type Service struct {
	users  repository.UserRepository
	logger *slog.Logger
	// mu serializes the exists-then-save sequence of Register.
	mu sync.Mutex
}

// New creates a new Service.
func New(users repository.UserRepository, logger *slog.Logger) *Service {
	return &Service{users: users, logger: logger}
}

// Register creates and stores a user. The id must not be taken.
func (s *Service) Register(ctx context.Context, id int64, name string) (*user.User, error) {
	log := s.logger.With("context", "Register", "userID", id)
	log.Debug("Register called", "name", name)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	u, err := user.New(id, name)
	if err != nil {
		log.Error("Register failed: invalid user", "error", err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users.GetUser(id); exists {
		log.Error("Register failed: duplicate id")
		return nil, fmt.Errorf("register %d: %w", id, user.ErrUserExists)
	}
	s.users.SaveUser(u)
	log.Info("Register successful")
	return u, nil
}

// Get returns the user with the given id.
func (s *Service) Get(ctx context.Context, id int64) (*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, ok := s.users.GetUser(id)
	if !ok {
		s.logger.Debug("user not found", "userID", id)
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

// Profile returns the summary of the user with the given id.
func (s *Service) Profile(ctx context.Context, id int64) (user.Profile, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return user.Profile{}, err
	}
	return u.Profile(), nil
}
