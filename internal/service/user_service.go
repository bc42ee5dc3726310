package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"handoverhub/internal/models"
	"handoverhub/internal/repository"
)

// UserService manages the people directory referenced by handovers.
type UserService struct {
	users  *repository.UserRepository
	logger *zap.Logger
}

func NewUserService(users *repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// RegisterUserInput holds the fields for adding a directory record.
type RegisterUserInput struct {
	Email      string
	Name       string
	Role       string
	Department string
}

// Register adds a user. Registering an email twice returns the existing
// record unchanged.
func (s *UserService) Register(ctx context.Context, in RegisterUserInput) (*models.User, error) {
	existing, err := s.users.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	role := in.Role
	if role == "" {
		role = models.RoleEmployee
	}
	u := &models.User{
		ID:         uuid.NewString(),
		Email:      in.Email,
		Name:       in.Name,
		Role:       role,
		Department: in.Department,
	}
	if err := s.users.Create(nil, u); err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		zap.String("id", u.ID),
		zap.String("role", u.Role))
	return u, nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	return u, nil
}

// List returns the whole directory.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List()
}
