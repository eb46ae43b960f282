// Package service provides business logic for the application.
package service

import (
	"context"
	"strings"

	"github.com/userhub/userhub/internal/apperr"
	"github.com/userhub/userhub/internal/metrics"
	"github.com/userhub/userhub/internal/model"
	"github.com/userhub/userhub/internal/repository"
)

// Field length limits. The email cap follows the RFC 5321 address limit.
const (
	maxEmailLength = 254
	maxNameLength  = 100
)

// UserService orchestrates validation, storage delegation, and metrics.
// It holds no mutable state of its own and is safe for concurrent use;
// all synchronization lives inside the repository.
type UserService struct {
	repo    repository.UserRepository
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(repo repository.UserRepository, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		repo:    repo,
		metrics: recorder,
	}
}

// CreateUserInput defines input for creating a user.
type CreateUserInput struct {
	Email string
	Name  string
}

// UpdateUserInput defines input for a partial update. Nil fields are left
// unchanged; at least one field must be present.
type UpdateUserInput struct {
	Email *string
	Name  *string
}

// CreateUser validates the input and persists a new user.
// Validation runs before any storage call, so a rejected request never
// mutates the store.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, input.Email, input.Name)
	if err != nil {
		return nil, err
	}

	s.metrics.IncUserCreated()
	return user, nil
}

// GetUser retrieves a user by ID. The repository treats absence as an
// empty result; for a point lookup the service turns it into NotFound.
func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound(id)
	}
	return user, nil
}

// ListUsers returns a snapshot of all users.
func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.repo.FindAll(ctx)
}

// UpdateUser validates the partial update and applies it.
func (s *UserService) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*model.User, error) {
	if err := validateUpdate(input); err != nil {
		return nil, err
	}

	user, err := s.repo.Update(ctx, id, model.UserUpdate{
		Email: input.Email,
		Name:  input.Name,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncUserUpdated()
	return user, nil
}

// DeleteUser permanently removes a user. Repository errors pass through
// unchanged.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.metrics.IncUserDeleted()
	return nil
}

// validateEmail enforces the email business rules.
func validateEmail(email string) error {
	if email == "" {
		return apperr.Validation("email", "Email cannot be empty")
	}
	if !strings.Contains(email, "@") {
		return apperr.Validation("email", "Invalid email format")
	}
	if len(email) > maxEmailLength {
		return apperr.Validation("email", "Email too long")
	}
	return nil
}

// validateName enforces the name business rules.
func validateName(name string) error {
	if name == "" {
		return apperr.Validation("name", "Name cannot be empty")
	}
	if len(name) > maxNameLength {
		return apperr.Validation("name", "Name too long")
	}
	if strings.TrimSpace(name) == "" {
		return apperr.Validation("name", "Name cannot be only whitespace")
	}
	return nil
}

// validateCreate checks both fields of a create request.
func validateCreate(input CreateUserInput) error {
	if err := validateEmail(input.Email); err != nil {
		return err
	}
	return validateName(input.Name)
}

// validateUpdate requires at least one field and validates only the
// fields present.
func validateUpdate(input UpdateUserInput) error {
	if input.Email == nil && input.Name == nil {
		return apperr.InvalidInput("At least one field must be provided for update")
	}
	if input.Email != nil {
		if err := validateEmail(*input.Email); err != nil {
			return err
		}
	}
	if input.Name != nil {
		if err := validateName(*input.Name); err != nil {
			return err
		}
	}
	return nil
}
