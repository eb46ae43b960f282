// Package repository provides the storage contract for users and its
// implementations.
package repository

import (
	"context"

	"github.com/userhub/userhub/internal/model"
)

// UserRepository is the capability contract a backing store must satisfy.
// Implementations must enforce email uniqueness atomically with respect to
// their own writes; callers never see a partially applied mutation.
//
// Lookups return (nil, nil) when no user matches; absence is not an error
// at this layer.
type UserRepository interface {
	// Create persists a new user with a generated ID and timestamps.
	// Returns apperr.AlreadyExistsError if a live user holds the email.
	Create(ctx context.Context, email, name string) (*model.User, error)

	// FindByID returns the user with the given ID, or nil if absent.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail returns the user with the given email, or nil if absent.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindAll returns a consistent snapshot of all users, ordered by ID.
	FindAll(ctx context.Context) ([]*model.User, error)

	// Update applies the present fields of update to the user with the
	// given ID and advances UpdatedAt. Returns apperr.NotFoundError if the
	// user is absent, or apperr.AlreadyExistsError if the new email
	// collides with a different user; the target is left untouched in
	// either case.
	Update(ctx context.Context, id string, update model.UserUpdate) (*model.User, error)

	// Delete permanently removes the user with the given ID.
	// Returns apperr.NotFoundError if the user is absent.
	Delete(ctx context.Context, id string) error

	// ExistsByEmail reports whether a live user holds the given email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
