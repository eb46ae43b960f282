// Package model defines domain entities for the application.
package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// User represents a user account.
// ID and CreatedAt are immutable after creation; UpdatedAt advances on
// every successful mutation.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a user with a fresh ULID and both timestamps set to now.
func NewUser(email, name string) *User {
	now := time.Now().UTC()
	return &User{
		ID:        ulid.Make().String(),
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UserUpdate carries the optional fields of a partial update.
// A nil field leaves the corresponding User field unchanged.
type UserUpdate struct {
	Email *string
	Name  *string
}

// Empty reports whether the update carries no fields at all.
func (u UserUpdate) Empty() bool {
	return u.Email == nil && u.Name == nil
}

// Apply copies the present fields onto the user and advances UpdatedAt.
// The new UpdatedAt is always strictly greater than the previous one,
// even if the clock has not visibly moved between two mutations.
func (u *User) Apply(update UserUpdate) {
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.Name != nil {
		u.Name = *update.Name
	}

	now := time.Now().UTC()
	if !now.After(u.UpdatedAt) {
		now = u.UpdatedAt.Add(time.Nanosecond)
	}
	u.UpdatedAt = now
}

// Clone returns an independent copy of the user. Values crossing the
// repository boundary are always clones, never aliases into stored state.
func (u *User) Clone() *User {
	c := *u
	return &c
}
