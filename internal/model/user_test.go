package model

import (
	"testing"
	"time"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user := NewUser("a@x.com", "Alice")

	if user.ID == "" {
		t.Error("expected a generated ID")
	}
	if user.Email != "a@x.com" {
		t.Errorf("Email = %s, want a@x.com", user.Email)
	}
	if user.Name != "Alice" {
		t.Errorf("Name = %s, want Alice", user.Name)
	}
	if user.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
	if !user.CreatedAt.Equal(user.UpdatedAt) {
		t.Errorf("CreatedAt %v should equal UpdatedAt %v at creation", user.CreatedAt, user.UpdatedAt)
	}
}

func TestNewUser_UniqueIDs(t *testing.T) {
	t.Parallel()

	a := NewUser("a@x.com", "Alice")
	b := NewUser("b@x.com", "Bob")

	if a.ID == b.ID {
		t.Errorf("two users got the same ID %s", a.ID)
	}
}

func TestUser_Apply_PartialFields(t *testing.T) {
	t.Parallel()

	user := NewUser("a@x.com", "Alice")
	before := user.UpdatedAt

	name := "Alicia"
	user.Apply(UserUpdate{Name: &name})

	if user.Email != "a@x.com" {
		t.Errorf("Email changed to %s, want a@x.com", user.Email)
	}
	if user.Name != "Alicia" {
		t.Errorf("Name = %s, want Alicia", user.Name)
	}
	if !user.UpdatedAt.After(before) {
		t.Errorf("UpdatedAt %v should be strictly after %v", user.UpdatedAt, before)
	}
}

func TestUser_Apply_StrictlyIncreasingUpdatedAt(t *testing.T) {
	t.Parallel()

	user := NewUser("a@x.com", "Alice")
	name := "Alicia"

	prev := user.UpdatedAt
	for i := 0; i < 100; i++ {
		user.Apply(UserUpdate{Name: &name})
		if !user.UpdatedAt.After(prev) {
			t.Fatalf("UpdatedAt %v not strictly after %v on iteration %d", user.UpdatedAt, prev, i)
		}
		prev = user.UpdatedAt
	}
}

func TestUser_Apply_PreservesCreatedAt(t *testing.T) {
	t.Parallel()

	user := NewUser("a@x.com", "Alice")
	created := user.CreatedAt

	email := "b@x.com"
	user.Apply(UserUpdate{Email: &email})

	if !user.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt changed from %v to %v", created, user.CreatedAt)
	}
	if user.Email != "b@x.com" {
		t.Errorf("Email = %s, want b@x.com", user.Email)
	}
}

func TestUserUpdate_Empty(t *testing.T) {
	t.Parallel()

	if !(UserUpdate{}).Empty() {
		t.Error("zero update should be empty")
	}

	name := "Alicia"
	if (UserUpdate{Name: &name}).Empty() {
		t.Error("update with a name should not be empty")
	}
}

func TestUser_Clone_Independent(t *testing.T) {
	t.Parallel()

	user := NewUser("a@x.com", "Alice")
	clone := user.Clone()

	clone.Name = "Mallory"
	clone.UpdatedAt = time.Now().Add(time.Hour)

	if user.Name != "Alice" {
		t.Errorf("mutating the clone changed the original name to %s", user.Name)
	}
}
