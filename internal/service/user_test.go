package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/userhub/userhub/internal/apperr"
	"github.com/userhub/userhub/internal/metrics"
	"github.com/userhub/userhub/internal/repository"
)

func newTestService(t *testing.T) (*UserService, *metrics.InMemoryRecorder) {
	t.Helper()
	recorder := metrics.NewInMemory()
	return NewUserService(repository.NewMemory(), recorder), recorder
}

func strptr(s string) *string {
	return &s
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	longEmail := strings.Repeat("a", maxEmailLength) + "@x.com"

	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"empty", "", true},
		{"missing_at", "not-an-email", true},
		{"too_long", longEmail, true},
		{"valid", "a@x.com", false},
		{"valid_at_limit", strings.Repeat("a", maxEmailLength-6) + "@x.com", false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := validateEmail(test.email)
			if (err != nil) != test.wantErr {
				t.Fatalf("validateEmail(%q) = %v, wantErr %v", test.email, err, test.wantErr)
			}
			if err != nil {
				var validation *apperr.ValidationError
				if !errors.As(err, &validation) {
					t.Fatalf("expected ValidationError, got %T", err)
				}
				if validation.Field != "email" {
					t.Errorf("Field = %s, want email", validation.Field)
				}
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"empty", "", true},
		{"too_long", strings.Repeat("x", maxNameLength+1), true},
		{"only_whitespace", "   \t  ", true},
		{"valid", "Alice", false},
		{"valid_at_limit", strings.Repeat("x", maxNameLength), false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := validateName(test.value)
			if (err != nil) != test.wantErr {
				t.Fatalf("validateName(%q) = %v, wantErr %v", test.value, err, test.wantErr)
			}
			if err != nil {
				var validation *apperr.ValidationError
				if !errors.As(err, &validation) {
					t.Fatalf("expected ValidationError, got %T", err)
				}
				if validation.Field != "name" {
					t.Errorf("Field = %s, want name", validation.Field)
				}
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   UpdateUserInput
		wantErr error
	}{
		{
			name:    "no_fields",
			input:   UpdateUserInput{},
			wantErr: &apperr.InvalidInputError{},
		},
		{
			name:    "bad_email_only",
			input:   UpdateUserInput{Email: strptr("nope")},
			wantErr: &apperr.ValidationError{},
		},
		{
			name:    "bad_name_with_good_email",
			input:   UpdateUserInput{Email: strptr("a@x.com"), Name: strptr("  ")},
			wantErr: &apperr.ValidationError{},
		},
		{
			name:  "email_only",
			input: UpdateUserInput{Email: strptr("a@x.com")},
		},
		{
			name:  "name_only",
			input: UpdateUserInput{Name: strptr("Alice")},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := validateUpdate(test.input)
			if test.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected an error, got nil")
			}

			switch test.wantErr.(type) {
			case *apperr.InvalidInputError:
				var target *apperr.InvalidInputError
				if !errors.As(err, &target) {
					t.Fatalf("expected InvalidInputError, got %T", err)
				}
			case *apperr.ValidationError:
				var target *apperr.ValidationError
				if !errors.As(err, &target) {
					t.Fatalf("expected ValidationError, got %T", err)
				}
			}
		})
	}
}

func TestUserService_CreateUser(t *testing.T) {
	t.Parallel()
	svc, recorder := newTestService(t)

	user, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email: "a@x.com",
		Name:  "Alice",
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if user.ID == "" {
		t.Error("expected a generated ID")
	}
	if !user.CreatedAt.Equal(user.UpdatedAt) {
		t.Errorf("CreatedAt %v should equal UpdatedAt %v", user.CreatedAt, user.UpdatedAt)
	}
	if got := recorder.Snapshot().UsersCreated; got != 1 {
		t.Errorf("UsersCreated = %d, want 1", got)
	}
}

func TestUserService_CreateUser_ValidationRejectsBeforeStorage(t *testing.T) {
	t.Parallel()
	svc, recorder := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserInput{Email: "bad", Name: "Alice"})

	var validation *apperr.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	// A rejected create leaves the store empty.
	users, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("store contains %d users after rejected create, want 0", len(users))
	}
	if got := recorder.Snapshot().UsersCreated; got != 0 {
		t.Errorf("UsersCreated = %d, want 0", got)
	}
}

func TestUserService_CreateUser_DuplicateEmail(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, CreateUserInput{Email: "a@x.com", Name: "Alice"}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	_, err := svc.CreateUser(ctx, CreateUserInput{Email: "a@x.com", Name: "Other"})

	var exists *apperr.AlreadyExistsError
	if !errors.As(err, &exists) {
		t.Fatalf("expected AlreadyExistsError, got %v", err)
	}
	if exists.Email != "a@x.com" {
		t.Errorf("Email = %s, want a@x.com", exists.Email)
	}
}

func TestUserService_GetUser_AbsenceBecomesNotFound(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	_, err := svc.GetUser(context.Background(), "no-such-id")

	var notFound *apperr.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.ID != "no-such-id" {
		t.Errorf("ID = %s, want no-such-id", notFound.ID)
	}
}

func TestUserService_GetUser_RoundTrip(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserInput{Email: "a@x.com", Name: "Alice"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	fetched, err := svc.GetUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}

	if fetched.ID != created.ID ||
		fetched.Email != created.Email ||
		fetched.Name != created.Name ||
		!fetched.CreatedAt.Equal(created.CreatedAt) ||
		!fetched.UpdatedAt.Equal(created.UpdatedAt) {
		t.Errorf("fetched %+v differs from created %+v", fetched, created)
	}
}

func TestUserService_ListUsers(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		if _, err := svc.CreateUser(ctx, CreateUserInput{Email: email, Name: "User"}); err != nil {
			t.Fatalf("CreateUser(%s) failed: %v", email, err)
		}
	}

	users, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 3 {
		t.Errorf("got %d users, want 3", len(users))
	}
}

func TestUserService_UpdateUser(t *testing.T) {
	t.Parallel()
	svc, recorder := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserInput{Email: "a@x.com", Name: "Alice"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	updated, err := svc.UpdateUser(ctx, created.ID, UpdateUserInput{Name: strptr("Alicia")})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	if updated.Name != "Alicia" {
		t.Errorf("Name = %s, want Alicia", updated.Name)
	}
	if updated.Email != "a@x.com" {
		t.Errorf("Email = %s, want a@x.com (unchanged)", updated.Email)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("UpdatedAt %v should be strictly after %v", updated.UpdatedAt, created.UpdatedAt)
	}
	if got := recorder.Snapshot().UsersUpdated; got != 1 {
		t.Errorf("UsersUpdated = %d, want 1", got)
	}
}

func TestUserService_UpdateUser_NoFields(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserInput{Email: "a@x.com", Name: "Alice"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	_, err = svc.UpdateUser(ctx, created.ID, UpdateUserInput{})

	var invalid *apperr.InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
}

func TestUserService_DeleteUser(t *testing.T) {
	t.Parallel()
	svc, recorder := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserInput{Email: "a@x.com", Name: "Alice"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if err := svc.DeleteUser(ctx, created.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if got := recorder.Snapshot().UsersDeleted; got != 1 {
		t.Errorf("UsersDeleted = %d, want 1", got)
	}

	// Point lookup after delete is NotFound at the service layer.
	_, err = svc.GetUser(ctx, created.ID)
	var notFound *apperr.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	// Repository errors pass through unchanged on double delete.
	err = svc.DeleteUser(ctx, created.ID)
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError on second delete, got %v", err)
	}
}
