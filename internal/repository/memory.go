package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/userhub/userhub/internal/apperr"
	"github.com/userhub/userhub/internal/model"
)

// MemoryRepository is an in-memory UserRepository backed by a map guarded
// by a single reader/writer lock. Reads take the lock in shared mode;
// writes hold it exclusively for the whole check-and-mutate sequence, so
// the email-uniqueness scan and the subsequent insert or update are one
// atomic critical section.
//
// All values returned to callers are clones; the map is never aliased.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*model.User
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *MemoryRepository {
	return &MemoryRepository{
		users: make(map[string]*model.User),
	}
}

// Create inserts a new user. The uniqueness scan and the insert happen
// under one exclusive lock acquisition; two concurrent creates racing on
// the same email can never both pass the scan.
func (r *MemoryRepository) Create(ctx context.Context, email, name string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			return nil, apperr.AlreadyExists(email)
		}
	}

	user := model.NewUser(email, name)
	r.users[user.ID] = user
	return user.Clone(), nil
}

// FindByID returns the user with the given ID, or nil if absent.
func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return u.Clone(), nil
}

// FindByEmail returns the user with the given email, or nil if absent.
// Linear scan; the reference implementation keeps no secondary index.
func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return u.Clone(), nil
		}
	}
	return nil, nil
}

// FindAll returns a snapshot of all users sorted by ID. ULIDs are
// time-ordered, so this is insertion order.
func (r *MemoryRepository) FindAll(ctx context.Context) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u.Clone())
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].ID < users[j].ID
	})
	return users, nil
}

// Update applies the present fields of update under the exclusive lock.
// The email-collision scan checks all other entries before anything is
// touched; a rejected update leaves the target byte-for-byte unchanged.
func (r *MemoryRepository) Update(ctx context.Context, id string, update model.UserUpdate) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if update.Email != nil {
		for _, u := range r.users {
			if u.ID != id && u.Email == *update.Email {
				return nil, apperr.AlreadyExists(*update.Email)
			}
		}
	}

	u, ok := r.users[id]
	if !ok {
		return nil, apperr.NotFound(id)
	}

	u.Apply(update)
	return u.Clone(), nil
}

// Delete permanently removes the user with the given ID.
func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return apperr.NotFound(id)
	}
	delete(r.users, id)
	return nil
}

// ExistsByEmail reports whether any user holds the given email without
// cloning a value.
func (r *MemoryRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}
