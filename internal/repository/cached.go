package repository

import (
	"context"

	"github.com/userhub/userhub/internal/cache"
	"github.com/userhub/userhub/internal/model"
)

// CachedRepository decorates a UserRepository with a Redis read-through
// cache for point lookups by ID. All writes and every email-based check go
// straight to the underlying store, which remains the sole authority for
// the uniqueness invariant. Cache failures are non-fatal; the store
// answers instead.
type CachedRepository struct {
	inner UserRepository
	cache *cache.Cache
}

// NewCached wraps inner with a user cache.
func NewCached(inner UserRepository, c *cache.Cache) *CachedRepository {
	return &CachedRepository{inner: inner, cache: c}
}

// Create delegates to the store and backfills the cache on success.
func (r *CachedRepository) Create(ctx context.Context, email, name string) (*model.User, error) {
	user, err := r.inner.Create(ctx, email, name)
	if err != nil {
		return nil, err
	}
	_ = r.cache.SetUser(ctx, user)
	return user, nil
}

// FindByID tries the cache first and falls back to the store on a miss.
func (r *CachedRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	cached, err := r.cache.GetUser(ctx, id)
	if err == nil {
		return cached, nil
	}
	// Miss or Redis trouble; either way the store answers.

	user, err := r.inner.FindByID(ctx, id)
	if err != nil || user == nil {
		return user, err
	}

	_ = r.cache.SetUser(ctx, user)
	return user, nil
}

// FindByEmail always asks the store; emails are not cached.
func (r *CachedRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.inner.FindByEmail(ctx, email)
}

// FindAll always asks the store for a consistent snapshot.
func (r *CachedRepository) FindAll(ctx context.Context) ([]*model.User, error) {
	return r.inner.FindAll(ctx)
}

// Update delegates to the store and refreshes the cached entry.
func (r *CachedRepository) Update(ctx context.Context, id string, update model.UserUpdate) (*model.User, error) {
	user, err := r.inner.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}
	_ = r.cache.SetUser(ctx, user)
	return user, nil
}

// Delete delegates to the store and evicts the cached entry.
func (r *CachedRepository) Delete(ctx context.Context, id string) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	_ = r.cache.DeleteUser(ctx, id)
	return nil
}

// ExistsByEmail always asks the store.
func (r *CachedRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.inner.ExistsByEmail(ctx, email)
}
