package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/userhub/userhub/internal/model"
)

// Cache key prefix and TTL for user entries.
const (
	userKeyPrefix = "user:"

	// DefaultUserTTL is the TTL for cached user data.
	DefaultUserTTL = 15 * time.Minute
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// GetUser retrieves a user from cache by ID.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetUser(ctx context.Context, id string) (*model.User, error) {
	data, err := c.client.Get(ctx, userKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to decode cached user: %w", err)
	}
	return &user, nil
}

// SetUser stores a user in cache.
func (c *Cache) SetUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	if err := c.client.Set(ctx, userKeyPrefix+user.ID, data, DefaultUserTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// DeleteUser evicts a user from cache.
func (c *Cache) DeleteUser(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, userKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}
