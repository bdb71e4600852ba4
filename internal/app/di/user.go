// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "auth_backend/internal/feature/auth/adapters"
	"auth_backend/internal/feature/auth/usecase"
	"auth_backend/internal/platform/cache"
)

// NewUserRepository creates a UserRepository implementation.
// If Redis is available, lookups go through a Redis cache in front of the database.
// Otherwise, the database repository is used directly.
func NewUserRepository(rdb *redis.Client, db *gorm.DB, ttl time.Duration, namespace string) usecase.UserRepository {
	repo := authadapters.NewUserGorm(db)
	if rdb != nil {
		return cache.NewCachingUserRepository(rdb, ttl, repo, namespace)
	}
	return repo
}
