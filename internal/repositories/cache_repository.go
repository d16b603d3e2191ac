package repositories

import "context"

// CacheRepository defines the cache operations used by the services.
// Implemented by cache.CacheService, cache.MemoryCache and cache.NoopCache.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, keys ...string) error

	// SetVersioned stores value under key unless the version recorded under
	// versionKey is newer than version. It reports whether the value was stored.
	SetVersioned(ctx context.Context, key, versionKey string, version int64, value interface{}) (bool, error)

	// Invalidate raises the version recorded under versionKey to version and
	// deletes keys, as one step.
	Invalidate(ctx context.Context, versionKey string, version int64, keys ...string) error
}
