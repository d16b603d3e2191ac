package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// VersionTTL is how long a version marker outlives the last invalidation.
const VersionTTL = 24 * time.Hour

// setVersionedScript writes KEYS[1] only when the marker at KEYS[2] is not newer than ARGV[1].
var setVersionedScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[2]) or '0')
if current > tonumber(ARGV[1]) then
  return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// invalidateScript raises the marker at KEYS[1] to ARGV[1] and deletes KEYS[2..n].
var invalidateScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if tonumber(ARGV[1]) > current then
  redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
end
for i = 2, #KEYS do
  redis.call('DEL', KEYS[i])
end
return 1
`)

// CacheService stores JSON values in redis with a default TTL.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *CacheService) SetVersioned(ctx context.Context, key, versionKey string, version int64, value interface{}) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("failed to marshal cache value: %w", err)
	}
	stored, err := setVersionedScript.Run(ctx, s.client, []string{key, versionKey},
		strconv.FormatInt(version, 10), data, s.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("failed to set versioned cache value: %w", err)
	}
	return stored == 1, nil
}

func (s *CacheService) Invalidate(ctx context.Context, versionKey string, version int64, keys ...string) error {
	err := invalidateScript.Run(ctx, s.client, append([]string{versionKey}, keys...),
		strconv.FormatInt(version, 10), VersionTTL.Milliseconds()).Err()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	return nil
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}

// NoopCache never stores anything. Used when redis is disabled.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (NoopCache) Set(context.Context, string, interface{}) error         { return nil }
func (NoopCache) Delete(context.Context, ...string) error                { return nil }
func (NoopCache) SetVersioned(context.Context, string, string, int64, interface{}) (bool, error) {
	return false, nil
}
func (NoopCache) Invalidate(context.Context, string, int64, ...string) error { return nil }
