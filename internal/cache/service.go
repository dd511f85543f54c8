// Package cache provides the Redis-backed read-through cache service.
//
// The service is an explicitly constructed value injected into components at
// startup (opened on process start, closed on shutdown); it never lives in
// package-level state. Entries are derived data only: the relationship store
// stays authoritative and every mutating operation invalidates the affected
// keys synchronously before returning.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"kindred/internal/observability"

	"github.com/redis/go-redis/v9"
)

type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrorRate.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrorRate.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// Service is the cache consistency layer. A Service with a nil client is
// valid and degrades to a pass-through (every read is a miss, every write and
// invalidation is a no-op).
type Service struct {
	client *redis.Client
}

// NewService connects to Redis at the given address (host:port or redis:// URL)
// and returns the cache service. Connection failure is not fatal: the service
// degrades to pass-through and the caller keeps running without a cache.
func NewService(addr string) *Service {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			log.Printf("Redis connection warning: invalid REDIS_URL %q: %v (continuing without cache)", addr, err)
			return &Service{}
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	client.AddHook(metricsHook{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis connection warning: %v (continuing without cache)", err)
		return &Service{}
	}
	log.Println("Redis connected successfully")
	return &Service{client: client}
}

// NewServiceWithClient wraps an existing Redis client (used in tests with miniredis).
func NewServiceWithClient(client *redis.Client) *Service {
	return &Service{client: client}
}

// Client exposes the underlying Redis client for collaborators that share the
// connection (notifier, rate limiting, health checks). May be nil.
func (s *Service) Client() *redis.Client {
	return s.client
}

// Close releases the Redis connection.
func (s *Service) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func (s *Service) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if s.client == nil {
		return false, nil
	}
	str, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(str), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func (s *Service) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if s.client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, ttl).Err()
}

// ReadThrough tries Redis first, on miss it calls fetch (which should populate
// dest), then stores the result with ttl. Cache errors degrade to a fetch: a
// broken cache must never fail the read path.
func (s *Service) ReadThrough(ctx context.Context, entity, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := s.GetJSON(ctx, key, dest)
	if err == nil && found {
		observability.CacheLookups.WithLabelValues(entity, "hit").Inc()
		return nil
	}
	observability.CacheLookups.WithLabelValues(entity, "miss").Inc()

	if err := fetch(); err != nil {
		return err
	}

	// Populate is best-effort.
	_ = s.SetJSON(ctx, key, dest, ttl)
	return nil
}

// Invalidate deletes a single key. Runs synchronously; mutating operations
// call it before returning success.
func (s *Service) Invalidate(ctx context.Context, keys ...string) {
	if s.client == nil || len(keys) == 0 {
		return
	}
	s.client.Del(ctx, keys...)
}

// InvalidatePattern deletes all keys matching the glob pattern using a cursor
// SCAN so the keyspace is never blocked by a single long-running scan.
func (s *Service) InvalidatePattern(ctx context.Context, pattern string) error {
	if s.client == nil {
		return nil
	}
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
