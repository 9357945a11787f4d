// Package cache is the Redis-backed store behind the listing cache. Keys
// are namespaced by a scope (one per listing surface: "customers",
// "reservations", "invoices", "dashboard") so that a successful write can
// mark exactly its own listings stale without touching the rest.
package cache

import (
	"context"
	"crypto/sha1"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/barbershop-admin/internal/config"
)

// Store wraps a Redis client with scope-aware key building. A nil *Store is
// a valid, fully disabled store: every method degrades to a no-op so
// callers never need to branch on whether caching is configured.
type Store struct {
	rdb     *redis.Client
	prefix  string
	ttl     time.Duration
	maxBody int
}

// New builds a Store from config. It returns nil when caching is disabled
// or no Redis connection is available.
func New(cfg config.CacheConfig, rdb *redis.Client) *Store {
	if !cfg.Enabled || rdb == nil {
		return nil
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Store{rdb: rdb, prefix: cfg.Prefix, ttl: ttl, maxBody: cfg.MaxBodyBytes}
}

// Enabled reports whether the store can serve and record entries.
func (s *Store) Enabled() bool { return s != nil && s.rdb != nil }

// MaxBody returns the largest response body the store will record.
func (s *Store) MaxBody() int {
	if s == nil {
		return 0
	}
	return s.maxBody
}

// Key builds a stable cache key: prefix, scope, then a SHA-1 of the route
// and raw query so arbitrarily long search strings stay bounded. The scope
// segment is kept in clear text because invalidation matches on it.
func Key(prefix, scope, route, query string) string {
	sum := sha1.Sum([]byte(route + "?" + query))
	return fmt.Sprintf("%s:%s:%x", prefix, scope, sum[:])
}

// KeyFor is Key using the store's configured prefix.
func (s *Store) KeyFor(scope, route, query string) string {
	return Key(s.prefix, scope, route, query)
}

// Get returns the recorded payload for key, or false when absent, expired
// or the store is disabled.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool) {
	if !s.Enabled() {
		return nil, false
	}
	bs, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return bs, true
}

// Set records a payload under key with the configured TTL. Failures are
// ignored: a cache write must never fail the request it rides on.
func (s *Store) Set(ctx context.Context, key string, payload []byte) {
	if !s.Enabled() {
		return
	}
	_ = s.rdb.SetEx(ctx, key, payload, s.ttl).Err()
}

// Invalidate deletes every key under the given scope. This is the "mark
// stale" signal issued after each successful write: the next read of that
// listing goes back to the database.
func (s *Store) Invalidate(ctx context.Context, scope string) error {
	if !s.Enabled() {
		return nil
	}
	pattern := s.prefix + ":" + scope + ":*"
	iter := s.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := s.rdb.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return s.rdb.Del(ctx, batch...).Err()
	}
	return nil
}
