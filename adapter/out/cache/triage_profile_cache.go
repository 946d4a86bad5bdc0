// Package cache provides Redis-backed caching decorators for outbound ports.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/imaglide/eisenhower-triage/core/port/out"
)

const profileKeyPrefix = "triage:sender_profile:"

// ProfileCache is a read-through Redis cache over a SenderProfileStore.
// Cache failures degrade to the underlying store, never to an error.
type ProfileCache struct {
	store out.SenderProfileStore
	rdb   *redis.Client
	ttl   time.Duration
	log   zerolog.Logger
}

// NewProfileCache wraps store with a Redis cache.
func NewProfileCache(store out.SenderProfileStore, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *ProfileCache {
	return &ProfileCache{
		store: store,
		rdb:   rdb,
		ttl:   ttl,
		log:   log.With().Str("component", "profile_cache").Logger(),
	}
}

// GetByEmail returns the cached profile when fresh, otherwise reads through
// to the store and populates the cache.
func (c *ProfileCache) GetByEmail(ctx context.Context, email string) (map[string]any, error) {
	key := profileKeyPrefix + email

	cached, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var profile map[string]any
		if err := json.Unmarshal(cached, &profile); err == nil {
			return profile, nil
		}
		c.log.Warn().Str("email", email).Msg("corrupt cache entry, rereading")
	} else if !errors.Is(err, redis.Nil) {
		c.log.Warn().Err(err).Str("email", email).Msg("cache read failed")
	}

	profile, err := c.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, nil
	}

	if payload, err := json.Marshal(profile); err == nil {
		if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Str("email", email).Msg("cache write failed")
		}
	}
	return profile, nil
}

// Upsert writes through to the store and invalidates the cache entry.
func (c *ProfileCache) Upsert(ctx context.Context, email string, profile map[string]any) error {
	if err := c.store.Upsert(ctx, email, profile); err != nil {
		return err
	}
	if err := c.rdb.Del(ctx, profileKeyPrefix+email).Err(); err != nil {
		c.log.Warn().Err(err).Str("email", email).Msg("cache invalidation failed")
	}
	return nil
}
