// internal/store/cache.go
//
// Redis read-through cache over any Store.
// Reads try the cache first and fall back to the inner store; writes
// go through to the inner store and refresh the cache on success. A
// stale write invalidates the cached copy so the losing request
// re-reads fresh state. Every Redis failure is non-fatal: the cache
// degrades to the inner store and logs at debug level.

package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/calderwb/mosaic/apps/go-server/internal/game"
)

const cacheKeyPrefix = "mosaic:game:"

// Cached decorates an inner Store with a Redis cache.
type Cached struct {
	inner Store
	rdb   *redis.Client
	ttl   time.Duration
}

// NewCachedStore wraps inner with a Redis cache. Cached entries expire
// after ttl; zero means no expiry.
func NewCachedStore(inner Store, rdb *redis.Client, ttl time.Duration) *Cached {
	return &Cached{inner: inner, rdb: rdb, ttl: ttl}
}

func (c *Cached) Create(ctx context.Context, st *game.State) error {
	if err := c.inner.Create(ctx, st); err != nil {
		return err
	}
	c.fill(ctx, st)
	return nil
}

func (c *Cached) Get(ctx context.Context, id string) (*game.State, error) {
	if raw, err := c.rdb.Get(ctx, cacheKeyPrefix+id).Result(); err == nil {
		var st game.State
		if err := json.Unmarshal([]byte(raw), &st); err == nil {
			return &st, nil
		}
		// Unreadable entry: drop it and fall through.
		c.rdb.Del(ctx, cacheKeyPrefix+id)
	} else if err != redis.Nil {
		log.Debug().Err(err).Str("gameId", id).Msg("redis get failed, falling back")
	}

	st, err := c.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.fill(ctx, st)
	return st, nil
}

func (c *Cached) Update(ctx context.Context, st *game.State) error {
	if err := c.inner.Update(ctx, st); err != nil {
		if err == ErrVersionConflict {
			// Our cached copy may be the stale one.
			c.rdb.Del(ctx, cacheKeyPrefix+st.ID)
		}
		return err
	}
	c.fill(ctx, st)
	return nil
}

// fill writes st to the cache, best effort.
func (c *Cached) fill(ctx context.Context, st *game.State) {
	raw, err := json.Marshal(st)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKeyPrefix+st.ID, raw, c.ttl).Err(); err != nil {
		log.Debug().Err(err).Str("gameId", st.ID).Msg("redis set failed")
	}
}
