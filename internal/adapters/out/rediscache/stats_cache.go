// Package rediscache keeps computed dashboard rollups in Redis.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"parceltrack/internal/core/domain/model/kernel"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL = time.Minute
	keyPrefix  = "parceltrack:stats:"

	// generationTTL only has to outlive the slowest dashboard read.
	generationTTL = 24 * time.Hour
)

var errStaleGeneration = errors.New("stats invalidated since read")

// StatsCache is a ports.StatsCache. Each owner has one hash; each view is a field.
// Invalidate deletes the hash, dropping every view at once, and bumps a generation
// counter that Store checks under WATCH. Both keys share a hash tag so they live
// in one cluster slot.
type StatsCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewStatsCache creates a cache whose entries live for ttl (DefaultTTL when not positive).
func NewStatsCache(client redis.UniversalClient, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &StatsCache{client: client, ttl: ttl}
}

func (c *StatsCache) Load(ctx context.Context, ownerID kernel.UUID, view string, dst any) (bool, error) {
	raw, err := c.client.HGet(ctx, key(ownerID), view).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s stats: %w", view, err)
	}
	if err = json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s stats: %w", view, err)
	}
	return true, nil
}

func (c *StatsCache) Generation(ctx context.Context, ownerID kernel.UUID) (int64, error) {
	n, err := c.client.Get(ctx, generationKey(ownerID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read stats generation: %w", err)
	}
	return n, nil
}

func (c *StatsCache) Store(ctx context.Context, ownerID kernel.UUID, view string, generation int64, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s stats: %w", view, err)
	}

	k, g := key(ownerID), generationKey(ownerID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, g).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, k, view, raw)
			pipe.Expire(ctx, k, c.ttl)
			return nil
		})
		return err
	}, g)
	if errors.Is(err, errStaleGeneration) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("store %s stats: %w", view, err)
	}
	return nil
}

func (c *StatsCache) Invalidate(ctx context.Context, ownerID kernel.UUID) error {
	k, g := key(ownerID), generationKey(ownerID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, g)
		pipe.Expire(ctx, g, generationTTL)
		pipe.Del(ctx, k)
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidate stats: %w", err)
	}
	return nil
}

func key(ownerID kernel.UUID) string {
	return keyPrefix + "{" + ownerID.String() + "}"
}

func generationKey(ownerID kernel.UUID) string {
	return key(ownerID) + ":gen"
}
