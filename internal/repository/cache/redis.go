package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
	"github.com/FindHome-mobile/FindHome-Backend/internal/repository"
	"github.com/redis/go-redis/v9"
)

const (
	listingKeyPrefix = "annonce:"
	statsKey         = "annonces:stats"
	dialTimeout      = 5 * time.Second
)

// NewRedisClient connects and pings addr.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

// cachedListing keeps the owner id, which the API encoding hides.
type cachedListing struct {
	models.Listing
	OwnerID string `json:"ownerId"`
}

type redisCache struct {
	client redis.Cmdable
	ttl    time.Duration
	log    *slog.Logger
}

func NewRedis(client redis.Cmdable, ttl time.Duration, log *slog.Logger) repository.ListingCache {
	return &redisCache{client: client, ttl: ttl, log: log}
}

func (c *redisCache) get(ctx context.Context, key string, dst any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("cache get failed", "key", key, "err", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn("cache decode failed", "key", key, "err", err)
		return false
	}
	return true
}

func (c *redisCache) set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("cache encode failed", "key", key, "err", err)
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("cache set failed", "key", key, "err", err)
	}
}

func (c *redisCache) del(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Warn("cache delete failed", "key", key, "err", err)
	}
}

func (c *redisCache) GetListing(ctx context.Context, id string) (models.Listing, bool) {
	var cl cachedListing
	if !c.get(ctx, listingKeyPrefix+id, &cl) {
		return models.Listing{}, false
	}
	l := cl.Listing
	l.OwnerID = cl.OwnerID
	return l, true
}

func (c *redisCache) SetListing(ctx context.Context, l models.Listing) {
	c.set(ctx, listingKeyPrefix+l.ID, cachedListing{Listing: l, OwnerID: l.OwnerID})
}

func (c *redisCache) DeleteListing(ctx context.Context, id string) {
	c.del(ctx, listingKeyPrefix+id)
}

func (c *redisCache) GetStats(ctx context.Context) (models.ListingStats, bool) {
	var st models.ListingStats
	ok := c.get(ctx, statsKey, &st)
	return st, ok
}

func (c *redisCache) SetStats(ctx context.Context, st models.ListingStats) {
	c.set(ctx, statsKey, st)
}

func (c *redisCache) InvalidateStats(ctx context.Context) {
	c.del(ctx, statsKey)
}
