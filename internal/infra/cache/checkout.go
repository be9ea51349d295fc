package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"lounge-booking/internal/infra"
	"lounge-booking/internal/pkg/clock"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "checkout"

// RedisCheckoutCache stores compact checkout payloads by gateway order id so the
// browser-return trigger still has the payload when the client lost its copy.
type RedisCheckoutCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisCheckoutCache(rdb *redis.Client, ttl time.Duration, prefix string) *RedisCheckoutCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisCheckoutCache{rdb: rdb, ttl: ttl, prefix: prefix}
}

func (c *RedisCheckoutCache) key(orderID string) string {
	return c.prefix + ":" + orderID
}

func (c *RedisCheckoutCache) Put(ctx context.Context, orderID string, raw []byte) error {
	if err := c.rdb.Set(ctx, c.key(orderID), raw, c.ttl).Err(); err != nil {
		return infra.WrapRepoErr("failed to cache checkout payload", err)
	}
	return nil
}

func (c *RedisCheckoutCache) Get(ctx context.Context, orderID string) ([]byte, error) {
	raw, err := c.rdb.Get(ctx, c.key(orderID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, infra.NewRepoErr(infra.KindNotFound, "checkout payload not cached")
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read checkout payload", err)
	}
	return raw, nil
}

func (c *RedisCheckoutCache) Delete(ctx context.Context, orderID string) error {
	if err := c.rdb.Del(ctx, c.key(orderID)).Err(); err != nil {
		return infra.WrapRepoErr("failed to delete checkout payload", err)
	}
	return nil
}

type memoryEntry struct {
	raw       []byte
	expiresAt time.Time
}

// MemoryCheckoutCache is the single-instance fallback when no Redis address is configured.
type MemoryCheckoutCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	clock   clock.Clock
}

func NewMemoryCheckoutCache(ttl time.Duration, clk clock.Clock) *MemoryCheckoutCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &MemoryCheckoutCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		clock:   clk,
	}
}

func (c *MemoryCheckoutCache) Put(_ context.Context, orderID string, raw []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.sweep(now)
	c.entries[orderID] = memoryEntry{
		raw:       append([]byte(nil), raw...),
		expiresAt: now.Add(c.ttl),
	}
	return nil
}

func (c *MemoryCheckoutCache) Get(_ context.Context, orderID string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[orderID]
	if !ok || !e.expiresAt.After(c.clock.Now()) {
		delete(c.entries, orderID)
		return nil, infra.NewRepoErr(infra.KindNotFound, "checkout payload not cached")
	}
	return append([]byte(nil), e.raw...), nil
}

func (c *MemoryCheckoutCache) Delete(_ context.Context, orderID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, orderID)
	return nil
}

// sweep drops expired entries; callers hold mu.
func (c *MemoryCheckoutCache) sweep(now time.Time) {
	for id, e := range c.entries {
		if !e.expiresAt.After(now) {
			delete(c.entries, id)
		}
	}
}
