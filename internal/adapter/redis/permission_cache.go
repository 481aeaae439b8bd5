package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/fmsilvestri/condobase/internal/adapter/metrics"
	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	permissionCacheTTL          = 1 * time.Hour
	permissionInvalidateChannel = "permissions:invalidate"
)

// PermissionCache is a three-tier read-through view of module permissions:
// process memory, then Redis, then Postgres. Concurrent misses for the same
// condominium share one load.
type PermissionCache struct {
	rdb     *goredis.Client
	repo    domain.PermissionRepository
	mem     *memoryCache
	group   singleflight.Group
	clock   clockwork.Clock
	metrics *metrics.CacheMetrics
}

var _ domain.PermissionSource = (*PermissionCache)(nil)

func NewPermissionCache(rdb *goredis.Client, repo domain.PermissionRepository, memTTL time.Duration, clock clockwork.Clock, m *metrics.CacheMetrics) *PermissionCache {
	return &PermissionCache{
		rdb:     rdb,
		repo:    repo,
		mem:     newMemoryCache(memTTL, clock),
		clock:   clock,
		metrics: m,
	}
}

// StartEvictionTimer periodically drops expired L1 entries. Call the returned
// function to stop it.
func (c *PermissionCache) StartEvictionTimer(interval time.Duration) func() {
	ticker := c.clock.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.Chan():
				if evicted := c.mem.evictExpired(); evicted > 0 {
					slog.Debug("Evicted expired permission cache entries", "count", evicted, "remaining", c.mem.size())
				}
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }
}

// Permissions returns the complete flag set for a condominium.
func (c *PermissionCache) Permissions(ctx context.Context, condominiumID uuid.UUID) (domain.ModulePermissions, error) {
	if perms, ok := c.mem.get(condominiumID); ok {
		c.hit("memory")
		return maps.Clone(perms), nil
	}
	c.miss("memory")

	v, err, _ := c.group.Do(condominiumID.String(), func() (any, error) {
		if perms, ok := c.getCached(ctx, condominiumID); ok {
			c.hit("redis")
			c.mem.set(condominiumID, perms)
			return perms, nil
		}
		c.miss("redis")

		stored, err := c.repo.Get(ctx, condominiumID)
		if err != nil {
			return nil, fmt.Errorf("permission lookup failed: %w", err)
		}
		perms := stored.Complete()
		c.mem.set(condominiumID, perms)
		c.writeCache(ctx, condominiumID, perms)
		return perms, nil
	})
	if err != nil {
		return nil, err
	}
	return maps.Clone(v.(domain.ModulePermissions)), nil
}

// Invalidate drops the entry locally and in Redis, then tells the other
// instances to drop their L1 copy.
func (c *PermissionCache) Invalidate(ctx context.Context, condominiumID uuid.UUID) error {
	c.dropLocal(condominiumID, "local")

	if err := c.rdb.Del(ctx, permissionCacheKey(condominiumID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate permission cache: %w", err)
	}
	if err := c.rdb.Publish(ctx, permissionInvalidateChannel, condominiumID.String()).Err(); err != nil {
		return fmt.Errorf("failed to publish permission invalidation: %w", err)
	}
	return nil
}

func (c *PermissionCache) dropLocal(condominiumID uuid.UUID, origin string) {
	c.mem.invalidate(condominiumID)
	c.group.Forget(condominiumID.String())
	if c.metrics != nil {
		c.metrics.Invalidations.WithLabelValues(origin).Inc()
	}
}

// RunInvalidationListener applies invalidations published by any instance
// until ctx is cancelled.
func (c *PermissionCache) RunInvalidationListener(ctx context.Context) {
	pubsub := c.rdb.Subscribe(ctx, permissionInvalidateChannel)
	defer func() { _ = pubsub.Close() }()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			c.handleInvalidation(msg.Payload)
		case <-ctx.Done():
			return
		}
	}
}

func (c *PermissionCache) handleInvalidation(payload string) {
	condominiumID, err := uuid.Parse(payload)
	if err != nil {
		slog.Warn("Ignoring malformed permission invalidation", "payload", payload, "error", err)
		return
	}
	c.dropLocal(condominiumID, "remote")
	slog.Debug("Permission cache invalidated via pub/sub", "condominium_id", condominiumID)
}

func (c *PermissionCache) writeCache(ctx context.Context, condominiumID uuid.UUID, perms domain.ModulePermissions) {
	encoded, err := json.Marshal(perms)
	if err != nil {
		slog.Warn("Failed to marshal permissions for Redis cache", "condominium_id", condominiumID, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, permissionCacheKey(condominiumID), encoded, permissionCacheTTL).Err(); err != nil {
		slog.Warn("Failed to populate Redis permission cache", "condominium_id", condominiumID, "error", err)
	}
}

func (c *PermissionCache) getCached(ctx context.Context, condominiumID uuid.UUID) (domain.ModulePermissions, bool) {
	data, err := c.rdb.Get(ctx, permissionCacheKey(condominiumID)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			slog.Warn("Redis permission cache GET failed", "condominium_id", condominiumID, "error", err)
		}
		return nil, false
	}

	var perms domain.ModulePermissions
	if err := json.Unmarshal(data, &perms); err != nil {
		slog.Warn("Failed to unmarshal cached permissions", "condominium_id", condominiumID, "error", err)
		return nil, false
	}
	return perms, true
}

func (c *PermissionCache) hit(layer string) {
	if c.metrics != nil {
		c.metrics.Hits.WithLabelValues(layer).Inc()
	}
}

func (c *PermissionCache) miss(layer string) {
	if c.metrics != nil {
		c.metrics.Misses.WithLabelValues(layer).Inc()
	}
}

func permissionCacheKey(condominiumID uuid.UUID) string {
	return "permissions:" + condominiumID.String()
}

// memoryCache is the L1 tier with TTL-based expiry.
type memoryCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]memoryCacheEntry
	ttl     time.Duration
	clock   clockwork.Clock
}

type memoryCacheEntry struct {
	perms     domain.ModulePermissions
	expiresAt time.Time
}

func newMemoryCache(ttl time.Duration, clock clockwork.Clock) *memoryCache {
	return &memoryCache{
		entries: make(map[uuid.UUID]memoryCacheEntry),
		ttl:     ttl,
		clock:   clock,
	}
}

func (c *memoryCache) get(id uuid.UUID) (domain.ModulePermissions, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[id]
	if !ok || !c.clock.Now().Before(entry.expiresAt) {
		return nil, false
	}
	return entry.perms, true
}

func (c *memoryCache) set(id uuid.UUID, perms domain.ModulePermissions) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[id] = memoryCacheEntry{
		perms:     perms,
		expiresAt: c.clock.Now().Add(c.ttl),
	}
}

func (c *memoryCache) invalidate(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

func (c *memoryCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *memoryCache) evictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	evicted := 0
	for id, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, id)
			evicted++
		}
	}
	return evicted
}
