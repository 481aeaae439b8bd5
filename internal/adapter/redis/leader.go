package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	schedulerLeaderKey = "scheduler:leader"
	defaultLeaderTTL   = 90 * time.Second
)

// releaseScript deletes the lock only when it is still held by the caller.
var releaseScript = goredis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end
	return 0
`)

// renewScript extends the lease only when it is still held by the caller.
var renewScript = goredis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("PEXPIRE", KEYS[1], ARGV[2])
	end
	return 0
`)

// LeaderLock is a SETNX lease that lets one instance run the periodic
// activity scan. The holder keeps it by calling TryAcquire again before the
// TTL runs out.
type LeaderLock struct {
	rdb        *goredis.Client
	instanceID string
	key        string
	ttl        time.Duration
}

// NewLeaderLock creates a lock for instanceID, which must be unique per
// process (hostname-pid works). A ttl of zero uses the default lease.
func NewLeaderLock(rdb *goredis.Client, instanceID string, ttl time.Duration) *LeaderLock {
	if ttl <= 0 {
		ttl = defaultLeaderTTL
	}
	return &LeaderLock{
		rdb:        rdb,
		instanceID: instanceID,
		key:        schedulerLeaderKey,
		ttl:        ttl,
	}
}

// TryAcquire reports whether this instance holds the lease after the call,
// either because it just took it or because it already held it and renewed.
func (l *LeaderLock) TryAcquire(ctx context.Context) (bool, error) {
	ok, err := l.rdb.SetNX(ctx, l.key, l.instanceID, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire leader lock: %w", err)
	}
	if ok {
		return true, nil
	}

	renewed, err := renewScript.Run(ctx, l.rdb, []string{l.key}, l.instanceID, l.ttl.Milliseconds()).Int()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return false, fmt.Errorf("failed to renew leader lock: %w", err)
	}
	return renewed == 1, nil
}

// Release gives up the lease if this instance still holds it.
func (l *LeaderLock) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.rdb, []string{l.key}, l.instanceID).Err(); err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("failed to release leader lock: %w", err)
	}
	return nil
}
