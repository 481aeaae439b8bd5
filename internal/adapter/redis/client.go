package redis

import (
	"context"
	"fmt"

	"github.com/fmsilvestri/condobase/internal/adapter/metrics"
	goredis "github.com/redis/go-redis/v9"
)

// NewClient parses a redis:// URL, installs the metrics and circuit breaker
// hooks and pings the server. A nil m skips metrics.
func NewClient(ctx context.Context, redisURL string, m *metrics.RedisMetrics) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := goredis.NewClient(opts)
	if m != nil {
		client.AddHook(NewMetricsHook(m))
	}
	client.AddHook(NewCircuitBreakerHook(m))

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}
