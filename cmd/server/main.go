package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fmsilvestri/condobase/internal/adapter/httpserver"
	"github.com/fmsilvestri/condobase/internal/adapter/metrics"
	"github.com/fmsilvestri/condobase/internal/adapter/postgres"
	"github.com/fmsilvestri/condobase/internal/adapter/redis"
	"github.com/fmsilvestri/condobase/internal/adapter/websocket"
	"github.com/fmsilvestri/condobase/internal/app"
	"github.com/fmsilvestri/condobase/internal/auth"
	"github.com/fmsilvestri/condobase/internal/platform/config"
	"github.com/fmsilvestri/condobase/internal/platform/logging"
	"github.com/fmsilvestri/condobase/internal/platform/retry"
	"github.com/fmsilvestri/condobase/internal/platform/version"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
)

const (
	connectTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

type telemetry struct {
	registry      *prometheus.Registry
	http          *metrics.HTTPMetrics
	db            *metrics.DBMetrics
	redis         *metrics.RedisMetrics
	cache         *metrics.CacheMetrics
	websocket     *metrics.WebSocketMetrics
	notifications *metrics.NotificationMetrics
	scheduler     *metrics.SchedulerMetrics
}

func setupTelemetry() telemetry {
	reg := metrics.NewRegistry()
	return telemetry{
		registry:      reg,
		http:          metrics.NewHTTPMetrics(reg),
		db:            metrics.NewDBMetrics(reg),
		redis:         metrics.NewRedisMetrics(reg),
		cache:         metrics.NewCacheMetrics(reg),
		websocket:     metrics.NewWebSocketMetrics(reg),
		notifications: metrics.NewNotificationMetrics(reg),
		scheduler:     metrics.NewSchedulerMetrics(reg),
	}
}

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func startupPolicy(dependency string) retry.Policy {
	p := retry.Startup
	p.OnRetry = func(attempt int, err error, backoff time.Duration) {
		slog.Warn("Dependency not ready, retrying", "dependency", dependency, "attempt", attempt, "backoff", backoff, "error", err)
	}
	return p
}

func setupDB(ctx context.Context, cfg *config.Config, m *metrics.DBMetrics) *pgxpool.Pool {
	pool, err := retry.Do(ctx, startupPolicy("postgres"), func(ctx context.Context) (*pgxpool.Pool, error) {
		ctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		return postgres.Connect(ctx, cfg.DatabaseURL, m)
	})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupRedis(ctx context.Context, cfg *config.Config, m *metrics.RedisMetrics) *goredis.Client {
	client, err := retry.Do(ctx, startupPolicy("redis"), func(ctx context.Context) (*goredis.Client, error) {
		ctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		return redis.NewClient(ctx, cfg.RedisURL, m)
	})
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func newRepositories(pool *pgxpool.Pool) app.Repositories {
	return app.Repositories{
		Condominiums:  postgres.NewCondominiumRepo(pool),
		Users:         postgres.NewUserRepo(pool),
		Permissions:   postgres.NewPermissionRepo(pool),
		Equipment:     postgres.NewEquipmentRepo(pool),
		Maintenance:   postgres.NewMaintenanceRepo(pool),
		Readings:      postgres.NewReadingRepo(pool),
		Employees:     postgres.NewEmployeeRepo(pool),
		Market:        postgres.NewMarketRepo(pool),
		Teams:         postgres.NewTeamRepo(pool),
		Processes:     postgres.NewProcessRepo(pool),
		Activities:    postgres.NewActivityRepo(pool),
		Announcements: postgres.NewAnnouncementRepo(pool),
		Notifications: postgres.NewNotificationRepo(pool),
	}
}

func instanceID() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}

func healthChecks(pool *pgxpool.Pool, rdb *goredis.Client) []httpserver.HealthCheck {
	return []httpserver.HealthCheck{
		{Name: "postgres", Check: pool.Ping},
		{Name: "redis", Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
	}
}

func runGracefulShutdown(srv *httpserver.Server, stopBackground context.CancelFunc, hub *websocket.Hub) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		stopBackground()
		hub.Stop()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	info := version.Get()
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "version", info.Version, "commit", info.Commit)

	tel := setupTelemetry()

	// Background workers stop when this context is cancelled during shutdown.
	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	pool := setupDB(bgCtx, cfg, tel.db)
	defer pool.Close()

	redisClient := setupRedis(bgCtx, cfg, tel.redis)
	defer func() { _ = redisClient.Close() }()

	repos := newRepositories(pool)

	permissionCache := redis.NewPermissionCache(redisClient, repos.Permissions, cfg.PermissionCacheTTL, clock, tel.cache)
	stopEviction := permissionCache.StartEvictionTimer(time.Minute)
	defer stopEviction()
	go permissionCache.RunInvalidationListener(bgCtx)

	hub := websocket.NewHub(cfg.MaxWebSocketConnections, tel.websocket)
	bus := redis.NewNotificationBus(redisClient, hub, tel.notifications)
	go bus.Run(bgCtx)

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL, clock)
	appSvc := app.NewService(repos, permissionCache, bus, issuer, clock, tel.notifications)

	leader := redis.NewLeaderLock(redisClient, instanceID(), 0)
	scheduler := app.NewActivityScheduler(appSvc, leader, clock, cfg.ActivityScanInterval, tel.scheduler)
	go scheduler.Run(bgCtx)

	wsHandler := websocket.NewHandler(hub, issuer, appSvc, websocket.NewCheckOrigin(cfg.AppURL, !cfg.IsProduction()), tel.websocket)

	srv, err := httpserver.NewServer(cfg, appSvc, issuer, httpserver.Handlers{
		WebSocket: wsHandler,
		Metrics:   metrics.Handler(tel.registry),
	}, tel.http, healthChecks(pool, redisClient))
	if err != nil {
		slog.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	done := runGracefulShutdown(srv, stopBackground, hub)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
