package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/fmsilvestri/condobase/internal/adapter/metrics"
	"github.com/fmsilvestri/condobase/internal/platform/correlation"
	"github.com/jonboulle/clockwork"
)

const (
	activityBatchSize   = 100
	maxBatchesPerTick   = 10
	releaseLeaseTimeout = 2 * time.Second
)

type activityRunner interface {
	RunDueActivities(ctx context.Context, limit int) (int, error)
}

// Leader decides which instance runs the scan when several are deployed.
type Leader interface {
	TryAcquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// ActivityScheduler periodically fires activity lists whose next run is due.
type ActivityScheduler struct {
	runner   activityRunner
	leader   Leader
	clock    clockwork.Clock
	interval time.Duration
	metrics  *metrics.SchedulerMetrics
}

// NewActivityScheduler creates the scheduler. leader and m may be nil; without
// a leader every instance scans.
func NewActivityScheduler(runner activityRunner, leader Leader, clock clockwork.Clock, interval time.Duration, m *metrics.SchedulerMetrics) *ActivityScheduler {
	return &ActivityScheduler{
		runner:   runner,
		leader:   leader,
		clock:    clock,
		interval: interval,
		metrics:  m,
	}
}

// Run blocks until ctx is cancelled.
func (s *ActivityScheduler) Run(ctx context.Context) {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.release()
			slog.Info("Activity scheduler stopped")
			return
		case <-ticker.Chan():
			s.tick(ctx)
		}
	}
}

func (s *ActivityScheduler) tick(ctx context.Context) {
	tickCtx := correlation.WithID(ctx, correlation.NewID())

	if s.leader != nil {
		leading, err := s.leader.TryAcquire(tickCtx)
		if err != nil {
			slog.WarnContext(tickCtx, "Scheduler: leader check failed", "error", err)
			s.observe("error", 0)
			return
		}
		if !leading {
			s.observe("skipped", 0)
			return
		}
	}

	start := s.clock.Now()
	total := 0
	for range maxBatchesPerTick {
		n, err := s.runner.RunDueActivities(tickCtx, activityBatchSize)
		total += n
		if err != nil {
			slog.ErrorContext(tickCtx, "Scheduler: activity scan failed", "error", err)
			s.observe("error", s.clock.Since(start))
			return
		}
		if n < activityBatchSize {
			break
		}
	}

	if total > 0 {
		slog.InfoContext(tickCtx, "Scheduler: activity lists fired", "count", total)
	}
	s.observe("ok", s.clock.Since(start))
}

func (s *ActivityScheduler) observe(result string, d time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.Runs.WithLabelValues(result).Inc()
	if result != "skipped" {
		s.metrics.Duration.Observe(d.Seconds())
	}
}

func (s *ActivityScheduler) release() {
	if s.leader == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), releaseLeaseTimeout)
	defer cancel()
	if err := s.leader.Release(ctx); err != nil {
		slog.Warn("Scheduler: failed to release leader lease", "error", err)
	}
}
