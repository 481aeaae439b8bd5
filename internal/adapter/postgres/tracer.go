package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/fmsilvestri/condobase/internal/adapter/metrics"
	"github.com/jackc/pgx/v5"
)

// MetricsTracer records query latency and failures labelled by statement verb.
type MetricsTracer struct {
	m *metrics.DBMetrics
}

var _ pgx.QueryTracer = (*MetricsTracer)(nil)

func NewMetricsTracer(m *metrics.DBMetrics) *MetricsTracer {
	return &MetricsTracer{m: m}
}

type queryContextKey struct{}

type queryContext struct {
	start time.Time
	verb  string
}

func (t *MetricsTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryContextKey{}, queryContext{
		start: time.Now(),
		verb:  statementVerb(data.SQL),
	})
}

func (t *MetricsTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	qctx, ok := ctx.Value(queryContextKey{}).(queryContext)
	if !ok {
		return
	}

	t.m.QueryDuration.WithLabelValues(qctx.verb).Observe(time.Since(qctx.start).Seconds())
	if data.Err != nil {
		t.m.QueryErrors.WithLabelValues(qctx.verb).Inc()
	}
}

// statementVerb keeps label cardinality bounded: SELECT, INSERT, UPDATE, ...
func statementVerb(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "unknown"
	}
	verb := strings.ToUpper(fields[0])
	switch verb {
	case "SELECT", "INSERT", "UPDATE", "DELETE", "WITH", "BEGIN", "COMMIT", "ROLLBACK":
		return verb
	default:
		return "other"
	}
}
