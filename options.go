package reactive

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AnatoleLucet/reactive/internal"
	"github.com/AnatoleLucet/reactive/internal/metrics"
)

// ErrMaxDepth is the panic value (wrapped) raised when effects nest deeper than WithMaxDepth allows.
var ErrMaxDepth = internal.ErrMaxDepth

// Metrics collects runtime activity for Prometheus.
type Metrics = metrics.Metrics

// NewMetrics registers the runtime collectors on reg (the default registerer when nil).
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	return metrics.New(reg)
}

type Option func(*internal.Runtime)

// WithLogger logs reads, writes, triggers and effect runs at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(r *internal.Runtime) { r.SetLogger(logger) }
}

// WithMetrics reports runtime activity to m.
func WithMetrics(m *Metrics) Option {
	return func(r *internal.Runtime) { r.SetMetrics(m) }
}

// WithMaxDepth makes an effect panic with ErrMaxDepth instead of running
// when n effects are already executing. Zero, the default, means no limit.
func WithMaxDepth(n int) Option {
	return func(r *internal.Runtime) { r.SetMaxDepth(n) }
}

// WithKeepStale keeps the subscriptions and child effects of previous runs
// when an effect re-runs. By default they are dropped before each run.
func WithKeepStale(keep bool) Option {
	return func(r *internal.Runtime) { r.SetKeepStale(keep) }
}

// Configure applies opts to the runtime of the calling goroutine.
func Configure(opts ...Option) {
	rt := internal.GetRuntime()
	rt.Lock()
	defer rt.Unlock()

	for _, opt := range opts {
		opt(rt)
	}
}

// ReleaseRuntime forgets the calling goroutine's runtime and its options.
// Objects and effects created on it keep working.
func ReleaseRuntime() {
	internal.ReleaseRuntime()
}
