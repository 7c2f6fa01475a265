package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the counters the dispatch engine updates as it compiles
// strategies and dispatches requests. A nil *Collector and the zero value
// are safe to use: every recording method is a no-op on them, so call
// sites never need a nil check. A Collector built by New counts from the
// start; Register exposes its counters through a registerer.
type Collector struct {
	compiles   *prometheus.CounterVec
	dispatches *prometheus.CounterVec
	failures   *prometheus.CounterVec
	registered bool
}

// New builds an unregistered Collector. Call Register to make it live.
func New() *Collector {
	return &Collector{
		compiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rpcdispatch",
			Name:      "compiles_total",
			Help:      "Strategy compile attempts, by strategy kind and outcome.",
		}, []string{"kind", "outcome"}),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rpcdispatch",
			Name:      "dispatches_total",
			Help:      "Requests dispatched through a compiled sender, by strategy kind.",
		}, []string{"kind"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rpcdispatch",
			Name:      "dispatch_failures_total",
			Help:      "Dispatches that completed with an error, by strategy kind and error.",
		}, []string{"kind", "reason"}),
	}
}

// Register attaches the collector's counters to reg. Returns an error if
// any of them are already registered there, mirroring
// prometheus.Registerer.Register's own contract.
func (c *Collector) Register(reg prometheus.Registerer) error {
	if c == nil {
		return nil
	}
	for _, coll := range []prometheus.Collector{c.compiles, c.dispatches, c.failures} {
		if err := reg.Register(coll); err != nil {
			return err
		}
	}
	c.registered = true
	return nil
}

// CompileOK records a successful compile for kind.
func (c *Collector) CompileOK(kind string) { c.compile(kind, "ok") }

// CompileUnavailable records a compile that produced Unavailable for kind.
func (c *Collector) CompileUnavailable(kind string) { c.compile(kind, "unavailable") }

func (c *Collector) compile(kind, outcome string) {
	if c == nil || c.compiles == nil {
		return
	}
	c.compiles.WithLabelValues(kind, outcome).Inc()
}

// Dispatch records one request handed to a compiled sender of the given
// kind.
func (c *Collector) Dispatch(kind string) {
	if c == nil || c.dispatches == nil {
		return
	}
	c.dispatches.WithLabelValues(kind).Inc()
}

// Failure records a dispatch that completed with a non-nil error.
func (c *Collector) Failure(kind, reason string) {
	if c == nil || c.failures == nil {
		return
	}
	c.failures.WithLabelValues(kind, reason).Inc()
}
