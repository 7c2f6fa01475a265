package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCountsByKindAndOutcome(t *testing.T) {
	c := New()
	reg := prometheus.NewRegistry()
	require.NoError(t, c.Register(reg))

	c.CompileOK("roundRobin")
	c.CompileOK("roundRobin")
	c.CompileUnavailable("sharding")
	c.Dispatch("roundRobin")
	c.Failure("roundRobin", "timeout")

	assert.Equal(t, float64(2), testutil.ToFloat64(c.compiles.WithLabelValues("roundRobin", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.compiles.WithLabelValues("sharding", "unavailable")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.dispatches.WithLabelValues("roundRobin")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.failures.WithLabelValues("roundRobin", "timeout")))
}

func TestNilCollectorIsANoOp(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.CompileOK("x")
		c.Dispatch("x")
		c.Failure("x", "y")
	})
}

func TestRegisterRejectsDuplicateRegistration(t *testing.T) {
	c := New()
	reg := prometheus.NewRegistry()
	require.NoError(t, c.Register(reg))
	assert.Error(t, c.Register(reg))
}
