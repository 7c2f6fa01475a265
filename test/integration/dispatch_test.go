// Package integration exercises the dispatch engine end to end: a YAML
// strategy config, a live in-memory pool, a dispatcher loop, pool-change
// recompilation, and metrics, wired together the way dispatchbench wires
// them, standing up the real pieces in-process and driving requests
// through them.
package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dreamware/rpcdispatch/internal/looprunner"
	"github.com/dreamware/rpcdispatch/internal/metrics"
	"github.com/dreamware/rpcdispatch/internal/pool"
	"github.com/dreamware/rpcdispatch/internal/poolwatcher"
	"github.com/dreamware/rpcdispatch/internal/strategy"
	"github.com/dreamware/rpcdispatch/internal/transport"
)

const configYAML = `
kind: firstAvailable
children:
  - kind: roundRobin
    children:
      - kind: single
        address: {host: primary-a, port: 9000}
      - kind: single
        address: {host: primary-b, port: 9000}
  - kind: single
    address: {host: fallback, port: 9000}
`

func echoSender(name string, hits *sync.Map) transport.Sender[string, string] {
	return transport.SenderFunc[string, string](func(ctx context.Context, req string, timeout time.Duration, cb transport.Callback[string]) {
		v, _ := hits.LoadOrStore(name, new(int64))
		*v.(*int64)++
		cb.OnComplete(name+":"+req, nil)
	})
}

func TestEndToEndDispatchThroughLoopWithMetrics(t *testing.T) {
	var cfg strategy.NodeConfig
	require.NoError(t, yaml.Unmarshal([]byte(configYAML), &cfg))

	p := pool.NewMemoryPool[string, string]()
	hits := &sync.Map{}
	p.Set(transport.Address{Host: "primary-a", Port: 9000}, echoSender("primary-a", hits))
	p.Set(transport.Address{Host: "primary-b", Port: 9000}, echoSender("primary-b", hits))
	p.Set(transport.Address{Host: "fallback", Port: 9000}, echoSender("fallback", hits))

	collector := metrics.New()
	reg := prometheus.NewRegistry()
	require.NoError(t, collector.Register(reg))

	tree, err := strategy.BuildFromConfig[string, string](cfg, strategy.Funcs[string, string]{})
	require.NoError(t, err)

	sender, err := tree.Compile(p)
	require.NoError(t, err)
	collector.CompileOK(cfg.Kind)

	loop := looprunner.New(16, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)
	defer loop.Stop()

	var wg sync.WaitGroup
	const n = 20
	wg.Add(n)
	for i := 0; i < n; i++ {
		loop.Submit(func() {
			collector.Dispatch(cfg.Kind)
			sender.SendRequest(ctx, "req", time.Second, transport.CallbackFunc[string](func(result string, err error) {
				defer wg.Done()
				assert.NoError(t, err)
			}))
		})
	}
	wg.Wait()

	var total int64
	hits.Range(func(_, v any) bool {
		total += *v.(*int64)
		return true
	})
	assert.Equal(t, int64(n), total, "every dispatched request must land on exactly one live sender")

	var primaryHits int64
	for _, name := range []string{"primary-a", "primary-b"} {
		if v, ok := hits.Load(name); ok {
			primaryHits += *v.(*int64)
		}
	}
	assert.Equal(t, int64(n), primaryHits, "firstAvailable must prefer the first child while it compiles")
}

func TestPoolWatcherTriggersRecompileOnMembershipChange(t *testing.T) {
	p := pool.NewMemoryPool[string, string]()
	hits := &sync.Map{}
	p.Set(transport.Address{Host: "primary-a", Port: 9000}, echoSender("primary-a", hits))

	var cfg strategy.NodeConfig
	require.NoError(t, yaml.Unmarshal([]byte(configYAML), &cfg))
	tree, err := strategy.BuildFromConfig[string, string](cfg, strategy.Funcs[string, string]{})
	require.NoError(t, err)

	var mu sync.Mutex
	var compiled transport.Sender[string, string]
	recompiles := 0
	recompile := func([]transport.Address) {
		s, err := tree.Compile(p)
		if err != nil {
			return
		}
		mu.Lock()
		compiled = s
		recompiles++
		mu.Unlock()
	}

	w := poolwatcher.New(addressLister{p}, 5*time.Millisecond, recompile, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)
	defer func() {
		cancel()
		w.Stop()
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return compiled != nil
	}, time.Second, 5*time.Millisecond)

	p.Set(transport.Address{Host: "primary-b", Port: 9000}, echoSender("primary-b", hits))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		if compiled == nil || recompiles < 2 {
			return false
		}
		cb := make(chan struct{}, 1)
		compiled.SendRequest(context.Background(), "probe", time.Second, transport.CallbackFunc[string](func(string, error) {
			cb <- struct{}{}
		}))
		<-cb
		return true
	}, time.Second, 5*time.Millisecond)
}

type addressLister struct {
	p *pool.MemoryPool[string, string]
}

func (a addressLister) Addresses() []transport.Address {
	return a.p.Addresses()
}
