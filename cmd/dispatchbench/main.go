// Command dispatchbench loads a strategy tree from a YAML config, wires it
// up against a synthetic in-memory pool, compiles it, and fires a burst of
// requests through it on a single dispatcher loop goroutine — exercising
// the whole strategy algebra from the outside.
//
// Usage:
//
//	dispatchbench -config strategy.yaml -requests 1000
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/dreamware/rpcdispatch/internal/looprunner"
	"github.com/dreamware/rpcdispatch/internal/metrics"
	"github.com/dreamware/rpcdispatch/internal/pool"
	"github.com/dreamware/rpcdispatch/internal/strategy"
	"github.com/dreamware/rpcdispatch/internal/transport"
)

func main() {
	configPath := flag.String("config", "", "path to a strategy tree YAML file")
	requestCount := flag.Int("requests", 1000, "number of synthetic requests to fire")
	queueDepth := flag.Int("queue-depth", 64, "dispatcher loop queue depth")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	if *configPath == "" {
		logger.Fatal().Msg("-config is required")
	}

	if err := run(logger, *configPath, *requestCount, *queueDepth); err != nil {
		logger.Fatal().Err(err).Msg("dispatchbench failed")
	}
}

func run(logger zerolog.Logger, configPath string, requestCount, queueDepth int) error {
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "reading config")
	}

	var cfg strategy.NodeConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return errors.Wrap(err, "parsing config")
	}

	p := pool.NewMemoryPool[string, string]()
	counts := newHitCounter()
	for _, addr := range collectConfigAddresses(cfg) {
		addr := addr
		p.Set(addr, transport.SenderFunc[string, string](func(ctx context.Context, req string, timeout time.Duration, cb transport.Callback[string]) {
			counts.hit(addr)
			cb.OnComplete(fmt.Sprintf("%s handled %q", addr, req), nil)
		}))
	}

	collector := metrics.New()
	if err := collector.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Warn().Err(err).Msg("metrics already registered, continuing without re-registering")
	}

	funcs := strategy.Funcs[string, string]{
		ShardFn: strategy.XXHashShardFn[string](func(req string) []byte { return []byte(req) }),
		HashFn:  strategy.XXHashHashFn[string](func(req string) []byte { return []byte(req) }),
	}

	tree, err := strategy.BuildFromConfig(cfg, funcs)
	if err != nil {
		return errors.Wrap(err, "building strategy tree")
	}

	sender, err := tree.Compile(p)
	if err != nil {
		collector.CompileUnavailable(cfg.Kind)
		return errors.Wrap(err, "compiling strategy")
	}
	collector.CompileOK(cfg.Kind)

	loop := looprunner.New(queueDepth, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)
	defer loop.Stop()

	var wg sync.WaitGroup
	var failures int64
	wg.Add(requestCount)
	for i := 0; i < requestCount; i++ {
		i := i
		loop.Submit(func() {
			req := "req-" + strconv.Itoa(i)
			collector.Dispatch(cfg.Kind)
			sender.SendRequest(ctx, req, time.Second, transport.CallbackFunc[string](func(result string, err error) {
				defer wg.Done()
				if err != nil {
					atomic.AddInt64(&failures, 1)
					collector.Failure(cfg.Kind, err.Error())
				}
			}))
		})
	}
	wg.Wait()

	logger.Info().
		Int("requests", requestCount).
		Int64("failures", atomic.LoadInt64(&failures)).
		Msg("dispatch burst complete")

	for addr, n := range counts.snapshot() {
		fmt.Printf("%s\t%d\n", addr, n)
	}
	return nil
}

func collectConfigAddresses(cfg strategy.NodeConfig) []transport.Address {
	var out []transport.Address
	if cfg.Address != nil {
		out = append(out, *cfg.Address)
	}
	for _, child := range cfg.Children {
		out = append(out, collectConfigAddresses(child)...)
	}
	for _, bucket := range cfg.Buckets {
		out = append(out, collectConfigAddresses(bucket.Node)...)
	}
	for _, child := range cfg.Mapping {
		out = append(out, collectConfigAddresses(child)...)
	}
	if cfg.Default != nil {
		out = append(out, collectConfigAddresses(*cfg.Default)...)
	}
	return out
}

// hitCounter tallies how many times each address handled a request, the
// way dispatchbench reports distribution across a compiled strategy's
// live targets.
type hitCounter struct {
	mu     sync.Mutex
	counts map[transport.Address]int
}

func newHitCounter() *hitCounter {
	return &hitCounter{counts: make(map[transport.Address]int)}
}

func (h *hitCounter) hit(addr transport.Address) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.counts[addr]++
}

func (h *hitCounter) snapshot() map[transport.Address]int {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[transport.Address]int, len(h.counts))
	for k, v := range h.counts {
		out[k] = v
	}
	return out
}
