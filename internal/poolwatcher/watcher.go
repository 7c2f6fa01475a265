package poolwatcher

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dreamware/rpcdispatch/internal/pool"
	"github.com/dreamware/rpcdispatch/internal/transport"
)

// AddressSetProvider is the subset of pool.ConnectionPool the watcher
// needs: just the current address snapshot, so it can be used against
// any pool implementation without binding to request/response types.
type AddressSetProvider interface {
	Addresses() []transport.Address
}

// compile-time check that pool.MemoryPool satisfies AddressSetProvider
// for any request/response type pair, documenting the intended usage.
var _ AddressSetProvider = (*pool.MemoryPool[struct{}, struct{}])(nil)

// Watcher polls an AddressSetProvider on an interval and invokes onChange
// whenever the set of addresses differs from the last observed snapshot —
// addition, removal, or both.
type Watcher struct {
	provider AddressSetProvider
	interval time.Duration
	onChange func(current []transport.Address)
	logger   zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	lastSeen map[transport.Address]struct{}
}

// New creates a Watcher that polls provider every interval. Start polls
// once immediately; onChange fires on that first poll if the address set
// is non-empty (so callers get an initial compile) and again each time the
// address set changes thereafter. An initially empty set fires nothing
// until the first address appears.
func New(provider AddressSetProvider, interval time.Duration, onChange func(current []transport.Address), logger zerolog.Logger) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		provider: provider,
		interval: interval,
		onChange: onChange,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		lastSeen: make(map[transport.Address]struct{}),
	}
}

// Start begins polling. It blocks until ctx (or the Watcher's internal
// context, canceled by Stop) is done. Run it in its own goroutine.
func (w *Watcher) Start(ctx context.Context) {
	w.wg.Add(1)
	defer w.wg.Done()

	if ctx == nil {
		ctx = w.ctx
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info().Dur("interval", w.interval).Msg("pool watcher started")
	w.check()

	for {
		select {
		case <-ticker.C:
			w.check()
		case <-ctx.Done():
			w.logger.Info().Msg("pool watcher stopping: context canceled")
			return
		case <-w.ctx.Done():
			w.logger.Info().Msg("pool watcher stopping")
			return
		}
	}
}

// Stop cancels the polling loop and waits for it to exit.
func (w *Watcher) Stop() {
	w.cancel()
	w.wg.Wait()
}

// check compares the current address snapshot against the last one seen
// and fires onChange if they differ.
func (w *Watcher) check() {
	current := w.provider.Addresses()
	currentSet := make(map[transport.Address]struct{}, len(current))
	for _, a := range current {
		currentSet[a] = struct{}{}
	}

	w.mu.Lock()
	changed := !addressSetsEqual(w.lastSeen, currentSet)
	w.lastSeen = currentSet
	w.mu.Unlock()

	if changed {
		w.logger.Debug().Int("address_count", len(current)).Msg("pool membership changed")
		if w.onChange != nil {
			w.onChange(current)
		}
	}
}

func addressSetsEqual(a, b map[transport.Address]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for addr := range a {
		if _, ok := b[addr]; !ok {
			return false
		}
	}
	return true
}
