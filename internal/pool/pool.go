package pool

import (
	"sync"

	"github.com/dreamware/rpcdispatch/internal/transport"
)

// ConnectionPool is the host-provided, non-blocking lookup of the current
// sender for an address. Strategy.Compile calls Get once per Single leaf
// per compile, so an address that appears in several leaves is looked up
// several times; implementations must be safe to call many times in a row
// without blocking or performing I/O.
type ConnectionPool[Req any, Res any] interface {
	// Get returns the currently-live sender for addr, or ok=false if no
	// connection exists right now.
	Get(addr transport.Address) (sender transport.Sender[Req, Res], ok bool)

	// Addresses returns the set of addresses currently present in the
	// pool. Used by health/pool watchers to detect membership changes;
	// not required by Strategy.Compile itself.
	Addresses() []transport.Address
}

// MemoryPool is a thread-safe, in-memory ConnectionPool backed by a plain
// map, the reference implementation used by tests and the demo commands.
// It is the pool-layer analogue of a simple in-memory key-value store:
// Set/Remove mutate under an exclusive lock, Get and Addresses read under
// a shared one, and no lock is ever held across a call into a Sender.
type MemoryPool[Req any, Res any] struct {
	mu      sync.RWMutex
	entries map[transport.Address]transport.Sender[Req, Res]
}

// NewMemoryPool creates an empty in-memory connection pool.
func NewMemoryPool[Req any, Res any]() *MemoryPool[Req, Res] {
	return &MemoryPool[Req, Res]{
		entries: make(map[transport.Address]transport.Sender[Req, Res]),
	}
}

// Get implements ConnectionPool.
func (p *MemoryPool[Req, Res]) Get(addr transport.Address) (transport.Sender[Req, Res], bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.entries[addr]
	return s, ok
}

// Set installs or replaces the sender for addr. Called by the host
// application as connections open, reconnect, or get replaced.
func (p *MemoryPool[Req, Res]) Set(addr transport.Address, sender transport.Sender[Req, Res]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[addr] = sender
}

// Remove drops addr from the pool, e.g. on connection close. A no-op if
// addr was not present.
func (p *MemoryPool[Req, Res]) Remove(addr transport.Address) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, addr)
}

// Addresses implements ConnectionPool, returning a snapshot copy of the
// currently-registered addresses in no particular order.
func (p *MemoryPool[Req, Res]) Addresses() []transport.Address {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]transport.Address, 0, len(p.entries))
	for addr := range p.entries {
		out = append(out, addr)
	}
	return out
}

// Len reports the number of live entries.
func (p *MemoryPool[Req, Res]) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}
