package strategy

import (
	"context"
	"time"

	"github.com/dreamware/rpcdispatch/internal/pool"
	"github.com/dreamware/rpcdispatch/internal/transport"
)

// ShardFn maps a request to a slot index into a sharding strategy's child
// list. Implementations are free to use any deterministic function; see
// hash.go for the default xxhash- and fnv-based key functions.
type ShardFn[Req any] func(req Req) int

// shardingStrategy holds a shard function and an ordered list of
// sub-strategies, one per slot.
type shardingStrategy[Req any, Res any] struct {
	shardFn                ShardFn[Req]
	children               []Strategy[Req, Res]
	minActiveSubStrategies int
}

// ShardingOption configures Sharding beyond its required arguments.
type ShardingOption[Req any, Res any] func(*shardingStrategy[Req, Res])

// WithMinActiveSubStrategies gates compilation on at least n children
// compiling successfully, regardless of which slots they occupy. The
// effective floor is always at least 1: an empty composite must never
// compile successfully, so n<1 has no effect.
func WithMinActiveSubStrategies[Req any, Res any](n int) ShardingOption[Req, Res] {
	return func(s *shardingStrategy[Req, Res]) {
		s.minActiveSubStrategies = n
	}
}

// Sharding builds a Strategy that hashes each request to a fixed slot via
// shardFn and always routes it to that slot's child. Slots whose
// sub-strategy failed to compile become holes: a request mapped there
// fails with transport.ErrNoSenderAvailable rather than falling back to
// another slot. Unavailable iff fewer than minActiveSubStrategies children
// compiled (default: iff none compiled).
func Sharding[Req any, Res any](shardFn ShardFn[Req], children []Strategy[Req, Res], opts ...ShardingOption[Req, Res]) Strategy[Req, Res] {
	s := &shardingStrategy[Req, Res]{shardFn: shardFn, children: children, minActiveSubStrategies: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *shardingStrategy[Req, Res]) Addresses() []transport.Address {
	return collectAddresses(s.children)
}

func (s *shardingStrategy[Req, Res]) Compile(p pool.ConnectionPool[Req, Res]) (transport.Sender[Req, Res], error) {
	senders, live := compileChildren(s.children, p)
	if live < max(1, s.minActiveSubStrategies) {
		return nil, transport.NewUnavailable("fewer children compiled than minActiveSubStrategies")
	}
	return &shardingSender[Req, Res]{shardFn: s.shardFn, slots: senders}, nil
}

// shardingSender holds the original-position slots (nil = hole) resolved
// at compile time. No mutable state: the mapping from request to slot is
// pure, so dispatch needs nothing beyond the shard function and the slice.
type shardingSender[Req any, Res any] struct {
	shardFn ShardFn[Req]
	slots   []transport.Sender[Req, Res]
}

func (s *shardingSender[Req, Res]) SendRequest(ctx context.Context, req Req, timeout time.Duration, cb transport.Callback[Res]) {
	i := s.shardFn(req) % len(s.slots)
	if i < 0 {
		i += len(s.slots)
	}
	target := s.slots[i]
	if target == nil {
		var zero Res
		cb.OnComplete(zero, transport.ErrNoSenderAvailable)
		return
	}
	target.SendRequest(ctx, req, timeout, cb)
}
