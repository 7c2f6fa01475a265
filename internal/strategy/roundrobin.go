package strategy

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dreamware/rpcdispatch/internal/pool"
	"github.com/dreamware/rpcdispatch/internal/transport"
)

// roundRobinStrategy holds an ordered list of sub-strategies that the
// compiled sender rotates through strictly, one child per request.
type roundRobinStrategy[Req any, Res any] struct {
	children []Strategy[Req, Res]
}

// RoundRobin builds a Strategy that compiles its children and, for each
// request, selects child `cursor mod n` before advancing the cursor.
// Children that failed to compile are dropped from rotation entirely —
// the contract is strict rotation with no skipping among the children
// that remain. Unavailable iff no child compiled.
func RoundRobin[Req any, Res any](children ...Strategy[Req, Res]) Strategy[Req, Res] {
	return &roundRobinStrategy[Req, Res]{children: children}
}

func (s *roundRobinStrategy[Req, Res]) Addresses() []transport.Address {
	return collectAddresses(s.children)
}

func (s *roundRobinStrategy[Req, Res]) Compile(p pool.ConnectionPool[Req, Res]) (transport.Sender[Req, Res], error) {
	senders, live := compileChildren(s.children, p)
	if live == 0 {
		return nil, transport.NewUnavailable("no child compiled")
	}
	targets := make([]transport.Sender[Req, Res], 0, live)
	for _, sender := range senders {
		if sender != nil {
			targets = append(targets, sender)
		}
	}
	return &roundRobinSender[Req, Res]{targets: targets}, nil
}

// roundRobinSender owns the cursor that the engine's round-robin contract
// requires to advance monotonically in submission order. The cursor is an
// int64 updated with atomic.AddInt64 purely so the zero value starts at 0
// and wraps via modulo without extra bookkeeping; correctness still relies
// on the single-dispatcher-thread discipline described at the engine
// level, not on the atomicity itself.
type roundRobinSender[Req any, Res any] struct {
	targets []transport.Sender[Req, Res]
	cursor  int64
}

func (s *roundRobinSender[Req, Res]) SendRequest(ctx context.Context, req Req, timeout time.Duration, cb transport.Callback[Res]) {
	n := int64(len(s.targets))
	idx := atomic.AddInt64(&s.cursor, 1) - 1
	target := s.targets[idx%n]
	target.SendRequest(ctx, req, timeout, cb)
}
