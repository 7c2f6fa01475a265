package strategy

import (
	"context"
	"time"

	"github.com/dreamware/rpcdispatch/internal/pool"
	"github.com/dreamware/rpcdispatch/internal/transport"
)

// firstAvailableStrategy holds an ordered list of sub-strategies. At
// compile time the first child that compiles successfully becomes the
// sole target for every request the compiled sender handles — fallback
// happens between compilations, never mid-request.
type firstAvailableStrategy[Req any, Res any] struct {
	children []Strategy[Req, Res]
}

// FirstAvailable builds a Strategy that routes every request to the
// first child (in order) that compiled successfully. It is Unavailable
// iff no child compiled.
func FirstAvailable[Req any, Res any](children ...Strategy[Req, Res]) Strategy[Req, Res] {
	return &firstAvailableStrategy[Req, Res]{children: children}
}

func (s *firstAvailableStrategy[Req, Res]) Addresses() []transport.Address {
	return collectAddresses(s.children)
}

func (s *firstAvailableStrategy[Req, Res]) Compile(p pool.ConnectionPool[Req, Res]) (transport.Sender[Req, Res], error) {
	for _, child := range s.children {
		sender, err := child.Compile(p)
		if err != nil {
			continue
		}
		return &firstAvailableSender[Req, Res]{target: sender}, nil
	}
	return nil, transport.NewUnavailable("no child compiled")
}

// firstAvailableSender forwards every request to the single child resolved
// at compile time. It holds no mutable state: the "first available" choice
// is fixed for the lifetime of the compiled sender.
type firstAvailableSender[Req any, Res any] struct {
	target transport.Sender[Req, Res]
}

func (s *firstAvailableSender[Req, Res]) SendRequest(ctx context.Context, req Req, timeout time.Duration, cb transport.Callback[Res]) {
	s.target.SendRequest(ctx, req, timeout, cb)
}
