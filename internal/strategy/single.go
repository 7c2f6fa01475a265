package strategy

import (
	"github.com/dreamware/rpcdispatch/internal/pool"
	"github.com/dreamware/rpcdispatch/internal/transport"
)

// singleStrategy is the leaf of every strategy tree: it targets exactly
// one address and compiles to the pool's current sender for it, or to
// Unavailable if the pool has no live connection there right now.
type singleStrategy[Req any, Res any] struct {
	addr transport.Address
}

// Single builds a leaf Strategy that always targets addr.
func Single[Req any, Res any](addr transport.Address) Strategy[Req, Res] {
	return &singleStrategy[Req, Res]{addr: addr}
}

func (s *singleStrategy[Req, Res]) Addresses() []transport.Address {
	return []transport.Address{s.addr}
}

func (s *singleStrategy[Req, Res]) Compile(p pool.ConnectionPool[Req, Res]) (transport.Sender[Req, Res], error) {
	sender, ok := p.Get(s.addr)
	if !ok {
		return nil, transport.NewUnavailable("no live connection for " + s.addr.String())
	}
	return sender, nil
}

// Servers is sugar for building a list of Single leaves from a list of
// addresses; it is not itself a dispatching strategy — per the engine's
// contract, it exists purely to save callers from writing
// []Strategy{Single(a1), Single(a2), ...} by hand when feeding a
// combinator such as firstAvailable or roundRobin.
func Servers[Req any, Res any](addrs ...transport.Address) []Strategy[Req, Res] {
	out := make([]Strategy[Req, Res], len(addrs))
	for i, addr := range addrs {
		out[i] = Single[Req, Res](addr)
	}
	return out
}
