package strategy

import (
	"github.com/dreamware/rpcdispatch/internal/pool"
	"github.com/dreamware/rpcdispatch/internal/transport"
)

// Strategy is an immutable description of a routing policy. It exposes two
// operations: the static set of addresses it may ever target (used for
// pool pre-subscription / warm-up), and compilation against a pool
// snapshot, which resolves the policy into a concrete Sender or reports
// Unavailable.
//
// Strategy implementations must be pure values: Addresses and Compile may
// be called any number of times and must not mutate the strategy or
// perform I/O.
type Strategy[Req any, Res any] interface {
	// Addresses enumerates every address this strategy may target. It is
	// a superset of the addresses a compiled sender may actually hit —
	// some may never be live at compile time.
	Addresses() []transport.Address

	// Compile resolves the strategy against pool, returning a Sender
	// ready to accept requests, or a *transport.Unavailable error if the
	// policy's minimum-availability gate was not met.
	Compile(p pool.ConnectionPool[Req, Res]) (transport.Sender[Req, Res], error)
}

// compileChildren compiles every strategy in children against p, returning
// parallel slices: senders (nil at the index of any child that failed to
// compile) and the count of children that compiled successfully. This is
// the shared bottom-up compile step every combinator in this package
// builds on.
func compileChildren[Req any, Res any](children []Strategy[Req, Res], p pool.ConnectionPool[Req, Res]) ([]transport.Sender[Req, Res], int) {
	senders := make([]transport.Sender[Req, Res], len(children))
	live := 0
	for i, child := range children {
		s, err := child.Compile(p)
		if err != nil {
			continue
		}
		senders[i] = s
		live++
	}
	return senders, live
}

// collectAddresses unions the Addresses() of every child strategy.
func collectAddresses[Req any, Res any](children []Strategy[Req, Res]) []transport.Address {
	seen := make(map[transport.Address]struct{})
	var out []transport.Address
	for _, child := range children {
		for _, addr := range child.Addresses() {
			if _, ok := seen[addr]; ok {
				continue
			}
			seen[addr] = struct{}{}
			out = append(out, addr)
		}
	}
	return out
}
