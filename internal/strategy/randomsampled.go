package strategy

import (
	"context"
	"sort"
	"time"

	"golang.org/x/exp/rand"

	"github.com/dreamware/rpcdispatch/internal/pool"
	"github.com/dreamware/rpcdispatch/internal/transport"
)

// WeightedChild pairs a sub-strategy with its integer sampling weight for
// randomSampled. Weight must be positive; zero-or-negative weights are
// dropped at compile time as if the child failed to compile.
type WeightedChild[Req any, Res any] struct {
	Strategy Strategy[Req, Res]
	Weight   int
}

// randomSampledStrategy holds a weighted set of sub-strategies; a single
// request goes to exactly one, chosen with probability proportional to
// weight among the children that compiled.
type randomSampledStrategy[Req any, Res any] struct {
	children []WeightedChild[Req, Res]
}

// RandomSampled builds a Strategy that compiles every weighted child and,
// per request, picks one via cumulative-weight lookup. Unavailable iff no
// child compiled.
func RandomSampled[Req any, Res any](children ...WeightedChild[Req, Res]) Strategy[Req, Res] {
	return &randomSampledStrategy[Req, Res]{children: children}
}

func (s *randomSampledStrategy[Req, Res]) Addresses() []transport.Address {
	strategies := make([]Strategy[Req, Res], len(s.children))
	for i, c := range s.children {
		strategies[i] = c.Strategy
	}
	return collectAddresses(strategies)
}

func (s *randomSampledStrategy[Req, Res]) Compile(p pool.ConnectionPool[Req, Res]) (transport.Sender[Req, Res], error) {
	var cumulative []int
	var targets []transport.Sender[Req, Res]
	total := 0

	for _, c := range s.children {
		if c.Weight <= 0 {
			continue
		}
		sender, err := c.Strategy.Compile(p)
		if err != nil {
			continue
		}
		total += c.Weight
		cumulative = append(cumulative, total)
		targets = append(targets, sender)
	}
	if len(targets) == 0 {
		return nil, transport.NewUnavailable("no child compiled")
	}

	return &randomSampledSender[Req, Res]{
		cumulative: cumulative,
		targets:    targets,
		total:      total,
		rng:        rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}, nil
}

// randomSampledSender holds the compiled targets' cumulative-weight index
// and the per-sender PRNG seeded at compile time. Per-request selection is
// a single sort.Search over a slice that is almost always tiny (a handful
// of backends), so the standard library's binary search is plenty — no
// third-party weighted-sampling library is warranted at this scale.
type randomSampledSender[Req any, Res any] struct {
	cumulative []int
	targets    []transport.Sender[Req, Res]
	total      int
	rng        *rand.Rand
}

func (s *randomSampledSender[Req, Res]) SendRequest(ctx context.Context, req Req, timeout time.Duration, cb transport.Callback[Res]) {
	pick := s.rng.Intn(s.total)
	idx := sort.SearchInts(s.cumulative, pick+1)
	s.targets[idx].SendRequest(ctx, req, timeout, cb)
}
