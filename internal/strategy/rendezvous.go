package strategy

import (
	"context"
	"time"

	"github.com/dreamware/rpcdispatch/internal/pool"
	"github.com/dreamware/rpcdispatch/internal/transport"
)

// HashFn computes a request's hash for rendezvous purposes. See hash.go
// for the xxhash-based implementation, XXHashHashFn.
type HashFn[Req any] func(req Req) uint64

// BucketScoreFn combines a bucket identity with a request hash into a
// score; rendezvousHashing dispatches to the live bucket maximizing this
// score, breaking ties by the lower bucketID.
type BucketScoreFn func(bucketID string, requestHash uint64) uint64

// Bucket pairs a stable identity with the sub-strategy it routes to.
type Bucket[Req any, Res any] struct {
	ID       string
	Strategy Strategy[Req, Res]
}

// rendezvousStrategy holds a hash function, a score function, and the set
// of buckets participating in the ring.
type rendezvousStrategy[Req any, Res any] struct {
	hashFn    HashFn[Req]
	scoreFn   BucketScoreFn
	buckets   []Bucket[Req, Res]
}

// RendezvousHashing builds a Strategy implementing highest-random-weight
// (rendezvous) hashing: for each request, among the buckets whose
// sub-strategy compiled, it dispatches to the one maximizing
// scoreFn(bucketID, hashFn(req)), ties broken by lower bucketID.
//
// This is the standard HRW guarantee: removing one bucket reshuffles only
// the requests previously mapped to it, leaving every other bucket's
// assignments untouched.
func RendezvousHashing[Req any, Res any](hashFn HashFn[Req], scoreFn BucketScoreFn, buckets ...Bucket[Req, Res]) Strategy[Req, Res] {
	return &rendezvousStrategy[Req, Res]{hashFn: hashFn, scoreFn: scoreFn, buckets: buckets}
}

func (s *rendezvousStrategy[Req, Res]) Addresses() []transport.Address {
	strategies := make([]Strategy[Req, Res], len(s.buckets))
	for i, b := range s.buckets {
		strategies[i] = b.Strategy
	}
	return collectAddresses(strategies)
}

func (s *rendezvousStrategy[Req, Res]) Compile(p pool.ConnectionPool[Req, Res]) (transport.Sender[Req, Res], error) {
	type liveBucket struct {
		id     string
		sender transport.Sender[Req, Res]
	}
	var live []liveBucket
	for _, b := range s.buckets {
		sender, err := b.Strategy.Compile(p)
		if err != nil {
			continue
		}
		live = append(live, liveBucket{id: b.ID, sender: sender})
	}
	if len(live) == 0 {
		return nil, transport.NewUnavailable("no bucket compiled")
	}

	ids := make([]string, len(live))
	senders := make([]transport.Sender[Req, Res], len(live))
	for i, b := range live {
		ids[i] = b.id
		senders[i] = b.sender
	}

	return &rendezvousSender[Req, Res]{
		hashFn:  s.hashFn,
		scoreFn: s.scoreFn,
		ids:     ids,
		senders: senders,
	}, nil
}

// rendezvousSender holds the live bucket IDs and their compiled senders in
// a fixed order established at compile time. No mutable routing state is
// needed: selection is a pure max-score scan over the live set.
type rendezvousSender[Req any, Res any] struct {
	hashFn  HashFn[Req]
	scoreFn BucketScoreFn
	ids     []string
	senders []transport.Sender[Req, Res]
}

func (s *rendezvousSender[Req, Res]) SendRequest(ctx context.Context, req Req, timeout time.Duration, cb transport.Callback[Res]) {
	h := s.hashFn(req)

	best := -1
	var bestScore uint64
	for i, id := range s.ids {
		score := s.scoreFn(id, h)
		if best == -1 || score > bestScore || (score == bestScore && id < s.ids[best]) {
			best = i
			bestScore = score
		}
	}
	s.senders[best].SendRequest(ctx, req, timeout, cb)
}
