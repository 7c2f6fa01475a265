package strategy

import (
	"hash/fnv"

	"github.com/cespare/xxhash/v2"
)

// KeyExtractor pulls the raw bytes a sharding or rendezvous strategy
// should hash out of a request. Most callers derive one from whatever
// field identifies the request's routing key (a tenant ID, a cache key,
// and so on).
type KeyExtractor[Req any] func(req Req) []byte

// XXHashShardFn builds a ShardFn that hashes extract(req) with xxhash (the
// same library the corpus's rendezvous-hashing gRPC balancer is built on)
// and reduces it mod n via the caller's shard count at dispatch time
// (sharding.go already takes the modulo, so this simply returns the hash,
// shifted right by one bit, cast to an int index candidate).
func XXHashShardFn[Req any](extract KeyExtractor[Req]) ShardFn[Req] {
	return func(req Req) int {
		return int(xxhash.Sum64(extract(req)) >> 1) // clear the top bit so the int is non-negative on 64-bit platforms
	}
}

// XXHashHashFn builds a HashFn suitable for RendezvousHashing using
// xxhash, the engine's recommended default hash for both sharding and
// rendezvous routing.
func XXHashHashFn[Req any](extract KeyExtractor[Req]) HashFn[Req] {
	return func(req Req) uint64 {
		return xxhash.Sum64(extract(req))
	}
}

// FNVKeyFunc builds a ShardFn using the standard library's FNV-1a hash.
// It is the one place in this package that intentionally stays on the
// standard library rather than reaching for xxhash: FNV-1a over a single
// short key is a common choice for shard assignment, and pulling in a
// third-party hash for a single non-hot-path call buys nothing.
func FNVKeyFunc[Req any](extract KeyExtractor[Req]) ShardFn[Req] {
	return func(req Req) int {
		h := fnv.New32a()
		h.Write(extract(req))
		return int(h.Sum32())
	}
}

// RendezvousScoreByHash is the default BucketScoreFn: it combines the
// bucket ID's own xxhash with the request hash via xor-multiply, a cheap
// well-distributed mixing function adequate for the handful-of-buckets
// case rendezvous hashing targets here.
func RendezvousScoreByHash(bucketID string, requestHash uint64) uint64 {
	bucketHash := xxhash.Sum64String(bucketID)
	mixed := bucketHash ^ requestHash
	mixed *= 0x9E3779B97F4A7C15 // golden-ratio multiplicative mix, same constant used by Fibonacci hashing
	return mixed
}
