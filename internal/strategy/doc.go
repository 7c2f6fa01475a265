// Package strategy implements the routing-policy algebra at the heart of
// the dispatch engine: an immutable tree of declarative Strategy values
// that compiles, against a point-in-time ConnectionPool snapshot, into a
// concrete Sender the caller submits requests to.
//
// # Overview
//
// A Strategy describes *how* to route requests without knowing, at
// construction time, which backends are actually reachable. Compilation
// is the step that resolves a strategy tree against a live pool and
// produces either a working Sender or an Unavailable signal. Strategies
// are immutable; all mutable routing state (round-robin cursors, random
// seeds, firstValidResult aggregators) lives inside the compiled sender.
//
// # Architecture
//
//	┌──────────────────────────────────────────────┐
//	│                 strategy tree                  │
//	├──────────────────────────────────────────────┤
//	│                                                │
//	│   firstAvailable                               │
//	│   ├── roundRobin                               │
//	│   │    ├── single(A1)                          │
//	│   │    └── single(A2)                          │
//	│   └── single(A3)                               │
//	│                                                │
//	├──────────────────────────────────────────────┤
//	│  Addresses()  -> {A1, A2, A3}  (pool warm-up)  │
//	│  Compile(pool) -> Sender | Unavailable         │
//	└──────────────────────────────────────────────┘
//
// # Primitive and Combinator Strategies
//
//   - Single / Servers: leaves that resolve to one pool entry.
//   - firstAvailable: ordered fallback between compilations, not requests.
//   - roundRobin: strict rotation across live children.
//   - randomSampled: weighted random pick among live children.
//   - sharding: deterministic hash-to-slot routing with holes for
//     children that failed to compile.
//   - rendezvousHashing: highest-random-weight bucket selection, minimal
//     disruption on bucket removal.
//   - typeDispatch: request-type keyed routing with an optional default.
//   - firstValidResult: fan-out to every live child, first validator-
//     accepted result wins.
//
// # Concurrency Model
//
// Compilation performs no I/O and must not block. The compiled sender's
// mutable state (cursors, aggregators) is only safe under the
// single-threaded dispatcher discipline described at the engine level —
// this package takes no locks of its own on that state, matching the
// cooperative single-dispatcher model the whole engine assumes.
package strategy
