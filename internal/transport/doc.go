// Package transport defines the host-provided collaborator interfaces the
// dispatch engine consumes: the single-shot request/response contract, the
// sender abstraction that performs the actual network I/O, and the error
// taxonomy used to distinguish compile-time from dispatch-time failures.
//
// # Overview
//
// Everything in this package is an interface or a plain value type. No
// network I/O, framing, or serialization lives here — those are the host
// application's concern (see the engine's scope notes). What this package
// fixes is the *shape* of the contract between the strategy/compiler layer
// and whatever transport a caller plugs in underneath it.
//
// # Architecture
//
//	┌────────────────────────────────────────┐
//	│              transport                  │
//	├────────────────────────────────────────┤
//	│  Sender        - one RPC hop            │
//	│  Callback      - single-shot completion │
//	│  Address       - host:port identity     │
//	│  Errors        - NoSenderAvailable, ...  │
//	└────────────────────────────────────────┘
//
// # Concurrency Model
//
//   - Sender.SendRequest must never block; it either enqueues synchronously
//     on the underlying transport or schedules work and returns immediately.
//   - Callback.OnComplete is invoked exactly once per accepted request, from
//     whatever goroutine the underlying transport completes on. Callers that
//     need single-threaded semantics should route through looprunner.Loop.
package transport
