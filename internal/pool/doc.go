// Package pool defines the ConnectionPool abstraction the dispatch engine
// compiles strategies against, plus an in-memory reference implementation
// used by tests, demos, and as living documentation of the contract.
//
// # Overview
//
// A ConnectionPool is a mapping from Address to the currently-live Sender
// for that address. Entries appear and disappear asynchronously as
// connections open and close on whatever transport the host application
// runs; the pool itself performs no I/O. Lookup must be non-blocking and
// safe to call repeatedly during a single compile pass.
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│            MemoryPool                │
//	├─────────────────────────────────────┤
//	│  entries: map[Address]Sender        │
//	│  mu: RWMutex for thread safety       │
//	├─────────────────────────────────────┤
//	│  Get(addr)      -> Sender, ok        │
//	│  Set(addr, s)   -> install/replace   │
//	│  Remove(addr)   -> drop              │
//	│  Addresses()    -> snapshot keys     │
//	└─────────────────────────────────────┘
//
// # Concurrency Model
//
//   - Read operations (Get, Addresses) use RLock for parallel access.
//   - Write operations (Set, Remove) use Lock for exclusive access.
//   - No lock is held during any call out to a Sender.
//   - A lookup returns a reference stable at least through the synchronous
//     completion of the caller's SendRequest, matching the contract
//     Strategy.Compile relies on.
package pool
