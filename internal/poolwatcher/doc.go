// Package poolwatcher periodically polls a ConnectionPool for membership
// changes and notifies a callback so the caller can recompile its strategy
// tree, the way the engine's recompilation policy requires: "callers
// recompile whenever the pool membership changes."
//
// # Overview
//
// The dispatch engine does not watch the pool itself — compilation is a
// pure function of a snapshot, and rebuilding senders is the caller's
// responsibility. Watcher exists to give callers a ready-made way to
// discharge that responsibility without hand-rolling a polling loop,
// adapted from the health-monitoring loop used elsewhere in this codebase's
// lineage to detect node membership changes in a cluster.
//
// # Concurrency Model
//
//   - Start runs the polling loop in the calling goroutine and blocks
//     until Stop is called or the supplied context is canceled.
//   - onChange is invoked from the polling goroutine; it must not block
//     for long, since it delays the next poll.
//   - All internal state is protected by a mutex; Stop is safe to call
//     concurrently with Start's loop winding down.
package poolwatcher
