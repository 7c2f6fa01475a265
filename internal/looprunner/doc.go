// Package looprunner provides a minimal single-goroutine "dispatcher
// thread": the execution context the engine's concurrency model assumes
// for compiling strategies, dispatching requests, and invoking callbacks
// without locks on per-sender state (round-robin cursors, firstValidResult
// aggregators).
//
// Callers on other goroutines hand off work via Loop.Submit, which
// enqueues a closure onto the loop's channel; everything enqueued runs on
// the single goroutine that called Loop.Run, in submission order. This is
// the engine's answer to "cross-thread callers must hand off work via the
// dispatcher's message-queue primitive" — adapted from the graceful
// start/stop shape of this codebase's original HTTP server main loop,
// generalized from "serve HTTP until a signal arrives" to "run submitted
// work until told to stop."
package looprunner
