// Package metrics exposes optional Prometheus counters for the dispatch
// engine: compiles, dispatches, and failures broken down by strategy
// kind. A Collector wraps plain prometheus counter vectors behind a
// nil-safe zero value, so instrumentation stays cheap and lock-free on
// the hot path while still being exposable through a real scrape
// endpoint.
package metrics
