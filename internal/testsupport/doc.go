// Package testsupport hosts shared test doubles for the dispatch engine:
// scripted senders that return canned results, errors, or delays, and a
// collecting callback that records completions — small, purpose-built
// fakes rather than a generic mocking framework.
package testsupport
