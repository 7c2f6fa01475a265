package testsupport

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dreamware/rpcdispatch/internal/transport"
)

// ScriptedSender is a transport.Sender test double that returns a fixed
// result or error on every call, optionally after a delay, and records how
// many times it was invoked and with which requests.
type ScriptedSender[Req any, Res any] struct {
	Result Res
	Err    error
	Delay  time.Duration

	// Async, if true, delivers the callback from a separate goroutine
	// instead of synchronously, exercising the engine's tolerance for
	// callbacks arriving off the submitting goroutine.
	Async bool

	mu       sync.Mutex
	requests []Req
	calls    int64
}

// NewScriptedSender builds a sender that always succeeds with result.
func NewScriptedSender[Req any, Res any](result Res) *ScriptedSender[Req, Res] {
	return &ScriptedSender[Req, Res]{Result: result}
}

// NewFailingSender builds a sender that always fails with err.
func NewFailingSender[Req any, Res any](err error) *ScriptedSender[Req, Res] {
	return &ScriptedSender[Req, Res]{Err: err}
}

// SendRequest implements transport.Sender.
func (s *ScriptedSender[Req, Res]) SendRequest(ctx context.Context, req Req, timeout time.Duration, cb transport.Callback[Res]) {
	atomic.AddInt64(&s.calls, 1)
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	deliver := func() {
		if s.Delay > 0 {
			time.Sleep(s.Delay)
		}
		cb.OnComplete(s.Result, s.Err)
	}
	if s.Async {
		go deliver()
		return
	}
	deliver()
}

// Calls reports how many times SendRequest was invoked.
func (s *ScriptedSender[Req, Res]) Calls() int {
	return int(atomic.LoadInt64(&s.calls))
}

// Requests returns a copy of every request SendRequest has seen so far.
func (s *ScriptedSender[Req, Res]) Requests() []Req {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Req, len(s.requests))
	copy(out, s.requests)
	return out
}

// CollectingCallback is a transport.Callback test double that records the
// (result, error) pair it was invoked with. It never fails a test itself:
// a repeated invocation overwrites the pair and bumps Count, which tests
// inspect to assert exactly-once delivery.
type CollectingCallback[Res any] struct {
	mu     sync.Mutex
	count  int
	result Res
	err    error
	done   chan struct{}
}

// NewCollectingCallback builds a callback ready to receive one completion.
func NewCollectingCallback[Res any]() *CollectingCallback[Res] {
	return &CollectingCallback[Res]{done: make(chan struct{}, 1)}
}

// OnComplete implements transport.Callback.
func (c *CollectingCallback[Res]) OnComplete(result Res, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	c.result = result
	c.err = err
	select {
	case c.done <- struct{}{}:
	default:
	}
}

// Count reports how many times OnComplete was invoked.
func (c *CollectingCallback[Res]) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Result returns the last (result, error) pair delivered.
func (c *CollectingCallback[Res]) Result() (Res, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result, c.err
}

// Wait blocks until at least one completion has been delivered or timeout
// elapses, returning false on timeout. Needed for Async senders whose
// callback arrives on another goroutine.
func (c *CollectingCallback[Res]) Wait(timeout time.Duration) bool {
	select {
	case <-c.done:
		return true
	case <-time.After(timeout):
		return false
	}
}
