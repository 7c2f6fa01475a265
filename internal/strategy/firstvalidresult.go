package strategy

import (
	"context"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/dreamware/rpcdispatch/internal/pool"
	"github.com/dreamware/rpcdispatch/internal/transport"
)

// ResultValidator decides whether a firstValidResult child's response
// counts as "valid". The validator only sees completions delivered without
// an error; the default validator (used when none is supplied) accepts any
// such result that is not nil.
type ResultValidator[Res any] func(result Res) bool

// firstValidResultStrategy holds an ordered list of sub-strategies, an
// optional validator, and an optional error to surface when no child
// produces a valid result.
type firstValidResultStrategy[Req any, Res any] struct {
	children               []Strategy[Req, Res]
	validator              ResultValidator[Res]
	noValidResultError     error
	minActiveSubStrategies int
}

// FirstValidResultOption configures FirstValidResult beyond its children.
type FirstValidResultOption[Req any, Res any] func(*firstValidResultStrategy[Req, Res])

// WithResultValidator overrides the default "non-nil result" validator.
func WithResultValidator[Req any, Res any](v ResultValidator[Res]) FirstValidResultOption[Req, Res] {
	return func(s *firstValidResultStrategy[Req, Res]) {
		s.validator = v
	}
}

// WithNoValidResultError sets the error delivered when every child
// responds without producing a valid result. If unset, the callback
// fires with (zero value, nil) — a successful "no valid answer" result,
// per the engine's documented (if surprising) default behavior.
func WithNoValidResultError[Req any, Res any](err error) FirstValidResultOption[Req, Res] {
	return func(s *firstValidResultStrategy[Req, Res]) {
		s.noValidResultError = err
	}
}

// WithFVRMinActiveSubStrategies gates compilation on at least n children
// compiling successfully. The effective floor is always at least 1: an
// empty composite must never compile successfully, so n<1 has no effect.
func WithFVRMinActiveSubStrategies[Req any, Res any](n int) FirstValidResultOption[Req, Res] {
	return func(s *firstValidResultStrategy[Req, Res]) {
		s.minActiveSubStrategies = n
	}
}

// FirstValidResult builds the engine's non-trivial fan-out combinator: a
// single request is sent concurrently to every compiled child, and the
// caller's callback fires exactly once with the first response the
// validator accepts — or, once every child has answered without one, with
// noValidResultError if set, else a successful nil result.
func FirstValidResult[Req any, Res any](children []Strategy[Req, Res], opts ...FirstValidResultOption[Req, Res]) Strategy[Req, Res] {
	s := &firstValidResultStrategy[Req, Res]{children: children, minActiveSubStrategies: 1}
	for _, opt := range opts {
		opt(s)
	}
	if s.validator == nil {
		s.validator = defaultValidator[Res]
	}
	return s
}

// defaultValidator treats a completion delivered without an error as valid
// unless its result is nil, matching the engine's documented default
// ("r != null"). Results of types that cannot be nil (ints, strings,
// structs) are always valid.
func defaultValidator[Res any](r Res) bool {
	v := reflect.ValueOf(any(r))
	if !v.IsValid() {
		return false
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return !v.IsNil()
	}
	return true
}

func (s *firstValidResultStrategy[Req, Res]) Addresses() []transport.Address {
	return collectAddresses(s.children)
}

func (s *firstValidResultStrategy[Req, Res]) Compile(p pool.ConnectionPool[Req, Res]) (transport.Sender[Req, Res], error) {
	senders, live := compileChildren(s.children, p)
	if live < max(1, s.minActiveSubStrategies) {
		return nil, transport.NewUnavailable("fewer children compiled than minActiveSubStrategies")
	}
	targets := make([]transport.Sender[Req, Res], 0, live)
	for _, sender := range senders {
		if sender != nil {
			targets = append(targets, sender)
		}
	}
	return &firstValidResultSender[Req, Res]{
		targets:            targets,
		validator:          s.validator,
		noValidResultError: s.noValidResultError,
	}, nil
}

// firstValidResultSender fans each request out to every live target and
// wires a shared per-request aggregator to resolve the caller's callback
// exactly once.
type firstValidResultSender[Req any, Res any] struct {
	targets            []transport.Sender[Req, Res]
	validator          ResultValidator[Res]
	noValidResultError error
}

func (s *firstValidResultSender[Req, Res]) SendRequest(ctx context.Context, req Req, timeout time.Duration, cb transport.Callback[Res]) {
	agg := &fvrAggregator[Res]{
		remaining:          int64(len(s.targets)),
		validator:          s.validator,
		noValidResultError: s.noValidResultError,
		cb:                 cb,
	}
	for _, target := range s.targets {
		target.SendRequest(ctx, req, timeout, agg)
	}
}

// fvrAggregator is the per-request state machine described by the engine's
// firstValidResult contract: Pending(remaining, done=false) until either a
// valid result arrives (-> Done(result)) or the last child responds
// without one (-> Done(noValidResultError or zero value)). One allocation
// per submitted request, released once the terminal transition fires.
//
// done is a CAS guard so that, however many goroutines the underlying
// senders complete on, the caller's callback still fires exactly once;
// this is the one place in the engine where routing state is touched from
// outside the single dispatcher thread, since child completions are not
// guaranteed to land there.
type fvrAggregator[Res any] struct {
	remaining          int64
	done               int32
	validator          ResultValidator[Res]
	noValidResultError error
	cb                 transport.Callback[Res]
}

// OnComplete implements transport.Callback, acting as the wrapping
// callback every child sender is given. It is the sole caller of the
// aggregator's state transitions.
func (a *fvrAggregator[Res]) OnComplete(result Res, err error) {
	if atomic.LoadInt32(&a.done) != 0 {
		// Already resolved; this child's outcome is orphaned. Discarded
		// responses must not re-trigger release or invoke cb again.
		return
	}

	if err == nil && a.validator(result) {
		if atomic.CompareAndSwapInt32(&a.done, 0, 1) {
			a.cb.OnComplete(result, nil)
		}
		return
	}

	if atomic.AddInt64(&a.remaining, -1) > 0 {
		return
	}

	// Last child answered and none produced a valid result.
	if atomic.CompareAndSwapInt32(&a.done, 0, 1) {
		var zero Res
		if a.noValidResultError != nil {
			a.cb.OnComplete(zero, a.noValidResultError)
		} else {
			a.cb.OnComplete(zero, nil)
		}
	}
}
