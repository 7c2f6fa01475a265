package transport

import (
	"github.com/pkg/errors"
)

// Sentinel errors returned by the dispatch engine. Callers should compare
// against these with errors.Is rather than string-matching, the same
// pattern the storage layer this engine was adapted from used for
// ErrKeyNotFound.
var (
	// ErrNoSenderAvailable means no underlying sender could be selected
	// for a request, either because the compiled sender has no live
	// children left or because a sharding/type-dispatch policy mapped
	// the request to a hole.
	ErrNoSenderAvailable = errors.New("rpcdispatch: no sender available")

	// ErrNoValidResult is a ready-made error for the NoValidResultError
	// option of firstValidResult. The engine never delivers it on its
	// own: when every child answers without a valid result and no error
	// is configured, the callback fires with the zero value and a nil
	// error.
	ErrNoValidResult = errors.New("rpcdispatch: no valid result")

	// ErrRequestTimeout is returned by a Sender when the caller-supplied
	// timeout elapses before a response arrives. The engine itself never
	// constructs this error — it is opaque transport-layer input that
	// policies forward verbatim.
	ErrRequestTimeout = errors.New("rpcdispatch: request timeout")

	// ErrConnectionClosed is returned by a Sender when the underlying
	// connection is no longer usable. Like ErrRequestTimeout, the engine
	// forwards it rather than originating it.
	ErrConnectionClosed = errors.New("rpcdispatch: connection closed")

	// ErrCompileUnavailable is the sentinel wrapped by Unavailable, the
	// compile-time signal distinguishing "no sender could be built" from
	// a runtime dispatch failure. It is never delivered to a Callback.
	ErrCompileUnavailable = errors.New("rpcdispatch: compile unavailable")
)

// Unavailable is returned by Strategy.Compile when the pool snapshot does
// not contain enough live senders to satisfy the strategy's policy (an
// empty composite, a minActiveSubStrategies gate that wasn't met, and so on).
//
// Unavailable is a distinct type from the runtime error kinds above: it is
// returned from Compile, never handed to a Callback, and carries no
// per-request state. Compile returning Unavailable means no request has
// been accepted and no callback is owed.
type Unavailable struct {
	// Reason is a short human-readable explanation, e.g. "no child
	// compiled" or "fewer children compiled than minActiveSubStrategies".
	Reason string
}

func (u *Unavailable) Error() string {
	if u.Reason == "" {
		return ErrCompileUnavailable.Error()
	}
	return ErrCompileUnavailable.Error() + ": " + u.Reason
}

func (u *Unavailable) Unwrap() error {
	return ErrCompileUnavailable
}

// NewUnavailable builds an Unavailable with the given reason.
func NewUnavailable(reason string) *Unavailable {
	return &Unavailable{Reason: reason}
}

// Wrap attaches additional context to an underlying transport error while
// preserving its identity for errors.Is, mirroring the wrap-without-losing-
// the-sentinel convention used throughout the reference storage and
// registry layers this package was adapted from.
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, context)
}
