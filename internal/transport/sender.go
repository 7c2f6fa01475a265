package transport

import (
	"context"
	"strconv"
	"time"
)

// Address identifies a backend network endpoint. It is deliberately a small
// comparable struct rather than a bare string so it can be used directly as
// a map key by a ConnectionPool, logged as a structured field, and decoded
// straight out of YAML strategy configuration.
type Address struct {
	// Host is the backend's hostname or IP literal.
	Host string `yaml:"host" json:"host"`

	// Port is the backend's listening port.
	Port int `yaml:"port" json:"port"`
}

// String renders the address in "host:port" form.
func (a Address) String() string {
	if a.Port == 0 {
		return a.Host
	}
	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Callback is the single-shot completion sink the engine guarantees to
// invoke exactly once per accepted request, with either a result or an
// error, never both.
type Callback[Res any] interface {
	OnComplete(result Res, err error)
}

// CallbackFunc adapts a plain function to the Callback interface, the way
// http.HandlerFunc adapts a function to http.Handler.
type CallbackFunc[Res any] func(result Res, err error)

// OnComplete implements Callback.
func (f CallbackFunc[Res]) OnComplete(result Res, err error) {
	f(result, err)
}

// Sender is the transport-layer collaborator the engine wraps: a callable
// that accepts a request, a timeout, and a callback, and guarantees the
// callback fires exactly once. Timeout of 0 means "no timeout".
//
// SendRequest must not block: it either performs a synchronous enqueue on
// the underlying transport or schedules one and returns immediately. All
// waiting is modeled through the callback.
type Sender[Req any, Res any] interface {
	SendRequest(ctx context.Context, request Req, timeout time.Duration, cb Callback[Res])
}

// SenderFunc adapts a plain function to the Sender interface for tests and
// small ad-hoc senders, mirroring CallbackFunc above.
type SenderFunc[Req any, Res any] func(ctx context.Context, request Req, timeout time.Duration, cb Callback[Res])

// SendRequest implements Sender.
func (f SenderFunc[Req, Res]) SendRequest(ctx context.Context, request Req, timeout time.Duration, cb Callback[Res]) {
	f(ctx, request, timeout, cb)
}
