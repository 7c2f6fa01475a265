package strategy

import (
	"context"
	"time"

	"github.com/dreamware/rpcdispatch/internal/pool"
	"github.com/dreamware/rpcdispatch/internal/transport"
)

// TypeFn extracts a type tag from a request, used by typeDispatch to pick
// which mapped sub-strategy should handle it.
type TypeFn[Req any] func(req Req) string

// typeDispatchStrategy holds a type function, a tag-to-strategy mapping,
// and an optional default strategy for unmapped tags.
type typeDispatchStrategy[Req any, Res any] struct {
	typeFn           TypeFn[Req]
	mapping          map[string]Strategy[Req, Res]
	defaultStrategy  Strategy[Req, Res]
	requireAllMapped bool
}

// TypeDispatchOption configures TypeDispatch beyond its required mapping.
type TypeDispatchOption[Req any, Res any] func(*typeDispatchStrategy[Req, Res])

// WithDefault sets the sub-strategy used when typeFn produces a tag with
// no mapping entry.
func WithDefault[Req any, Res any](def Strategy[Req, Res]) TypeDispatchOption[Req, Res] {
	return func(s *typeDispatchStrategy[Req, Res]) {
		s.defaultStrategy = def
	}
}

// WithRequireAllMapped makes compilation fail unless every mapped
// sub-strategy compiles, instead of tolerating partial maps when a
// default is absent. Per the engine's contract, typeDispatch is
// Unavailable iff no default is configured AND any required mapping
// failed to compile; this option controls whether "required" means "all"
// or "at least one" when there is no default.
func WithRequireAllMapped[Req any, Res any]() TypeDispatchOption[Req, Res] {
	return func(s *typeDispatchStrategy[Req, Res]) {
		s.requireAllMapped = true
	}
}

// TypeDispatch builds a Strategy that routes each request by typeFn(req)
// through mapping, falling back to an optional default for unmapped tags.
func TypeDispatch[Req any, Res any](typeFn TypeFn[Req], mapping map[string]Strategy[Req, Res], opts ...TypeDispatchOption[Req, Res]) Strategy[Req, Res] {
	s := &typeDispatchStrategy[Req, Res]{typeFn: typeFn, mapping: mapping}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *typeDispatchStrategy[Req, Res]) Addresses() []transport.Address {
	strategies := make([]Strategy[Req, Res], 0, len(s.mapping)+1)
	for _, child := range s.mapping {
		strategies = append(strategies, child)
	}
	if s.defaultStrategy != nil {
		strategies = append(strategies, s.defaultStrategy)
	}
	return collectAddresses(strategies)
}

func (s *typeDispatchStrategy[Req, Res]) Compile(p pool.ConnectionPool[Req, Res]) (transport.Sender[Req, Res], error) {
	senders := make(map[string]transport.Sender[Req, Res], len(s.mapping))
	compiledCount := 0
	for tag, child := range s.mapping {
		sender, err := child.Compile(p)
		if err != nil {
			continue
		}
		senders[tag] = sender
		compiledCount++
	}

	var defaultSender transport.Sender[Req, Res]
	haveDefault := false
	if s.defaultStrategy != nil {
		if sender, err := s.defaultStrategy.Compile(p); err == nil {
			defaultSender = sender
			haveDefault = true
		}
	}

	if !haveDefault {
		allMapped := compiledCount == len(s.mapping)
		anyMapped := compiledCount > 0
		ok := anyMapped
		if s.requireAllMapped {
			ok = allMapped
		}
		if !ok {
			return nil, transport.NewUnavailable("no default and required mappings did not compile")
		}
	}

	return &typeDispatchSender[Req, Res]{
		typeFn:        s.typeFn,
		senders:       senders,
		defaultSender: defaultSender,
	}, nil
}

// typeDispatchSender holds the tag-to-sender map and optional default
// resolved at compile time. Dispatch is a pure map lookup, no mutable
// state required.
type typeDispatchSender[Req any, Res any] struct {
	typeFn        TypeFn[Req]
	senders       map[string]transport.Sender[Req, Res]
	defaultSender transport.Sender[Req, Res]
}

func (s *typeDispatchSender[Req, Res]) SendRequest(ctx context.Context, req Req, timeout time.Duration, cb transport.Callback[Res]) {
	tag := s.typeFn(req)
	if sender, ok := s.senders[tag]; ok {
		sender.SendRequest(ctx, req, timeout, cb)
		return
	}
	if s.defaultSender != nil {
		s.defaultSender.SendRequest(ctx, req, timeout, cb)
		return
	}
	var zero Res
	cb.OnComplete(zero, transport.ErrNoSenderAvailable)
}
