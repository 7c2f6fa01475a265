package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/rpcdispatch/internal/pool"
	"github.com/dreamware/rpcdispatch/internal/testsupport"
	"github.com/dreamware/rpcdispatch/internal/transport"
)

type taggedRequest struct {
	tag string
}

func byTag(r taggedRequest) string { return r.tag }

func TestTypeDispatchRoutesByTag(t *testing.T) {
	p := pool.NewMemoryPool[taggedRequest, string]()
	aRead, aWrite := addr("read", 1), addr("write", 2)
	readSender := testsupport.NewScriptedSender[taggedRequest, string]("read-result")
	writeSender := testsupport.NewScriptedSender[taggedRequest, string]("write-result")
	p.Set(aRead, readSender)
	p.Set(aWrite, writeSender)

	strat := TypeDispatch(TypeFn[taggedRequest](byTag), map[string]Strategy[taggedRequest, string]{
		"read":  Single[taggedRequest, string](aRead),
		"write": Single[taggedRequest, string](aWrite),
	})
	compiled, err := strat.Compile(p)
	require.NoError(t, err)

	cb := testsupport.NewCollectingCallback[string]()
	compiled.SendRequest(context.Background(), taggedRequest{tag: "write"}, 0, cb)
	result, _ := cb.Result()
	assert.Equal(t, "write-result", result)
	assert.Equal(t, 1, writeSender.Calls())
	assert.Equal(t, 0, readSender.Calls())
}

func TestTypeDispatchFallsBackToDefault(t *testing.T) {
	p := pool.NewMemoryPool[taggedRequest, string]()
	aDefault := addr("default", 1)
	defaultSender := testsupport.NewScriptedSender[taggedRequest, string]("default-result")
	p.Set(aDefault, defaultSender)

	strat := TypeDispatch(TypeFn[taggedRequest](byTag), map[string]Strategy[taggedRequest, string]{},
		WithDefault[taggedRequest, string](Single[taggedRequest, string](aDefault)))
	compiled, err := strat.Compile(p)
	require.NoError(t, err)

	cb := testsupport.NewCollectingCallback[string]()
	compiled.SendRequest(context.Background(), taggedRequest{tag: "unknown"}, 0, cb)
	result, _ := cb.Result()
	assert.Equal(t, "default-result", result)
}

func TestTypeDispatchNoDefaultAndUnmappedFails(t *testing.T) {
	p := pool.NewMemoryPool[taggedRequest, string]()
	aRead := addr("read", 1)
	p.Set(aRead, testsupport.NewScriptedSender[taggedRequest, string]("read-result"))

	strat := TypeDispatch(TypeFn[taggedRequest](byTag), map[string]Strategy[taggedRequest, string]{
		"read": Single[taggedRequest, string](aRead),
	})
	compiled, err := strat.Compile(p)
	require.NoError(t, err)

	cb := testsupport.NewCollectingCallback[string]()
	compiled.SendRequest(context.Background(), taggedRequest{tag: "write"}, 0, cb)
	_, err = cb.Result()
	assert.ErrorIs(t, err, transport.ErrNoSenderAvailable)
}

func TestTypeDispatchRequireAllMappedGatesCompile(t *testing.T) {
	p := pool.NewMemoryPool[taggedRequest, string]()
	aRead := addr("read", 1)
	p.Set(aRead, testsupport.NewScriptedSender[taggedRequest, string]("read-result"))

	strat := TypeDispatch(TypeFn[taggedRequest](byTag), map[string]Strategy[taggedRequest, string]{
		"read":  Single[taggedRequest, string](aRead),
		"write": Single[taggedRequest, string](addr("missing", 2)),
	}, WithRequireAllMapped[taggedRequest, string]())
	_, err := strat.Compile(p)
	assert.Error(t, err)
}
