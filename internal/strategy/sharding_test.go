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

func TestShardingConstantKeyHitsOneChild(t *testing.T) {
	p := pool.NewMemoryPool[string, string]()
	senders := make([]*testsupport.ScriptedSender[string, string], 3)
	children := make([]Strategy[string, string], 3)
	for i := range senders {
		a := addr("h", i)
		senders[i] = testsupport.NewScriptedSender[string, string]("ok")
		p.Set(a, senders[i])
		children[i] = Single[string, string](a)
	}

	constantShard := ShardFn[string](func(string) int { return 1 })
	strat := Sharding(constantShard, children)
	compiled, err := strat.Compile(p)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		compiled.SendRequest(context.Background(), "r", 0, testsupport.NewCollectingCallback[string]())
	}
	assert.Equal(t, 0, senders[0].Calls())
	assert.Equal(t, 10, senders[1].Calls())
	assert.Equal(t, 0, senders[2].Calls())
}

func TestShardingHoleFailsRequest(t *testing.T) {
	p := pool.NewMemoryPool[string, string]()
	// only slot 0 is live; slot 1 is a hole
	a0 := addr("h0", 0)
	p.Set(a0, testsupport.NewScriptedSender[string, string]("ok"))

	children := []Strategy[string, string]{
		Single[string, string](a0),
		Single[string, string](addr("missing", 1)),
	}
	alwaysSlot1 := ShardFn[string](func(string) int { return 1 })
	strat := Sharding(alwaysSlot1, children)
	compiled, err := strat.Compile(p)
	require.NoError(t, err)

	cb := testsupport.NewCollectingCallback[string]()
	compiled.SendRequest(context.Background(), "r", 0, cb)
	_, err = cb.Result()
	assert.ErrorIs(t, err, transport.ErrNoSenderAvailable)
}

func TestShardingMinActiveSubStrategiesGate(t *testing.T) {
	p := pool.NewMemoryPool[string, string]()
	a0 := addr("h0", 0)
	p.Set(a0, testsupport.NewScriptedSender[string, string]("ok"))

	children := []Strategy[string, string]{
		Single[string, string](a0),
		Single[string, string](addr("missing", 1)),
	}
	strat := Sharding(ShardFn[string](func(string) int { return 0 }), children, WithMinActiveSubStrategies[string, string](2))
	_, err := strat.Compile(p)
	assert.Error(t, err)
}
