package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/rpcdispatch/internal/pool"
	"github.com/dreamware/rpcdispatch/internal/testsupport"
)

func TestRoundRobinDistributesEvenly(t *testing.T) {
	p := pool.NewMemoryPool[string, string]()
	senders := make([]*testsupport.ScriptedSender[string, string], 3)
	children := make([]Strategy[string, string], 3)
	for i := range senders {
		a := addr("h", i)
		senders[i] = testsupport.NewScriptedSender[string, string]("ok")
		p.Set(a, senders[i])
		children[i] = Single[string, string](a)
	}

	strat := RoundRobin(children...)
	compiled, err := strat.Compile(p)
	require.NoError(t, err)

	const k = 7
	for i := 0; i < k*len(senders); i++ {
		compiled.SendRequest(context.Background(), "r", 0, testsupport.NewCollectingCallback[string]())
	}

	for i, s := range senders {
		assert.Equalf(t, k, s.Calls(), "child %d call count", i)
	}
}

func TestRoundRobinSkipsDeadChildren(t *testing.T) {
	p := pool.NewMemoryPool[string, string]()
	a1, a2 := addr("h1", 1), addr("h2", 2)
	s1 := testsupport.NewScriptedSender[string, string]("ok")
	s2 := testsupport.NewScriptedSender[string, string]("ok")
	p.Set(a1, s1)
	p.Set(a2, s2)

	strat := RoundRobin[string, string](
		Single[string, string](a1),
		Single[string, string](addr("missing", 0)),
		Single[string, string](a2),
	)
	compiled, err := strat.Compile(p)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		compiled.SendRequest(context.Background(), "r", 0, testsupport.NewCollectingCallback[string]())
	}
	assert.Equal(t, 2, s1.Calls())
	assert.Equal(t, 2, s2.Calls())
}

func TestRoundRobinUnavailableWhenEmpty(t *testing.T) {
	p := pool.NewMemoryPool[string, string]()
	_, err := RoundRobin[string, string]().Compile(p)
	assert.Error(t, err)
}
