package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/rpcdispatch/internal/pool"
	"github.com/dreamware/rpcdispatch/internal/testsupport"
)

func TestFirstAvailable(t *testing.T) {
	t.Run("routes to the first compiled child, skipping dead ones", func(t *testing.T) {
		p := pool.NewMemoryPool[string, string]()
		a2, a3 := addr("h2", 2), addr("h3", 3)
		s2 := testsupport.NewScriptedSender[string, string]("from-2")
		s3 := testsupport.NewScriptedSender[string, string]("from-3")
		p.Set(a2, s2)
		p.Set(a3, s3)

		strat := FirstAvailable[string, string](
			Single[string, string](addr("h1", 1)), // not in pool
			Single[string, string](a2),
			Single[string, string](a3),
		)
		compiled, err := strat.Compile(p)
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			cb := testsupport.NewCollectingCallback[string]()
			compiled.SendRequest(context.Background(), "r", 0, cb)
			result, _ := cb.Result()
			assert.Equal(t, "from-2", result)
		}
		assert.Equal(t, 5, s2.Calls())
		assert.Equal(t, 0, s3.Calls())
	})

	t.Run("unavailable when no child compiles", func(t *testing.T) {
		p := pool.NewMemoryPool[string, string]()
		strat := FirstAvailable[string, string](Single[string, string](addr("h1", 1)))
		_, err := strat.Compile(p)
		require.Error(t, err)
	})
}
