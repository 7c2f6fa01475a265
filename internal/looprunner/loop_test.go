package looprunner

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLoopRunsSubmittedWorkInOrder(t *testing.T) {
	l := New(8, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	var order []int
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		i := i
		l.Submit(func() {
			order = append(order, i)
			if i == 4 {
				close(done)
			}
		})
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for submitted work")
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestLoopStopDrainsThenExits(t *testing.T) {
	l := New(4, zerolog.Nop())
	ctx := context.Background()

	var ran int32
	runExited := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(runExited)
	}()

	l.Submit(func() { atomic.AddInt32(&ran, 1) })
	l.Stop()

	select {
	case <-runExited:
	case <-time.After(time.Second):
		t.Fatal("Run did not exit after Stop")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&ran), "work queued before Stop must run before Run exits")
}
