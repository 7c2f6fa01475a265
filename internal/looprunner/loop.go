package looprunner

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
)

// Loop is a single-goroutine work queue: the dispatcher thread the engine's
// concurrency model is built around. Strategy compilation, sender
// dispatch, and callback invocation for a given client instance are all
// expected to happen on the goroutine running Loop.Run.
type Loop struct {
	tasks  chan func()
	logger zerolog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// New creates a Loop with the given task queue depth. A depth of 0 makes
// Submit synchronous with a waiting Run goroutine; a larger depth lets
// bursts of submissions queue up without blocking the submitter.
func New(queueDepth int, logger zerolog.Logger) *Loop {
	return &Loop{
		tasks:  make(chan func(), queueDepth),
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Submit enqueues fn to run on the loop goroutine. Safe to call from any
// goroutine; this is the hand-off point the engine's concurrency model
// requires of cross-thread callers.
func (l *Loop) Submit(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.done:
		l.logger.Warn().Msg("submit after loop stopped; task dropped")
	}
}

// Run drains the task queue until ctx is canceled or Stop is called,
// executing every submitted function on the calling goroutine. It blocks,
// so callers typically run it in its own goroutine.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-ctx.Done():
			return
		case <-l.done:
			l.drain()
			return
		}
	}
}

// drain runs any work already sitting in the queue at the moment Stop was
// called, without blocking for new submissions.
func (l *Loop) drain() {
	for {
		select {
		case fn := <-l.tasks:
			fn()
		default:
			return
		}
	}
}

// Stop signals Run to return once it has drained any work already
// enqueued. Safe to call more than once.
func (l *Loop) Stop() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
}

// RunUntilSignal runs the loop until SIGINT or SIGTERM arrives, then stops
// it — the request-burst analogue of the coordinator's serve-until-signal
// main loop. cmd/dispatchbench does not use it; it runs Loop.Run directly.
func RunUntilSignal(l *Loop, logger zerolog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go l.Run(ctx)

	<-stop
	logger.Info().Msg("shutdown signal received, stopping loop")
	l.Stop()
	cancel()
}
