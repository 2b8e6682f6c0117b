package runner

import (
	"context"
)

// Future is the asynchronous handle returned by RunThreaded. It
// resolves to the same Result the synchronous call would have
// produced.
type Future struct {
	done   chan struct{}
	res    *Result
	cancel context.CancelFunc
}

// NewFuture creates an unresolved future. Intended for wrappers (the
// pool package) that drive the engine themselves; most callers want
// RunThreaded.
func NewFuture(cancel context.CancelFunc) *Future {
	return &Future{done: make(chan struct{}), cancel: cancel}
}

// Complete resolves the future. Must be called exactly once.
func (f *Future) Complete(res *Result) {
	f.res = res
	close(f.done)
}

// Wait blocks until the result is available.
func (f *Future) Wait() *Result {
	<-f.done
	return f.res
}

// Done returns a channel that is closed when the result is ready.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Cancel aborts the underlying run. The future still resolves: the
// engine classifies the cancellation as interrupted.
func (f *Future) Cancel() {
	if f.cancel != nil {
		f.cancel()
	}
}

// RunThreaded runs the engine on its own goroutine and immediately
// returns a future. Queue-consuming callers use this to interleave
// reads with the engine's execution without blocking their own control
// flow.
func RunThreaded(ctx context.Context, cmd Command, opts ...Option) *Future {
	cctx, cancel := context.WithCancel(ctx)
	f := NewFuture(cancel)
	go func() {
		f.Complete(Run(cctx, cmd, opts...))
	}()
	return f
}
