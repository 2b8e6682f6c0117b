// Package pool bounds engine concurrency: a fixed set of workers
// drains a bounded queue of command submissions, each resolving the
// future it was handed out with. Submission applies backpressure when
// the queue is full.
package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/victoralfred/cmdrunner/runner"
)

// Common errors.
var (
	// ErrPoolShutdown indicates the pool no longer accepts work.
	ErrPoolShutdown = errors.New("pool is shut down")
)

// Config sizes the pool.
type Config struct {
	// Workers is the number of concurrent engine invocations.
	Workers int

	// QueueSize bounds submissions waiting for a worker.
	QueueSize int
}

// DefaultConfig returns a conservative default sizing.
func DefaultConfig() Config {
	return Config{Workers: 4, QueueSize: 16}
}

type task struct {
	ctx    context.Context
	cmd    runner.Command
	opts   []runner.Option
	future *runner.Future
}

// Pool runs engine invocations on a bounded set of workers.
type Pool struct {
	tasks    chan task
	wg       sync.WaitGroup
	mu       sync.RWMutex
	shutdown int32
}

// New creates and starts a pool.
func New(cfg Config) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	if cfg.QueueSize < 0 {
		cfg.QueueSize = 0
	}
	p := &Pool{tasks: make(chan task, cfg.QueueSize)}
	for i := 0; i < cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit queues a command and returns its future. Blocks when the
// queue is full until space frees up or ctx is canceled; the returned
// error only concerns admission, never the run itself.
func (p *Pool) Submit(ctx context.Context, cmd runner.Command, opts ...runner.Option) (*runner.Future, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if atomic.LoadInt32(&p.shutdown) == 1 {
		return nil, ErrPoolShutdown
	}

	cctx, cancel := context.WithCancel(ctx)
	f := runner.NewFuture(cancel)
	t := task{ctx: cctx, cmd: cmd, opts: opts, future: f}

	select {
	case p.tasks <- t:
		return f, nil
	case <-ctx.Done():
		cancel()
		return nil, ctx.Err()
	}
}

// Shutdown stops admission, waits for queued and running work to
// finish, bounded by ctx.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	already := atomic.SwapInt32(&p.shutdown, 1) == 1
	if !already {
		close(p.tasks)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for t := range p.tasks {
		t.future.Complete(runner.Run(t.ctx, t.cmd, t.opts...))
	}
}
