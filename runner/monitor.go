package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/rs/zerolog"

	"github.com/victoralfred/cmdrunner/internal/codec"
)

// runMonitor is the low-overhead method: no reader goroutines of our
// own, os/exec copies the pipes into engine-owned buffers, and the
// sinks receive the whole content once, after the child is gone.
// Queue and callback sinks were already rejected at validation; they
// need live delivery.
func runMonitor(ctx context.Context, ec *exec.Cmd, o *Options, s *streams, cmd Command, c *codec.Codec, log zerolog.Logger) outcome {
	var outBuf, errBuf bytes.Buffer

	switch {
	case s.stdoutDiscard:
	case s.stdoutFile != nil:
		ec.Stdout = s.stdoutFile
	default:
		ec.Stdout = &outBuf
	}

	if s.merged {
		// Same writer for both streams keeps temporal interleaving at
		// the copier's chunk granularity.
		ec.Stderr = ec.Stdout
	} else {
		switch {
		case s.stderrDiscard:
		case s.stderrFile != nil:
			ec.Stderr = s.stderrFile
		default:
			ec.Stderr = &errBuf
		}
	}

	// Bound the post-exit pipe wait so an orphaned grandchild holding
	// the descriptors cannot stall Wait forever.
	ec.WaitDelay = finalReadGrace

	if err := ec.Start(); err != nil {
		return outcome{kind: outcomeSpawnFailed, err: newRunError("spawn", cmd, ExitSpawnFailure, err)}
	}
	pid := ec.Process.Pid
	log.Info().Str("command", cmd.String()).Int("pid", pid).Stringer("method", o.Method).Msg("command started")
	applyPostSpawn(pid, o, log)
	if o.ProcessCallback != nil {
		o.ProcessCallback(ec.Process)
	}

	waitCh := make(chan error, 1)
	go func() { waitCh <- ec.Wait() }()

	out, werr := supervise(ctx, o, cmd, pid, waitCh, nil, log)
	reaped := out.kind == outcomeCompleted
	if out.kind == outcomeCompleted {
		out.exitCode = nativeExitCode(ec.ProcessState)
		var ee *exec.ExitError
		if werr != nil && !errors.As(werr, &ee) && !errors.Is(werr, exec.ErrWaitDelay) {
			out.err = werr
		}
	} else {
		killSubtree(ctx, pid, o, log)
		// The buffers are safe to read only after Wait returns; the
		// child is dead, so this resolves quickly.
		select {
		case <-waitCh:
			reaped = true
		case <-time.After(o.KillGrace + time.Second):
			log.Warn().Int("pid", pid).Msg("child not reaped before return")
		}
	}

	// Single draining delivery, partial on the failure paths.
	if reaped {
		deliverOnce(s.stdout, outBuf.Bytes(), c)
		if !s.merged {
			deliverOnce(s.stderr, errBuf.Bytes(), c)
		}
	}
	return out
}

// deliverOnce hands a fully drained stream to its sinks as one chunk.
func deliverOnce(set *sinkSet, b []byte, c *codec.Codec) {
	if set.empty() || len(b) == 0 {
		return
	}
	if c != nil {
		b = c.Decode(b)
	}
	_ = set.Accept(b)
}
