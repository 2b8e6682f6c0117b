package runner

import (
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/rs/zerolog"

	"github.com/victoralfred/cmdrunner/internal/codec"
	"github.com/victoralfred/cmdrunner/internal/proc"
)

// runPoller is the live-delivery method: one pump goroutine per
// captured pipe, sinks fed while the child runs.
func runPoller(ctx context.Context, ec *exec.Cmd, o *Options, s *streams, cmd Command, c *codec.Codec, log zerolog.Logger) outcome {
	var pumps []*pump

	// Stdout wiring. Direct destinations bypass the pump entirely.
	switch {
	case s.stdoutDiscard:
		// os/exec wires the null device when Stdout is nil.
	case s.stdoutFile != nil:
		ec.Stdout = s.stdoutFile
	default:
		pr, err := ec.StdoutPipe()
		if err != nil {
			return outcome{kind: outcomeSpawnFailed, err: newRunError("spawn", cmd, ExitSpawnFailure, err)}
		}
		pumps = append(pumps, newPump("stdout", pr, s.stdout, c, o, log))
	}

	// Stderr wiring. Merged stderr shares stdout's sink set, so both
	// pumps interleave into the same destinations at chunk
	// granularity.
	switch {
	case s.merged && (s.stdoutDiscard || s.stdoutFile != nil):
		ec.Stderr = ec.Stdout
	case s.merged:
		pr, err := ec.StderrPipe()
		if err != nil {
			return outcome{kind: outcomeSpawnFailed, err: newRunError("spawn", cmd, ExitSpawnFailure, err)}
		}
		pumps = append(pumps, newPump("stderr", pr, s.stdout, c, o, log))
	case s.stderrDiscard:
	case s.stderrFile != nil:
		ec.Stderr = s.stderrFile
	default:
		pr, err := ec.StderrPipe()
		if err != nil {
			return outcome{kind: outcomeSpawnFailed, err: newRunError("spawn", cmd, ExitSpawnFailure, err)}
		}
		pumps = append(pumps, newPump("stderr", pr, s.stderr, c, o, log))
	}

	if err := ec.Start(); err != nil {
		return outcome{kind: outcomeSpawnFailed, err: newRunError("spawn", cmd, ExitSpawnFailure, err)}
	}
	pid := ec.Process.Pid
	log.Info().Str("command", cmd.String()).Int("pid", pid).Stringer("method", o.Method).Msg("command started")
	applyPostSpawn(pid, o, log)
	if o.ProcessCallback != nil {
		o.ProcessCallback(ec.Process)
	}

	for _, p := range pumps {
		p.start()
	}

	// Wait must not run before the pipe reads are done, so the reaper
	// waits for the pumps first. Child exit therefore surfaces to the
	// supervisor once the streams are fully consumed.
	waitCh := make(chan error, 1)
	go func() {
		for _, p := range pumps {
			<-p.done
		}
		waitCh <- ec.Wait()
	}()

	out, werr := supervise(ctx, o, cmd, pid, waitCh, func() bool { return proc.Exited(pid) }, log)
	if out.kind == outcomeCompleted {
		out.exitCode = nativeExitCode(ec.ProcessState)
		var ee *exec.ExitError
		if werr != nil && !errors.As(werr, &ee) {
			out.err = werr
		}
		return out
	}

	if out.kind == outcomeExited {
		// The child is gone but something, typically an orphaned
		// grandchild, still holds its pipes. Allow a bounded final
		// read, then abandon whatever is left and reap.
		drained := true
		for _, p := range pumps {
			if !p.wait(finalReadGrace) {
				drained = false
			}
		}
		if !drained {
			s.abandon()
			for _, p := range pumps {
				_ = p.r.Close()
			}
			for _, p := range pumps {
				p.wait(o.CheckInterval)
			}
		}
		select {
		case <-waitCh:
			out.kind = outcomeCompleted
			out.exitCode = nativeExitCode(ec.ProcessState)
		case <-time.After(finalReadGrace):
			log.Warn().Int("pid", pid).Msg("output consumer stuck, exit status unavailable")
			out.kind = outcomeInternal
			out.err = errors.New("output consumer stuck after child exit")
		}
		return out
	}

	// Failure path: kill the whole tree, give the pumps a bounded
	// window to drain what is already buffered, then abandon whatever
	// is still blocked.
	killSubtree(ctx, pid, o, log)

	drained := true
	for _, p := range pumps {
		if !p.wait(o.CheckInterval) {
			drained = false
		}
	}
	if !drained {
		s.abandon()
		for _, p := range pumps {
			_ = p.r.Close()
		}
		for _, p := range pumps {
			p.wait(o.CheckInterval)
		}
	}

	select {
	case <-waitCh:
	case <-time.After(o.KillGrace + time.Second):
		log.Warn().Int("pid", pid).Msg("child not reaped before return")
	}
	return out
}
