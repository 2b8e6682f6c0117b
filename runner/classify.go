package runner

import (
	"fmt"
)

// outcomeKind is the internal result of supervision, before it is
// mapped onto the public exit-code taxonomy. No exception-style
// control flow crosses the engine: every path produces one of these.
type outcomeKind int

const (
	outcomeCompleted outcomeKind = iota
	outcomeInvalid
	outcomeTimeout
	outcomeStopped
	outcomeInterrupted
	outcomeSpawnFailed
	outcomeInternal

	// outcomeExited never reaches the classifier: the child is known
	// dead but its pipes are still held open, and the method driver
	// resolves it to completed once the final drain settles.
	outcomeExited
)

// outcome is the terminal supervisor sub-state for one invocation.
type outcome struct {
	kind     outcomeKind
	exitCode int // native code, only meaningful for outcomeCompleted
	pid      int
	err      error
}

// classify maps the terminal sub-state and the captured output into
// the public Result. Native codes pass through unchanged; every other
// sub-state draws from the reserved taxonomy.
func classify(out outcome, o *Options, s *streams, cmd Command) *Result {
	res := &Result{Pid: out.pid, Err: out.err}

	switch out.kind {
	case outcomeCompleted:
		res.Status = StatusCompleted
		res.ExitCode = out.exitCode
	case outcomeInvalid:
		res.Status = StatusInvalid
		res.ExitCode = ExitInvalidArguments
	case outcomeTimeout:
		res.Status = StatusTimeout
		res.ExitCode = ExitTimeout
		res.Err = fmt.Errorf("%w after %s: %q", ErrTimeout, o.Timeout, cmd.String())
	case outcomeStopped:
		res.Status = StatusStopped
		res.ExitCode = ExitStopped
		res.Err = fmt.Errorf("%w: %q", ErrStopped, cmd.String())
	case outcomeInterrupted:
		res.Status = StatusInterrupted
		res.ExitCode = ExitInterrupted
		if out.err == nil {
			res.Err = ErrInterrupted
		} else {
			res.Err = fmt.Errorf("%w: %v", ErrInterrupted, out.err)
		}
	case outcomeSpawnFailed:
		res.Status = StatusSpawnFailed
		res.ExitCode = ExitSpawnFailure
	default:
		res.Status = StatusInternalError
		res.ExitCode = ExitInternalError
	}

	fillCaptures(res, o, s)

	// A child that never ran has no output; surface the failure text
	// so callers relying on the (code, output) pair still see why.
	if out.kind == outcomeSpawnFailed && out.err != nil {
		if o.Raw {
			if len(res.OutputBytes) == 0 {
				res.OutputBytes = []byte(out.err.Error())
			}
		} else if res.Output == "" {
			res.Output = out.err.Error()
		}
	}
	return res
}

// fillCaptures copies the accumulators into the Result fields that
// match the configured decoding and stream layout.
func fillCaptures(res *Result, o *Options, s *streams) {
	if s == nil {
		return
	}
	if o.SplitStreams {
		if o.Raw {
			if s.outAcc != nil {
				res.StdoutBytes = s.outAcc.Bytes()
			}
			if s.errAcc != nil {
				res.StderrBytes = s.errAcc.Bytes()
			}
			return
		}
		if s.outAcc != nil {
			res.Stdout = s.outAcc.String()
		}
		if s.errAcc != nil {
			res.Stderr = s.errAcc.String()
		}
		return
	}

	if o.Raw {
		if s.outAcc != nil {
			res.OutputBytes = s.outAcc.Bytes()
		}
		if s.errAcc != nil {
			res.OutputBytes = append(res.OutputBytes, s.errAcc.Bytes()...)
		}
		return
	}
	if s.outAcc != nil {
		res.Output = s.outAcc.String()
	}
	if s.errAcc != nil {
		res.Output += s.errAcc.String()
	}
}
