// Package runner is the execution engine: it spawns a child process,
// consumes its output streams while it runs, enforces a wall-clock
// deadline, honors cancellation, terminates the whole process subtree
// on failure paths, and always resolves to an integer exit code.
//
// The single public entry point is Run. It returns exactly once, never
// panics and never raises an error to the caller: faults are captured,
// logged and folded into the reserved exit-code range below zero.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/victoralfred/cmdrunner/internal/codec"
	"github.com/victoralfred/cmdrunner/observability"
)

// Run executes cmd under the configured supervision and returns the
// classified result. The context is a cancellation source: when it is
// canceled the subtree is killed and the run classifies as
// interrupted.
func Run(ctx context.Context, cmd Command, opts ...Option) *Result {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return runWithOptions(ctx, cmd, o)
}

func runWithOptions(ctx context.Context, cmd Command, o *Options) *Result {
	runID := uuid.NewString()
	log := runLogger(o, runID)
	start := time.Now()

	res := guardedExecute(ctx, cmd, o, runID, log)

	res.RunID = runID
	res.Duration = time.Since(start)
	logFinish(log, o, cmd, res)
	if o.OnExit != nil {
		o.OnExit(res)
	}
	return res
}

// guardedExecute is the panic boundary: anything the engine did not
// anticipate classifies as an internal error instead of unwinding into
// the caller.
func guardedExecute(ctx context.Context, cmd Command, o *Options, runID string, log zerolog.Logger) (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("engine fault: %v", r)
			log.Error().Err(err).Str("command", cmd.String()).Msg("unexpected engine failure")
			res = &Result{Status: StatusInternalError, ExitCode: ExitInternalError, Err: err}
		}
	}()
	return execute(ctx, cmd, o, runID, log)
}

func execute(ctx context.Context, cmd Command, o *Options, runID string, log zerolog.Logger) *Result {
	if rerr := validate(cmd, o); rerr != nil {
		log.Error().Err(rerr).Msg("invalid invocation")
		return classify(outcome{kind: outcomeInvalid, err: rerr}, o, nil, cmd)
	}
	normalize(o)

	var c *codec.Codec
	if !o.Raw {
		c, _ = codec.Resolve(o.Encoding) // resolvability checked by validate
	}

	s, rerr := buildStreams(o, c, cmd)
	if rerr != nil {
		log.Error().Err(rerr).Msg("could not open output destination")
		return classify(outcome{kind: outcomeSpawnFailed, err: rerr}, o, nil, cmd)
	}

	ec, rerr := newExecCmd(cmd, o)
	if rerr != nil {
		s.closeAll()
		log.Error().Err(rerr).Msg("could not build command")
		return classify(outcome{kind: outcomeInvalid, err: rerr}, o, s, cmd)
	}

	tctx, endSpan := observability.Default().StartRun(ctx, runID, cmd.String())

	var out outcome
	if o.Method == MethodMonitor {
		out = runMonitor(tctx, ec, o, s, cmd, c, log)
	} else {
		out = runPoller(tctx, ec, o, s, cmd, c, log)
	}

	// Deterministic sink shutdown: stdout first, then stderr, then the
	// engine-opened direct files. OnExit runs strictly after this.
	s.closeAll()

	res := classify(out, o, s, cmd)
	endSpan(res.Status.String(), res.ExitCode)
	return res
}

func logFinish(log zerolog.Logger, o *Options, cmd Command, res *Result) {
	lvl := zerolog.InfoLevel
	if !o.exitCodeValid(res.ExitCode) {
		lvl = zerolog.ErrorLevel
	}
	ev := log.WithLevel(lvl).
		Str("command", cmd.String()).
		Int("exit_code", res.ExitCode).
		Stringer("status", res.Status).
		Dur("duration", res.Duration)
	if res.Err != nil {
		ev = ev.AnErr("reason", res.Err)
	}
	ev.Msg("command finished")
}
