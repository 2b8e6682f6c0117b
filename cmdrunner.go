// Package cmdrunner executes external commands with strict bounds on
// latency, resource usage and observability.
//
// The single synchronous entry point launches a child process,
// multiplexes its stdout and stderr while it runs, enforces a
// wall-clock deadline, honors cancellation, terminates the whole
// process subtree on failure paths, and always resolves to a pair of
// exit code and captured output:
//
//	res := cmdrunner.Run(ctx, cmdrunner.CommandArgs("ping", "-c", "1", "127.0.0.1"))
//	fmt.Println(res.ExitCode, res.Output)
//
// Run never returns an error and never panics. When the child produced
// no native exit code, the code is drawn from the reserved negative
// taxonomy (timeout, interrupt, spawn failure, ...), disjoint from the
// 0-255 range children use.
//
// # Options
//
// Behavior is configured with functional options:
//
//	res := cmdrunner.Run(ctx, cmdrunner.CommandLine("sh -c 'make all'"),
//	    cmdrunner.WithTimeout(5*time.Minute),
//	    cmdrunner.WithShell(),
//	    cmdrunner.WithHeartbeat(30*time.Second),
//	)
//
// # Live consumption
//
// Queue and callback destinations receive chunks while the child runs:
//
//	q := make(chan []byte, 8)
//	f := cmdrunner.RunThreaded(ctx, cmd, cmdrunner.WithStdout(cmdrunner.ToQueue(q)))
//	for chunk := range q {
//	    if chunk == nil {
//	        break // end of stream
//	    }
//	    consume(chunk)
//	}
//	res := f.Wait()
//
// # Package structure
//
//   - cmdrunner: facade and convenience entry points
//   - runner: the execution engine
//   - pool: bounded concurrent execution
//   - config: YAML option profiles
//   - elevate: privilege-elevation helper
//   - observability: OpenTelemetry spans and metrics
package cmdrunner

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/victoralfred/cmdrunner/runner"
)

// Core types, re-exported from the engine.
type (
	// Command is the unit of execution: a raw line or an argv.
	Command = runner.Command

	// Result is the classified outcome of a run.
	Result = runner.Result

	// Option configures a single invocation.
	Option = runner.Option

	// StreamSpec selects an output destination.
	StreamSpec = runner.StreamSpec

	// Future is the asynchronous handle returned by RunThreaded.
	Future = runner.Future

	// Status classifies how a run terminated.
	Status = runner.Status

	// Method selects poller or monitor stream consumption.
	Method = runner.Method

	// Priority is a coarse scheduling class.
	Priority = runner.Priority
)

// Reserved exit codes, returned when the child produced no native
// exit code.
const (
	ExitInvalidArguments = runner.ExitInvalidArguments
	ExitStopped          = runner.ExitStopped
	ExitInterrupted      = runner.ExitInterrupted
	ExitSpawnFailure     = runner.ExitSpawnFailure
	ExitTimeout          = runner.ExitTimeout
	ExitInternalError    = runner.ExitInternalError
)

// Status values.
const (
	StatusCompleted     = runner.StatusCompleted
	StatusInvalid       = runner.StatusInvalid
	StatusStopped       = runner.StatusStopped
	StatusInterrupted   = runner.StatusInterrupted
	StatusSpawnFailed   = runner.StatusSpawnFailed
	StatusTimeout       = runner.StatusTimeout
	StatusInternalError = runner.StatusInternalError
)

// Methods.
const (
	MethodPoller  = runner.MethodPoller
	MethodMonitor = runner.MethodMonitor
)

// Priorities.
const (
	PriorityNormal = runner.PriorityNormal
	PriorityLow    = runner.PriorityLow
	PriorityHigh   = runner.PriorityHigh
)

// CommandLine builds a Command from a single string.
func CommandLine(line string) Command { return runner.CommandLine(line) }

// CommandArgs builds a Command from an argument vector.
func CommandArgs(args ...string) Command { return runner.CommandArgs(args...) }

// Run executes cmd synchronously and returns the classified result.
// It returns exactly once and never raises a fault to the caller.
func Run(ctx context.Context, cmd Command, opts ...Option) *Result {
	return runner.Run(ctx, cmd, opts...)
}

// RunThreaded runs the engine on a worker goroutine and immediately
// returns a future resolving to the same result Run would produce.
func RunThreaded(ctx context.Context, cmd Command, opts ...Option) *Future {
	return runner.RunThreaded(ctx, cmd, opts...)
}

// DeferredCommand launches command in a detached shell after delay,
// unsupervised. The child survives the caller.
func DeferredCommand(command string, delay time.Duration) error {
	return runner.DeferredCommand(command, delay)
}

// SetLogger replaces the process-wide engine logger.
func SetLogger(l zerolog.Logger) { runner.SetLogger(l) }

// Destination constructors, re-exported from the engine.
var (
	// Capture collects the stream into the Result.
	Capture = runner.Capture

	// Discard drops the stream at the OS level.
	Discard = runner.Discard

	// ToFile writes the stream to a file opened by the engine.
	ToFile = runner.ToFile

	// ToQueue delivers chunks to a bounded channel, nil-terminated.
	ToQueue = runner.ToQueue

	// ToCallback invokes a function per chunk.
	ToCallback = runner.ToCallback

	// ToWriter streams chunks to a caller-owned writer.
	ToWriter = runner.ToWriter

	// MergeWithStdout routes stderr into the stdout destination.
	MergeWithStdout = runner.MergeWithStdout
)

// Option constructors, re-exported from the engine.
var (
	WithTimeout           = runner.WithTimeout
	WithNoTimeout         = runner.WithNoTimeout
	WithShell             = runner.WithShell
	WithEncoding          = runner.WithEncoding
	WithRawOutput         = runner.WithRawOutput
	WithStdin             = runner.WithStdin
	WithStdout            = runner.WithStdout
	WithStderr            = runner.WithStderr
	WithSplitStreams      = runner.WithSplitStreams
	WithLiveOutput        = runner.WithLiveOutput
	WithMethod            = runner.WithMethod
	WithCheckInterval     = runner.WithCheckInterval
	WithStopOn            = runner.WithStopOn
	WithProcessCallback   = runner.WithProcessCallback
	WithOnExit            = runner.WithOnExit
	WithValidExitCodes    = runner.WithValidExitCodes
	WithAllExitCodesValid = runner.WithAllExitCodesValid
	WithSilent            = runner.WithSilent
	WithPriority          = runner.WithPriority
	WithIOPriority        = runner.WithIOPriority
	WithNice              = runner.WithNice
	WithHeartbeat         = runner.WithHeartbeat
	WithWindowsNoWindow   = runner.WithWindowsNoWindow
	WithBufSize           = runner.WithBufSize
	WithDir               = runner.WithDir
	WithEnv               = runner.WithEnv
	WithKillGrace         = runner.WithKillGrace
	WithLogger            = runner.WithLogger
)

// Version returns the library version.
func Version() string {
	return "1.0.0"
}
