package runner

import (
	"os"

	"github.com/victoralfred/cmdrunner/internal/codec"
)

// streams is the resolved destination plan for one invocation: a sink
// set per stream, the capture accumulators feeding the Result, and the
// descriptors that bypass the pumps entirely.
type streams struct {
	stdout *sinkSet
	stderr *sinkSet // nil when stderr merges into stdout
	merged bool

	outAcc *accumulator
	errAcc *accumulator

	// Engine-owned files wired straight into the child when no pump is
	// needed for the stream. Closed by the engine before return.
	stdoutFile *os.File
	stderrFile *os.File

	// Streams with no sinks at all are discarded at the OS level.
	stdoutDiscard bool
	stderrDiscard bool
}

// buildStreams resolves the caller's StreamSpecs into sinks once, at
// entry. File destinations are opened here so open failures surface
// before spawn.
func buildStreams(o *Options, c *codec.Codec, cmd Command) (*streams, *RunError) {
	s := &streams{}

	stdoutSpec := o.Stdout
	if stdoutSpec.kind == streamDefault {
		stdoutSpec = Capture()
	}
	stderrSpec := o.Stderr
	if stderrSpec.kind == streamDefault {
		if o.SplitStreams {
			stderrSpec = Capture()
		} else {
			stderrSpec = MergeWithStdout()
		}
	}

	var err error
	s.stdout, s.outAcc, s.stdoutFile, s.stdoutDiscard, err = buildOne(stdoutSpec, o, c, os.Stdout)
	if err != nil {
		return nil, newRunError("open sink", cmd, ExitSpawnFailure, err)
	}

	if stderrSpec.kind == streamMerge {
		s.merged = true
		return s, nil
	}

	s.stderr, s.errAcc, s.stderrFile, s.stderrDiscard, err = buildOne(stderrSpec, o, c, os.Stderr)
	if err != nil {
		closeQuiet(s.stdoutFile)
		s.stdout.Close()
		return nil, newRunError("open sink", cmd, ExitSpawnFailure, err)
	}
	return s, nil
}

// buildOne resolves a single stream's spec into its sink set. live is
// the process's own stream used for the LiveOutput tee.
func buildOne(spec StreamSpec, o *Options, c *codec.Codec, live *os.File) (*sinkSet, *accumulator, *os.File, bool, error) {
	set := &sinkSet{}
	var acc *accumulator

	switch spec.kind {
	case streamCapture:
		acc = &accumulator{}
		set.sinks = append(set.sinks, acc)
	case streamDiscard:
		if !o.LiveOutput {
			return set, nil, nil, true, nil
		}
		set.sinks = append(set.sinks, discardSink{})
	case streamFile:
		fs, err := newFileSink(spec.path, fileCodec(o, c))
		if err != nil {
			return nil, nil, nil, false, err
		}
		// Raw mode writes bytes verbatim, so the descriptor can be
		// handed to the child directly and the pump skipped.
		if o.Raw && !o.LiveOutput && o.Method == MethodPoller {
			return set, nil, fs.f, false, nil
		}
		set.sinks = append(set.sinks, fs)
	case streamQueue:
		set.sinks = append(set.sinks, newQueueSink(spec.queue))
	case streamCallback:
		set.sinks = append(set.sinks, &callbackSink{fn: spec.callback})
	case streamWriter:
		set.sinks = append(set.sinks, &writerSink{w: spec.writer})
	}

	if o.LiveOutput {
		set.sinks = append(set.sinks, &writerSink{w: live})
	}
	return set, acc, nil, false, nil
}

// fileCodec picks the re-encoding codec for text-mode files; raw mode
// writes bytes verbatim.
func fileCodec(o *Options, c *codec.Codec) *codec.Codec {
	if o.Raw {
		return nil
	}
	return c
}

// closeAll closes the sink sets in the deterministic order the engine
// guarantees: stdout first, then stderr. Direct files close last; they
// were never reachable from a pump.
func (s *streams) closeAll() {
	if s.stdout != nil {
		s.stdout.Close()
	}
	if s.stderr != nil {
		s.stderr.Close()
	}
	closeQuiet(s.stdoutFile)
	closeQuiet(s.stderrFile)
}

// abandon releases every sink blocked in Accept.
func (s *streams) abandon() {
	if s.stdout != nil {
		s.stdout.Abandon()
	}
	if s.stderr != nil {
		s.stderr.Abandon()
	}
}

func closeQuiet(f *os.File) {
	if f != nil {
		_ = f.Close()
	}
}
