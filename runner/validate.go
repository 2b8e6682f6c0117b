package runner

import (
	"errors"

	"github.com/victoralfred/cmdrunner/internal/codec"
)

// validate rejects option sets the engine cannot honor. Everything it
// catches classifies as ExitInvalidArguments; nothing here touches the
// OS.
func validate(cmd Command, o *Options) *RunError {
	invalid := func(err error) *RunError {
		return newRunError("validate", cmd, ExitInvalidArguments, err)
	}

	if cmd.Empty() {
		return invalid(errors.New("empty command"))
	}
	if o.BufSize < 0 {
		return invalid(errors.New("negative bufsize"))
	}
	if o.CheckInterval < 0 {
		return invalid(errors.New("negative check interval"))
	}
	if o.Timeout < 0 {
		return invalid(errors.New("negative timeout"))
	}

	if !o.Raw {
		if _, err := codec.Resolve(o.Encoding); err != nil {
			return invalid(err)
		}
	}

	if err := validateSpec(o.Stdout, false, o); err != nil {
		return invalid(err)
	}
	if err := validateSpec(o.Stderr, true, o); err != nil {
		return invalid(err)
	}
	return nil
}

func validateSpec(spec StreamSpec, isStderr bool, o *Options) error {
	switch spec.kind {
	case streamDefault, streamCapture, streamDiscard:
	case streamMerge:
		if !isStderr {
			return errors.New("stdout cannot merge into itself")
		}
		if o.SplitStreams {
			return errors.New("split streams excludes merging stderr into stdout")
		}
	case streamFile:
		if spec.path == "" {
			return errors.New("file destination needs a path")
		}
	case streamQueue:
		if spec.queue == nil {
			return errors.New("queue destination needs a channel")
		}
		if o.Method == MethodMonitor {
			return errors.New("queue destinations require the poller method")
		}
	case streamCallback:
		if spec.callback == nil {
			return errors.New("callback destination needs a function")
		}
		if o.Method == MethodMonitor {
			return errors.New("callback destinations require the poller method")
		}
	case streamWriter:
		if spec.writer == nil {
			return errors.New("writer destination needs a writer")
		}
	default:
		return errors.New("unsupported stream destination")
	}
	return nil
}

// normalize fills in defaults the caller left at zero. Called after
// validate, so only non-negative values reach it.
func normalize(o *Options) {
	if o.CheckInterval == 0 {
		o.CheckInterval = DefaultCheckInterval
	}
	if o.BufSize == 0 {
		o.BufSize = DefaultBufSize
	}
	if o.KillGrace == 0 {
		o.KillGrace = DefaultKillGrace
	}
}
