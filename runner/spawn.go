package runner

import (
	"os"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/victoralfred/cmdrunner/internal/envutil"
	"github.com/victoralfred/cmdrunner/internal/proc"
)

// newExecCmd normalizes the command and prepares the exec.Cmd with
// working directory, environment, stdin and the platform process
// attributes. Stdio destinations are wired by the method drivers.
func newExecCmd(cmd Command, o *Options) (*exec.Cmd, *RunError) {
	c, err := buildCommand(cmd, o)
	if err != nil {
		return nil, newRunError("build command", cmd, ExitInvalidArguments, err)
	}

	if o.Dir != "" {
		c.Dir = o.Dir
	}
	if len(o.Env) > 0 {
		c.Env = envutil.Merge(os.Environ(), o.Env)
	}
	if o.Stdin != nil {
		c.Stdin = o.Stdin
	}
	applyProcAttr(c, o)
	return c, nil
}

// buildCommand turns the caller's Command into an exec.Cmd. A raw
// line goes through the platform shell when requested, and through
// platform lexing rules otherwise; an argv is used as-is, joined into
// a line for shell invocation.
func buildCommand(cmd Command, o *Options) (*exec.Cmd, error) {
	if o.Shell {
		return shellCommand(cmd.String()), nil
	}
	if !cmd.IsLine() {
		// #nosec G204 -- executing caller-supplied commands is this
		// package's purpose
		return exec.Command(cmd.argv[0], cmd.argv[1:]...), nil
	}
	return lineCommand(cmd.line)
}

// applyPostSpawn adjusts scheduling of the freshly started child.
// Priority failures never fail the run; they are logged and forgotten.
func applyPostSpawn(pid int, o *Options, log zerolog.Logger) {
	if o.NiceSet {
		if err := proc.SetNice(pid, o.Nice); err != nil {
			log.Debug().Err(err).Int("nice", proc.ClampNice(o.Nice)).Msg("could not apply niceness")
		}
	} else if o.Priority != proc.PriorityNormal {
		if err := proc.SetPriority(pid, o.Priority); err != nil {
			log.Debug().Err(err).Stringer("priority", o.Priority).Msg("could not apply priority")
		}
	}
	if o.IOPriority != proc.PriorityNormal {
		if err := proc.SetIOPriority(pid, o.IOPriority); err != nil {
			log.Debug().Err(err).Stringer("io_priority", o.IOPriority).Msg("could not apply io priority")
		}
	}
}
