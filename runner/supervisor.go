package runner

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"

	"github.com/victoralfred/cmdrunner/internal/proc"
	"github.com/victoralfred/cmdrunner/observability"
)

// finalReadGrace bounds the last drain when the child is gone but its
// pipes are still held open, typically by an orphaned grandchild.
const finalReadGrace = time.Second

// supervise drives a running child to its terminal sub-state. It owns
// the timeout, the stop predicate, heartbeats, SIGINT and upstream
// cancellation; the method drivers own spawn and shutdown. No lock is
// held here, so pumps blocked on sink backpressure never stall the
// timeout or the stop checks.
//
// exited, when non-nil, is polled each tick to catch a child that died
// while something else keeps its pipes open; waitCh alone cannot see
// that, since the reaper waits for the stream readers first.
func supervise(ctx context.Context, o *Options, cmd Command, pid int, waitCh <-chan error, exited func() bool, log zerolog.Logger) (outcome, error) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	var deadlineC <-chan time.Time
	if o.Timeout > 0 {
		deadline := time.NewTimer(o.Timeout)
		defer deadline.Stop()
		deadlineC = deadline.C
	}

	tick := time.NewTicker(o.CheckInterval)
	defer tick.Stop()

	var heartbeatC <-chan time.Time
	if o.Heartbeat > 0 {
		hb := time.NewTicker(o.Heartbeat)
		defer hb.Stop()
		heartbeatC = hb.C
	}

	started := time.Now()
	for {
		select {
		case werr := <-waitCh:
			return outcome{kind: outcomeCompleted, pid: pid}, werr

		case <-deadlineC:
			log.Error().Str("command", cmd.String()).Dur("timeout", o.Timeout).Msg("timeout expired")
			return outcome{kind: outcomeTimeout, pid: pid}, nil

		case <-tick.C:
			if o.StopOn != nil && o.StopOn() {
				log.Info().Str("command", cmd.String()).Msg("stop condition met, aborting")
				return outcome{kind: outcomeStopped, pid: pid}, nil
			}
			if exited != nil && exited() {
				return outcome{kind: outcomeExited, pid: pid}, nil
			}

		case <-heartbeatC:
			log.Info().Str("command", cmd.String()).
				Dur("elapsed", time.Since(started).Round(time.Second)).
				Msg("command still running")
			observability.Default().RecordHeartbeat(ctx)

		case <-sigCh:
			log.Error().Str("command", cmd.String()).Msg("keyboard interrupt")
			return outcome{kind: outcomeInterrupted, pid: pid}, nil

		case <-ctx.Done():
			return outcome{kind: outcomeInterrupted, pid: pid, err: ctx.Err()}, nil
		}
	}
}

// killSubtree terminates the child's whole tree, logging and counting
// the escalation when the polite signal was not enough.
func killSubtree(ctx context.Context, pid int, o *Options, log zerolog.Logger) {
	escalated := proc.KillTree(pid, o.KillGrace)
	if escalated {
		log.Warn().Int("pid", pid).Msg("subtree kill escalated to forceful kill")
	}
	observability.Default().RecordKill(ctx, escalated)
}
