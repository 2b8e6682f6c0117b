// Package observability provides OpenTelemetry integration for the
// engine: one span per invocation and counters for run outcomes,
// subtree kills and heartbeats.
//
// The package uses the global otel providers, so everything here is a
// no-op until the host application installs an SDK.
package observability

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const scopeName = "command_runner"

// Telemetry records engine observability events.
type Telemetry struct {
	tracer trace.Tracer
	meter  metric.Meter

	runCounter       metric.Int64Counter
	killCounter      metric.Int64Counter
	heartbeatCounter metric.Int64Counter
	activeRuns       metric.Int64UpDownCounter
}

var (
	defaultTelemetry *Telemetry
	defaultOnce      sync.Once
)

// Default returns the process-wide telemetry instance.
func Default() *Telemetry {
	defaultOnce.Do(func() {
		defaultTelemetry = New()
	})
	return defaultTelemetry
}

// New creates a telemetry instance bound to the global otel providers.
// Instrument registration errors leave the corresponding instrument
// nil, which disables it; they never fail engine construction.
func New() *Telemetry {
	t := &Telemetry{
		tracer: otel.Tracer(scopeName),
		meter:  otel.Meter(scopeName),
	}
	t.runCounter, _ = t.meter.Int64Counter(
		"command_runner_runs_total",
		metric.WithDescription("Total number of command invocations by terminal status"),
	)
	t.killCounter, _ = t.meter.Int64Counter(
		"command_runner_subtree_kills_total",
		metric.WithDescription("Total number of subtree terminations"),
	)
	t.heartbeatCounter, _ = t.meter.Int64Counter(
		"command_runner_heartbeats_total",
		metric.WithDescription("Total number of still-running heartbeat events"),
	)
	t.activeRuns, _ = t.meter.Int64UpDownCounter(
		"command_runner_active_runs",
		metric.WithDescription("Number of currently running commands"),
	)
	return t
}

// StartRun opens the invocation span and marks the run active. The
// returned func ends the span with the terminal status and exit code.
func (t *Telemetry) StartRun(ctx context.Context, runID, command string) (context.Context, func(status string, exitCode int)) {
	ctx, span := t.tracer.Start(ctx, "command_runner.run",
		trace.WithAttributes(
			attribute.String("run_id", runID),
			attribute.String("command", command),
		),
	)
	if t.activeRuns != nil {
		t.activeRuns.Add(ctx, 1)
	}
	return ctx, func(status string, exitCode int) {
		span.SetAttributes(
			attribute.String("status", status),
			attribute.Int("exit_code", exitCode),
		)
		span.End()
		if t.activeRuns != nil {
			t.activeRuns.Add(context.Background(), -1)
		}
		if t.runCounter != nil {
			t.runCounter.Add(context.Background(), 1,
				metric.WithAttributes(attribute.String("status", status)))
		}
	}
}

// RecordKill counts one subtree termination.
func (t *Telemetry) RecordKill(ctx context.Context, escalated bool) {
	if t.killCounter == nil {
		return
	}
	t.killCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.Bool("escalated", escalated)))
}

// RecordHeartbeat counts one still-running event.
func (t *Telemetry) RecordHeartbeat(ctx context.Context) {
	if t.heartbeatCounter == nil {
		return
	}
	t.heartbeatCounter.Add(ctx, 1)
}
