package observability

import (
	"context"
	"testing"
)

func TestStartRunEndsCleanly(t *testing.T) {
	tele := New()
	ctx, end := tele.StartRun(context.Background(), "run-1", "echo x")
	if ctx == nil {
		t.Fatal("nil context")
	}
	end("completed", 0)

	// Counters on the default no-op providers must be safe.
	tele.RecordKill(context.Background(), true)
	tele.RecordKill(context.Background(), false)
	tele.RecordHeartbeat(context.Background())
}

func TestDefaultIsSingleton(t *testing.T) {
	if Default() != Default() {
		t.Error("Default() returned different instances")
	}
}
