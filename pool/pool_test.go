package pool

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/victoralfred/cmdrunner/runner"
)

func shellEcho(text string) runner.Command {
	if runtime.GOOS == "windows" {
		return runner.CommandLine("echo " + text)
	}
	return runner.CommandArgs("/bin/sh", "-c", "echo "+text)
}

func TestPoolRunsSubmissions(t *testing.T) {
	if testing.Short() {
		t.Skip("spawns processes")
	}
	p := New(Config{Workers: 2, QueueSize: 8})
	defer p.Shutdown(context.Background())

	var futures []*runner.Future
	for i := 0; i < 5; i++ {
		f, err := p.Submit(context.Background(), shellEcho("pooled"))
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		futures = append(futures, f)
	}

	for _, f := range futures {
		res := f.Wait()
		if res.ExitCode != 0 {
			t.Errorf("exit code = %d, err = %v", res.ExitCode, res.Err)
		}
		if res.Output != "pooled\n" {
			t.Errorf("output = %q", res.Output)
		}
	}
}

func TestPoolBackpressure(t *testing.T) {
	if testing.Short() {
		t.Skip("spawns processes")
	}
	p := New(Config{Workers: 1, QueueSize: 0})
	defer p.Shutdown(context.Background())

	// Occupy the only worker.
	blocker, err := p.Submit(context.Background(),
		runner.CommandArgs("sleep", "2"), runner.WithSilent())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// The queue has no room: a second submit must block until the
	// context gives up.
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	start := time.Now()
	if _, err := p.Submit(ctx, shellEcho("queued")); err == nil {
		t.Error("expected admission to fail under backpressure")
	} else if time.Since(start) < 100*time.Millisecond {
		t.Error("Submit returned before the context deadline")
	}

	blocker.Cancel()
	blocker.Wait()
}

func TestPoolShutdown(t *testing.T) {
	p := New(DefaultConfig())
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if _, err := p.Submit(context.Background(), shellEcho("late")); err != ErrPoolShutdown {
		t.Errorf("Submit after shutdown = %v, want ErrPoolShutdown", err)
	}
	// Idempotent.
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown: %v", err)
	}
}

func TestPoolShutdownWaitsForWork(t *testing.T) {
	if testing.Short() {
		t.Skip("spawns processes")
	}
	p := New(Config{Workers: 1, QueueSize: 1})
	f, err := p.Submit(context.Background(), shellEcho("finishing"))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	select {
	case <-f.Done():
	default:
		t.Error("Shutdown returned before queued work resolved")
	}
}
