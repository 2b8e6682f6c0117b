package runner

import (
	"testing"
	"time"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()

	if o.Timeout != DefaultTimeout {
		t.Errorf("expected default timeout %v, got %v", DefaultTimeout, o.Timeout)
	}
	if o.CheckInterval != DefaultCheckInterval {
		t.Errorf("expected default check interval %v, got %v", DefaultCheckInterval, o.CheckInterval)
	}
	if o.BufSize != DefaultBufSize {
		t.Errorf("expected default bufsize %d, got %d", DefaultBufSize, o.BufSize)
	}
	if o.Method != MethodPoller {
		t.Errorf("expected poller method by default, got %v", o.Method)
	}
	if o.Shell || o.Raw || o.SplitStreams || o.Silent {
		t.Error("boolean options should default to false")
	}
}

func TestOptionApplication(t *testing.T) {
	o := defaultOptions()
	for _, opt := range []Option{
		WithTimeout(5 * time.Second),
		WithShell(),
		WithEncoding("cp437"),
		WithMethod(MethodMonitor),
		WithCheckInterval(10 * time.Millisecond),
		WithHeartbeat(time.Minute),
		WithSplitStreams(),
		WithSilent(),
		WithBufSize(1024),
		WithNice(42),
		WithEnv("FOO=bar"),
	} {
		opt(o)
	}

	if o.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", o.Timeout)
	}
	if !o.Shell {
		t.Error("shell not applied")
	}
	if o.Encoding != "cp437" {
		t.Errorf("encoding = %q", o.Encoding)
	}
	if o.Method != MethodMonitor {
		t.Errorf("method = %v", o.Method)
	}
	if o.CheckInterval != 10*time.Millisecond {
		t.Errorf("check interval = %v", o.CheckInterval)
	}
	if o.Heartbeat != time.Minute {
		t.Errorf("heartbeat = %v", o.Heartbeat)
	}
	if !o.SplitStreams || !o.Silent {
		t.Error("boolean options not applied")
	}
	if o.BufSize != 1024 {
		t.Errorf("bufsize = %d", o.BufSize)
	}
	if !o.NiceSet || o.Nice != 42 {
		t.Errorf("nice = %d set=%v", o.Nice, o.NiceSet)
	}
	if len(o.Env) != 1 || o.Env[0] != "FOO=bar" {
		t.Errorf("env = %v", o.Env)
	}
}

func TestWithNoTimeout(t *testing.T) {
	o := defaultOptions()
	WithNoTimeout()(o)
	if o.Timeout != 0 {
		t.Errorf("expected disabled timeout, got %v", o.Timeout)
	}
}

func TestExitCodeValid(t *testing.T) {
	tests := []struct {
		name  string
		codes []int
		all   bool
		code  int
		want  bool
	}{
		{name: "default zero valid", code: 0, want: true},
		{name: "default nonzero invalid", code: 1, want: false},
		{name: "default reserved invalid", code: ExitTimeout, want: false},
		{name: "listed code valid", codes: []int{7}, code: 7, want: true},
		{name: "unlisted code invalid", codes: []int{7}, code: 0, want: false},
		{name: "all codes valid", all: true, code: ExitInternalError, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := defaultOptions()
			o.ValidExitCodes = tt.codes
			o.AllExitCodesValid = tt.all
			if got := o.exitCodeValid(tt.code); got != tt.want {
				t.Errorf("exitCodeValid(%d) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestCommand(t *testing.T) {
	if CommandLine("").Empty() != true {
		t.Error("blank line should be empty")
	}
	if CommandArgs().Empty() != true {
		t.Error("no args should be empty")
	}
	if CommandArgs("ls", "-la").Empty() {
		t.Error("argv command should not be empty")
	}
	if got := CommandArgs("ls", "-la").String(); got != "ls -la" {
		t.Errorf("String() = %q", got)
	}
	if got := CommandLine("ls -la").String(); got != "ls -la" {
		t.Errorf("String() = %q", got)
	}
	if !CommandLine("x").IsLine() || CommandArgs("x").IsLine() {
		t.Error("IsLine misreports the command form")
	}
}
