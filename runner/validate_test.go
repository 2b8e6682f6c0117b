package runner

import (
	"testing"
)

func TestValidateRejects(t *testing.T) {
	q := make(chan []byte, 1)
	cb := func([]byte) {}

	tests := []struct {
		name string
		cmd  Command
		mod  func(*Options)
	}{
		{name: "empty command", cmd: CommandLine("   ")},
		{name: "negative bufsize", cmd: CommandArgs("ls"), mod: func(o *Options) { o.BufSize = -1 }},
		{name: "negative timeout", cmd: CommandArgs("ls"), mod: func(o *Options) { o.Timeout = -1 }},
		{name: "negative check interval", cmd: CommandArgs("ls"), mod: func(o *Options) { o.CheckInterval = -1 }},
		{name: "unknown encoding", cmd: CommandArgs("ls"), mod: func(o *Options) { o.Encoding = "klingon" }},
		{name: "stdout merged into itself", cmd: CommandArgs("ls"), mod: func(o *Options) { o.Stdout = MergeWithStdout() }},
		{name: "merge with split streams", cmd: CommandArgs("ls"), mod: func(o *Options) {
			o.SplitStreams = true
			o.Stderr = MergeWithStdout()
		}},
		{name: "file without path", cmd: CommandArgs("ls"), mod: func(o *Options) { o.Stdout = ToFile("") }},
		{name: "queue without channel", cmd: CommandArgs("ls"), mod: func(o *Options) { o.Stdout = ToQueue(nil) }},
		{name: "callback without function", cmd: CommandArgs("ls"), mod: func(o *Options) { o.Stdout = ToCallback(nil) }},
		{name: "writer without writer", cmd: CommandArgs("ls"), mod: func(o *Options) { o.Stdout = ToWriter(nil) }},
		{name: "queue with monitor method", cmd: CommandArgs("ls"), mod: func(o *Options) {
			o.Method = MethodMonitor
			o.Stdout = ToQueue(q)
		}},
		{name: "callback with monitor method", cmd: CommandArgs("ls"), mod: func(o *Options) {
			o.Method = MethodMonitor
			o.Stderr = ToCallback(cb)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := defaultOptions()
			if tt.mod != nil {
				tt.mod(o)
			}
			rerr := validate(tt.cmd, o)
			if rerr == nil {
				t.Fatal("expected validation error")
			}
			if rerr.ExitCode != ExitInvalidArguments {
				t.Errorf("exit code = %d, want %d", rerr.ExitCode, ExitInvalidArguments)
			}
		})
	}
}

func TestValidateAccepts(t *testing.T) {
	q := make(chan []byte, 1)

	tests := []struct {
		name string
		mod  func(*Options)
	}{
		{name: "defaults", mod: nil},
		{name: "queue with poller", mod: func(o *Options) { o.Stdout = ToQueue(q) }},
		{name: "monitor with capture", mod: func(o *Options) { o.Method = MethodMonitor }},
		{name: "monitor with file", mod: func(o *Options) {
			o.Method = MethodMonitor
			o.Stdout = ToFile("/tmp/out")
		}},
		{name: "explicit merge without split", mod: func(o *Options) { o.Stderr = MergeWithStdout() }},
		{name: "raw with unknown encoding ignored", mod: func(o *Options) {
			o.Raw = true
			o.Encoding = "klingon"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := defaultOptions()
			if tt.mod != nil {
				tt.mod(o)
			}
			if rerr := validate(CommandArgs("ls"), o); rerr != nil {
				t.Fatalf("unexpected validation error: %v", rerr)
			}
		})
	}
}

func TestNormalizeFillsDefaults(t *testing.T) {
	o := &Options{}
	normalize(o)
	if o.CheckInterval != DefaultCheckInterval {
		t.Errorf("check interval = %v", o.CheckInterval)
	}
	if o.BufSize != DefaultBufSize {
		t.Errorf("bufsize = %d", o.BufSize)
	}
	if o.KillGrace != DefaultKillGrace {
		t.Errorf("kill grace = %v", o.KillGrace)
	}
}
