// Package config loads engine option profiles from YAML files.
//
// A profile is a named, reviewable default option set:
//
//	timeout: 300
//	method: poller
//	encoding: utf-8
//	valid_exit_codes: [0, 7]
//	heartbeat: 30
//
// Durations are expressed in seconds, matching the engine's public
// vocabulary. A timeout of 0 disables the bound; an absent or null
// timeout keeps the engine default.
package config

import (
	"fmt"
	"time"

	"github.com/victoralfred/gowritter/safepath"
	"gopkg.in/yaml.v3"

	"github.com/victoralfred/cmdrunner/runner"
)

// Profile is a loaded option set. Zero fields leave the engine default
// in place.
type Profile struct {
	// Timeout in seconds. Nil keeps the default; 0 disables the bound.
	Timeout *float64 `yaml:"timeout"`

	Shell        bool   `yaml:"shell"`
	Encoding     string `yaml:"encoding"`
	RawOutput    bool   `yaml:"raw_output"`
	Method       string `yaml:"method"`
	SplitStreams bool   `yaml:"split_streams"`
	LiveOutput   bool   `yaml:"live_output"`
	Silent       bool   `yaml:"silent"`

	// CheckInterval and Heartbeat in seconds.
	CheckInterval float64 `yaml:"check_interval"`
	Heartbeat     float64 `yaml:"heartbeat"`

	ValidExitCodes    []int `yaml:"valid_exit_codes"`
	AllExitCodesValid bool  `yaml:"all_exit_codes_valid"`

	Priority   string `yaml:"priority"`
	IOPriority string `yaml:"io_priority"`

	WindowsNoWindow bool `yaml:"windows_no_window"`
	BufSize         int  `yaml:"bufsize"`
}

// Load reads and parses a profile file relative to basePath.
func Load(basePath, file string) (*Profile, error) {
	sp, err := safepath.New(basePath)
	if err != nil {
		return nil, fmt.Errorf("creating safe path: %w", err)
	}
	data, err := sp.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile YAML: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Profile) validate() error {
	switch p.Method {
	case "", "poller", "monitor":
	default:
		return fmt.Errorf("unknown method %q", p.Method)
	}
	for _, field := range []string{p.Priority, p.IOPriority} {
		switch field {
		case "", "low", "normal", "high":
		default:
			return fmt.Errorf("unknown priority %q", field)
		}
	}
	if p.Timeout != nil && *p.Timeout < 0 {
		return fmt.Errorf("negative timeout")
	}
	return nil
}

// Options translates the profile into engine options.
func (p *Profile) Options() []runner.Option {
	var opts []runner.Option

	if p.Timeout != nil {
		if *p.Timeout == 0 {
			opts = append(opts, runner.WithNoTimeout())
		} else {
			opts = append(opts, runner.WithTimeout(seconds(*p.Timeout)))
		}
	}
	if p.Shell {
		opts = append(opts, runner.WithShell())
	}
	if p.Encoding != "" {
		opts = append(opts, runner.WithEncoding(p.Encoding))
	}
	if p.RawOutput {
		opts = append(opts, runner.WithRawOutput())
	}
	if p.Method == "monitor" {
		opts = append(opts, runner.WithMethod(runner.MethodMonitor))
	}
	if p.SplitStreams {
		opts = append(opts, runner.WithSplitStreams())
	}
	if p.LiveOutput {
		opts = append(opts, runner.WithLiveOutput())
	}
	if p.Silent {
		opts = append(opts, runner.WithSilent())
	}
	if p.CheckInterval > 0 {
		opts = append(opts, runner.WithCheckInterval(seconds(p.CheckInterval)))
	}
	if p.Heartbeat > 0 {
		opts = append(opts, runner.WithHeartbeat(seconds(p.Heartbeat)))
	}
	if p.ValidExitCodes != nil {
		opts = append(opts, runner.WithValidExitCodes(p.ValidExitCodes...))
	}
	if p.AllExitCodesValid {
		opts = append(opts, runner.WithAllExitCodesValid())
	}
	if pr, ok := priorityFor(p.Priority); ok {
		opts = append(opts, runner.WithPriority(pr))
	}
	if pr, ok := priorityFor(p.IOPriority); ok {
		opts = append(opts, runner.WithIOPriority(pr))
	}
	if p.WindowsNoWindow {
		opts = append(opts, runner.WithWindowsNoWindow())
	}
	if p.BufSize > 0 {
		opts = append(opts, runner.WithBufSize(p.BufSize))
	}
	return opts
}

func priorityFor(name string) (runner.Priority, bool) {
	switch name {
	case "low":
		return runner.PriorityLow, true
	case "high":
		return runner.PriorityHigh, true
	case "normal":
		return runner.PriorityNormal, true
	default:
		return runner.PriorityNormal, false
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
