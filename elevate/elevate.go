// Package elevate relaunches the current executable with
// administrator or root privileges and forwards the original argument
// vector, terminating the un-elevated parent with the child's exit
// code. It is a sibling utility of the execution engine, not part of
// it.
//
// Usage:
//
//	func main() {
//	    elevate.Elevate(func(args []string) int {
//	        // runs privileged
//	        return 0
//	    })
//	}
package elevate

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/victoralfred/cmdrunner/runner"
)

var log = runner.Logger

// IsAdmin reports whether the current process already has
// administrative privileges: effective UID 0 on POSIX, an elevated
// token on Windows.
func IsAdmin() bool {
	return isAdmin()
}

// Elevate runs main with administrative privileges. When the process
// is already privileged, main is called directly and Elevate returns
// its result. Otherwise the current executable is relaunched elevated
// with the same arguments and the un-elevated parent exits with the
// child's exit code; Elevate does not return on that path.
func Elevate(main func(args []string) int) int {
	args := os.Args[1:]
	if IsAdmin() {
		return main(args)
	}

	exe, err := os.Executable()
	if err != nil {
		l := logger()
		l.Error().Err(err).Msg("cannot locate current executable, running without elevation")
		return main(args)
	}

	code, relaunched := relaunch(exe, args)
	if !relaunched {
		l := logger()
		l.Error().Msg("privilege elevation unavailable, running without elevation")
		return main(args)
	}
	os.Exit(code)
	return code // unreachable
}

func logger() zerolog.Logger {
	return log().With().Str("component", "elevate").Logger()
}
