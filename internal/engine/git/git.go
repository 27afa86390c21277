// Package git abstracts git subcommand execution for testability.
package git

import (
	"context"
)

// Result holds the outcome of a single git invocation.
type Result struct {
	ExitCode int
	// Stdout and Stderr are trimmed of trailing whitespace.
	Stdout string
	Stderr string
}

// Ok reports whether the command exited zero.
func (r Result) Ok() bool {
	return r.ExitCode == 0
}

// Runner executes git subcommands in one repository.
// Implementations must capture exit code, stdout, and stderr; a non-zero
// exit is a normal Result, not an error. The error return is reserved
// for failures to run the command at all.
type Runner interface {
	// Run executes "git <args...>" with optional environment overrides
	// applied on top of the ambient environment.
	Run(ctx context.Context, env map[string]string, args ...string) (Result, error)
}
