package runtime

import (
	"context"
)

// Runner defines the interface for executing external commands.
type Runner interface {
	// Shell runs command through the host shell and captures stdout and
	// stderr combined. A non-zero exit is reported in Output.ExitCode with a
	// nil error; the error is reserved for commands that could not start.
	Shell(ctx context.Context, command string) (*Output, error)

	// Run executes name with args in dir, streaming output to the runner's
	// writers while also capturing it. Exit semantics match Shell.
	Run(ctx context.Context, dir, name string, args ...string) (*Output, error)
}

// Output captures the result of a command execution.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
	// Combined holds interleaved stdout+stderr for Shell invocations.
	Combined string
}

// Success reports whether the command exited with status 0.
func (o *Output) Success() bool {
	return o != nil && o.ExitCode == 0
}
