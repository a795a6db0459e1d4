// Package runtimetest provides a scripted runtime.Runner for tests.
package runtimetest

import (
	"context"
	"fmt"
	"strings"

	"github.com/better-appgen/appgen/internal/runtime"
)

// Call records one Run or Shell invocation.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// String renders the call as a command line.
func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner answers Shell calls from Shells and delegates Run calls to OnRun.
// Unknown shell commands behave like a command that is not installed.
type Runner struct {
	Shells map[string]*runtime.Output
	OnRun  func(dir, name string, args []string) (*runtime.Output, error)
	Calls  []Call
}

var _ runtime.Runner = (*Runner)(nil)

func (r *Runner) Shell(_ context.Context, command string) (*runtime.Output, error) {
	r.Calls = append(r.Calls, Call{Name: "sh", Args: []string{"-c", command}})
	if out, ok := r.Shells[command]; ok {
		return out, nil
	}
	return &runtime.Output{ExitCode: 127, Combined: fmt.Sprintf("sh: %s: not found\n", command)}, nil
}

func (r *Runner) Run(_ context.Context, dir, name string, args ...string) (*runtime.Output, error) {
	r.Calls = append(r.Calls, Call{Dir: dir, Name: name, Args: args})
	if r.OnRun == nil {
		return &runtime.Output{}, nil
	}
	return r.OnRun(dir, name, args)
}

// Installed returns an Output for a successful `--version` probe.
func Installed(versionLine string) *runtime.Output {
	return &runtime.Output{Combined: versionLine + "\n"}
}
