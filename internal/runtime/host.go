package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	goruntime "runtime"

	"github.com/hashicorp/go-hclog"
)

// HostRunner executes commands with the host environment.
type HostRunner struct {
	// Stdout and Stderr receive streamed output from Run; default to
	// os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
	Logger hclog.Logger
	// Environ supplies the base environment; defaults to os.Environ.
	Environ func() []string
}

// NewHostRunner returns a HostRunner that logs through logger.
func NewHostRunner(logger hclog.Logger) *HostRunner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &HostRunner{Logger: logger}
}

// Shell runs command via "sh -c" ("cmd /C" on Windows).
func (h *HostRunner) Shell(ctx context.Context, command string) (*Output, error) {
	name, flag := "sh", "-c"
	if goruntime.GOOS == "windows" {
		name, flag = "cmd", "/C"
	}

	cmd := exec.CommandContext(ctx, name, flag, command)
	cmd.Env = h.env()

	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	h.logger().Debug("running probe", "command", command)
	err := cmd.Run()
	out := &Output{Combined: combined.String()}
	return out, h.exitStatus(out, command, err)
}

// Run executes name with args in dir.
func (h *HostRunner) Run(ctx context.Context, dir, name string, args ...string) (*Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = h.env()

	stdout := h.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := h.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = io.MultiWriter(stdout, &stdoutBuf)
	cmd.Stderr = io.MultiWriter(stderr, &stderrBuf)

	h.logger().Debug("running command", "name", name, "args", args, "dir", dir)
	err := cmd.Run()
	out := &Output{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}
	return out, h.exitStatus(out, name, err)
}

func (h *HostRunner) exitStatus(out *Output, what string, err error) error {
	if err == nil {
		out.ExitCode = 0
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		h.logger().Debug("command exited non-zero", "command", what, "exit_code", out.ExitCode)
		return nil
	}
	out.ExitCode = -1
	return fmt.Errorf("starting %s: %w", what, err)
}

func (h *HostRunner) env() []string {
	base := os.Environ
	if h.Environ != nil {
		base = h.Environ
	}
	return HostEnv(base())
}

func (h *HostRunner) logger() hclog.Logger {
	if h.Logger == nil {
		return hclog.NewNullLogger()
	}
	return h.Logger
}
