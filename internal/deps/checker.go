package deps

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/better-appgen/appgen/internal/apperr"
	"github.com/better-appgen/appgen/internal/runtime"
	"github.com/hashicorp/go-hclog"
)

// Result is the outcome of probing one dependency. A nil Version means no
// version could be read; a nil MinVersion means no minimum is declared.
type Result struct {
	Satisfied  bool    `json:"satisfied"`
	Installed  bool    `json:"installed"`
	Version    *string `json:"version"`
	MinVersion *string `json:"min_version"`
}

// VersionString returns the observed version or "".
func (r Result) VersionString() string { return deref(r.Version) }

// MinVersionString returns the required minimum or "".
func (r Result) MinVersionString() string { return deref(r.MinVersion) }

// Formatter renders one result as a display line.
type Formatter func(name string, r Result) string

// Checker probes declared dependencies and remembers the last result for
// each one.
type Checker struct {
	runner    runtime.Runner
	decls     []Declaration
	logger    hclog.Logger
	formatter Formatter
	results   map[string]Result
}

// Option configures a Checker.
type Option func(*Checker)

// WithDeclarations replaces the embedded dependency table.
func WithDeclarations(decls []Declaration) Option {
	return func(c *Checker) { c.decls = append([]Declaration(nil), decls...) }
}

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(c *Checker) { c.logger = l }
}

// WithFormatter sets the line formatter used by verbose reports.
func WithFormatter(f Formatter) Option {
	return func(c *Checker) { c.formatter = f }
}

// NewChecker creates a Checker using runner for probes.
func NewChecker(runner runtime.Runner, opts ...Option) (*Checker, error) {
	c := &Checker{
		runner:    runner,
		logger:    hclog.NewNullLogger(),
		formatter: PlainFormatter,
		results:   make(map[string]Result),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.decls == nil {
		decls, err := DefaultDeclarations()
		if err != nil {
			return nil, err
		}
		c.decls = decls
	}
	return c, nil
}

// Declarations returns the checked table in probe order.
func (c *Checker) Declarations() []Declaration {
	return append([]Declaration(nil), c.decls...)
}

// CheckAll probes every declaration and reports whether all are satisfied.
// When verbose, a line per dependency and an aggregate line go to w.
func (c *Checker) CheckAll(ctx context.Context, w io.Writer, verbose bool) bool {
	var missing []string
	for _, d := range c.decls {
		r := c.probe(ctx, d)
		c.results[d.Name] = r
		if verbose {
			fmt.Fprintln(w, c.formatter(d.Name, r))
		}
		if !r.Satisfied {
			missing = append(missing, d.Name)
		}
	}

	if verbose {
		fmt.Fprintln(w)
		if len(missing) == 0 {
			fmt.Fprintln(w, "All dependencies satisfied!")
		} else {
			fmt.Fprintf(w, "Missing dependencies: %s\n", strings.Join(missing, ", "))
		}
	}
	return len(missing) == 0
}

// Check probes a single dependency by name.
func (c *Checker) Check(ctx context.Context, name string) (bool, error) {
	for _, d := range c.decls {
		if d.Name == name {
			r := c.probe(ctx, d)
			c.results[name] = r
			return r.Satisfied, nil
		}
	}
	return false, apperr.Newf(apperr.UnknownDependency, "Unknown dependency: %s", name)
}

// Missing returns the unsatisfied dependencies of the last run, in table order.
func (c *Checker) Missing() []string {
	var out []string
	for _, d := range c.decls {
		if r, ok := c.results[d.Name]; ok && !r.Satisfied {
			out = append(out, d.Name)
		}
	}
	return out
}

// Result returns the last result recorded for name.
func (c *Checker) Result(name string) (Result, bool) {
	r, ok := c.results[name]
	return r, ok
}

// Results returns a copy of all recorded results.
func (c *Checker) Results() map[string]Result {
	out := make(map[string]Result, len(c.results))
	for k, v := range c.results {
		out[k] = v
	}
	return out
}

func (c *Checker) probe(ctx context.Context, d Declaration) Result {
	r := Result{MinVersion: ptr(d.MinVersion)}

	out, err := c.runner.Shell(ctx, d.Command)
	if err != nil {
		c.logger.Debug("probe could not start", "dependency", d.Name, "error", err)
		return r
	}
	if !out.Success() {
		c.logger.Debug("probe failed", "dependency", d.Name, "exit_code", out.ExitCode)
		return r
	}

	r.Installed = true
	r.Version = ptr(ExtractVersion(strings.TrimSpace(out.Combined)))
	r.Satisfied = d.MinVersion == "" || Satisfies(r.VersionString(), d.MinVersion)
	c.logger.Debug("probed dependency", "dependency", d.Name,
		"version", r.VersionString(), "min_version", d.MinVersion, "satisfied", r.Satisfied)
	return r
}

// PlainFormatter renders a result without styling.
func PlainFormatter(name string, r Result) string {
	if r.Satisfied {
		if v := r.VersionString(); v != "" {
			return fmt.Sprintf("  OK %s (%s)", name, v)
		}
		return "  OK " + name
	}
	if r.Installed && r.MinVersion != nil {
		return fmt.Sprintf("  MISSING %s - version %s < %s required", name, r.VersionString(), r.MinVersionString())
	}
	return "  MISSING " + name
}

func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
