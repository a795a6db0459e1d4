package generators

import (
	"context"
	"fmt"

	"github.com/better-appgen/appgen/internal/config"
	"github.com/better-appgen/appgen/internal/mutate"
	"github.com/better-appgen/appgen/internal/runtime"
	"github.com/better-appgen/appgen/internal/scaffold"
	"github.com/hashicorp/go-hclog"
)

// Generator is one step of application generation. Implementations must be
// safe to run again against a directory they have already processed.
type Generator interface {
	Name() string
	Generate(ctx context.Context, env *Env) error
}

// Env is everything a Generator may touch.
type Env struct {
	Config    *config.Configuration
	Kit       *mutate.Toolkit
	Templates *scaffold.Renderer
	Runner    runtime.Runner
	Logger    hclog.Logger
}

// NewEnv wires an Env for cfg with a toolkit rooted at the target directory
// and the embedded templates.
func NewEnv(cfg *config.Configuration, runner runtime.Runner, logger hclog.Logger) *Env {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Env{
		Config:    cfg,
		Kit:       mutate.New(cfg.AppPath(), mutate.WithLogger(logger.Named("mutate"))),
		Templates: scaffold.Default(),
		Runner:    runner,
		Logger:    logger,
	}
}

// render writes template tmpl, rendered against the configuration, to rel.
func (e *Env) render(rel, tmpl string) error {
	content, err := e.Templates.Render(tmpl, e.Config)
	if err != nil {
		return err
	}
	return e.Kit.Write(rel, content)
}

// renderExecutable is render for scripts.
func (e *Env) renderExecutable(rel, tmpl string) error {
	content, err := e.Templates.Render(tmpl, e.Config)
	if err != nil {
		return err
	}
	return e.Kit.WriteExecutable(rel, content)
}

// renderAll renders each destination/template pair in order.
func (e *Env) renderAll(files [][2]string) error {
	for _, f := range files {
		if err := e.render(f[0], f[1]); err != nil {
			return fmt.Errorf("creating %s: %w", f[0], err)
		}
	}
	return nil
}
