// Package orchestrator drives one application generation: it refuses to
// touch an existing directory, gates on system dependencies, runs the
// generator pipeline and summarizes the result.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/better-appgen/appgen/internal/apperr"
	"github.com/better-appgen/appgen/internal/config"
	"github.com/better-appgen/appgen/internal/generators"
	"github.com/better-appgen/appgen/internal/runtime"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// TranslationsURL is where translations for locales without shipped files
// can be found.
const TranslationsURL = "https://github.com/svenfuchs/rails-i18n"

// DependencyGate is the part of the dependency checker the orchestrator
// needs.
type DependencyGate interface {
	CheckAll(ctx context.Context, w io.Writer, verbose bool) bool
	Missing() []string
}

// Summary describes a finished generation.
type Summary struct {
	RunID         string
	AppName       string
	AppPath       string
	Ran           []string
	Skipped       []string
	NextSteps     []string
	LocaleWarning string
}

// Orchestrator wires configuration, dependency gate and pipeline together.
type Orchestrator struct {
	cfg      *config.Configuration
	gate     DependencyGate
	pipeline *generators.Pipeline
	runner   runtime.Runner
	logger   hclog.Logger
}

// New returns an Orchestrator. A nil logger discards output.
func New(cfg *config.Configuration, gate DependencyGate, pipeline *generators.Pipeline, runner runtime.Runner, logger hclog.Logger) *Orchestrator {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Orchestrator{cfg: cfg, gate: gate, pipeline: pipeline, runner: runner, logger: logger}
}

// Run generates the application. Both gates run before anything is written:
// an existing target yields DIRECTORY_EXISTS and missing dependencies yield
// DEPENDENCY_UNSATISFIED. Pipeline failures are returned as-is and leave
// whatever was already generated in place.
func (o *Orchestrator) Run(ctx context.Context, w io.Writer) (*Summary, error) {
	if err := o.ensureAbsent(); err != nil {
		return nil, err
	}

	if !o.gate.CheckAll(ctx, w, false) {
		missing := o.gate.Missing()
		return nil, apperr.WithDetails(apperr.DependencyUnsatisfied,
			"Missing required dependencies: "+strings.Join(missing, ", "),
			map[string]string{"missing": strings.Join(missing, ", ")})
	}

	runID := uuid.NewString()
	logger := o.logger.With("run_id", runID, "app", o.cfg.AppName())
	logger.Info("generating application", "path", o.cfg.AppPath())

	env := generators.NewEnv(o.cfg, o.runner, logger.Named("pipeline"))
	report, err := o.pipeline.Run(ctx, env)
	if err != nil {
		logger.Error("generation failed", "ran", report.Ran, "error", err)
		return nil, err
	}
	logger.Info("generation complete", "ran", report.Ran, "skipped", report.Skipped)

	return &Summary{
		RunID:         runID,
		AppName:       o.cfg.AppName(),
		AppPath:       o.cfg.AppPath(),
		Ran:           report.Ran,
		Skipped:       report.Skipped,
		NextSteps:     NextSteps(o.cfg),
		LocaleWarning: LocaleWarning(o.cfg),
	}, nil
}

func (o *Orchestrator) ensureAbsent() error {
	_, err := os.Stat(o.cfg.AppPath())
	switch {
	case err == nil:
		return apperr.WithDetails(apperr.DirectoryExists,
			fmt.Sprintf("Directory '%s' already exists.", o.cfg.AppName()),
			map[string]string{"path": o.cfg.AppPath()})
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("checking %s: %w", o.cfg.AppPath(), err)
	}
}

// NextSteps lists the commands to run after generation.
func NextSteps(cfg *config.Configuration) []string {
	steps := []string{"cd " + cfg.AppName()}
	if cfg.SkipDocker() {
		return append(steps,
			"bundle install",
			"yarn install",
			"rails db:create db:schema:load",
			"bin/dev              # Start Rails + Vite",
		)
	}
	return append(steps,
		"script/dc-up         # Start Docker containers",
		"script/dc-shell      # Open shell in Rails container",
		"rails db:create      # Create databases",
		"rails db:schema:load # Load schema",
		"exit                 # Exit shell",
		"script/dc-down && script/dc-up  # Restart containers",
	)
}

// LocaleWarning returns a note for locales without shipped translations, or
// "" when none is needed.
func LocaleWarning(cfg *config.Configuration) string {
	if cfg.HasLocaleTemplates() {
		return ""
	}
	return fmt.Sprintf("Locale '%s' does not include translation files. You may want to add translations from the rails-i18n gem: %s",
		cfg.Locale(), TranslationsURL)
}
