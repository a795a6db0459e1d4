package generators

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/better-appgen/appgen/internal/apperr"
)

// railsNewFlags trims the default Rails skeleton down to what the rest of
// the pipeline builds on.
var railsNewFlags = []string{
	"--skip-git",
	"--skip-docker",
	"--skip-action-mailbox",
	"--skip-action-text",
	"--skip-active-storage",
	"--skip-test",
	"--skip-thruster",
	"--skip-ci",
	"--skip-kamal",
	"--skip-devcontainer",
	"--skip-jbuilder",
	"--skip-javascript",
	"--skip-asset-pipeline",
	"--database=postgresql",
}

var migrationDirs = []string{
	"db/migrate",
	"db/cache_migrate",
	"db/queue_migrate",
	"db/cable_migrate",
}

// RailsApp creates the base application with `rails new`.
type RailsApp struct{}

func (RailsApp) Name() string { return "rails_app" }

func (RailsApp) Generate(ctx context.Context, env *Env) error {
	cfg := env.Config
	parent := filepath.Dir(cfg.AppPath())
	if err := os.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", parent, err)
	}

	args := railsNewArgs(cfg.AppName(), filepath.Base(cfg.AppPath()))
	command := "rails " + strings.Join(args, " ")
	env.Logger.Debug("creating rails application", "dir", parent, "command", command)

	out, err := env.Runner.Run(ctx, parent, "rails", args...)
	if err != nil {
		return apperr.Wrap(apperr.ExternalCommandFailed, "Failed to generate Rails application", err)
	}
	if !out.Success() {
		return apperr.WithDetails(apperr.ExternalCommandFailed,
			"Failed to generate Rails application",
			map[string]string{
				"command":   command,
				"exit_code": strconv.Itoa(out.ExitCode),
			})
	}

	// Schema dumps are replaced by structure files once migrations run.
	if err := env.Kit.RemoveGlob("db/*schema.rb"); err != nil {
		return err
	}
	for _, dir := range migrationDirs {
		if err := env.Kit.MkdirAll(dir); err != nil {
			return err
		}
	}
	return nil
}

// railsNewArgs builds the `rails new` argument list. When the target
// directory name differs from the app name, the name is passed explicitly.
func railsNewArgs(appName, dirName string) []string {
	args := []string{"new", dirName}
	args = append(args, railsNewFlags...)
	if dirName != appName {
		args = append(args, "--name="+appName)
	}
	return args
}
