package generators

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"testing"

	"github.com/better-appgen/appgen/internal/apperr"
	"github.com/better-appgen/appgen/internal/config"
	"github.com/better-appgen/appgen/internal/runtime"
	"github.com/better-appgen/appgen/internal/runtime/runtimetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const skeletonGemfile = `source "https://rubygems.org"

gem "rails", "~> 8.0.1"
gem "pg", "~> 1.1"
gem "puma", ">= 5.0"

group :development, :test do
  gem "debug", platforms: %i[ mri windows ], require: "debug/prelude"
end

group :development do
  gem "web-console"
end
`

const skeletonApplication = `require_relative "boot"

require "rails/all"

Bundler.require(*Rails.groups)

module MyShop
  class Application < Rails::Application
    config.load_defaults 8.0
  end
end
`

// fakeRails simulates `rails new` by laying down the files later stages
// depend on.
func fakeRails(t *testing.T) *runtimetest.Runner {
	t.Helper()
	return &runtimetest.Runner{
		OnRun: func(dir, name string, args []string) (*runtime.Output, error) {
			if name != "rails" || len(args) < 2 || args[0] != "new" {
				return nil, errors.New("unexpected command")
			}
			root := filepath.Join(dir, args[1])
			files := map[string]string{
				"Gemfile":                                skeletonGemfile,
				"config/application.rb":                  skeletonApplication,
				"db/schema.rb":                           "ActiveRecord::Schema.define {}\n",
				"db/cache_schema.rb":                     "ActiveRecord::Schema.define {}\n",
				"db/seeds.rb":                            "",
				"app/assets/stylesheets/application.css": "/* default */\n",
			}
			for rel, content := range files {
				full := filepath.Join(root, rel)
				require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
				require.NoError(t, os.WriteFile(full, []byte(content), 0644))
			}
			return &runtime.Output{}, nil
		},
	}
}

func newEnv(t *testing.T, opts config.Options, runner runtime.Runner) *Env {
	t.Helper()
	if opts.AppName == "" {
		opts.AppName = "my-shop"
	}
	if opts.RailsPort == 0 {
		opts.RailsPort = 3000
	}
	if opts.VitePort == 0 {
		opts.VitePort = 5173
	}
	if opts.Locale == "" {
		opts.Locale = "en"
	}
	if opts.AppPath == "" {
		opts.AppPath = filepath.Join(t.TempDir(), opts.AppName)
	}
	cfg, err := config.New(opts)
	require.NoError(t, err)
	return NewEnv(cfg, runner, nil)
}

func read(t *testing.T, env *Env, rel string) string {
	t.Helper()
	s, err := env.Kit.Read(rel)
	require.NoError(t, err)
	return s
}

func TestDefaultPipelineOrder(t *testing.T) {
	assert.Equal(t,
		[]string{"rails_app", "gems", "vite", "locale", "simple_form", "docker"},
		DefaultPipeline().Names())
}

func TestDefaultPipelineFullRun(t *testing.T) {
	runner := fakeRails(t)
	env := newEnv(t, config.Options{Locale: "it", RailsPort: 3001, VitePort: 5174, WithSimpleForm: true}, runner)

	report, err := DefaultPipeline().Run(context.Background(), env)
	require.NoError(t, err)
	assert.Equal(t, []string{"rails_app", "gems", "vite", "locale", "simple_form", "docker"}, report.Ran)
	assert.Empty(t, report.Skipped)

	require.Len(t, runner.Calls, 1)
	call := runner.Calls[0]
	assert.Equal(t, filepath.Dir(env.Config.AppPath()), call.Dir)
	assert.Equal(t, "rails", call.Name)
	assert.Equal(t, []string{"new", "my-shop"}, call.Args[:2])
	assert.Contains(t, call.Args, "--database=postgresql")
	assert.Contains(t, call.Args, "--skip-javascript")

	assert.False(t, env.Kit.Exists("db/schema.rb"))
	assert.False(t, env.Kit.Exists("db/cache_schema.rb"))
	assert.True(t, env.Kit.Exists("db/seeds.rb"))
	for _, dir := range migrationDirs {
		assert.True(t, env.Kit.Exists(dir), dir)
	}

	gemfile := read(t, env, "Gemfile")
	for _, gem := range []string{"solid_cache", "solid_queue", "solid_cable", "dotenv-rails", "rails-i18n", "simple_form"} {
		assert.Equal(t, 1, strings.Count(gemfile, `gem "`+gem+`"`), gem)
	}
	assert.Less(t, strings.Index(gemfile, `gem "solid_cache"`), strings.Index(gemfile, "group :development do"))

	pkg := read(t, env, "package.json")
	assert.Contains(t, pkg, `"dev": "vite --host 0.0.0.0 --port 5174"`)
	assert.Contains(t, pkg, `"packageManager": "yarn@4.5.3"`)
	assert.Contains(t, pkg, `"name": "my-shop"`)

	assert.Contains(t, read(t, env, "app/assets/stylesheets/application.css"), `@import "tailwindcss"`)
	assert.Equal(t, read(t, env, ".env.example"), read(t, env, ".env"))
	assert.Contains(t, read(t, env, "Procfile.dev"), "-p 3001")

	app := read(t, env, "config/application.rb")
	assert.Contains(t, app, `config.time_zone = "Europe/Rome"`)
	assert.Contains(t, app, "config.i18n.default_locale = :it")
	assert.Less(t, strings.Index(app, "class Application"), strings.Index(app, "config.time_zone"))

	assert.True(t, env.Kit.Exists("config/locales/it.yml"))
	assert.True(t, env.Kit.Exists("config/initializers/simple_form.rb"))
	assert.Contains(t, read(t, env, "docker-compose.yml"), `"3001:3001"`)

	if goruntime.GOOS != "windows" {
		for _, rel := range []string{"bin/dev", "script/dc-up", "script/dc-down", "script/dc-shell"} {
			info, err := os.Stat(filepath.Join(env.Config.AppPath(), rel))
			require.NoError(t, err, rel)
			assert.NotZero(t, info.Mode().Perm()&0o100, rel)
		}
	}
}

func TestStageConditionsSkip(t *testing.T) {
	env := newEnv(t, config.Options{SkipDocker: true}, fakeRails(t))

	report, err := DefaultPipeline().Run(context.Background(), env)
	require.NoError(t, err)
	assert.Equal(t, []string{"rails_app", "gems", "vite", "locale"}, report.Ran)
	assert.Equal(t, []string{"simple_form", "docker"}, report.Skipped)

	assert.False(t, env.Kit.Exists("Dockerfile.dev"))
	assert.False(t, env.Kit.Exists("config/initializers/simple_form.rb"))
	assert.NotContains(t, read(t, env, "Gemfile"), "simple_form")
}

func TestGeneratorsAreIdempotent(t *testing.T) {
	env := newEnv(t, config.Options{WithSimpleForm: true}, fakeRails(t))
	ctx := context.Background()
	_, err := DefaultPipeline().Run(ctx, env)
	require.NoError(t, err)

	watched := []string{"Gemfile", "package.json", "config/application.rb", "docker-compose.yml", "bin/dev"}
	before := map[string]string{}
	for _, rel := range watched {
		before[rel] = read(t, env, rel)
	}

	rerun := MustPipeline(
		Stage{Generator: Gems{}},
		Stage{Generator: Vite{}},
		Stage{Generator: Locale{}},
		Stage{Generator: SimpleForm{}},
		Stage{Generator: Docker{}},
	)
	_, err = rerun.Run(ctx, env)
	require.NoError(t, err)

	for _, rel := range watched {
		assert.Equal(t, before[rel], read(t, env, rel), rel)
	}
}

func TestRailsAppFailureAborts(t *testing.T) {
	runner := &runtimetest.Runner{
		OnRun: func(string, string, []string) (*runtime.Output, error) {
			return &runtime.Output{ExitCode: 1}, nil
		},
	}
	env := newEnv(t, config.Options{}, runner)

	report, err := DefaultPipeline().Run(context.Background(), env)
	require.Error(t, err)
	assert.Equal(t, apperr.ExternalCommandFailed, apperr.CodeOf(err))
	assert.Contains(t, err.Error(), "generator rails_app")
	assert.Empty(t, report.Ran)

	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "1", e.Details["exit_code"])
	assert.NoDirExists(t, env.Config.AppPath())
}

func TestRailsAppStartFailure(t *testing.T) {
	runner := &runtimetest.Runner{
		OnRun: func(string, string, []string) (*runtime.Output, error) {
			return &runtime.Output{ExitCode: -1}, errors.New(`exec: "rails": executable file not found in $PATH`)
		},
	}
	env := newEnv(t, config.Options{}, runner)

	err := RailsApp{}.Generate(context.Background(), env)
	assert.Equal(t, apperr.ExternalCommandFailed, apperr.CodeOf(err))
}

func TestRailsNewArgsCustomDirectory(t *testing.T) {
	args := railsNewArgs("my-shop", "shop-checkout")
	assert.Equal(t, []string{"new", "shop-checkout"}, args[:2])
	assert.Equal(t, "--name=my-shop", args[len(args)-1])

	args = railsNewArgs("my-shop", "my-shop")
	assert.NotContains(t, strings.Join(args, " "), "--name=")
}

func TestLocaleWithoutTemplates(t *testing.T) {
	env := newEnv(t, config.Options{Locale: "de"}, nil)
	require.NoError(t, env.Kit.Write("config/application.rb", skeletonApplication))

	require.NoError(t, Locale{}.Generate(context.Background(), env))
	assert.Contains(t, read(t, env, "config/application.rb"), `config.time_zone = "Europe/Berlin"`)
	assert.False(t, env.Kit.Exists("config/locales/de.yml"))
}

func TestLocaleInsertsOnce(t *testing.T) {
	env := newEnv(t, config.Options{}, nil)
	require.NoError(t, env.Kit.Write("config/application.rb", skeletonApplication))

	require.NoError(t, Locale{}.Generate(context.Background(), env))
	require.NoError(t, Locale{}.Generate(context.Background(), env))

	app := read(t, env, "config/application.rb")
	assert.Equal(t, 1, strings.Count(app, "config.time_zone"))
	assert.Contains(t, app, `config.time_zone = "UTC"`)
}

func TestVitePreservesExistingPackageJSON(t *testing.T) {
	env := newEnv(t, config.Options{}, nil)
	require.NoError(t, env.Kit.Write("package.json", `{"name": "legacy", "dependencies": {"lodash": "^4.17.21", "vite": "^1.0.0"}}`))

	require.NoError(t, Vite{}.Generate(context.Background(), env))

	pkg := read(t, env, "package.json")
	assert.Contains(t, pkg, `"name": "legacy"`)
	assert.Contains(t, pkg, `"lodash": "^4.17.21"`)
	assert.Contains(t, pkg, `"@hotwired/stimulus": "^3.2.2"`)
}

func TestViteCorruptPackageJSON(t *testing.T) {
	env := newEnv(t, config.Options{}, nil)
	require.NoError(t, env.Kit.Write("package.json", "{"))

	err := Vite{}.Generate(context.Background(), env)
	assert.Equal(t, apperr.ManifestMergeFailed, apperr.CodeOf(err))
}

func TestNewPipelineRejectsBadCondition(t *testing.T) {
	_, err := NewPipeline(Stage{Generator: Docker{}, When: "skip_dockr"})
	assert.Error(t, err)

	_, err = NewPipeline(Stage{Generator: Docker{}, When: "rails_port"})
	assert.Error(t, err, "non-boolean condition")

	_, err = NewPipeline(Stage{})
	assert.Error(t, err)
}

func TestConditionsSeeConfiguration(t *testing.T) {
	p := MustPipeline(
		Stage{Generator: recorder("a"), When: `locale == "it" && vite_port > 5000`},
		Stage{Generator: recorder("b"), When: `app_name_snake == "my_shop"`},
		Stage{Generator: recorder("c"), When: `timezone == "UTC"`},
	)
	env := newEnv(t, config.Options{Locale: "it"}, nil)

	report, err := p.Run(context.Background(), env)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, report.Ran)
	assert.Equal(t, []string{"c"}, report.Skipped)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env := newEnv(t, config.Options{}, nil)
	report, err := MustPipeline(Stage{Generator: recorder("a")}).Run(ctx, env)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Ran)
}

type recorder string

func (r recorder) Name() string                         { return string(r) }
func (r recorder) Generate(context.Context, *Env) error { return nil }
