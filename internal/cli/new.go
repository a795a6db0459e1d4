package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/better-appgen/appgen/internal/branding"
	"github.com/better-appgen/appgen/internal/config"
	"github.com/better-appgen/appgen/internal/deps"
	"github.com/better-appgen/appgen/internal/generators"
	"github.com/better-appgen/appgen/internal/orchestrator"
	"github.com/better-appgen/appgen/internal/runtime"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	newWithSimpleForm bool
	newRailsPort      int
	newVitePort       int
	newSkipDocker     bool
	newLocale         string
	newInteractive    bool
)

func init() {
	newCmd.Flags().BoolVar(&newWithSimpleForm, "with-simple-form", false, "Include SimpleForm with Tailwind CSS styling")
	newCmd.Flags().IntVar(&newRailsPort, "rails-port", 3000, "Rails server port")
	newCmd.Flags().IntVar(&newVitePort, "vite-port", 5173, "Vite dev server port")
	newCmd.Flags().BoolVar(&newSkipDocker, "skip-docker", false, "Skip Docker configuration")
	newCmd.Flags().StringVar(&newLocale, "locale", "en", "Default locale ("+strings.Join(config.SupportedLocales, ", ")+")")
	newCmd.Flags().BoolVarP(&newInteractive, "interactive", "i", false, "Prompt for locale, SimpleForm and Docker")
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:   "new <app-name>",
	Short: "Generate a new " + branding.FrameworkName() + " application",
	Long: `Creates a new ` + branding.FrameworkName() + ` application with a production-ready stack including:

  - Solid Cache/Queue/Cable (PostgreSQL-backed instead of Redis)
  - Vite + Tailwind CSS for assets
  - Multi-database setup (primary, cache, queue, cable)
  - Docker development environment (optional)
  - UUID primary keys by default
  - Configurable locale and timezone

Flag defaults can be changed with "` + branding.CLIName() + ` config set".`,
	Example: `  appgen new my-blog
  appgen new my-app --with-simple-form
  appgen new my-app --rails-port 3001 --vite-port 5174
  appgen new my-app --skip-docker
  appgen new my-app --locale it`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := newOptions(args[0], config.LoadDefaults(), cmd.Flags().Changed)
		if newInteractive {
			if err := promptOptions(&opts); err != nil {
				return err
			}
		}

		cfg, err := config.New(opts)
		if err != nil {
			return err
		}

		runner := runtime.NewHostRunner(logger.Named("runner"))
		checker, err := deps.NewChecker(runner, deps.WithLogger(logger.Named("deps")))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		okStyle.Fprintf(out, "\nGenerating %s application: %s\n\n", branding.FrameworkName(), cfg.AppName())

		o := orchestrator.New(cfg, checker, generators.DefaultPipeline(), runner, logger)
		summary, err := o.Run(context.Background(), out)
		if err != nil {
			return err
		}
		printSummary(out, summary)
		return nil
	},
}

// newOptions merges flags over user defaults. A flag only wins when it was
// set on the command line.
func newOptions(name string, d config.Defaults, changed func(string) bool) config.Options {
	opts := config.Options{
		AppName:        name,
		RailsPort:      d.RailsPort,
		VitePort:       d.VitePort,
		Locale:         d.Locale,
		WithSimpleForm: d.WithSimpleForm,
		SkipDocker:     d.SkipDocker,
	}
	if changed("rails-port") {
		opts.RailsPort = newRailsPort
	}
	if changed("vite-port") {
		opts.VitePort = newVitePort
	}
	if changed("locale") {
		opts.Locale = newLocale
	}
	if changed("with-simple-form") {
		opts.WithSimpleForm = newWithSimpleForm
	}
	if changed("skip-docker") {
		opts.SkipDocker = newSkipDocker
	}
	return opts
}

func promptOptions(opts *config.Options) error {
	locales := make([]huh.Option[string], 0, len(config.SupportedLocales))
	for _, l := range config.SupportedLocales {
		locales = append(locales, huh.NewOption(l, l))
	}
	withDocker := !opts.SkipDocker

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default locale").
				Options(locales...).
				Value(&opts.Locale),
			huh.NewConfirm().
				Title("Include SimpleForm?").
				Value(&opts.WithSimpleForm),
			huh.NewConfirm().
				Title("Generate Docker development setup?").
				Value(&withDocker),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("reading answers: %w", err)
	}
	opts.SkipDocker = !withDocker
	return nil
}
