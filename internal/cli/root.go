package cli

import (
	"os"
	"strings"

	"github.com/better-appgen/appgen/internal/apperr"
	"github.com/better-appgen/appgen/internal/branding"
	"github.com/better-appgen/appgen/internal/config"
	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	verbose bool
	noColor bool

	logger hclog.Logger = hclog.NewNullLogger()
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` generates ` + branding.FrameworkName() + ` applications with an opinionated stack:
Solid Cache/Queue/Cable on PostgreSQL, Vite + Tailwind CSS, multi-database
configuration, optional Docker development setup and optional SimpleForm.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		if noColor {
			color.NoColor = true
		}
		level := config.Get(config.KeyLogLevel)
		if verbose {
			level = "debug"
		}
		logger = newLogger(level, os.Stderr)
	},
}

// Execute runs the root command with build info injected via ldflags. Errors
// are printed to stderr before being returned.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionLine() + "\n")

	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func printError(err error) {
	var b strings.Builder
	apperr.Print(&b, err)
	failStyle.Fprint(os.Stderr, b.String())
}
