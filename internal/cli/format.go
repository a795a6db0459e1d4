package cli

import (
	"fmt"
	"io"

	"github.com/better-appgen/appgen/internal/deps"
	"github.com/better-appgen/appgen/internal/orchestrator"
	"github.com/fatih/color"
)

var (
	okStyle   = color.New(color.FgGreen)
	failStyle = color.New(color.FgRed)
	warnStyle = color.New(color.FgYellow)
	headStyle = color.New(color.FgCyan)
)

// colorFormatter renders dependency results for the terminal.
func colorFormatter(name string, r deps.Result) string {
	if r.Satisfied {
		if v := r.VersionString(); v != "" {
			return fmt.Sprintf("  %s %s (%s)", okStyle.Sprint("✓"), name, v)
		}
		return fmt.Sprintf("  %s %s", okStyle.Sprint("✓"), name)
	}
	if r.Installed && r.MinVersion != nil {
		return fmt.Sprintf("  %s %s - version %s < %s required",
			failStyle.Sprint("✗"), name, r.VersionString(), r.MinVersionString())
	}
	return fmt.Sprintf("  %s %s", failStyle.Sprint("✗"), name)
}

func printSummary(w io.Writer, s *orchestrator.Summary) {
	okStyle.Fprintf(w, "\nApplication '%s' created successfully!\n", s.AppName)
	headStyle.Fprintln(w, "\nNext steps:")
	for _, step := range s.NextSteps {
		fmt.Fprintf(w, "  %s\n", step)
	}
	if s.LocaleWarning != "" {
		warnStyle.Fprintf(w, "\nNote: %s\n", s.LocaleWarning)
	}
	headStyle.Fprintln(w, "\nHappy coding!")
}
