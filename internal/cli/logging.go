package cli

import (
	"io"

	"github.com/better-appgen/appgen/internal/branding"
	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
)

// newLogger builds the root logger. Level falls back to warn when level is
// empty or unknown.
func newLogger(level string, output io.Writer) hclog.Logger {
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Warn
	}
	colorOpt := hclog.AutoColor
	if color.NoColor {
		colorOpt = hclog.ColorOff
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   branding.CLIName(),
		Level:  lvl,
		Output: output,
		Color:  colorOpt,
	})
}
