package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/better-appgen/appgen/internal/apperr"
	"github.com/better-appgen/appgen/internal/deps"
	"github.com/better-appgen/appgen/internal/runtime"
	"github.com/spf13/cobra"
)

var checkJSON bool

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Print results as JSON")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that all required dependencies are installed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner := runtime.NewHostRunner(logger.Named("runner"))
		return runCheck(context.Background(), cmd.OutOrStdout(), runner, checkJSON)
	},
}

// checkReport is the --json shape.
type checkReport struct {
	Satisfied    bool                   `json:"satisfied"`
	Missing      []string               `json:"missing"`
	Dependencies map[string]deps.Result `json:"dependencies"`
}

func runCheck(ctx context.Context, w io.Writer, runner runtime.Runner, asJSON bool) error {
	checker, err := deps.NewChecker(runner,
		deps.WithLogger(logger.Named("deps")),
		deps.WithFormatter(colorFormatter))
	if err != nil {
		return err
	}

	var ok bool
	if asJSON {
		ok = checker.CheckAll(ctx, io.Discard, false)
		report := checkReport{
			Satisfied:    ok,
			Missing:      checker.Missing(),
			Dependencies: checker.Results(),
		}
		if report.Missing == nil {
			report.Missing = []string{}
		}
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling check results: %w", err)
		}
		fmt.Fprintln(w, string(data))
	} else {
		headStyle.Fprintln(w, "\nChecking dependencies...")
		fmt.Fprintln(w)
		ok = checker.CheckAll(ctx, w, true)
	}

	if !ok {
		return apperr.WithDetails(apperr.DependencyUnsatisfied,
			"Missing required dependencies", map[string]string{"missing": strings.Join(checker.Missing(), ", ")})
	}
	return nil
}
