package cli

import (
	"fmt"

	"github.com/better-appgen/appgen/internal/branding"
	"github.com/better-appgen/appgen/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user defaults",
	Long: fmt.Sprintf(`Read and write %s defaults stored at ~/%s/config.yaml.

Keys:
  %s, %s, %s,
  %s, %s, %s`,
		branding.DisplayName(), branding.HomeDir(),
		config.KeyRailsPort, config.KeyVitePort, config.KeyLocale,
		config.KeyWithSimpleForm, config.KeySkipDocker, config.KeyLogLevel),
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}
