// File: cmd/config.go
package cmd

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nullmantle/pixelpilot/internal/bot"
	"github.com/nullmantle/pixelpilot/internal/botconfig"
	"github.com/nullmantle/pixelpilot/internal/config"
)

// newConfigCmd creates the `config` command group for inspecting the
// resolved application configuration and bot profiles.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved application configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validate before printing so a broken config is reported, not
			// echoed as if it were usable.
			if _, err := config.NewConfigFromViper(viper.GetViper()); err != nil {
				return err
			}
			out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(viper.AllSettings(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	profileCmd := &cobra.Command{
		Use:   "profile [path]",
		Short: "Print a bot profile in wire form (defaults when no path given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := bot.DefaultProfile()
			if len(args) == 1 {
				loaded, err := bot.LoadProfile(args[0])
				if err != nil {
					return err
				}
				profile = loaded
			}
			out, err := botconfig.ExportJSON(profile)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	configCmd.AddCommand(showCmd, profileCmd)
	return configCmd
}
