package cmd

import (
	"fmt"
	"strings"

	"github.com/lesplan/untis-tabulator/internal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configSets []string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the configuration",
	Long: `Print the current configuration, or change settings with --set key=value.

Keys: server, school, username, client, timezone, merge_policy, cache_ttl, concurrency.
Passwords are never stored; set UNTIS_PASSWORD to skip the password prompt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := internal.LoadConfig()
		if err != nil {
			return err
		}

		if len(configSets) > 0 {
			for _, set := range configSets {
				key, value, ok := strings.Cut(set, "=")
				if !ok {
					return fmt.Errorf("invalid --set %q, want key=value", set)
				}
				if err := cfg.Set(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
					return err
				}
			}
			if err := internal.SaveConfig(cfg); err != nil {
				return err
			}
			path, _ := internal.ConfigPath()
			internal.PrintSuccess(fmt.Sprintf("Saved configuration to %s", path))
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to serialize config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().StringArrayVarP(&configSets, "set", "s", nil, "Set a configuration value (key=value), may be repeated")
}
