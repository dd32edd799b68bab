package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/MozillaSecurity/prefpicker/am"
	"github.com/MozillaSecurity/prefpicker/errors"
)

func newAmCmd() *cobra.Command {
	amCmd := &cobra.Command{
		Use:   "am",
		Short: "Manage prefpicker configuration",
		Long: `am - Manage prefpicker configuration

Display and check the settings prefpicker runs with.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (PREFPICKER_* prefix)
3. Project config (./am.toml, searched upwards)
4. User config (~/.prefpicker/am.toml)
5. System config (/etc/prefpicker/am.toml)
6. Default values

Examples:
  prefpicker am show                    # Show current configuration
  prefpicker am show --format json      # Show configuration in JSON format
  prefpicker am show --sources          # Show where each value came from
  prefpicker am get generate.variant    # Get specific config value
  prefpicker am validate                # Validate current configuration`,
	}

	var format string
	var sources bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current prefpicker configuration from all sources",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sources {
				return showSources(cmd)
			}
			return showConfig(cmd, format)
		},
	}
	showCmd.Flags().StringVar(&format, "format", "toml", "Output format: toml, json, yaml")
	showCmd.Flags().BoolVar(&sources, "sources", false, "Show the source of every setting")

	getCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a specific configuration value",
		Long:  "Get a specific configuration value using dot notation (e.g., generate.variant, log.verbosity)",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			v := am.GetViper()
			if !v.IsSet(key) {
				return errors.Newf("configuration key %q not found", key)
			}
			fmt.Fprintln(cmd.OutOrStdout(), v.Get(key))
			return nil
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate current configuration",
		Long:  "Validate that the current prefpicker configuration is valid",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			// the root pre-run already rejected an invalid configuration
			fmt.Fprintln(cmd.OutOrStdout(), pterm.Green("✓ Configuration is valid"))
			return nil
		},
	}

	amCmd.AddCommand(showCmd, getCmd, validateCmd)
	return amCmd
}

func showConfig(cmd *cobra.Command, format string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	w := cmd.OutOrStdout()
	switch format {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(w, string(data))

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(w, "# prefpicker configuration\n%s", string(data))

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(w, "# prefpicker configuration\n%s", string(data))

	default:
		return usageError("unsupported format: %s (supported: toml, json, yaml)", format)
	}
	return nil
}

func showSources(cmd *cobra.Command) error {
	w := cmd.OutOrStdout()
	for _, setting := range am.GetConfigIntrospection().Settings {
		origin := string(setting.Source)
		if setting.SourcePath != "" && setting.Source != am.SourceDefault {
			origin += " " + setting.SourcePath
		}
		valueStr := fmt.Sprintf("%v", setting.Value)
		if len(valueStr) > 50 {
			valueStr = valueStr[:47] + "..."
		}
		fmt.Fprintf(w, "%s = %s  %s\n", setting.Key, valueStr, pterm.Gray("("+origin+")"))
	}
	return nil
}
