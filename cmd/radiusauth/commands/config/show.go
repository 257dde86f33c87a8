package config

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/radiusauth/internal/cli/output"
	"github.com/marmos91/radiusauth/pkg/config"
)

var (
	showOutput  string
	showSecrets bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long: `Display the effective radiusauth configuration, after defaults and
environment overrides. Secrets are masked unless --show-secrets is given.

Examples:
  # Show default config as YAML
  radiusauth config show

  # Show as JSON
  radiusauth config show --output json`,
	RunE: runConfigShow,
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "yaml", "Output format (yaml|json)")
	showCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Print secrets in clear text")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(showOutput)
	if err != nil {
		return err
	}

	shown := *cfg
	if !showSecrets {
		shown.Radius = cfg.Radius.Redacted()
		if shown.API.JWT.Secret != "" {
			shown.API.JWT.Secret = "********"
		}
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(cmd.OutOrStdout(), shown)
	default:
		return output.PrintYAML(cmd.OutOrStdout(), shown)
	}
}
