package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/radiusauth/internal/cli/prompt"
	"github.com/marmos91/radiusauth/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Initialize a sample radiusauth configuration file.

By default, the configuration file is created at $XDG_CONFIG_HOME/radiusauth/config.yaml.
Use --config to specify a custom path. An existing file is only replaced after
confirmation, or with --force.

Examples:
  # Initialize with default location
  radiusauth init

  # Initialize with custom path
  radiusauth init --config /etc/radiusauth/config.yaml

  # Force overwrite existing config
  radiusauth init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := GetConfigFile()
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	force := initForce
	if _, err := os.Stat(configPath); err == nil && !force {
		ok, err := prompt.Confirm(fmt.Sprintf("%s exists. Overwrite", configPath), false)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
		}
		force = true
	}

	if err := config.InitConfigToPath(configPath, force); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Configuration file created at: %s\n", configPath)
	_, _ = fmt.Fprintln(out, "\nNext steps:")
	_, _ = fmt.Fprintln(out, "  1. Set radius.server and radius.secret for your RADIUS server")
	_, _ = fmt.Fprintf(out, "  2. Check the file with: radiusauth config validate --config %s\n", configPath)
	_, _ = fmt.Fprintln(out, "  3. Try a login with:    radiusauth login <username>")
	_, _ = fmt.Fprintln(out, "  4. Start the API with:  radiusauth start")
	_, _ = fmt.Fprintln(out, "\nSecurity note:")
	_, _ = fmt.Fprintln(out, "  A random JWT secret has been generated for development use.")
	_, _ = fmt.Fprintln(out, "  For production, keep secrets out of the file and use environment variables:")
	_, _ = fmt.Fprintf(out, "    export %s=$(openssl rand -hex 32)\n", config.EnvAPISecret)
	_, _ = fmt.Fprintf(out, "    export %s=<shared secret>\n", config.EnvRadiusSecret)

	return nil
}
