package config

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/marmos91/radiusauth/pkg/config"
)

// ErrInvalidConfig is returned when validation finds problems.
var ErrInvalidConfig = errors.New("configuration is invalid")

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the radiusauth configuration file.

Unlike 'start', which only logs problems in the radius section, this command
reports every problem and exits non-zero when there is one.

Examples:
  # Validate default config
  radiusauth config validate

  # Validate specific config file
  radiusauth config validate --config /etc/radiusauth/config.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}

	displayPath := configPath
	if displayPath == "" {
		displayPath = config.GetDefaultConfigPath()
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Configuration file: %s\n", displayPath)

	problems := multierr.Errors(config.ValidateStrict(cfg))
	if len(problems) > 0 {
		_, _ = fmt.Fprintln(out, "Validation: FAILED")
		for _, p := range problems {
			_, _ = fmt.Fprintf(out, "  - %s\n", p)
		}
		return fmt.Errorf("%w: %d problem(s)", ErrInvalidConfig, len(problems))
	}

	_, _ = fmt.Fprintln(out, "Validation: OK")

	var warnings []string
	if !cfg.API.HasJWTSecret() {
		warnings = append(warnings, "JWT secret not configured - the API server will not start")
	}
	if cfg.Radius.MaxTries == 0 {
		warnings = append(warnings, "radius.max_tries is 0 - a lost packet fails the login")
	}
	if len(warnings) > 0 {
		_, _ = fmt.Fprintln(out, "\nWarnings:")
		for _, w := range warnings {
			_, _ = fmt.Fprintf(out, "  - %s\n", w)
		}
	}

	_, _ = fmt.Fprintf(out, "\nConfiguration summary:\n")
	_, _ = fmt.Fprintf(out, "  RADIUS server:   %s\n", cfg.Radius.Address())
	_, _ = fmt.Fprintf(out, "  RADIUS deadline: %s\n", cfg.Radius.Deadline())
	_, _ = fmt.Fprintf(out, "  API port:        %d\n", cfg.API.Port)
	_, _ = fmt.Fprintf(out, "  Log level:       %s\n", cfg.Logging.Level)

	return nil
}
