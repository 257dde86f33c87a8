package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/marmos91/radiusauth/internal/cli/output"
	"github.com/marmos91/radiusauth/internal/logger"
	"github.com/marmos91/radiusauth/pkg/auth"
	"github.com/marmos91/radiusauth/pkg/auth/radius"
	"github.com/marmos91/radiusauth/pkg/config"
)

// radiusOptions are appended to every provider the commands build.
// Tests use it to swap in a fake RADIUS server.
var radiusOptions []radius.Option

// InitLogger initializes the structured logger from configuration.
func InitLogger(cfg *config.Config) error {
	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// initCLILogger is InitLogger for one-shot commands. Logs that would go to
// stdout are sent to stderr so they never mix with command output.
func initCLILogger(cfg *config.Config) error {
	logging := *cfg
	if logging.Logging.Output == "stdout" {
		logging.Logging.Output = "stderr"
	}
	return InitLogger(&logging)
}

// newManager builds the authentication manager with the RADIUS provider.
// reg may be nil, in which case provider metrics are disabled.
func newManager(cfg *config.Config, reg prometheus.Registerer) *auth.Manager {
	opts := []radius.Option{radius.WithMetrics(radius.NewMetrics(reg))}
	opts = append(opts, radiusOptions...)

	radiusCfg := cfg.Radius
	return auth.NewManager(radius.NewProvider(&radiusCfg, opts...))
}

// newPrinter parses the --output flag value.
func newPrinter(w io.Writer, format string) (*output.Printer, error) {
	f, err := output.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return output.NewPrinter(w, f, isTerminal(w)), nil
}

// isTerminal reports whether w is a character device and NO_COLOR is unset.
func isTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// getConfigSource returns a description of where the config was loaded from.
func getConfigSource(configFile string) string {
	if configFile != "" {
		return configFile
	}
	if config.DefaultConfigExists() {
		return config.GetDefaultConfigPath()
	}
	return "defaults"
}
