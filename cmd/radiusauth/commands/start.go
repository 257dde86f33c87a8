package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/radiusauth/internal/logger"
	"github.com/marmos91/radiusauth/internal/telemetry"
	"github.com/marmos91/radiusauth/pkg/api"
	"github.com/marmos91/radiusauth/pkg/config"
	"github.com/marmos91/radiusauth/pkg/metrics"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the radiusauth API server",
	Long: `Start the radiusauth HTTP API with the specified configuration.

The server runs in the foreground until interrupted. Use a process supervisor
(systemd, Kubernetes) to run it in the background.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/radiusauth/config.yaml.

Examples:
  # Start with the default config
  radiusauth start

  # Start with custom config file
  radiusauth start --config /etc/radiusauth/config.yaml

  # Start with environment variable overrides
  RADIUSAUTH_LOGGING_LEVEL=DEBUG radiusauth start`,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryShutdown, err := telemetry.Init(ctx, cfg.Telemetry, Version)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetryShutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", logger.KeyError, err)
		}
	}()

	profilingShutdown, err := telemetry.InitProfiling(cfg.Telemetry.Profiling, Version, &cfg.Radius)
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", logger.KeyError, err)
		}
	}()

	logger.Info("Log level", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	logger.Info("Configuration loaded", "source", getConfigSource(GetConfigFile()))
	if telemetry.IsEnabled() {
		logger.Info("Telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	} else {
		logger.Info("Telemetry disabled")
	}
	if telemetry.IsProfilingEnabled() {
		logger.Info("Profiling enabled", "endpoint", cfg.Telemetry.Profiling.Endpoint, "profile_types", cfg.Telemetry.Profiling.ProfileTypes)
	} else {
		logger.Info("Profiling disabled")
	}

	// Metrics must be enabled before components register their collectors.
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		logger.Info("Metrics enabled", "path", "/metrics")
	} else {
		logger.Info("Metrics collection disabled")
	}

	manager := newManager(cfg, metrics.Registerer())
	radiusCfg := cfg.Radius.Redacted()
	logger.Info("RADIUS provider configured",
		logger.KeyServer, radiusCfg.Address(),
		logger.KeyTimeout, radiusCfg.Timeout.String(),
		logger.KeyMaxTries, radiusCfg.MaxTries)

	apiServer, err := api.NewServer(cfg.API, manager)
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}

	serverCtx, stopServer := context.WithCancel(ctx)
	defer stopServer()

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- apiServer.Start(serverCtx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	logger.Info("Server is running. Press Ctrl+C to stop.")

	select {
	case <-sigChan:
		logger.Info("Shutdown signal received, initiating graceful shutdown")

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancelShutdown()
		if err := apiServer.Stop(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", logger.KeyError, err)
			return err
		}
		stopServer()
		<-serverDone
		logger.Info("Server stopped gracefully")

	case err := <-serverDone:
		if err != nil {
			logger.Error("Server error", logger.KeyError, err)
			return err
		}
		logger.Info("Server stopped")
	}

	return nil
}
