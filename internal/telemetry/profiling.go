package telemetry

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/grafana/pyroscope-go"

	"github.com/marmos91/radiusauth/internal/logger"
	"github.com/marmos91/radiusauth/pkg/config"
)

// profileTypes maps telemetry.profiling.profile_types values to Pyroscope types.
var profileTypes = map[string]pyroscope.ProfileType{
	"cpu":            pyroscope.ProfileCPU,
	"alloc_objects":  pyroscope.ProfileAllocObjects,
	"alloc_space":    pyroscope.ProfileAllocSpace,
	"inuse_objects":  pyroscope.ProfileInuseObjects,
	"inuse_space":    pyroscope.ProfileInuseSpace,
	"goroutines":     pyroscope.ProfileGoroutines,
	"mutex_count":    pyroscope.ProfileMutexCount,
	"mutex_duration": pyroscope.ProfileMutexDuration,
	"block_count":    pyroscope.ProfileBlockCount,
	"block_duration": pyroscope.ProfileBlockDuration,
}

var profilingEnabled atomic.Bool

// InitProfiling starts Pyroscope continuous profiling from cfg.
//
// Profiles are tagged with the service version and, when radius is set,
// the RADIUS server so latency spikes can be matched to a backend.
// Returns a shutdown function that stops the profiler.
func InitProfiling(cfg config.ProfilingConfig, version string, radius *config.RadiusConfig) (shutdown func() error, err error) {
	if !cfg.Enabled {
		profilingEnabled.Store(false)
		return func() error { return nil }, nil
	}

	types := make([]pyroscope.ProfileType, 0, len(cfg.ProfileTypes))
	for _, name := range cfg.ProfileTypes {
		pt, err := parseProfileType(name)
		if err != nil {
			return nil, fmt.Errorf("invalid profile type %q: %w", name, err)
		}
		types = append(types, pt)

		switch pt {
		case pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration:
			runtime.SetMutexProfileFraction(5)
		case pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration:
			runtime.SetBlockProfileRate(5)
		}
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: ServiceName,
		ServerAddress:   cfg.Endpoint,
		Logger:          profilerLogger{},
		Tags:            profileTags(version, radius),
		ProfileTypes:    types,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start Pyroscope profiler: %w", err)
	}
	profilingEnabled.Store(true)

	return func() error {
		profilingEnabled.Store(false)
		return profiler.Stop()
	}, nil
}

// IsProfilingEnabled returns whether profiling is enabled
func IsProfilingEnabled() bool {
	return profilingEnabled.Load()
}

func profileTags(version string, radius *config.RadiusConfig) map[string]string {
	tags := map[string]string{"version": version}
	if radius != nil && radius.Server != "" {
		tags["radius_server"] = radius.Address()
	}
	return tags
}

func parseProfileType(name string) (pyroscope.ProfileType, error) {
	pt, ok := profileTypes[name]
	if !ok {
		return "", fmt.Errorf("unknown profile type: %s", name)
	}
	return pt, nil
}

// profilerLogger routes Pyroscope's own messages into the service log.
type profilerLogger struct{}

func (profilerLogger) Infof(format string, args ...any) {
	logger.Debug(fmt.Sprintf(format, args...), logger.KeyComponent, "pyroscope")
}

func (profilerLogger) Debugf(format string, args ...any) {
	logger.Debug(fmt.Sprintf(format, args...), logger.KeyComponent, "pyroscope")
}

func (profilerLogger) Errorf(format string, args ...any) {
	logger.Error(fmt.Sprintf(format, args...), logger.KeyComponent, "pyroscope")
}
