package radius

import (
	"os"
	"sync"

	"github.com/marmos91/radiusauth/pkg/config"
)

// defaultHostname is the process-wide NAS-Identifier fallback.
var defaultHostname = onceHostname(os.Hostname)

// onceHostname memoizes lookup. A failed lookup yields "".
func onceHostname(lookup func() (string, error)) func() string {
	return sync.OnceValue(func() string {
		name, err := lookup()
		if err != nil {
			return ""
		}
		return name
	})
}

// NASIdentifier returns the configured NAS-Identifier, or the local host
// name when none is configured.
func NASIdentifier(cfg *config.RadiusConfig) string {
	return nasIdentifier(cfg, defaultHostname)
}

func nasIdentifier(cfg *config.RadiusConfig, hostname func() string) string {
	if cfg.NASIdentifier != "" {
		return cfg.NASIdentifier
	}
	return hostname()
}
