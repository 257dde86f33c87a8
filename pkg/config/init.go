package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

const sampleConfigTemplate = `# radiusauth Configuration File
#
# Environment variables override file values with the RADIUSAUTH_ prefix,
# e.g. RADIUSAUTH_LOGGING_LEVEL=DEBUG. Secrets can be supplied with
# RADIUSAUTH_RADIUS_SECRET and RADIUSAUTH_API_SECRET.

logging:
  level: INFO      # DEBUG, INFO, WARN, ERROR
  format: text     # text, json
  output: stdout   # stdout, stderr, or a file path

telemetry:
  enabled: false
  endpoint: localhost:4317
  insecure: true
  sample_rate: 1.0
  profiling:
    enabled: false
    endpoint: http://localhost:4040

metrics:
  enabled: false

shutdown_timeout: 30s

api:
  port: 8080
  read_timeout: 10s
  write_timeout: 10s
  idle_timeout: 60s
  jwt:
    secret: "%s"
    access_token_duration: 15m

radius:
  server: localhost
  port: %d
  secret: ""          # shared secret; prefer RADIUSAUTH_RADIUS_SECRET
  timeout: %s         # wait per try before retransmitting
  max_tries: %d       # retransmissions after the first request
  nas_identifier: ""  # default: host name
  nas_ip_address: ""  # optional IPv4 address
`

// InitConfig writes a sample configuration to the default location and
// returns its path. An existing file is only replaced when force is true.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}
	return path, nil
}

// InitConfigToPath writes a sample configuration to path.
// An existing file is only replaced when force is true.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", path)
		}
	}

	secret, err := generateSecret()
	if err != nil {
		return fmt.Errorf("failed to generate JWT secret: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content := fmt.Sprintf(sampleConfigTemplate, secret, DefaultRadiusPort, DefaultRadiusTimeout, DefaultRadiusMaxTries)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// generateSecret returns 32 random bytes, hex encoded.
func generateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
