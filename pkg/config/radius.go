package config

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"time"

	"go.uber.org/multierr"
)

// EnvRadiusSecret is the environment variable overriding the RADIUS shared secret.
const EnvRadiusSecret = EnvPrefix + "_RADIUS_SECRET"

const (
	// DefaultRadiusPort is the IANA port for RADIUS authentication.
	DefaultRadiusPort = 1812

	// DefaultRadiusTimeout is the per-try wait for a reply.
	DefaultRadiusTimeout = 5 * time.Second

	// DefaultRadiusMaxTries is the retry budget written by init.
	DefaultRadiusMaxTries = 3
)

// RadiusConfig configures the RADIUS server the primary provider delegates to.
//
// The struct is immutable once loaded and passed by pointer to the provider.
// Invalid values are reported by Diagnose but never rejected at load time.
type RadiusConfig struct {
	// Server is the RADIUS server host name or IP address.
	Server string `mapstructure:"server" yaml:"server" json:"server"`

	// Port is the RADIUS authentication port, 0-65535.
	// Default: 1812 (when 0)
	Port int `mapstructure:"port" yaml:"port" json:"port"`

	// Secret is the shared secret used to encrypt User-Password and sign replies.
	// RADIUSAUTH_RADIUS_SECRET takes precedence over the config file.
	Secret string `mapstructure:"secret" yaml:"secret" json:"secret"`

	// Timeout is how long to wait for a reply before retransmitting.
	// Default: 5s (when 0)
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`

	// MaxTries is the number of retransmissions after the first request.
	// 0 sends a single request.
	MaxTries int `mapstructure:"max_tries" yaml:"max_tries" json:"max_tries"`

	// NASIdentifier is sent as the NAS-Identifier attribute.
	// Default: the local host name.
	NASIdentifier string `mapstructure:"nas_identifier" yaml:"nas_identifier" json:"nas_identifier,omitempty"`

	// NASIPAddress is sent as the NAS-IP-Address attribute when set.
	// Must be an IPv4 address.
	NASIPAddress string `mapstructure:"nas_ip_address" yaml:"nas_ip_address" json:"nas_ip_address,omitempty"`
}

// Problem describes one misconfigured field.
type Problem struct {
	Field   string
	Message string
}

func (p *Problem) Error() string {
	return fmt.Sprintf("radius.%s: %s", p.Field, p.Message)
}

// ErrMisconfigured is wrapped by every Problem returned from Diagnose.
var ErrMisconfigured = errors.New("radius misconfigured")

// Is makes errors.Is(problem, ErrMisconfigured) hold.
func (p *Problem) Is(target error) bool {
	return target == ErrMisconfigured
}

// Diagnose reports every misconfigured field as one aggregated error.
// Use multierr.Errors to split the result. A nil return means no problems.
func (c *RadiusConfig) Diagnose() error {
	var err error
	add := func(field, format string, args ...any) {
		err = multierr.Append(err, &Problem{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.Server == "" {
		add("server", "is not defined")
	}
	if c.Port < 0 || c.Port > 65535 {
		add("port", "%d is not a valid port (0-65535)", c.Port)
	}
	if c.Secret == "" {
		add("secret", "is not defined")
	}
	if c.Timeout < 0 {
		add("timeout", "%s must not be negative", c.Timeout)
	} else if c.Timeout > 0 && c.Timeout < time.Millisecond {
		add("timeout", "%s is below 1ms; use a unit such as 5s", c.Timeout)
	}
	if c.MaxTries < 0 {
		add("max_tries", "%d must not be negative", c.MaxTries)
	}
	if c.NASIPAddress != "" {
		if addr, perr := netip.ParseAddr(c.NASIPAddress); perr != nil || !addr.Is4() {
			add("nas_ip_address", "%q is not an IPv4 address", c.NASIPAddress)
		}
	}

	return err
}

// Address returns server:port for dialing.
func (c *RadiusConfig) Address() string {
	port := c.Port
	if port == 0 {
		port = DefaultRadiusPort
	}
	return net.JoinHostPort(c.Server, strconv.Itoa(port))
}

// Deadline returns the longest time one exchange may take:
// Timeout × (MaxTries + 1).
func (c *RadiusConfig) Deadline() time.Duration {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultRadiusTimeout
	}
	tries := c.MaxTries
	if tries < 0 {
		tries = 0
	}
	return timeout * time.Duration(tries+1)
}

// Redacted returns a copy safe to print, with the secret masked.
func (c *RadiusConfig) Redacted() RadiusConfig {
	r := *c
	if r.Secret != "" {
		r.Secret = "********"
	}
	return r
}
