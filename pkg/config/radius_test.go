package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func validRadius() RadiusConfig {
	return RadiusConfig{
		Server:   "radius.example.com",
		Port:     1812,
		Secret:   "testing123",
		Timeout:  5 * time.Second,
		MaxTries: 3,
	}
}

func TestDiagnose_Valid(t *testing.T) {
	cfg := validRadius()
	assert.NoError(t, cfg.Diagnose())

	cfg.Port = 0
	cfg.Timeout = 0
	cfg.MaxTries = 0
	assert.NoError(t, cfg.Diagnose(), "zero values are in range")
}

func TestDiagnose_Problems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RadiusConfig)
		field  string
	}{
		{"MissingServer", func(c *RadiusConfig) { c.Server = "" }, "server"},
		{"MissingSecret", func(c *RadiusConfig) { c.Secret = "" }, "secret"},
		{"PortTooHigh", func(c *RadiusConfig) { c.Port = 65536 }, "port"},
		{"NegativePort", func(c *RadiusConfig) { c.Port = -1 }, "port"},
		{"NegativeTimeout", func(c *RadiusConfig) { c.Timeout = -time.Second }, "timeout"},
		{"TimeoutWithoutUnit", func(c *RadiusConfig) { c.Timeout = 5 }, "timeout"},
		{"NegativeMaxTries", func(c *RadiusConfig) { c.MaxTries = -1 }, "max_tries"},
		{"IPv6NASAddress", func(c *RadiusConfig) { c.NASIPAddress = "2001:db8::1" }, "nas_ip_address"},
		{"GarbageNASAddress", func(c *RadiusConfig) { c.NASIPAddress = "nas-1" }, "nas_ip_address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validRadius()
			tt.mutate(&cfg)

			err := cfg.Diagnose()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMisconfigured))

			problems := multierr.Errors(err)
			require.Len(t, problems, 1)

			var p *Problem
			require.True(t, errors.As(problems[0], &p))
			assert.Equal(t, tt.field, p.Field)
		})
	}
}

func TestDiagnose_AggregatesAllProblems(t *testing.T) {
	cfg := RadiusConfig{Port: -5, MaxTries: -1}

	problems := multierr.Errors(cfg.Diagnose())
	assert.Len(t, problems, 4) // server, port, secret, max_tries
}

func TestRadiusAddress(t *testing.T) {
	cfg := validRadius()
	assert.Equal(t, "radius.example.com:1812", cfg.Address())

	cfg.Port = 0
	assert.Equal(t, "radius.example.com:1812", cfg.Address())

	cfg.Server = "2001:db8::10"
	cfg.Port = 1645
	assert.Equal(t, "[2001:db8::10]:1645", cfg.Address())
}

func TestRadiusDeadline(t *testing.T) {
	cfg := validRadius()
	assert.Equal(t, 20*time.Second, cfg.Deadline())

	cfg.MaxTries = 0
	assert.Equal(t, 5*time.Second, cfg.Deadline())

	cfg.Timeout = 0
	cfg.MaxTries = -3
	assert.Equal(t, DefaultRadiusTimeout, cfg.Deadline())
}

func TestRadiusRedacted(t *testing.T) {
	cfg := validRadius()
	red := cfg.Redacted()

	assert.Equal(t, "********", red.Secret)
	assert.Equal(t, "testing123", cfg.Secret, "original untouched")

	cfg.Secret = ""
	assert.Empty(t, cfg.Redacted().Secret)
}
