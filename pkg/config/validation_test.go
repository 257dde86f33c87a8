package config

import (
	"strings"
	"testing"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	if err := Validate(cfg); err != nil {
		t.Errorf("Expected valid config to pass validation, got error: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Level = "INVALID"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for invalid log level")
	}
	if !strings.Contains(err.Error(), "oneof") {
		t.Errorf("Expected 'oneof' validation error, got: %v", err)
	}
}

func TestValidate_InvalidLogFormat(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Format = "xml"

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for invalid log format")
	}
}

func TestValidate_InvalidAPIPort(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.API.Port = 70000

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for port out of range")
	}
	if !strings.Contains(err.Error(), "max") {
		t.Errorf("Expected 'max' validation error, got: %v", err)
	}
}

func TestValidate_SampleRateOutOfRange(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Telemetry.SampleRate = 1.5

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for sample rate above 1")
	}
}

func TestValidate_ShortJWTSecret(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.API.JWT.Secret = "too-short"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for short JWT secret")
	}
	if !strings.Contains(err.Error(), "min") {
		t.Errorf("Expected 'min' validation error, got: %v", err)
	}
}

func TestValidate_UnknownProfileType(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Telemetry.Profiling.ProfileTypes = []string{"cpu", "heap"}

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for unknown profile type")
	}
}

func TestValidate_IgnoresRadiusSection(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Radius.Port = -1
	cfg.Radius.Secret = ""

	if err := Validate(cfg); err != nil {
		t.Errorf("Validate must not reject the radius section, got: %v", err)
	}
}

func TestValidateStrict_IncludesRadiusProblems(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Radius.Secret = ""

	err := ValidateStrict(cfg)
	if err == nil {
		t.Fatal("Expected strict validation to fail without a secret")
	}
	if !strings.Contains(err.Error(), "radius.secret") {
		t.Errorf("Expected radius.secret problem, got: %v", err)
	}
}
