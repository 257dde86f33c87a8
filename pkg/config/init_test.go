package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestInitConfig_Success(t *testing.T) {
	// Using HOME doesn't work on Windows where os.UserHomeDir() reads USERPROFILE.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	configPath, err := InitConfig(false)
	if err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	contentStr := string(content)
	for _, section := range []string{
		"# radiusauth Configuration File",
		"logging:",
		"telemetry:",
		"api:",
		"radius:",
		"max_tries: 3",
	} {
		if !strings.Contains(contentStr, section) {
			t.Errorf("Config file missing section: %s", section)
		}
	}

	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		t.Fatalf("Generated config is not valid YAML: %v", err)
	}
}

func TestInitConfig_AlreadyExists(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if _, err := InitConfig(false); err != nil {
		t.Fatalf("First InitConfig failed: %v", err)
	}

	_, err := InitConfig(false)
	if err == nil {
		t.Fatal("Expected error when config already exists")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("Expected 'already exists' error, got: %v", err)
	}

	if _, err := InitConfig(true); err != nil {
		t.Fatalf("InitConfig with force failed: %v", err)
	}
}

func TestGeneratedConfigIsLoadable(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "custom", "config.yaml")

	if err := InitConfigToPath(configPath, false); err != nil {
		t.Fatalf("InitConfigToPath failed: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected INFO log level in generated config, got %q", cfg.Logging.Level)
	}
	if cfg.Radius.Port != DefaultRadiusPort {
		t.Errorf("Expected radius port %d, got %d", DefaultRadiusPort, cfg.Radius.Port)
	}
	if cfg.Radius.Timeout != DefaultRadiusTimeout {
		t.Errorf("Expected radius timeout %v, got %v", DefaultRadiusTimeout, cfg.Radius.Timeout)
	}
	if len(cfg.API.JWT.Secret) < 32 {
		t.Errorf("Expected JWT secret to be at least 32 chars, got %d", len(cfg.API.JWT.Secret))
	}

	// The sample leaves the shared secret for the operator to fill in.
	if err := cfg.Radius.Diagnose(); err == nil || !strings.Contains(err.Error(), "radius.secret") {
		t.Errorf("Expected generated config to report a missing secret, got: %v", err)
	}
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	if err != nil {
		t.Fatalf("Schema failed: %v", err)
	}

	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		t.Fatalf("Schema is not valid JSON: %v", err)
	}

	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatalf("Schema has no properties: %s", data)
	}
	for _, key := range []string{"logging", "telemetry", "api", "radius", "shutdown_timeout"} {
		if _, ok := props[key]; !ok {
			t.Errorf("Schema missing property %q", key)
		}
	}
}
