package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing file, got nil")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected fs.ErrNotExist in chain, got %v", err)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Error("Expected error for empty path, got nil")
	}
}

func TestLoadAppliesDefaultsForAbsentKeys(t *testing.T) {
	path := writeTestConfig(t, "general:\n  health_check_interval: 15\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.General.HealthCheckInterval != 15 {
		t.Errorf("Expected interval 15, got %d", cfg.General.HealthCheckInterval)
	}
	if cfg.General.LogLevel != "INFO" {
		t.Errorf("Expected default log level INFO, got %q", cfg.General.LogLevel)
	}
	if !cfg.Monitoring.EnableNotifications {
		t.Error("Expected notifications enabled by default")
	}
	if cfg.Notifications.Port != 1883 {
		t.Errorf("Expected default broker port 1883, got %d", cfg.Notifications.Port)
	}
	if cfg.History.RetentionDays != 7 {
		t.Errorf("Expected default retention 7, got %d", cfg.History.RetentionDays)
	}
	if cfg.UI.Port != 8080 {
		t.Errorf("Expected default ui port 8080, got %d", cfg.UI.Port)
	}
}

func TestLoadExplicitValuesOverrideDefaults(t *testing.T) {
	path := writeTestConfig(t, `
general:
  health_check_interval: 120
  log_level: DEBUG
monitoring:
  enable_notifications: false
notifications:
  broker: mqtt.example.com
  port: 8883
  topic: infra/ad
history:
  enabled: false
  retention_days: 30
ui:
  port: 9000
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.General.HealthCheckInterval != 120 || cfg.General.LogLevel != "DEBUG" {
		t.Errorf("Unexpected general section: %+v", cfg.General)
	}
	if cfg.Monitoring.EnableNotifications {
		t.Error("Expected notifications disabled")
	}
	if cfg.Notifications.Broker != "mqtt.example.com" || cfg.Notifications.Port != 8883 || cfg.Notifications.Topic != "infra/ad" {
		t.Errorf("Unexpected notifications section: %+v", cfg.Notifications)
	}
	if cfg.History.Enabled || cfg.History.RetentionDays != 30 {
		t.Errorf("Unexpected history section: %+v", cfg.History)
	}
	if cfg.UI.Port != 9000 {
		t.Errorf("Expected ui port 9000, got %d", cfg.UI.Port)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeTestConfig(t, "general: [not\n  a: map\n")
	if _, err := Load(path); err == nil {
		t.Error("Expected parse error, got nil")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeTestConfig(t, "general:\n  health_check_interval: -1\n")
	if _, err := Load(path); err == nil {
		t.Error("Expected validation error, got nil")
	}
}

func TestSaveAndLoadCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets", "credentials.yaml")
	creds := &Credentials{Namecheap: NamecheapCredentials{
		APIUser:     "ops",
		APIKey:      "abc123",
		Environment: EnvironmentSandbox,
	}}

	if err := SaveCredentials(path, creds); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat credentials: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("Expected mode 0600, got %04o", perm)
	}

	loaded, err := LoadCredentials(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if *loaded != *creds {
		t.Errorf("Expected %+v, got %+v", creds, loaded)
	}
}

func TestSaveCredentialsRejectsUnknownEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	creds := &Credentials{Namecheap: NamecheapCredentials{Environment: "staging"}}
	if err := SaveCredentials(path, creds); err == nil {
		t.Error("Expected error for unknown environment, got nil")
	}
}

func TestLoadCredentialsRejectsLoosePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	content := "namecheap:\n  api_user: ops\n  api_key: k\n  environment: sandbox\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write credentials: %v", err)
	}

	if _, err := LoadCredentials(path); err == nil {
		t.Error("Expected permission error, got nil")
	}
}

func TestResolvePathsLogDir(t *testing.T) {
	if dir := logDirFor("darwin", "/Users/kai"); dir != "/Users/kai/Library/Logs/ad-setup" {
		t.Errorf("Unexpected darwin log dir %q", dir)
	}
	if dir := logDirFor("linux", "/home/kai"); dir != "/var/log/ad-setup" {
		t.Errorf("Unexpected linux log dir %q", dir)
	}
}
