package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and validates the configuration at path. A missing file is
// reported as-is (wrapping fs.ErrNotExist) so callers can fall back to
// Default and keep going; any other failure means the file exists but is
// unusable and should stop startup.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Default returns a configuration with every section set to its defaults,
// the same values a file with no keys would produce.
func Default() *Config {
	return &Config{
		General:       DefaultGeneralConfig,
		Monitoring:    DefaultMonitoringConfig,
		Notifications: DefaultNotificationsConfig,
		History:       DefaultHistoryConfig,
		UI:            DefaultUIConfig,
	}
}

// UnmarshalYAML installs the defaults before decoding so that absent keys
// keep their default values instead of zeroing out.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type raw Config
	cfg := raw{
		General:       DefaultGeneralConfig,
		Monitoring:    DefaultMonitoringConfig,
		Notifications: DefaultNotificationsConfig,
		History:       DefaultHistoryConfig,
		UI:            DefaultUIConfig,
	}

	if err := unmarshal(&cfg); err != nil {
		return err
	}

	*c = Config(cfg)
	return nil
}
