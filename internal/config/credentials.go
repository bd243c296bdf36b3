package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	EnvironmentSandbox    = "sandbox"
	EnvironmentProduction = "production"
)

// Credentials holds the DNS provider secrets collected by `ad-setup
// configure`. They are stored separately from the main config so the config
// file can stay world-readable.
type Credentials struct {
	Namecheap NamecheapCredentials `yaml:"namecheap"`
}

type NamecheapCredentials struct {
	APIUser     string `yaml:"api_user"`
	APIKey      string `yaml:"api_key"`
	Environment string `yaml:"environment"`
}

func (c *Credentials) validate() error {
	env := c.Namecheap.Environment
	if env != EnvironmentSandbox && env != EnvironmentProduction {
		return fmt.Errorf(fmtErrInvalidConfigOption, "namecheap.environment",
			fmt.Sprintf("must be %q or %q", EnvironmentSandbox, EnvironmentProduction))
	}
	return nil
}

// SaveCredentials writes the credentials file with owner-only permissions,
// creating the config directory if needed. An existing file is replaced and
// forced back to 0600 in case it had drifted.
func SaveCredentials(path string, creds *Credentials) error {
	if err := creds.validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}

	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("failed to restrict credentials file permissions: %w", err)
	}

	return nil
}

// LoadCredentials reads the credentials file, refusing files readable by
// group or other so a leaked key shows up as an error instead of silently
// working.
func LoadCredentials(path string) (*Credentials, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	if mode := info.Mode().Perm(); mode&0o077 != 0 {
		return nil, fmt.Errorf("credentials file %s has mode %04o, expected 0600", path, mode)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	if err := creds.validate(); err != nil {
		return nil, err
	}

	return &creds, nil
}
