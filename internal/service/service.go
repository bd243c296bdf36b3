// Package service renders and installs the OS service definition that keeps
// the monitor daemon running: a launchd agent on macOS, a systemd unit
// elsewhere.
package service

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// Label is the launchd job label. It predates this codebase; keeping it
// means upgrades replace the old agent instead of installing a second one.
const Label = "com.ad-setup.enterprise"

// UnitName is the systemd unit file name.
const UnitName = "ad-setup.service"

// Definition carries everything the rendered service file needs to know.
type Definition struct {
	DaemonPath string
	ConfigPath string
	LogDir     string
}

// Render produces the service file for the current platform.
func Render(def Definition) ([]byte, error) {
	return renderFor(runtime.GOOS, def)
}

func renderFor(goos string, def Definition) ([]byte, error) {
	if def.DaemonPath == "" {
		return nil, errors.New("service definition requires the daemon binary path")
	}
	if goos == "darwin" {
		return renderLaunchd(def)
	}
	return renderSystemd(def), nil
}

// InstallPath is where the service file lives on the current platform.
func InstallPath() (string, error) {
	return installPathFor(runtime.GOOS)
}

func installPathFor(goos string) (string, error) {
	if goos == "darwin" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, "Library", "LaunchAgents", Label+".plist"), nil
	}
	return filepath.Join("/etc/systemd/system", UnitName), nil
}

// Install writes the rendered service file and returns its path.
func Install(def Definition) (string, error) {
	data, err := Render(def)
	if err != nil {
		return "", err
	}

	path, err := InstallPath()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create service directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write service file: %w", err)
	}

	return path, nil
}

// Uninstall removes the installed service file. Removing a service that was
// never installed is not an error.
func Uninstall() (string, error) {
	path, err := InstallPath()
	if err != nil {
		return "", err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return path, nil
		}
		return "", fmt.Errorf("failed to remove service file: %w", err)
	}
	return path, nil
}

// Installed reports whether the service file exists and where.
func Installed() (string, bool, error) {
	path, err := InstallPath()
	if err != nil {
		return "", false, err
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return path, false, nil
		}
		return path, false, fmt.Errorf("failed to stat service file: %w", err)
	}
	return path, true, nil
}

// ActivateHint tells the operator how to start the freshly installed
// service on this platform.
func ActivateHint() string {
	return activateHintFor(runtime.GOOS)
}

func activateHintFor(goos string) string {
	if goos == "darwin" {
		path, err := installPathFor(goos)
		if err != nil {
			path = "~/Library/LaunchAgents/" + Label + ".plist"
		}
		return fmt.Sprintf("launchctl load %s", path)
	}
	return fmt.Sprintf("systemctl daemon-reload && systemctl enable --now %s", UnitName)
}
