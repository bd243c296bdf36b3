package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Paths resolves every per-user file location the tool uses. Resolution
// happens once at startup so a changed HOME mid-run has no effect.
type Paths struct {
	Config      string
	Credentials string
	Status      string
	HistoryDB   string
	LogDir      string
	Log         string
	ErrorLog    string
}

// ResolvePaths builds the standard path set under the current user's home
// directory. The log directory is platform dependent: ~/Library/Logs on
// macOS, /var/log elsewhere.
func ResolvePaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}

	configDir := filepath.Join(home, ".config", constConfigDirName)
	stateDir := filepath.Join(home, constStateDirName)
	logDir := logDirFor(runtime.GOOS, home)

	return &Paths{
		Config:      filepath.Join(configDir, constConfigFileName),
		Credentials: filepath.Join(configDir, constCredsFileName),
		Status:      filepath.Join(stateDir, constStatusFileName),
		HistoryDB:   filepath.Join(stateDir, constHistoryDBName),
		LogDir:      logDir,
		Log:         filepath.Join(logDir, constLogFileName),
		ErrorLog:    filepath.Join(logDir, constErrLogFileName),
	}, nil
}

func logDirFor(goos, home string) string {
	if goos == "darwin" {
		return filepath.Join(home, "Library", "Logs", constConfigDirName)
	}
	return filepath.Join("/var/log", constConfigDirName)
}
