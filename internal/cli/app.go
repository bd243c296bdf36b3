package cli

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"

	"github.com/tiation/tiation-active-directory-setup/internal/config"
)

// App carries what every command needs: output streams, interactive input,
// resolved paths, a logger, and build information.
type App struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Prompter Prompter
	Logger   *slog.Logger
	Paths    *config.Paths
	Version  VersionInfo
}

// VersionInfo is stamped in by the build.
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// LoadConfig reads the user's configuration, falling back to defaults when
// no file exists yet.
func (a *App) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.Paths.Config)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			a.Logger.Debug("no configuration file, using defaults", "path", a.Paths.Config)
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Root builds the ad-setup command tree.
func Root(app *App) *Command {
	return &Command{
		Name:    "ad-setup",
		Summary: "AD-Setup Enterprise - Active Directory automation",
		Usage:   "ad-setup <command> [flags]",
		Subcommands: []*Command{
			newConfigureCommand(app),
			newDeployCommand(app),
			newDeployMultiCommand(app),
			newStatusCommand(app),
			newHistoryCommand(app),
			newLogsCommand(app),
			newUICommand(app),
			newServiceCommand(app),
			newVersionCommand(app),
		},
	}
}
