package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/tiation/tiation-active-directory-setup/internal/service"
	"github.com/tiation/tiation-active-directory-setup/internal/status"
)

// daemonBinary is the monitor daemon started by the OS service.
const daemonBinary = "ad-setup-daemon"

func newServiceCommand(app *App) *Command {
	return &Command{
		Name:    "service",
		Summary: "Manage the monitor daemon's OS service",
		Usage:   "ad-setup service <command>",
		Subcommands: []*Command{
			newServiceInstallCommand(app),
			newServiceUninstallCommand(app),
			newServiceStatusCommand(app),
		},
	}
}

func newServiceInstallCommand(app *App) *Command {
	var printOnly bool

	return &Command{
		Name:    "install",
		Summary: "Install the service file that keeps the daemon running",
		Usage:   "ad-setup service install [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("install", pflag.ContinueOnError)
			flagSet.BoolVar(&printOnly, "print", false, "print the service file instead of installing it")
			return flagSet
		},
		Run: func(args []string) error {
			daemonPath, err := findSiblingBinary(daemonBinary)
			if err != nil {
				return err
			}

			def := service.Definition{
				DaemonPath: daemonPath,
				ConfigPath: app.Paths.Config,
				LogDir:     app.Paths.LogDir,
			}

			if printOnly {
				data, err := service.Render(def)
				if err != nil {
					return err
				}
				_, err = app.Stdout.Write(data)
				return err
			}

			path, err := service.Install(def)
			if err != nil {
				return err
			}

			fmt.Fprintf(app.Stdout, "Service file installed: %s\n", path)
			fmt.Fprintln(app.Stdout)
			fmt.Fprintln(app.Stdout, "To activate it:")
			fmt.Fprintf(app.Stdout, "  $ %s\n", service.ActivateHint())
			return nil
		},
	}
}

func newServiceUninstallCommand(app *App) *Command {
	return &Command{
		Name:    "uninstall",
		Summary: "Remove the installed service file",
		Usage:   "ad-setup service uninstall",
		Flags: func() *pflag.FlagSet {
			return pflag.NewFlagSet("uninstall", pflag.ContinueOnError)
		},
		Run: func(args []string) error {
			path, installed, err := service.Installed()
			if err != nil {
				return err
			}
			if !installed {
				fmt.Fprintf(app.Stdout, "No service file installed at %s.\n", path)
				return nil
			}

			if _, err := service.Uninstall(); err != nil {
				return err
			}
			fmt.Fprintf(app.Stdout, "Service file removed: %s\n", path)
			return nil
		},
	}
}

func newServiceStatusCommand(app *App) *Command {
	return &Command{
		Name:    "status",
		Summary: "Show whether the service is installed and the daemon alive",
		Usage:   "ad-setup service status",
		Flags: func() *pflag.FlagSet {
			return pflag.NewFlagSet("status", pflag.ContinueOnError)
		},
		Run: func(args []string) error {
			path, installed, err := service.Installed()
			if err != nil {
				return err
			}
			if installed {
				fmt.Fprintf(app.Stdout, "Service file: installed at %s\n", path)
			} else {
				fmt.Fprintf(app.Stdout, "Service file: not installed (would be %s)\n", path)
			}

			snap, err := status.Read(app.Paths.Status)
			switch {
			case errors.Is(err, status.ErrNotAvailable):
				fmt.Fprintln(app.Stdout, "Daemon: no status written yet")
			case err != nil:
				fmt.Fprintf(app.Stdout, "Daemon: status unreadable (%v)\n", err)
			case snap.Stale(time.Now(), status.DefaultStaleThreshold):
				fmt.Fprintf(app.Stdout, "Daemon: stopped (last check %s)\n", humanize.Time(snap.Timestamp))
			default:
				fmt.Fprintf(app.Stdout, "Daemon: running, PID %d (last check %s)\n",
					snap.Daemon.PID, humanize.Time(snap.Timestamp))
			}

			if !installed {
				fmt.Fprintln(app.Stdout)
				fmt.Fprintln(app.Stdout, "Install with: ad-setup service install")
			}
			return nil
		},
	}
}
