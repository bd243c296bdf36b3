package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/tiation/tiation-active-directory-setup/internal/service"
	"github.com/tiation/tiation-active-directory-setup/internal/status"
)

func newStatusCommand(app *App) *Command {
	return &Command{
		Name:    "status",
		Summary: "Check the status of AD forests",
		Usage:   "ad-setup status",
		Flags: func() *pflag.FlagSet {
			return pflag.NewFlagSet("status", pflag.ContinueOnError)
		},
		Run: func(args []string) error {
			fmt.Fprintln(app.Stdout, "AD Forest Status")
			fmt.Fprintln(app.Stdout, strings.Repeat("=", 60))

			snap, err := status.Read(app.Paths.Status)
			switch {
			case errors.Is(err, status.ErrNotAvailable):
				fmt.Fprintln(app.Stdout, "No status information available.")
				fmt.Fprintln(app.Stdout, "The daemon may not be running.")
				fmt.Fprintln(app.Stdout)
				fmt.Fprintln(app.Stdout, "To start the daemon:")
				fmt.Fprintf(app.Stdout, "  $ %s\n", service.ActivateHint())
				fmt.Fprintln(app.Stdout)
				fmt.Fprintln(app.Stdout, "To check daemon logs:")
				fmt.Fprintln(app.Stdout, "  $ ad-setup logs --errors")
				return nil
			case err != nil:
				// A broken status store is reported, not fatal: the likely
				// fix is restarting the daemon, which rewrites it.
				fmt.Fprintf(app.Stdout, "Error reading status: %v\n", err)
				fmt.Fprintf(app.Stdout, "The daemon may not be running. Start with: %s\n", service.ActivateHint())
				return nil
			}

			now := time.Now()
			renderSnapshot(app, snap, now)
			return nil
		},
	}
}

func renderSnapshot(app *App, snap *status.Snapshot, now time.Time) {
	if snap.Stale(now, status.DefaultStaleThreshold) {
		fmt.Fprintf(app.Stdout, "Warning: status was last updated %s; the daemon appears to be stopped.\n",
			humanize.Time(snap.Timestamp))
		fmt.Fprintf(app.Stdout, "Restart with: %s\n", service.ActivateHint())
		fmt.Fprintln(app.Stdout)
	}

	fmt.Fprintln(app.Stdout, "Daemon:")
	fmt.Fprintf(app.Stdout, "   PID: %d\n", snap.Daemon.PID)
	fmt.Fprintf(app.Stdout, "   Uptime: %d seconds\n", snap.Daemon.Uptime)
	fmt.Fprintf(app.Stdout, "   Health checks: %d\n", snap.Daemon.HealthChecks)
	fmt.Fprintf(app.Stdout, "   Last check: %s (%s)\n",
		snap.Timestamp.Local().Format("2006-01-02 15:04:05"), humanize.Time(snap.Timestamp))

	fmt.Fprintln(app.Stdout)
	fmt.Fprintln(app.Stdout, "Docker:")
	if snap.Docker {
		fmt.Fprintln(app.Stdout, "   Running")
	} else {
		fmt.Fprintln(app.Stdout, "   Not running")
	}

	fmt.Fprintln(app.Stdout)
	fmt.Fprintf(app.Stdout, "Active forests: %d\n", snap.ForestCount())

	if snap.ForestCount() == 0 {
		fmt.Fprintln(app.Stdout, "   No forests currently deployed.")
		return
	}

	names := make([]string, 0, len(snap.Forests))
	for name := range snap.Forests {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		forest := snap.Forests[name]
		fmt.Fprintln(app.Stdout)
		fmt.Fprintf(app.Stdout, "   Forest: %s\n", name)
		fmt.Fprintf(app.Stdout, "     Container ID: %s\n", shortContainerID(forest.ContainerID))
		fmt.Fprintf(app.Stdout, "     Status: %s\n", forest.Status)
		fmt.Fprintf(app.Stdout, "     Health: %s\n", forest.Health)
	}
}

// shortContainerID truncates a full container ID to the familiar 12
// character form docker ps shows.
func shortContainerID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
