package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/tiation/tiation-active-directory-setup/internal/history"
)

func newHistoryCommand(app *App) *Command {
	var limit int

	return &Command{
		Name:    "history",
		Summary: "Show recent health check history",
		Usage:   "ad-setup history [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("history", pflag.ContinueOnError)
			flagSet.IntVar(&limit, "limit", 10, "number of checks to show")
			return flagSet
		},
		Run: func(args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}

			// Stat first so a missing database is reported as "nothing
			// recorded" instead of being created empty by the open.
			if _, err := os.Stat(app.Paths.HistoryDB); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					fmt.Fprintln(app.Stdout, "No health check history recorded yet.")
					fmt.Fprintln(app.Stdout, "History is written by the monitor daemon while it runs.")
					return nil
				}
				return fmt.Errorf("failed to check history database: %w", err)
			}

			recorder, err := history.Open(app.Paths.HistoryDB)
			if err != nil {
				return err
			}
			defer recorder.Close()

			checks, err := recorder.Recent(limit)
			if err != nil {
				return err
			}

			fmt.Fprintln(app.Stdout, "Health Check History")
			fmt.Fprintln(app.Stdout, strings.Repeat("=", 60))

			if len(checks) == 0 {
				fmt.Fprintln(app.Stdout, "No checks recorded yet.")
				return nil
			}

			for _, check := range checks {
				docker := "down"
				if check.Docker {
					docker = "up"
				}
				fmt.Fprintf(app.Stdout, "\n%s (%s)\n",
					check.At.Local().Format("2006-01-02 15:04:05"), humanize.Time(check.At))
				fmt.Fprintf(app.Stdout, "   Docker: %s\n", docker)
				fmt.Fprintf(app.Stdout, "   Forests: %d total, %d healthy\n",
					check.ForestCount, check.HealthyCount)
				for _, forest := range check.Forests {
					fmt.Fprintf(app.Stdout, "     %s: %s (%s)\n",
						forest.Forest, forest.Status, forest.Health)
				}
			}
			return nil
		},
	}
}
