package cli

import (
	"fmt"

	"github.com/spf13/pflag"
)

func newVersionCommand(app *App) *Command {
	return &Command{
		Name:    "version",
		Summary: "Show version information",
		Usage:   "ad-setup version",
		Flags: func() *pflag.FlagSet {
			return pflag.NewFlagSet("version", pflag.ContinueOnError)
		},
		Run: func(args []string) error {
			fmt.Fprintf(app.Stdout, "AD-Setup Enterprise v%s\n", app.Version.Version)
			if app.Version.Commit != "" {
				fmt.Fprintf(app.Stdout, "  commit: %s\n", app.Version.Commit)
			}
			if app.Version.Date != "" {
				fmt.Fprintf(app.Stdout, "  built:  %s\n", app.Version.Date)
			}
			return nil
		},
	}
}
