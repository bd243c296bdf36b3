package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/tiation/tiation-active-directory-setup/internal/logging"
)

func newLogsCommand(app *App) *Command {
	var (
		errorsOnly bool
		tailLines  int
	)

	return &Command{
		Name:    "logs",
		Summary: "View AD-Setup logs",
		Usage:   "ad-setup logs [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("logs", pflag.ContinueOnError)
			flagSet.BoolVar(&errorsOnly, "errors", false, "show only error logs")
			flagSet.IntVar(&tailLines, "tail", 0, "show only the last N lines")
			return flagSet
		},
		Run: func(args []string) error {
			logFile := app.Paths.Log
			logType := "Application"
			if errorsOnly {
				logFile = app.Paths.ErrorLog
				logType = "Error"
			}

			if err := printLogFile(app, logFile, logType, tailLines); err != nil {
				return err
			}

			fmt.Fprintln(app.Stdout)
			fmt.Fprintln(app.Stdout, strings.Repeat("=", 60))
			fmt.Fprintln(app.Stdout, "Log Summary:")
			for _, path := range []string{app.Paths.Log, app.Paths.ErrorLog} {
				printLogSummary(app, path)
			}

			fmt.Fprintln(app.Stdout)
			fmt.Fprintln(app.Stdout, "Tip: Use --errors to see error logs, --tail N to see last N lines")
			return nil
		},
	}
}

func printLogFile(app *App, path, logType string, tailLines int) error {
	var content string
	var err error
	if tailLines > 0 {
		content, err = logging.Tail(path, tailLines)
	} else {
		var data []byte
		data, err = os.ReadFile(path)
		content = strings.TrimSuffix(string(data), "\n")
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(app.Stdout, "No %s log file found.\n", strings.ToLower(logType))
			return nil
		}
		return fmt.Errorf("failed to read log file: %w", err)
	}

	fmt.Fprintf(app.Stdout, "%s logs from: %s\n", logType, path)
	fmt.Fprintln(app.Stdout, strings.Repeat("=", 60))
	if content == "" {
		fmt.Fprintf(app.Stdout, "No entries in %s log.\n", strings.ToLower(logType))
		return nil
	}
	fmt.Fprintln(app.Stdout, content)
	return nil
}

func printLogSummary(app *App, path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	name := filepath.Base(path)
	if info.Size() == 0 {
		fmt.Fprintf(app.Stdout, "  %s: Empty\n", name)
		return
	}
	lines, err := logging.CountLines(path)
	if err != nil {
		fmt.Fprintf(app.Stdout, "  %s: %s\n", name, humanize.Bytes(uint64(info.Size())))
		return
	}
	fmt.Fprintf(app.Stdout, "  %s: %d lines (%s)\n", name, lines, humanize.Bytes(uint64(info.Size())))
}
