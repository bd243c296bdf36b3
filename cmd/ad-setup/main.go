package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tiation/tiation-active-directory-setup/internal/cli"
	"github.com/tiation/tiation-active-directory-setup/internal/config"
	"github.com/tiation/tiation-active-directory-setup/internal/logging"
)

// Build metadata, stamped by the release pipeline via -ldflags.
var (
	version = "1.0.0"
	commit  = ""
	date    = ""
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	paths, err := config.ResolvePaths()
	if err != nil {
		return err
	}

	app := &cli.App{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Prompter: cli.NewTerminalPrompter(os.Stdin, os.Stdout),
		Logger:   logging.NewTerminalLogger(slog.LevelWarn),
		Paths:    paths,
		Version:  cli.VersionInfo{Version: version, Commit: commit, Date: date},
	}

	return cli.Root(app).Execute(os.Args[1:])
}
