package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/tiation/tiation-active-directory-setup/internal/config"
)

// webUIBinary is the dashboard server shipped alongside the CLI.
const webUIBinary = "ad-setup-web"

func newUICommand(app *App) *Command {
	var (
		flagSet   *pflag.FlagSet
		port      int
		noBrowser bool
	)

	return &Command{
		Name:    "ui",
		Summary: "Launch the web UI",
		Usage:   "ad-setup ui [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet = pflag.NewFlagSet("ui", pflag.ContinueOnError)
			flagSet.IntVar(&port, "port", config.DefaultUIConfig.Port, "port to run the web UI on")
			flagSet.BoolVar(&noBrowser, "no-browser", false, "don't open the browser automatically")
			return flagSet
		},
		Run: func(args []string) error {
			resolved := port
			if !flagSet.Changed("port") {
				resolved = uiPortFromEnvOrConfig(app)
			}

			binPath, err := findSiblingBinary(webUIBinary)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cmd := exec.CommandContext(ctx, binPath)
			cmd.Stdout = app.Stdout
			cmd.Stderr = app.Stderr
			cmd.Env = append(os.Environ(), "AD_SETUP_PORT="+strconv.Itoa(resolved))
			cmd.Cancel = func() error {
				return cmd.Process.Signal(syscall.SIGTERM)
			}
			cmd.WaitDelay = 5 * time.Second

			fmt.Fprintf(app.Stdout, "Starting AD-Setup Web UI on port %d...\n", resolved)
			if err := cmd.Start(); err != nil {
				return fmt.Errorf("failed to start web UI: %w", err)
			}

			url := fmt.Sprintf("http://localhost:%d", resolved)
			if !noBrowser {
				// Give the server a moment to bind before pointing a
				// browser at it.
				time.Sleep(time.Second)
				fmt.Fprintf(app.Stdout, "Opening %s in your browser...\n", url)
				if err := openBrowser(url); err != nil {
					app.Logger.Warn("failed to open browser", "error", err)
				}
			}

			fmt.Fprintf(app.Stdout, "\nWeb UI is running at: %s\n", url)
			fmt.Fprintln(app.Stdout, "Press Ctrl+C to stop the server")

			err = cmd.Wait()
			if ctx.Err() != nil {
				fmt.Fprintln(app.Stdout, "\nStopping Web UI...")
				return nil
			}
			if err != nil {
				return fmt.Errorf("web UI exited: %w", err)
			}
			return nil
		},
	}
}

// uiPortFromEnvOrConfig resolves the dashboard port when --port was not
// given: environment first, then the config file, then the default.
func uiPortFromEnvOrConfig(app *App) int {
	if raw := os.Getenv("AD_SETUP_PORT"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil && p > 0 && p < 65536 {
			return p
		}
		app.Logger.Warn("ignoring invalid AD_SETUP_PORT", "value", raw)
	}
	cfg, err := app.LoadConfig()
	if err != nil {
		app.Logger.Warn("failed to load configuration, using default port", "error", err)
		return config.DefaultUIConfig.Port
	}
	return cfg.UI.Port
}

