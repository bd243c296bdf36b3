package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/tiation/tiation-active-directory-setup/internal/config"
	"github.com/tiation/tiation-active-directory-setup/internal/logging"
	"github.com/tiation/tiation-active-directory-setup/internal/webui"
)

func main() {
	slog.SetDefault(logging.NewTerminalLogger(slog.LevelInfo))

	var (
		portFlag   = pflag.Int("port", config.DefaultUIConfig.Port, "port to listen on")
		configPath = pflag.String("config", "", "config file path (defaults to ~/.config/ad-setup/config.yaml)")
	)
	pflag.Parse()

	paths, err := config.ResolvePaths()
	if err != nil {
		slog.Error("failed to resolve paths", "error", err)
		os.Exit(1)
	}
	if *configPath != "" {
		paths.Config = *configPath
	}

	cfg, err := config.Load(paths.Config)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = config.Default()
	}

	level, err := cfg.General.Level()
	if err != nil {
		slog.Error("invalid log level", "error", err)
		os.Exit(1)
	}
	logger := logging.NewTerminalLogger(level)
	slog.SetDefault(logger)

	// The port comes from the config file, overridden by the environment
	// (how `ad-setup ui` passes it down), overridden by an explicit flag.
	port := cfg.UI.Port
	if raw := os.Getenv("AD_SETUP_PORT"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil && p > 0 && p < 65536 {
			port = p
		} else {
			logger.Warn("ignoring invalid AD_SETUP_PORT", "value", raw)
		}
	}
	if pflag.CommandLine.Changed("port") {
		port = *portFlag
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("received shutdown signal", "signal", sig.String())
		cancel()
	}()

	server := webui.NewServer(webui.Options{
		Port:       port,
		StatusPath: paths.Status,
		LogPath:    paths.Log,
		Logger:     logger,
	})

	if err := server.Run(ctx); err != nil {
		logger.Error("web ui server failed", "error", err)
		os.Exit(1)
	}
}
