package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/tiation/tiation-active-directory-setup/internal/config"
	"github.com/tiation/tiation-active-directory-setup/internal/daemon"
	"github.com/tiation/tiation-active-directory-setup/internal/forest"
	"github.com/tiation/tiation-active-directory-setup/internal/history"
	"github.com/tiation/tiation-active-directory-setup/internal/logging"
	"github.com/tiation/tiation-active-directory-setup/internal/notify"
)

func main() {
	slog.SetDefault(logging.NewTerminalLogger(slog.LevelInfo))

	configPath := pflag.String("config", "", "config file path (defaults to ~/.config/ad-setup/config.yaml)")
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
	usingDefaults := false
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = config.Default()
		usingDefaults = true
	}

	level, err := cfg.General.Level()
	if err != nil {
		slog.Error("invalid log level", "error", err)
		os.Exit(1)
	}

	sinks, err := logging.Open(paths.Log, paths.ErrorLog, level)
	if err != nil {
		slog.Error("failed to open log files", "error", err)
		os.Exit(1)
	}
	defer sinks.Close()

	logger := sinks.Logger()
	slog.SetDefault(logger)

	// Deferred until the log files exist so the warning lands in them.
	if usingDefaults {
		logger.Warn("no configuration file found, using defaults", "path", paths.Config)
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

	runtime, err := forest.NewDiscoverer(logger)
	if err != nil {
		logger.Error("failed to create docker client", "error", err)
		os.Exit(1)
	}

	opts := daemon.Options{
		Config:     cfg,
		Logger:     logger,
		Runtime:    runtime,
		Sinks:      sinks,
		StatusPath: paths.Status,
	}

	if cfg.History.Enabled {
		recorder, err := history.Open(paths.HistoryDB)
		if err != nil {
			logger.Warn("health check history disabled", "error", err)
		} else {
			defer recorder.Close()
			opts.Recorder = recorder
		}
	}

	if cfg.Monitoring.EnableNotifications && cfg.Notifications.Broker != "" {
		publisher, err := notify.NewPublisher(cfg.Notifications, logger)
		if err != nil {
			logger.Warn("event notifications disabled", "error", err)
		} else {
			defer publisher.Close()
			opts.Notifier = publisher
		}
	}

	monitor, err := daemon.New(opts)
	if err != nil {
		logger.Error("failed to create daemon", "error", err)
		os.Exit(1)
	}

	if err := monitor.Run(ctx); err != nil {
		logger.Error("monitor loop failed", "error", err)
		os.Exit(1)
	}
}
