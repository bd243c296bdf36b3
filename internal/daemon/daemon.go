// Package daemon implements the monitor loop: poll Docker for forest
// containers, derive health, and replace the status snapshot, forever. The
// loop survives everything except a cancelled context; a cycle that fails
// is logged, backed off, and retried on the next tick.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tiation/tiation-active-directory-setup/internal/logging"
	"github.com/tiation/tiation-active-directory-setup/internal/notify"
	"github.com/tiation/tiation-active-directory-setup/internal/status"
)

const (
	// errorBackoff is how long the loop pauses after a failed cycle
	// before waiting for the next tick.
	errorBackoff = 10 * time.Second

	// housekeepingEvery is the cycle cadence for log rotation and
	// history pruning.
	housekeepingEvery = 100
)

func New(opts Options) (*Daemon, error) {
	if opts.Config == nil {
		return nil, errors.New("daemon requires a config")
	}
	if opts.Logger == nil {
		return nil, errors.New("daemon requires a logger")
	}
	if opts.Runtime == nil {
		return nil, errors.New("daemon requires a container runtime")
	}
	if opts.StatusPath == "" {
		return nil, errors.New("daemon requires a status store path")
	}

	return &Daemon{
		cfg:        opts.Config,
		logger:     opts.Logger,
		runtime:    opts.Runtime,
		recorder:   opts.Recorder,
		notifier:   opts.Notifier,
		sinks:      opts.Sinks,
		statusPath: opts.StatusPath,
		interval:   opts.Config.General.Interval(),
	}, nil
}

// Run executes the monitor loop until ctx is cancelled. The first cycle
// runs immediately so a fresh daemon produces a snapshot without waiting a
// full interval.
func (d *Daemon) Run(ctx context.Context) error {
	d.start = time.Now()
	d.logger.Info("starting monitor loop",
		"pid", os.Getpid(),
		"interval", d.interval.String(),
		"status_path", d.statusPath)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("monitor loop stopped")
			return nil
		case <-ticker.C:
			d.runCycle(ctx)
		}
	}
}

// runCycle applies the loop-level error policy: a failed cycle is logged
// and followed by a short pause, never a crash.
func (d *Daemon) runCycle(ctx context.Context) {
	err := d.cycle(ctx)
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}

	d.logger.Error("health check cycle failed", "error", err)

	select {
	case <-ctx.Done():
	case <-time.After(errorBackoff):
	}
}

func (d *Daemon) cycle(ctx context.Context) error {
	now := time.Now()

	forests, err := d.runtime.Discover(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		d.logger.Error("forest discovery failed", "error", err)
		forests = map[string]status.Forest{}
	} else {
		d.logger.Debug("discovered forests", "count", len(forests))
	}

	dockerUp := true
	if err := d.runtime.Ping(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		d.logger.Error("docker liveness probe failed", "error", err)
		dockerUp = false
	}

	// The counter includes the cycle being written, and only advances
	// once the snapshot is safely on disk.
	checks := d.healthChecks + 1
	snap := status.Snapshot{
		SchemaVersion: status.SchemaVersion,
		Timestamp:     now,
		Docker:        dockerUp,
		Forests:       forests,
		Daemon: status.Daemon{
			Uptime:       int64(now.Sub(d.start).Seconds()),
			PID:          os.Getpid(),
			HealthChecks: checks,
		},
	}
	if err := status.Write(d.statusPath, snap); err != nil {
		return fmt.Errorf("failed to write status store: %w", err)
	}
	d.healthChecks = checks

	if dockerUp {
		d.logger.Info("health check completed",
			"checks", checks, "forests", len(forests), "docker", true)
	} else {
		d.logger.Warn("health check completed with docker unreachable",
			"checks", checks, "forests", len(forests))
	}

	if d.recorder != nil {
		if err := d.recorder.Record(now, dockerUp, forests); err != nil {
			d.logger.Error("failed to record health check", "error", err)
		}
	}

	d.notifyTransitions(ctx, dockerUp, forests)
	d.prevDocker = dockerUp
	d.prevForests = forests
	d.havePrev = true

	if checks%housekeepingEvery == 0 {
		d.housekeep(now)
	}

	return nil
}

// notifyTransitions publishes the difference between this cycle and the
// previous one. The first cycle establishes the baseline silently.
func (d *Daemon) notifyTransitions(ctx context.Context, docker bool, forests map[string]status.Forest) {
	if d.notifier == nil || !d.havePrev {
		return
	}

	for _, event := range notify.Diff(d.prevDocker, docker, d.prevForests, forests, time.Now()) {
		if err := d.notifier.Publish(ctx, event); err != nil {
			d.logger.Error("failed to publish notification",
				"event", event.Type, "forest", event.Forest, "error", err)
		} else {
			d.logger.Info("published notification",
				"event", event.Type, "forest", event.Forest)
		}
	}
}

func (d *Daemon) housekeep(now time.Time) {
	if d.sinks != nil {
		rotated, err := d.sinks.Housekeep(logging.DefaultMaxLogSize)
		if err != nil {
			d.logger.Error("log rotation failed", "error", err)
		}
		for _, path := range rotated {
			d.logger.Info("rotated log file", "path", path)
		}
	}

	if d.recorder != nil && d.cfg.History.RetentionDays > 0 {
		cutoff := now.AddDate(0, 0, -d.cfg.History.RetentionDays)
		pruned, err := d.recorder.Prune(cutoff)
		if err != nil {
			d.logger.Error("history prune failed", "error", err)
		} else if pruned > 0 {
			d.logger.Info("pruned health check history", "rows", pruned, "cutoff", cutoff)
		}
	}
}
