package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/tiation/tiation-active-directory-setup/internal/config"
	"github.com/tiation/tiation-active-directory-setup/internal/logging"
	"github.com/tiation/tiation-active-directory-setup/internal/notify"
	"github.com/tiation/tiation-active-directory-setup/internal/status"
)

// Runtime is the container-runtime view the daemon polls every cycle.
type Runtime interface {
	Ping(ctx context.Context) error
	Discover(ctx context.Context) (map[string]status.Forest, error)
}

// Recorder persists completed cycles for the history command.
type Recorder interface {
	Record(at time.Time, docker bool, forests map[string]status.Forest) error
	Prune(olderThan time.Time) (int64, error)
}

// Notifier publishes health transition events.
type Notifier interface {
	Publish(ctx context.Context, event notify.Event) error
}

// Options wires a Daemon. Runtime, Config, Logger and StatusPath are
// required; Recorder, Notifier and Sinks are optional features that degrade
// to nothing when absent.
type Options struct {
	Config     *config.Config
	Logger     *slog.Logger
	Runtime    Runtime
	Recorder   Recorder
	Notifier   Notifier
	Sinks      *logging.Sinks
	StatusPath string
}

// Daemon runs the health check loop. One instance per process lifetime;
// uptime and the health check counter reset with the process.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	runtime    Runtime
	recorder   Recorder
	notifier   Notifier
	sinks      *logging.Sinks
	statusPath string

	interval time.Duration
	start    time.Time

	healthChecks int64
	havePrev     bool
	prevDocker   bool
	prevForests  map[string]status.Forest
}
