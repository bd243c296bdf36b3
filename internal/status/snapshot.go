// Package status defines the health snapshot contract between the monitor
// daemon (single writer) and everything that reads it: the CLI, the web
// dashboard, and service status checks.
package status

import "time"

// SchemaVersion is stamped into every snapshot so readers can reject files
// written by an incompatible future version.
const SchemaVersion = 1

const (
	HealthHealthy   = "healthy"
	HealthUnhealthy = "unhealthy"
)

// DefaultStaleThreshold is how old a snapshot may get before readers treat
// the daemon that wrote it as gone. The daemon writes every cycle, default
// once a minute, so five minutes of silence means several missed cycles.
const DefaultStaleThreshold = 5 * time.Minute

// Snapshot is the document the daemon replaces wholesale after every health
// check cycle. It always describes the complete current state; readers never
// need to merge snapshots.
type Snapshot struct {
	SchemaVersion int               `json:"schema_version"`
	Timestamp     time.Time         `json:"timestamp"`
	Docker        bool              `json:"docker"`
	Forests       map[string]Forest `json:"forests"`
	Daemon        Daemon            `json:"daemon"`
}

// Forest describes one labeled container as observed in the latest cycle.
type Forest struct {
	ContainerID string `json:"container_id"`
	Status      string `json:"status"`
	Started     string `json:"started"`
	Health      string `json:"health"`
}

// Daemon describes the monitor process that produced the snapshot.
type Daemon struct {
	Uptime       int64 `json:"uptime"`
	PID          int   `json:"pid"`
	HealthChecks int64 `json:"health_checks"`
}

// HealthFor derives a forest's health from its container lifecycle state.
// Only a running container is healthy; paused, restarting, exited and
// created all count as unhealthy.
func HealthFor(containerState string) string {
	if containerState == "running" {
		return HealthHealthy
	}
	return HealthUnhealthy
}

// Age reports how long ago the snapshot was written.
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.Timestamp)
}

// Stale reports whether the snapshot is older than threshold, meaning the
// daemon has stopped refreshing it and its contents describe the past.
func (s *Snapshot) Stale(now time.Time, threshold time.Duration) bool {
	return s.Age(now) > threshold
}

// ForestCount returns the number of forests in the snapshot.
func (s *Snapshot) ForestCount() int {
	return len(s.Forests)
}

// HealthyCount returns how many forests are currently healthy.
func (s *Snapshot) HealthyCount() int {
	count := 0
	for _, forest := range s.Forests {
		if forest.Health == HealthHealthy {
			count++
		}
	}
	return count
}
