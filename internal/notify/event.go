// Package notify publishes health transition events to an MQTT broker, so
// external systems hear about forests going down without polling the status
// store.
package notify

import (
	"os"
	"sort"
	"time"

	"github.com/tiation/tiation-active-directory-setup/internal/status"
)

const (
	EventDockerDown       = "docker_down"
	EventDockerUp         = "docker_up"
	EventForestUnhealthy  = "forest_unhealthy"
	EventForestRecovered  = "forest_recovered"
	EventForestDiscovered = "forest_discovered"
	EventForestRemoved    = "forest_removed"
)

// Event is one health transition. Forest fields are empty for docker-level
// events.
type Event struct {
	Type        string    `json:"event"`
	Host        string    `json:"host"`
	Forest      string    `json:"forest,omitempty"`
	ContainerID string    `json:"container_id,omitempty"`
	Detail      string    `json:"detail,omitempty"`
	At          time.Time `json:"at"`
}

// Diff computes the events describing the change between two consecutive
// cycles. Docker transitions come first, then forest transitions in name
// order, so output is deterministic.
func Diff(prevDocker, docker bool, prev, cur map[string]status.Forest, at time.Time) []Event {
	host := Hostname()
	var events []Event

	switch {
	case prevDocker && !docker:
		events = append(events, Event{Type: EventDockerDown, Host: host, At: at})
	case !prevDocker && docker:
		events = append(events, Event{Type: EventDockerUp, Host: host, At: at})
	}

	names := make(map[string]struct{}, len(prev)+len(cur))
	for name := range prev {
		names[name] = struct{}{}
	}
	for name := range cur {
		names[name] = struct{}{}
	}
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	for _, name := range sorted {
		before, wasKnown := prev[name]
		after, isKnown := cur[name]

		switch {
		case !wasKnown:
			events = append(events, Event{
				Type: EventForestDiscovered, Host: host, Forest: name,
				ContainerID: after.ContainerID, Detail: after.Status, At: at,
			})
		case !isKnown:
			events = append(events, Event{
				Type: EventForestRemoved, Host: host, Forest: name,
				ContainerID: before.ContainerID, At: at,
			})
		case before.Health == status.HealthHealthy && after.Health == status.HealthUnhealthy:
			events = append(events, Event{
				Type: EventForestUnhealthy, Host: host, Forest: name,
				ContainerID: after.ContainerID, Detail: after.Status, At: at,
			})
		case before.Health == status.HealthUnhealthy && after.Health == status.HealthHealthy:
			events = append(events, Event{
				Type: EventForestRecovered, Host: host, Forest: name,
				ContainerID: after.ContainerID, Detail: after.Status, At: at,
			})
		}
	}

	return events
}

// Hostname prefers the HOSTNAME environment variable, then asks the OS.
func Hostname() string {
	if hostname := os.Getenv("HOSTNAME"); hostname != "" {
		return hostname
	}
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
