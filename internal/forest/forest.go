// Package forest discovers AD forest containers through the Docker Engine
// API. A container belongs to a forest when it carries the ad-setup.forest
// label; the companion name label says which forest it backs.
package forest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"

	"github.com/tiation/tiation-active-directory-setup/internal/status"
)

const (
	// LabelForest marks a container as managed by this tool.
	LabelForest = "ad-setup.forest"
	// LabelForestName carries the forest's domain name.
	LabelForestName = "ad-setup.forest.name"

	// UnnamedForest is used when a labeled container is missing the name
	// label, so it still shows up instead of vanishing from the snapshot.
	UnnamedForest = "unknown"
)

// API is the slice of the Docker Engine client the discoverer needs. The
// concrete client satisfies it; tests substitute a fake.
type API interface {
	Ping(ctx context.Context) (types.Ping, error)
	ContainerList(ctx context.Context, options container.ListOptions) ([]types.Container, error)
	ContainerInspect(ctx context.Context, containerID string) (types.ContainerJSON, error)
}

// Discoverer finds labeled forest containers and reports runtime liveness.
type Discoverer struct {
	api    API
	logger *slog.Logger
}

// NewDiscoverer connects to the Docker daemon using the standard
// environment (DOCKER_HOST and friends), negotiating the API version so it
// works against older engines.
func NewDiscoverer(logger *slog.Logger) (*Discoverer, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Discoverer{api: cli, logger: logger}, nil
}

// Ping reports whether the container runtime answers a liveness probe.
func (d *Discoverer) Ping(ctx context.Context) error {
	if _, err := d.api.Ping(ctx); err != nil {
		return fmt.Errorf("docker ping failed: %w", err)
	}
	return nil
}

// Discover returns every forest backed by a labeled container, keyed by
// forest name. Stopped containers are included: an exited forest is still a
// forest, just an unhealthy one. A failed inspect degrades that entry (no
// start time) rather than failing the whole discovery.
func (d *Discoverer) Discover(ctx context.Context) (map[string]status.Forest, error) {
	containers, err := d.api.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("label", LabelForest)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list forest containers: %w", err)
	}

	forests := make(map[string]status.Forest, len(containers))
	for _, c := range containers {
		name := c.Labels[LabelForestName]
		if name == "" {
			name = UnnamedForest
		}

		started := ""
		inspect, err := d.api.ContainerInspect(ctx, c.ID)
		if err != nil {
			d.logger.Warn("failed to inspect forest container",
				"forest", name, "container_id", c.ID, "error", err)
		} else if inspect.State != nil {
			started = inspect.State.StartedAt
		}

		forests[name] = status.Forest{
			ContainerID: c.ID,
			Status:      c.State,
			Started:     started,
			Health:      status.HealthFor(c.State),
		}
	}

	return forests, nil
}
