package cli

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/tiation/tiation-active-directory-setup/internal/status"
)

func writeTestSnapshot(t *testing.T, path string, at time.Time) {
	t.Helper()

	snap := status.Snapshot{
		SchemaVersion: status.SchemaVersion,
		Timestamp:     at,
		Docker:        true,
		Forests: map[string]status.Forest{
			"corp.example.com": {
				ContainerID: "0123456789abcdef0123456789abcdef",
				Status:      "running",
				Health:      status.HealthHealthy,
			},
		},
		Daemon: status.Daemon{Uptime: 3600, PID: 4242, HealthChecks: 60},
	}
	if err := status.Write(path, snap); err != nil {
		t.Fatalf("failed to write snapshot: %v", err)
	}
}

func TestStatusWithoutStore(t *testing.T) {
	app, out := newTestApp(t)

	if err := Root(app).Execute([]string{"status"}); err != nil {
		t.Fatalf("status returned error: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "No status information available.") {
		t.Errorf("expected missing store message, got %q", got)
	}
	if !strings.Contains(got, "ad-setup logs --errors") {
		t.Errorf("expected log hint, got %q", got)
	}
}

func TestStatusRendersFreshSnapshot(t *testing.T) {
	app, out := newTestApp(t)
	writeTestSnapshot(t, app.Paths.Status, time.Now())

	if err := Root(app).Execute([]string{"status"}); err != nil {
		t.Fatalf("status returned error: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "PID: 4242") {
		t.Errorf("expected daemon PID, got %q", got)
	}
	if !strings.Contains(got, "Health checks: 60") {
		t.Errorf("expected health check count, got %q", got)
	}
	if !strings.Contains(got, "Forest: corp.example.com") {
		t.Errorf("expected forest section, got %q", got)
	}
	if !strings.Contains(got, "Container ID: 0123456789ab") {
		t.Errorf("expected truncated container ID, got %q", got)
	}
	if strings.Contains(got, "0123456789abcdef") {
		t.Errorf("container ID not truncated: %q", got)
	}
	if strings.Contains(got, "appears to be stopped") {
		t.Errorf("fresh snapshot flagged as stale: %q", got)
	}
}

func TestStatusWarnsWhenStale(t *testing.T) {
	app, out := newTestApp(t)
	writeTestSnapshot(t, app.Paths.Status, time.Now().Add(-time.Hour))

	if err := Root(app).Execute([]string{"status"}); err != nil {
		t.Fatalf("status returned error: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "appears to be stopped") {
		t.Errorf("expected stale warning, got %q", got)
	}
	// Last known state is still shown.
	if !strings.Contains(got, "Forest: corp.example.com") {
		t.Errorf("expected last known forests, got %q", got)
	}
}

func TestStatusCorruptStoreIsNotFatal(t *testing.T) {
	app, out := newTestApp(t)
	if err := os.WriteFile(app.Paths.Status, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to write corrupt store: %v", err)
	}

	if err := Root(app).Execute([]string{"status"}); err != nil {
		t.Fatalf("corrupt store should not make status fail, got %v", err)
	}

	if !strings.Contains(out.String(), "Error reading status:") {
		t.Errorf("expected read error message, got %q", out.String())
	}
}

func TestStatusEmptyForests(t *testing.T) {
	app, out := newTestApp(t)

	snap := status.Snapshot{
		SchemaVersion: status.SchemaVersion,
		Timestamp:     time.Now(),
		Docker:        false,
		Forests:       map[string]status.Forest{},
		Daemon:        status.Daemon{PID: 1},
	}
	if err := status.Write(app.Paths.Status, snap); err != nil {
		t.Fatalf("failed to write snapshot: %v", err)
	}

	if err := Root(app).Execute([]string{"status"}); err != nil {
		t.Fatalf("status returned error: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "No forests currently deployed.") {
		t.Errorf("expected empty forest message, got %q", got)
	}
	if !strings.Contains(got, "Not running") {
		t.Errorf("expected docker down message, got %q", got)
	}
}
