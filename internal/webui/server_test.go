package webui

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tiation/tiation-active-directory-setup/internal/status"
)

func testServer(t *testing.T, statusPath, logPath string) *Server {
	t.Helper()
	server := NewServer(Options{
		Port:       8080,
		StatusPath: statusPath,
		LogPath:    logPath,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return server
}

func get(t *testing.T, server *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
	return recorder
}

func decodeStatus(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return body
}

func TestDashboardRoute(t *testing.T) {
	server := testServer(t, "unused", "unused")

	recorder := get(t, server, "/")
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}
	if ct := recorder.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Expected text/html, got %q", ct)
	}
	if !strings.Contains(recorder.Body.String(), "AD-Setup Enterprise") {
		t.Error("Expected dashboard markup in response")
	}
}

func TestUnknownPathIs404(t *testing.T) {
	server := testServer(t, "unused", "unused")

	for _, path := range []string{"/nope", "/api", "/api/nope", "/dashboard"} {
		if recorder := get(t, server, path); recorder.Code != http.StatusNotFound {
			t.Errorf("Expected 404 for %s, got %d", path, recorder.Code)
		}
	}
}

func TestWriteMethodsRejected(t *testing.T) {
	server := testServer(t, "unused", "unused")

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/status", nil))
	if recorder.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", recorder.Code)
	}
}

func TestStatusWithoutStore(t *testing.T) {
	server := testServer(t, filepath.Join(t.TempDir(), "status.json"), "unused")

	recorder := get(t, server, "/api/status")
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}

	body := decodeStatus(t, recorder)
	if body["daemon"] != false {
		t.Errorf("Expected daemon false, got %v", body["daemon"])
	}
	if body["docker"] != false {
		t.Errorf("Expected docker false, got %v", body["docker"])
	}
	if body["forest_count"] != float64(0) {
		t.Errorf("Expected forest_count 0, got %v", body["forest_count"])
	}
	if forests, ok := body["forests"].(map[string]any); !ok || len(forests) != 0 {
		t.Errorf("Expected empty forests object, got %v", body["forests"])
	}
}

func TestStatusWithFreshStore(t *testing.T) {
	statusPath := filepath.Join(t.TempDir(), "status.json")
	snap := status.Snapshot{
		SchemaVersion: status.SchemaVersion,
		Timestamp:     time.Now(),
		Docker:        true,
		Forests: map[string]status.Forest{
			"corp.example.com": {ContainerID: "aaa", Status: "running", Health: status.HealthHealthy},
			"lab.example.com":  {ContainerID: "bbb", Status: "exited", Health: status.HealthUnhealthy},
		},
		Daemon: status.Daemon{Uptime: 7200, PID: 99, HealthChecks: 120},
	}
	if err := status.Write(statusPath, snap); err != nil {
		t.Fatalf("Failed to write snapshot: %v", err)
	}

	server := testServer(t, statusPath, "unused")
	body := decodeStatus(t, get(t, server, "/api/status"))

	daemon, ok := body["daemon"].(map[string]any)
	if !ok {
		t.Fatalf("Expected daemon object, got %v", body["daemon"])
	}
	if daemon["uptime"] != float64(7200) || daemon["health_checks"] != float64(120) {
		t.Errorf("Unexpected daemon info: %v", daemon)
	}
	if body["docker"] != true {
		t.Errorf("Expected docker true, got %v", body["docker"])
	}
	if body["forest_count"] != float64(2) {
		t.Errorf("Expected forest_count 2, got %v", body["forest_count"])
	}
}

func TestStatusWithStaleStore(t *testing.T) {
	statusPath := filepath.Join(t.TempDir(), "status.json")
	written := time.Now().Add(-time.Hour)
	snap := status.Snapshot{
		SchemaVersion: status.SchemaVersion,
		Timestamp:     written,
		Docker:        true,
		Forests: map[string]status.Forest{
			"corp.example.com": {Status: "running", Health: status.HealthHealthy},
		},
		Daemon: status.Daemon{Uptime: 10, PID: 99, HealthChecks: 1},
	}
	if err := status.Write(statusPath, snap); err != nil {
		t.Fatalf("Failed to write snapshot: %v", err)
	}

	server := testServer(t, statusPath, "unused")
	body := decodeStatus(t, get(t, server, "/api/status"))

	if body["daemon"] != false {
		t.Errorf("Expected daemon false for stale store, got %v", body["daemon"])
	}
	// Last known forest state is still worth showing.
	if body["forest_count"] != float64(1) {
		t.Errorf("Expected forest_count 1, got %v", body["forest_count"])
	}
}

func TestStatusWithCorruptStore(t *testing.T) {
	statusPath := filepath.Join(t.TempDir(), "status.json")
	if err := os.WriteFile(statusPath, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	server := testServer(t, statusPath, "unused")
	recorder := get(t, server, "/api/status")
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200 even for corrupt store, got %d", recorder.Code)
	}

	body := decodeStatus(t, recorder)
	if body["daemon"] != false {
		t.Errorf("Expected daemon false, got %v", body["daemon"])
	}
}

func TestLogsWithoutFile(t *testing.T) {
	server := testServer(t, "unused", filepath.Join(t.TempDir(), "absent.log"))

	body := decodeStatus(t, get(t, server, "/api/logs"))
	if body["logs"] != "No logs available" {
		t.Errorf("Expected placeholder, got %v", body["logs"])
	}
}

func TestLogsReturnsTail(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "ad-setup.log")
	var lines []string
	for i := 0; i < 60; i++ {
		lines = append(lines, "entry")
	}
	lines[59] = "final entry"
	if err := os.WriteFile(logPath, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("Failed to write log: %v", err)
	}

	server := testServer(t, "unused", logPath)
	body := decodeStatus(t, get(t, server, "/api/logs"))

	logs, ok := body["logs"].(string)
	if !ok {
		t.Fatalf("Expected logs string, got %v", body["logs"])
	}
	if !strings.HasSuffix(logs, "final entry") {
		t.Errorf("Expected tail to end with newest line, got %q", logs[len(logs)-40:])
	}
	if got := strings.Count(logs, "\n") + 1; got != logTailLines {
		t.Errorf("Expected %d lines, got %d", logTailLines, got)
	}
}
