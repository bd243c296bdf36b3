package service

import (
	"strings"
	"testing"

	"howett.net/plist"
)

func testDefinition() Definition {
	return Definition{
		DaemonPath: "/usr/local/bin/ad-setup-daemon",
		ConfigPath: "/home/kai/.config/ad-setup/config.yaml",
		LogDir:     "/var/log/ad-setup",
	}
}

func TestRenderLaunchd(t *testing.T) {
	data, err := renderFor("darwin", testDefinition())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var job launchdJob
	if _, err := plist.Unmarshal(data, &job); err != nil {
		t.Fatalf("Rendered plist does not parse: %v", err)
	}

	if job.Label != Label {
		t.Errorf("Expected label %q, got %q", Label, job.Label)
	}
	if len(job.ProgramArguments) != 3 || job.ProgramArguments[0] != "/usr/local/bin/ad-setup-daemon" {
		t.Errorf("Unexpected program arguments: %v", job.ProgramArguments)
	}
	if job.ProgramArguments[1] != "--config" {
		t.Errorf("Expected --config argument, got %v", job.ProgramArguments)
	}
	if !job.RunAtLoad || !job.KeepAlive {
		t.Error("Expected RunAtLoad and KeepAlive to be set")
	}
	if !strings.Contains(job.StandardOutPath, "launchd.log") {
		t.Errorf("Unexpected stdout path %q", job.StandardOutPath)
	}
}

func TestRenderSystemd(t *testing.T) {
	data, err := renderFor("linux", testDefinition())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	unit := string(data)

	for _, want := range []string{
		"[Unit]",
		"[Service]",
		"[Install]",
		"ExecStart=/usr/local/bin/ad-setup-daemon --config /home/kai/.config/ad-setup/config.yaml",
		"Restart=on-failure",
		"After=network.target docker.service",
		"WantedBy=multi-user.target",
	} {
		if !strings.Contains(unit, want) {
			t.Errorf("Expected unit to contain %q:\n%s", want, unit)
		}
	}
}

func TestRenderRequiresDaemonPath(t *testing.T) {
	if _, err := renderFor("linux", Definition{}); err == nil {
		t.Error("Expected error for missing daemon path, got nil")
	}
	if _, err := renderFor("darwin", Definition{}); err == nil {
		t.Error("Expected error for missing daemon path, got nil")
	}
}

func TestRenderOmitsConfigWhenUnset(t *testing.T) {
	data, err := renderFor("linux", Definition{DaemonPath: "/opt/ad-setup-daemon"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(string(data), "ExecStart=/opt/ad-setup-daemon\n") {
		t.Errorf("Expected bare ExecStart, got:\n%s", data)
	}
}

func TestInstallPathFor(t *testing.T) {
	linux, err := installPathFor("linux")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if linux != "/etc/systemd/system/ad-setup.service" {
		t.Errorf("Unexpected linux path %q", linux)
	}

	darwin, err := installPathFor("darwin")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.HasSuffix(darwin, "Library/LaunchAgents/com.ad-setup.enterprise.plist") {
		t.Errorf("Unexpected darwin path %q", darwin)
	}
}

func TestActivateHint(t *testing.T) {
	if hint := activateHintFor("linux"); !strings.Contains(hint, "systemctl") {
		t.Errorf("Expected systemctl hint, got %q", hint)
	}
	if hint := activateHintFor("darwin"); !strings.Contains(hint, "launchctl load") {
		t.Errorf("Expected launchctl hint, got %q", hint)
	}
}
