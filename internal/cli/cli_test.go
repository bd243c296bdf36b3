package cli

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tiation/tiation-active-directory-setup/internal/config"
)

// scriptPrompter replays canned answers so commands can be driven without a
// terminal.
type scriptPrompter struct {
	answers []string
}

func (p *scriptPrompter) next() (string, error) {
	if len(p.answers) == 0 {
		return "", io.EOF
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

func (p *scriptPrompter) Line(prompt string) (string, error)   { return p.next() }
func (p *scriptPrompter) Secret(prompt string) (string, error) { return p.next() }

func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()

	home := t.TempDir()
	out := &bytes.Buffer{}
	logDir := filepath.Join(home, "logs")

	return &App{
		Stdout:   out,
		Stderr:   io.Discard,
		Prompter: &scriptPrompter{},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Paths: &config.Paths{
			Config:      filepath.Join(home, "config.yaml"),
			Credentials: filepath.Join(home, "credentials.yaml"),
			Status:      filepath.Join(home, "status.json"),
			HistoryDB:   filepath.Join(home, "history.db"),
			LogDir:      logDir,
			Log:         filepath.Join(logDir, "ad-setup.log"),
			ErrorLog:    filepath.Join(logDir, "ad-setup-error.log"),
		},
		Version: VersionInfo{Version: "1.0.0", Commit: "abcdef1", Date: "2025-01-01"},
	}, out
}

func TestRootDispatchesVersion(t *testing.T) {
	app, out := newTestApp(t)

	if err := Root(app).Execute([]string{"version"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "AD-Setup Enterprise v1.0.0") {
		t.Errorf("expected version banner, got %q", got)
	}
	if !strings.Contains(got, "abcdef1") {
		t.Errorf("expected commit in output, got %q", got)
	}
}

func TestRootSuggestsOnTypo(t *testing.T) {
	app, _ := newTestApp(t)

	err := Root(app).Execute([]string{"statsu"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "status"`) {
		t.Errorf("expected suggestion for statsu, got %q", err.Error())
	}
}

func TestRootUnknownCommandWithoutSuggestion(t *testing.T) {
	app, _ := newTestApp(t)

	err := Root(app).Execute([]string{"frobnicate"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("did not expect a suggestion, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "--help") {
		t.Errorf("expected help pointer, got %q", err.Error())
	}
}

func TestSubcommandRequired(t *testing.T) {
	app, _ := newTestApp(t)

	err := Root(app).Execute(nil)
	if err == nil {
		t.Fatal("expected error when no subcommand is given")
	}
	if !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPrintHelpListsSubcommands(t *testing.T) {
	app, _ := newTestApp(t)

	var help bytes.Buffer
	Root(app).PrintHelp(&help)

	got := help.String()
	for _, name := range []string{"configure", "deploy", "deploy-multi", "status", "history", "logs", "ui", "service", "version"} {
		if !strings.Contains(got, name) {
			t.Errorf("help output missing command %q:\n%s", name, got)
		}
	}
}

func TestFlagErrorPointsAtHelp(t *testing.T) {
	app, _ := newTestApp(t)

	err := Root(app).Execute([]string{"logs", "--no-such-flag"})
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !strings.Contains(err.Error(), "--help") {
		t.Errorf("expected help pointer in %q", err.Error())
	}
}
