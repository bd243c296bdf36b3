package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter collects interactive input. Commands depend on the interface so
// tests can script the answers.
type Prompter interface {
	// Line prints the prompt and reads one trimmed line.
	Line(prompt string) (string, error)
	// Secret reads a line without echoing when the input is a terminal.
	Secret(prompt string) (string, error)
}

// TerminalPrompter reads from the process's stdin.
type TerminalPrompter struct {
	in     *os.File
	out    io.Writer
	reader *bufio.Reader
}

func NewTerminalPrompter(in *os.File, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: in, out: out, reader: bufio.NewReader(in)}
}

func (p *TerminalPrompter) Line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *TerminalPrompter) Secret(prompt string) (string, error) {
	fd := int(p.in.Fd())
	if !term.IsTerminal(fd) {
		// Piped input: fall back to a plain read so scripts still work.
		return p.Line(prompt)
	}

	fmt.Fprint(p.out, prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}
