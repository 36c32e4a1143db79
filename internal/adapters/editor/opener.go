package editor

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"vired/internal/ports"
)

var _ ports.EditorOpener = (*Opener)(nil)

// Opener implements ports.EditorOpener
type Opener struct {
	command string
	lookup  func(string) (string, error)
}

// Option configures an Opener
type Option func(*Opener)

// WithCommand sets the editor command line, e.g. "code --wait".
// Empty falls back to the environment.
func WithCommand(command string) Option {
	return func(o *Opener) { o.command = command }
}

// NewOpener creates a new editor opener
func NewOpener(opts ...Option) *Opener {
	o := &Opener{lookup: exec.LookPath}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Edit opens path in the user's editor and waits for it to exit
func (o *Opener) Edit(path string) error {
	cmd, err := o.Command(path)
	if err != nil {
		return err
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor exited: %w", err)
	}
	return nil
}

// Command returns an exec.Cmd for opening a file in the editor.
// This is useful for integrating with bubbletea's ExecProcess
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	argv := strings.Fields(o.findEditor())
	if len(argv) == 0 {
		return nil, fmt.Errorf("no editor found: set $VISUAL or $EDITOR")
	}

	cmd := exec.Command(argv[0], append(argv[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

// findEditor returns the editor command line to use
func (o *Opener) findEditor() string {
	if o.command != "" {
		return o.command
	}
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}

	for _, editor := range []string{"nvim", "vim", "vi", "nano"} {
		if path, err := o.lookup(editor); err == nil {
			return path
		}
	}
	return ""
}

// EditLines writes lines to a temporary file, opens it in the editor and
// returns the saved content split into lines.
func EditLines(opener ports.EditorOpener, lines []string) ([]string, error) {
	f, err := os.CreateTemp("", "vired-*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to create buffer file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	_, err = f.WriteString(strings.Join(lines, "\n") + "\n")
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write buffer file: %w", err)
	}

	if err := opener.Edit(path); err != nil {
		return nil, err
	}
	return ReadLines(path)
}

// ReadLines reads a buffer file, one entry per line
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open buffer: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read buffer: %w", err)
	}
	return lines, nil
}
