package ports

import "os/exec"

// EditorOpener launches the user's text editor on a file
type EditorOpener interface {
	// Edit opens path and blocks until the editor exits
	Edit(path string) error

	// Command returns the editor process without starting it,
	// for callers that hand the terminal over themselves
	Command(path string) (*exec.Cmd, error)
}
