package views

import (
	"path/filepath"

	"vired/internal/application"
)

// ChangeDirMsg asks the app to browse another directory. From is the
// directory being left, so the cursor can land on it.
type ChangeDirMsg struct {
	Dir  string
	From string
}

// OpenFileMsg asks the app to open a file in the external editor
type OpenFileMsg struct {
	Path string
}

// BeginEditMsg asks the app to freeze the listing and enter edit mode
type BeginEditMsg struct{}

// PreviewMsg carries an edited buffer to be diffed
type PreviewMsg struct {
	Lines []string
}

// CommitMsg confirms an edited buffer
type CommitMsg struct {
	Lines []string
}

// CancelEditMsg leaves edit mode without changes
type CancelEditMsg struct{}

// BackToEditorMsg returns from the preview to keep editing
type BackToEditorMsg struct{}

// UndoMsg asks for an undo, or a redo when Redo is set
type UndoMsg struct {
	Redo bool
}

// RefreshMsg asks for a fresh listing
type RefreshMsg struct{}

// ToggleHiddenMsg flips whether dot files are listed
type ToggleHiddenMsg struct{}

// StatusMsg shows a message in the current view
type StatusMsg struct {
	Text string
	Err  bool
}

// CommitDoneMsg reports a finished batch
type CommitDoneMsg struct {
	Result *application.BatchResult
	Err    error
}

type SwitchToHelpMsg struct{}

type SwitchToBrowserMsg struct{}

func parentDir(dir string) string {
	if dir == "" {
		return dir
	}
	return filepath.Dir(dir)
}
