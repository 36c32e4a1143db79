package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"vired/internal/ports"
)

var _ ports.VersionControl = (*Git)(nil)

// Git implements ports.VersionControl by running the git binary
type Git struct {
	binary string
}

// New creates a Git adapter using git from PATH
func New() *Git {
	return &Git{binary: "git"}
}

// Available reports whether the git binary can be found
func (g *Git) Available() bool {
	_, err := exec.LookPath(g.binary)
	return err == nil
}

// IsTracked reports whether path is inside a git working tree
func (g *Git) IsTracked(ctx context.Context, path string) (bool, error) {
	out, err := g.run(ctx, existingDir(path), "rev-parse", "--is-inside-work-tree")
	if err != nil {
		return false, nil
	}
	return out == "true", nil
}

// Root returns the top level of the working tree containing path
func (g *Git) Root(ctx context.Context, path string) (string, error) {
	out, err := g.run(ctx, existingDir(path), "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("failed to get repository root: %w", err)
	}
	return out, nil
}

// Move runs git mv
func (g *Git) Move(ctx context.Context, root, src, dst string) error {
	if _, err := g.run(ctx, root, "mv", "--", src, dst); err != nil {
		return fmt.Errorf("failed to move %s: %w", src, err)
	}
	return nil
}

// Remove drops path from the index and leaves the working tree alone
func (g *Git) Remove(ctx context.Context, root, path string) error {
	if _, err := g.run(ctx, root, "rm", "-r", "--cached", "--quiet", "--ignore-unmatch", "--", path); err != nil {
		return fmt.Errorf("failed to untrack %s: %w", path, err)
	}
	return nil
}

func (g *Git) run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, g.binary, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("git %s: %w: %s", args[0], err, msg)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return strings.TrimSpace(string(output)), nil
}

// existingDir walks up from path to the nearest directory that exists
func existingDir(path string) string {
	dir := path
	for {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
