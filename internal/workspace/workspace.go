// Package workspace gives each task an isolated directory for the files its
// abilities read and write.

package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// Workspace roots every task's files under base/<taskID>. Paths handed to
// abilities are relative to the task directory and may never escape it.
type Workspace struct {
	base string
}

// NewWorkspace creates the base directory if needed.
func NewWorkspace(base string) (*Workspace, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace base: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create workspace base: %w", err)
	}
	return &Workspace{base: abs}, nil
}

// Base returns the workspace root.
func (w *Workspace) Base() string {
	return w.base
}

// TaskDir returns the directory for a task, creating it if needed.
func (w *Workspace) TaskDir(taskID string) (string, error) {
	dir := filepath.Join(w.base, taskID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create task dir: %w", err)
	}
	return dir, nil
}

// resolve maps a task-relative path to an absolute one, rejecting escapes.
func (w *Workspace) resolve(taskID, rel string) (string, error) {
	dir, err := w.TaskDir(taskID)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("absolute paths are not allowed: %s", rel)
	}
	full := filepath.Clean(filepath.Join(dir, rel))
	if full != dir && !strings.HasPrefix(full, dir+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes the task workspace: %s", rel)
	}
	return full, nil
}

// Read returns the contents of a file in the task workspace.
func (w *Workspace) Read(taskID, rel string) ([]byte, error) {
	full, err := w.resolve(taskID, rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rel, err)
	}
	return data, nil
}

// Write stores a file in the task workspace, creating parent directories.
func (w *Workspace) Write(taskID, rel string, data []byte) error {
	full, err := w.resolve(taskID, rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create parent dirs for %s: %w", rel, err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	return nil
}

// List returns the entries directly under a task-relative directory.
func (w *Workspace) List(taskID, rel string) ([]string, error) {
	full, err := w.resolve(taskID, rel)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(full)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", rel, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Directories renders the task workspace tree for prompt context. Entries
// matched by a .gitignore at the task root are skipped.
func (w *Workspace) Directories(taskID string) (string, error) {
	dir, err := w.TaskDir(taskID)
	if err != nil {
		return "", err
	}

	var ignore *gitignore.GitIgnore
	if gi, err := gitignore.CompileIgnoreFile(filepath.Join(dir, ".gitignore")); err == nil {
		ignore = gi
	}

	var paths []string
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if ignore != nil && ignore.MatchesPath(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			rel += "/"
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to walk task dir: %w", err)
	}

	if len(paths) == 0 {
		return "The workspace is empty.", nil
	}
	sort.Strings(paths)
	return "- " + strings.Join(paths, "\n- "), nil
}
