package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteReadList(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("NewWorkspace() error = %v", err)
	}

	if err := ws.Write("t-1", "nested/dir/out.txt", []byte("content")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	data, err := ws.Read("t-1", "nested/dir/out.txt")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(data) != "content" {
		t.Errorf("Got %q, want content", data)
	}

	names, err := ws.List("t-1", "nested")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(names) != 1 || names[0] != "dir/" {
		t.Errorf("Got %v, want [dir/]", names)
	}
}

func TestResolveRejectsEscapes(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("NewWorkspace() error = %v", err)
	}

	tests := []string{
		"../outside.txt",
		"../../etc/passwd",
		"nested/../../escape.txt",
	}
	for _, rel := range tests {
		if _, err := ws.Read("t-1", rel); err == nil {
			t.Errorf("Read(%q) succeeded, want an escape rejection", rel)
		}
		if err := ws.Write("t-1", rel, []byte("x")); err == nil {
			t.Errorf("Write(%q) succeeded, want an escape rejection", rel)
		}
	}

	abs := filepath.Join(os.TempDir(), "abs.txt")
	if err := ws.Write("t-1", abs, []byte("x")); err == nil {
		t.Error("Write() accepted an absolute path")
	}
}

func TestResolveAllowsDotInside(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("NewWorkspace() error = %v", err)
	}
	if err := ws.Write("t-1", "./a/../b.txt", []byte("x")); err != nil {
		t.Errorf("Write() rejected a path that stays inside: %v", err)
	}
}

func TestDirectoriesEmpty(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("NewWorkspace() error = %v", err)
	}
	got, err := ws.Directories("t-1")
	if err != nil {
		t.Fatalf("Directories() error = %v", err)
	}
	if got != "The workspace is empty." {
		t.Errorf("Got %q", got)
	}
}

func TestDirectoriesHonorsGitignore(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("NewWorkspace() error = %v", err)
	}

	if err := ws.Write("t-1", ".gitignore", []byte("ignored/\n*.log\n")); err != nil {
		t.Fatal(err)
	}
	if err := ws.Write("t-1", "keep.txt", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := ws.Write("t-1", "debug.log", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := ws.Write("t-1", "ignored/secret.txt", []byte("x")); err != nil {
		t.Fatal(err)
	}

	got, err := ws.Directories("t-1")
	if err != nil {
		t.Fatalf("Directories() error = %v", err)
	}
	if !strings.Contains(got, "keep.txt") {
		t.Errorf("Directories() missing keep.txt:\n%s", got)
	}
	if strings.Contains(got, "debug.log") {
		t.Errorf("Directories() lists an ignored file:\n%s", got)
	}
	if strings.Contains(got, "secret.txt") {
		t.Errorf("Directories() descends into an ignored directory:\n%s", got)
	}
}

func TestTaskIsolation(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("NewWorkspace() error = %v", err)
	}
	if err := ws.Write("t-1", "private.txt", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if _, err := ws.Read("t-2", "private.txt"); err == nil {
		t.Error("a task read another task's file")
	}
}
