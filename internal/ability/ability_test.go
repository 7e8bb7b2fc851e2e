package ability

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ChamsBouzaiene/aware/internal/workspace"
)

func testWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	ws, err := workspace.NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("NewWorkspace() error = %v", err)
	}
	return ws
}

func TestValidateArgs(t *testing.T) {
	a := Ability{
		Name: "read_file",
		SchemaJSON: `{
			"type": "object",
			"required": ["file_path"],
			"properties": {"file_path": {"type": "string"}}
		}`,
	}

	if err := a.ValidateArgs(map[string]any{"file_path": "notes.txt"}); err != nil {
		t.Errorf("ValidateArgs() error = %v, want nil", err)
	}

	err := a.ValidateArgs(map[string]any{})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("ValidateArgs() error = %v, want ValidationError", err)
	}
	if validation.AbilityName != "read_file" {
		t.Errorf("Got ability name %q in error", validation.AbilityName)
	}

	if err := a.ValidateArgs(map[string]any{"file_path": 42}); err == nil {
		t.Error("ValidateArgs() accepted a non-string file_path")
	}
}

func TestRegistryRun(t *testing.T) {
	ctx := context.Background()
	reg := make(Registry)
	reg.Register(Ability{
		Name:       "echo",
		SchemaJSON: `{"type": "object", "required": ["value"], "properties": {"value": {"type": "string"}}}`,
		Fn: func(ctx context.Context, taskID string, args map[string]any) (string, error) {
			return args["value"].(string), nil
		},
	})

	got, err := reg.Run(ctx, "t-1", "echo", map[string]any{"value": "hello"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got != "hello" {
		t.Errorf("Got %q, want hello", got)
	}

	if _, err := reg.Run(ctx, "t-1", "missing", nil); err == nil || !strings.Contains(err.Error(), "ability not found") {
		t.Errorf("Run() with unknown ability error = %v", err)
	}
	if _, err := reg.Run(ctx, "t-1", "echo", map[string]any{}); err == nil {
		t.Error("Run() skipped argument validation")
	}
}

func TestRegistryRunRetriesRetryable(t *testing.T) {
	ctx := context.Background()
	reg := make(Registry)

	flakyCalls := 0
	reg.Register(Ability{
		Name:       "flaky",
		SchemaJSON: `{"type": "object"}`,
		Retryable:  true,
		Fn: func(ctx context.Context, taskID string, args map[string]any) (string, error) {
			flakyCalls++
			if flakyCalls == 1 {
				return "", errors.New("transient")
			}
			return "recovered", nil
		},
	})

	brokenCalls := 0
	reg.Register(Ability{
		Name:       "broken",
		SchemaJSON: `{"type": "object"}`,
		Fn: func(ctx context.Context, taskID string, args map[string]any) (string, error) {
			brokenCalls++
			return "", errors.New("permanent")
		},
	})

	got, err := reg.Run(ctx, "t-1", "flaky", map[string]any{})
	if err != nil {
		t.Fatalf("Run() error = %v, want the retry to recover", err)
	}
	if got != "recovered" || flakyCalls != 2 {
		t.Errorf("Got %q after %d calls, want recovered after 2", got, flakyCalls)
	}

	if _, err := reg.Run(ctx, "t-1", "broken", map[string]any{}); err == nil {
		t.Fatal("Run() swallowed a non-retryable failure")
	}
	if brokenCalls != 1 {
		t.Errorf("non-retryable ability ran %d times, want 1", brokenCalls)
	}
}

func TestRegistryCatalog(t *testing.T) {
	ws := testWorkspace(t)
	reg := DefaultRegistry(ws)

	names := reg.Names()
	want := []string{"finish", "list_files", "read_file", "write_file"}
	if len(names) != len(want) {
		t.Fatalf("Got names %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	catalog := reg.Catalog()
	for _, name := range want {
		if !strings.Contains(catalog, name+": ") {
			t.Errorf("Catalog() missing signature for %s", name)
		}
	}
}

func TestFinishAbility(t *testing.T) {
	ctx := context.Background()
	finish := NewFinishAbility()

	got, err := finish.Fn(ctx, "t-1", map[string]any{"reason": "all done"})
	if err != nil {
		t.Fatalf("finish error = %v", err)
	}
	if got != "all done" {
		t.Errorf("Got %q, want all done", got)
	}

	got, err = finish.Fn(ctx, "t-1", map[string]any{})
	if err != nil || got != "Task finished." {
		t.Errorf("Got %q, %v; want the default observation", got, err)
	}
}

func TestFilesystemAbilities(t *testing.T) {
	ctx := context.Background()
	ws := testWorkspace(t)
	reg := DefaultRegistry(ws)

	out, err := reg.Run(ctx, "t-1", "write_file", map[string]any{"file_path": "out.txt", "content": "hello"})
	if err != nil {
		t.Fatalf("write_file error = %v", err)
	}
	if out != "Wrote 5 bytes to out.txt" {
		t.Errorf("Got %q", out)
	}

	content, err := reg.Run(ctx, "t-1", "read_file", map[string]any{"file_path": "out.txt"})
	if err != nil {
		t.Fatalf("read_file error = %v", err)
	}
	if content != "hello" {
		t.Errorf("Got %q, want hello", content)
	}

	listing, err := reg.Run(ctx, "t-1", "list_files", map[string]any{})
	if err != nil {
		t.Fatalf("list_files error = %v", err)
	}
	if !strings.Contains(listing, "out.txt") {
		t.Errorf("Got listing %q", listing)
	}

	// Another task must not see the file.
	other, err := reg.Run(ctx, "t-2", "list_files", map[string]any{})
	if err != nil {
		t.Fatalf("list_files for second task error = %v", err)
	}
	if other != "The directory is empty." {
		t.Errorf("Got %q, want an empty directory for the second task", other)
	}
}
