package prompts

import (
	"strings"
	"testing"
)

func TestRegistryGet(t *testing.T) {
	registry := NewPromptRegistry()
	registry.Register(&Prompt{ID: "greet", Version: PromptV1, Content: "hello"})

	got, err := registry.Get("greet", PromptV1)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Content != "hello" {
		t.Errorf("Got content %q", got.Content)
	}

	if _, err := registry.Get("missing", PromptV1); err == nil {
		t.Error("Get() for a missing prompt succeeded")
	}
	if _, err := registry.Get("greet", PromptVersion("9.9.9")); err == nil {
		t.Error("Get() for a missing version succeeded")
	}
}

func TestRegistryGetLatest(t *testing.T) {
	registry := NewPromptRegistry()
	registry.Register(&Prompt{ID: "greet", Version: PromptVersion("1.0.0"), Content: "old"})
	registry.Register(&Prompt{ID: "greet", Version: PromptVersion("2.0.0"), Content: "new"})

	got, err := registry.GetLatest("greet")
	if err != nil {
		t.Fatalf("GetLatest() error = %v", err)
	}
	if got.Content != "new" {
		t.Errorf("Got content %q, want the newest version", got.Content)
	}
}

func TestRegistryGetLatestSkipsDeprecated(t *testing.T) {
	registry := NewPromptRegistry()
	registry.Register(&Prompt{ID: "greet", Version: PromptVersion("1.0.0"), Content: "stable"})
	registry.Register(&Prompt{ID: "greet", Version: PromptVersion("2.0.0"), Content: "broken", Deprecated: true})

	got, err := registry.GetLatest("greet")
	if err != nil {
		t.Fatalf("GetLatest() error = %v", err)
	}
	if got.Content != "stable" {
		t.Errorf("Got content %q, want the non-deprecated version", got.Content)
	}
}

func TestPromptBuilderSubstitution(t *testing.T) {
	registry := NewPromptRegistry()
	registry.Register(&Prompt{ID: "greet", Version: PromptV1, Content: "Hello {{name}}, welcome to {{place}}."})

	b, err := NewPromptBuilder(registry, "greet", PromptV1)
	if err != nil {
		t.Fatalf("NewPromptBuilder() error = %v", err)
	}
	got, err := b.
		SetVariable("name", "Ada").
		SetVariable("place", "the machine room").
		AddFragment("Extra instructions: {{name}} goes first.").
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := "Hello Ada, welcome to the machine room.\n\nExtra instructions: Ada goes first."
	if got != want {
		t.Errorf("Build() = %q, want %q", got, want)
	}
}

func TestBuildPlanPrompt(t *testing.T) {
	got, err := BuildPlanPrompt(PlanPromptInput{
		Task:      "write a haiku",
		Abilities: "write_file: writes files",
	})
	if err != nil {
		t.Fatalf("BuildPlanPrompt() error = %v", err)
	}
	if !strings.Contains(got, "write a haiku") {
		t.Error("plan prompt missing the task")
	}
	if !strings.Contains(got, "write_file: writes files") {
		t.Error("plan prompt missing the abilities")
	}
	// Empty inputs render as None rather than holes.
	if !strings.Contains(got, "Summary of what has happened so far:\nNone") {
		t.Error("empty summary did not render as None")
	}
	if strings.Contains(got, "{{") {
		t.Errorf("unsubstituted placeholder left in prompt:\n%s", got)
	}
}

func TestBuildExecutionPrompt(t *testing.T) {
	got, err := BuildExecutionPrompt(ExecutionPromptInput{
		Task:    "write a haiku",
		Goal:    "Description: draft the haiku",
		Ability: "write_file: writes files\nArgs: {}",
	})
	if err != nil {
		t.Fatalf("BuildExecutionPrompt() error = %v", err)
	}
	for _, want := range []string{"write a haiku", "Description: draft the haiku", "write_file: writes files"} {
		if !strings.Contains(got, want) {
			t.Errorf("execution prompt missing %q", want)
		}
	}
	if strings.Contains(got, "{{") {
		t.Errorf("unsubstituted placeholder left in prompt:\n%s", got)
	}
}

func TestBuildFixFormatPrompt(t *testing.T) {
	got, err := BuildFixFormatPrompt("bad response", `{"type":"object"}`, "no JSON object found")
	if err != nil {
		t.Fatalf("BuildFixFormatPrompt() error = %v", err)
	}
	for _, want := range []string{"bad response", `{"type":"object"}`, "no JSON object found"} {
		if !strings.Contains(got, want) {
			t.Errorf("fix prompt missing %q", want)
		}
	}
}
