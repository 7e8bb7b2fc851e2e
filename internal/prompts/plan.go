package prompts

import "time"

func init() {
	registry := DefaultRegistry()

	registry.Register(&Prompt{
		ID:      "plan",
		Version: PromptV1,
		Content: `You are Aware, an autonomous agent that plans and executes tasks step by step.
Current date: {{date}}

Your job right now is PLANNING. Break the task into a short list of concrete goals,
each achievable with exactly one of the available abilities.

Task:
{{task}}

Your previous reasoning:
{{previous_thought}}

Summary of what has happened so far:
{{summary}}

Available abilities:
{{abilities}}

Workspace contents:
{{directories}}

Rules:
- Each goal needs a description, the single ability that achieves it, a validation
  condition that proves it is done, and a status.
- Consider previous goals and update them based on new information; keep finished
  goals with their final status instead of dropping them.
- Valid statuses are: NOT_STARTED, IN_PROGRESS, SUCCEEDED, FAILED.
- Prefer few goals. Do not plan work the task does not ask for.
- Respond with a single JSON object matching the requested schema, nothing else.`,
		Description: "Planning prompt - produce or revise the goal list for a task",
		Tags:        []string{"plan", "goals"},
		Deprecated:  false,
	})
}

// PlanPromptInput carries everything the planning prompt interpolates.
type PlanPromptInput struct {
	Task            string
	PreviousThought string
	Summary         string
	Abilities       string
	Directories     string
}

// BuildPlanPrompt renders the planning system prompt.
func BuildPlanPrompt(in PlanPromptInput) (string, error) {
	b, err := NewPromptBuilder(DefaultRegistry(), "plan", PromptV1)
	if err != nil {
		return "", err
	}
	return b.
		SetVariable("date", time.Now().Format("2006-01-02")).
		SetVariable("task", orNone(in.Task)).
		SetVariable("previous_thought", orNone(in.PreviousThought)).
		SetVariable("summary", orNone(in.Summary)).
		SetVariable("abilities", orNone(in.Abilities)).
		SetVariable("directories", orNone(in.Directories)).
		Build()
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
