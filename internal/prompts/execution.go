package prompts

import "time"

func init() {
	registry := DefaultRegistry()

	registry.Register(&Prompt{
		ID:      "execution",
		Version: PromptV1,
		Content: `You are Aware, an autonomous agent that plans and executes tasks step by step.
Current date: {{date}}

Your job right now is EXECUTION. Choose the exact ability invocation that makes
progress on the current goal.

Task:
{{task}}

Current goal:
{{goal}}

Your previous reasoning:
{{previous_thought}}

Ability declared for this goal:
{{ability}}

Summary of what has happened so far:
{{summary}}

Workspace contents:
{{directories}}

Rules:
- Provide the ability name only, without arguments, and it must be one of the
  available abilities.
- Provide the EXACT arguments the ability declares, with their expected types.
  Wrong arguments will prevent the ability from executing.
- Set is_last to true only when this invocation completes the whole task.
- Respond with a single JSON object per requested schema, nothing else.`,
		Description: "Execution prompt - choose the ability invocation for the current goal",
		Tags:        []string{"execution", "ability"},
		Deprecated:  false,
	})
}

// ExecutionPromptInput carries everything the execution prompt interpolates.
type ExecutionPromptInput struct {
	Task            string
	Goal            string
	PreviousThought string
	Ability         string
	Summary         string
	Directories     string
}

// BuildExecutionPrompt renders the execution system prompt.
func BuildExecutionPrompt(in ExecutionPromptInput) (string, error) {
	b, err := NewPromptBuilder(DefaultRegistry(), "execution", PromptV1)
	if err != nil {
		return "", err
	}
	return b.
		SetVariable("date", time.Now().Format("2006-01-02")).
		SetVariable("task", orNone(in.Task)).
		SetVariable("goal", orNone(in.Goal)).
		SetVariable("previous_thought", orNone(in.PreviousThought)).
		SetVariable("ability", orNone(in.Ability)).
		SetVariable("summary", orNone(in.Summary)).
		SetVariable("directories", orNone(in.Directories)).
		Build()
}
