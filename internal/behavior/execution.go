package behavior

import (
	"context"
	"fmt"

	"github.com/ChamsBouzaiene/aware/internal/memory"
	"github.com/ChamsBouzaiene/aware/internal/prompts"
)

// ExecutionSchema validates the ability-invocation container.
const ExecutionSchema = `{
	"type": "object",
	"required": ["ability", "arguments", "is_last"],
	"properties": {
		"ability": {
			"type": "string",
			"description": "The name of the ability (only name, without arguments); must be one of the available abilities."
		},
		"arguments": {
			"type": "object",
			"description": "The EXACT arguments the ability declares, with their expected format."
		},
		"is_last": {
			"type": "boolean",
			"description": "Whether this is the last action required to achieve the task."
		}
	}
}`

// Execution is the oracle's concrete ability invocation for one step.
type Execution struct {
	Ability   string         `json:"ability"`
	Arguments map[string]any `json:"arguments"`
	IsLast    bool           `json:"is_last"`
}

// FullCommand renders the invocation for logs and observations.
func (e Execution) FullCommand() string {
	return fmt.Sprintf("Ability: %s with args: %v", e.Ability, e.Arguments)
}

// ExecutionInput is the context rendered into the execution prompt.
type ExecutionInput struct {
	Task            string
	Goal            string
	PreviousThought string
	Ability         string
	Summary         string
	Directories     string
}

// GetExecution runs the Execution decision: one oracle round-trip parsed
// into a reasoning container and an invocation container, independently.
func (p *Parser) GetExecution(ctx context.Context, in ExecutionInput) (*memory.Thought, *Execution, error) {
	system, err := prompts.BuildExecutionPrompt(prompts.ExecutionPromptInput{
		Task:            in.Task,
		Goal:            in.Goal,
		PreviousThought: in.PreviousThought,
		Ability:         in.Ability,
		Summary:         in.Summary,
		Directories:     in.Directories,
	})
	if err != nil {
		return nil, nil, err
	}

	session, err := p.newSession(ctx, system, "Provide your reasoning and the ability invocation as JSON objects.")
	if err != nil {
		return nil, nil, err
	}

	thought, err := containerOf[memory.Thought](ctx, session, "Thought", ThoughtSchema)
	if err != nil {
		return nil, nil, err
	}
	execution, err := containerOf[Execution](ctx, session, "Execution", ExecutionSchema)
	if err != nil {
		return thought, nil, err
	}
	return thought, execution, nil
}
