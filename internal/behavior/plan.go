package behavior

import (
	"context"

	"github.com/ChamsBouzaiene/aware/internal/memory"
	"github.com/ChamsBouzaiene/aware/internal/prompts"
)

// ThoughtSchema validates the reasoning container.
const ThoughtSchema = `{
	"type": "object",
	"required": ["reasoning"],
	"properties": {
		"reasoning": {
			"type": "string",
			"description": "Explanation for your decision, encompassing supporting logic and areas for improvement."
		}
	}
}`

// PlanSchema validates the goal-list container.
const PlanSchema = `{
	"type": "object",
	"required": ["goals"],
	"properties": {
		"goals": {
			"type": "array",
			"description": "The updated list of goals to work on; consider previous goals and update them based on new information.",
			"items": {
				"type": "object",
				"required": ["description", "ability", "validation_condition", "status"],
				"properties": {
					"description": {"type": "string"},
					"ability": {"type": "string"},
					"validation_condition": {"type": "string"},
					"status": {"type": "string", "enum": ["NOT_STARTED", "IN_PROGRESS", "SUCCEEDED", "FAILED"]}
				}
			}
		}
	}
}`

// Plan is the oracle's wholesale-replacement goal list.
type Plan struct {
	Goals []memory.Goal `json:"goals"`
}

// Finished reports whether every planned goal reached a terminal status.
func (p Plan) Finished() bool {
	return memory.AllFinished(p.Goals)
}

// NextGoal returns the first unfinished goal in list order, or nil.
func (p Plan) NextGoal() *memory.Goal {
	return memory.FirstUnfinished(p.Goals)
}

// PlanInput is the context rendered into the planning prompt.
type PlanInput struct {
	Task            string
	PreviousThought string
	Summary         string
	Abilities       string
	Directories     string
}

// GetPlan runs the Plan decision: one oracle round-trip parsed into a
// reasoning container and a goal-list container. Either may come back nil
// with a ParseExhaustedError when the retry protocol is spent.
func (p *Parser) GetPlan(ctx context.Context, in PlanInput) (*memory.Thought, *Plan, error) {
	system, err := prompts.BuildPlanPrompt(prompts.PlanPromptInput{
		Task:            in.Task,
		PreviousThought: in.PreviousThought,
		Summary:         in.Summary,
		Abilities:       in.Abilities,
		Directories:     in.Directories,
	})
	if err != nil {
		return nil, nil, err
	}

	session, err := p.newSession(ctx, system, "Provide your reasoning and the updated goal list as JSON objects.")
	if err != nil {
		return nil, nil, err
	}

	thought, err := containerOf[memory.Thought](ctx, session, "Thought", ThoughtSchema)
	if err != nil {
		return nil, nil, err
	}
	plan, err := containerOf[Plan](ctx, session, "Plan", PlanSchema)
	if err != nil {
		return thought, nil, err
	}
	return thought, plan, nil
}
