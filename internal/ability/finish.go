package ability

import "context"

// NewFinishAbility returns the sentinel ability that concludes a task. Its
// observation is the final answer handed back to the caller.
func NewFinishAbility() Ability {
	return Ability{
		Name:        FinishName,
		Description: "Conclude the task and report the final result. Use this once every goal is finished.",
		SchemaJSON: `{
			"type": "object",
			"required": ["reason"],
			"properties": {
				"reason": {
					"type": "string",
					"description": "The final answer or a summary of what was accomplished."
				}
			}
		}`,
		Retryable: false,
		Fn: func(ctx context.Context, taskID string, args map[string]any) (string, error) {
			reason, _ := args["reason"].(string)
			if reason == "" {
				reason = "Task finished."
			}
			return reason, nil
		},
	}
}
