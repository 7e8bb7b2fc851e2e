package memory

// Thought is the reasoning the oracle attached to its last decision. It is
// carried between steps so the next prompt can reference it.
type Thought struct {
	Reasoning string `json:"reasoning"`
}

// Render returns the human-readable form used in prompts.
func (t Thought) Render() string {
	return t.Reasoning
}
