package memory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Episode is an immutable-after-creation record of one ability invocation,
// or a synthetic summary of several (a meta-episode). Meta-episodes link the
// episodes they were compacted from by ID; the children stay addressable
// through the manager's arena and the long-term store even after eviction
// from the working window.
type Episode struct {
	ID          string    `json:"id"`
	Goal        string    `json:"goal"`
	Ability     string    `json:"ability"`
	Arguments   string    `json:"arguments"`
	Observation string    `json:"observation"`
	Overview    string    `json:"overview"`
	CreatedAt   time.Time `json:"created_at"`
	Order       int       `json:"order"`
	ChildIDs    []string  `json:"child_ids,omitempty"`
}

// NewEpisode creates an episode for one ability invocation.
func NewEpisode(goal, ability, arguments, observation string) Episode {
	return Episode{
		ID:          uuid.NewString(),
		Goal:        goal,
		Ability:     ability,
		Arguments:   arguments,
		Observation: observation,
		Overview:    fmt.Sprintf("Performed %s for goal: %s", ability, firstLine(goal)),
		CreatedAt:   time.Now(),
	}
}

// Description returns the human-readable form used in prompts and for token
// accounting.
func (e Episode) Description() string {
	return FormatDescription(e.Ability, e.Arguments, e.Observation)
}

// IsMeta reports whether the episode is a synthetic summary.
func (e Episode) IsMeta() bool {
	return len(e.ChildIDs) > 0
}

// FormatDescription renders an invocation the way episodes describe
// themselves, without allocating an Episode.
func FormatDescription(ability, arguments, observation string) string {
	return fmt.Sprintf("Ability: %s\nArguments: %s\nResult: %s", ability, arguments, observation)
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
