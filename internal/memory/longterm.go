package memory

import (
	"context"
	"time"
)

// EpisodeRecord is the durable form of an episode handed to long-term storage.
// ID carries the episode's own identifier so the ChildIDs recorded on
// meta-episodes resolve against the store.
type EpisodeRecord struct {
	ID          string
	Overview    string
	Goal        string
	Ability     string
	Arguments   string
	Observation string
	CreatedAt   time.Time
	ChildIDs    []string
}

// LongTermStore receives every episode the manager creates. Implementations
// live outside this package; failures degrade memory instead of blocking it.
type LongTermStore interface {
	StoreEpisode(ctx context.Context, rec EpisodeRecord) (string, error)
}

func recordOf(e Episode) EpisodeRecord {
	return EpisodeRecord{
		ID:          e.ID,
		Overview:    e.Overview,
		Goal:        e.Goal,
		Ability:     e.Ability,
		Arguments:   e.Arguments,
		Observation: e.Observation,
		CreatedAt:   e.CreatedAt,
		ChildIDs:    e.ChildIDs,
	}
}
