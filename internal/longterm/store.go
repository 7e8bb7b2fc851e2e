// Package longterm persists episodes and text chunks beyond a task's working
// window and retrieves them by full-text similarity.

package longterm

import (
	"context"

	"github.com/ChamsBouzaiene/aware/internal/memory"
)

// EpisodeHit is one retrieved episode with its similarity score.
type EpisodeHit struct {
	ID     string
	Score  float64
	Record memory.EpisodeRecord
}

// ChunkHit is one retrieved text chunk with its similarity score.
type ChunkHit struct {
	ID    string
	Score float64
	Text  string
}

// Store is the long-term memory contract. StoreEpisode also satisfies
// memory.LongTermStore so a Store can back an episode manager directly.
type Store interface {
	StoreEpisode(ctx context.Context, rec memory.EpisodeRecord) (string, error)
	SearchEpisode(ctx context.Context, query string, topK int, minScore float64) (*EpisodeHit, error)
	StoreChunk(ctx context.Context, text string) (string, error)
	SearchChunks(ctx context.Context, query string, topK int, minScore float64) ([]ChunkHit, error)
	Close() error
}
