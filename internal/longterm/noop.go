package longterm

import (
	"context"

	"github.com/google/uuid"

	"github.com/ChamsBouzaiene/aware/internal/memory"
)

// Noop discards everything and finds nothing. Used when long-term memory is
// disabled.
type Noop struct{}

func (Noop) StoreEpisode(ctx context.Context, rec memory.EpisodeRecord) (string, error) {
	if rec.ID != "" {
		return rec.ID, nil
	}
	return uuid.NewString(), nil
}

func (Noop) SearchEpisode(ctx context.Context, query string, topK int, minScore float64) (*EpisodeHit, error) {
	return nil, nil
}

func (Noop) StoreChunk(ctx context.Context, text string) (string, error) {
	return uuid.NewString(), nil
}

func (Noop) SearchChunks(ctx context.Context, query string, topK int, minScore float64) ([]ChunkHit, error) {
	return nil, nil
}

func (Noop) Close() error { return nil }
