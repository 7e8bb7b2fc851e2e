package longterm

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/google/uuid"

	"github.com/ChamsBouzaiene/aware/internal/memory"
)

const (
	docTypeEpisode = "episode"
	docTypeChunk   = "chunk"
)

// BleveStore is a full-text long-term memory backed by a bleve index on disk.
type BleveStore struct {
	index bleve.Index
	path  string
}

// NewBleveStore creates or opens the index at path. A corrupted index is
// deleted and recreated rather than failing the whole agent.
func NewBleveStore(path string) (*BleveStore, error) {
	index, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		index, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create long-term index: %w", err)
		}
	} else if err != nil {
		log.Printf("long-term index appears corrupted (error: %v), recreating...", err)
		if index != nil {
			index.Close()
		}
		if err := os.RemoveAll(path); err != nil {
			return nil, fmt.Errorf("failed to remove corrupted index: %w", err)
		}
		index, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to recreate long-term index: %w", err)
		}
	}

	return &BleveStore{index: index, path: path}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()

	// Identity fields, stored verbatim.
	for _, name := range []string{"doc_type", "ability", "created_at", "child_ids"} {
		field := bleve.NewTextFieldMapping()
		field.Analyzer = keyword.Name
		field.Store = true
		field.Index = true
		docMapping.AddFieldMappingsAt(name, field)
	}

	// Searchable text fields.
	for _, name := range []string{"overview", "goal", "arguments", "observation", "text"} {
		field := bleve.NewTextFieldMapping()
		field.Analyzer = standard.Name
		field.Store = true
		field.Index = true
		docMapping.AddFieldMappingsAt(name, field)
	}

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// StoreEpisode indexes an episode record under the episode's own id so
// meta-episode child links resolve against the store. Records without an id
// get a fresh one.
func (s *BleveStore) StoreEpisode(ctx context.Context, rec memory.EpisodeRecord) (string, error) {
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	doc := map[string]interface{}{
		"doc_type":    docTypeEpisode,
		"overview":    rec.Overview,
		"goal":        rec.Goal,
		"ability":     rec.Ability,
		"arguments":   rec.Arguments,
		"observation": rec.Observation,
		"created_at":  rec.CreatedAt.Format(time.RFC3339),
		"child_ids":   strings.Join(rec.ChildIDs, ","),
	}
	if err := s.index.Index(id, doc); err != nil {
		return "", fmt.Errorf("failed to index episode: %w", err)
	}
	return id, nil
}

// SearchEpisode returns the best-scoring episode for the query, or nil when
// nothing clears minScore.
func (s *BleveStore) SearchEpisode(ctx context.Context, query string, topK int, minScore float64) (*EpisodeHit, error) {
	hits, err := s.search(query, docTypeEpisode, topK)
	if err != nil {
		return nil, err
	}
	for _, hit := range hits {
		if hit.Score < minScore {
			continue
		}
		rec := memory.EpisodeRecord{
			Overview:    fieldString(hit.Fields, "overview"),
			Goal:        fieldString(hit.Fields, "goal"),
			Ability:     fieldString(hit.Fields, "ability"),
			Arguments:   fieldString(hit.Fields, "arguments"),
			Observation: fieldString(hit.Fields, "observation"),
		}
		if raw := fieldString(hit.Fields, "created_at"); raw != "" {
			if t, err := time.Parse(time.RFC3339, raw); err == nil {
				rec.CreatedAt = t
			}
		}
		if raw := fieldString(hit.Fields, "child_ids"); raw != "" {
			rec.ChildIDs = strings.Split(raw, ",")
		}
		return &EpisodeHit{ID: hit.ID, Score: hit.Score, Record: rec}, nil
	}
	return nil, nil
}

// StoreChunk indexes a generic text chunk and returns its id.
func (s *BleveStore) StoreChunk(ctx context.Context, text string) (string, error) {
	id := uuid.NewString()
	doc := map[string]interface{}{
		"doc_type":   docTypeChunk,
		"text":       text,
		"created_at": time.Now().Format(time.RFC3339),
	}
	if err := s.index.Index(id, doc); err != nil {
		return "", fmt.Errorf("failed to index chunk: %w", err)
	}
	return id, nil
}

// SearchChunks returns up to topK chunks scoring at least minScore.
func (s *BleveStore) SearchChunks(ctx context.Context, query string, topK int, minScore float64) ([]ChunkHit, error) {
	hits, err := s.search(query, docTypeChunk, topK)
	if err != nil {
		return nil, err
	}
	var out []ChunkHit
	for _, hit := range hits {
		if hit.Score < minScore {
			continue
		}
		out = append(out, ChunkHit{ID: hit.ID, Score: hit.Score, Text: fieldString(hit.Fields, "text")})
	}
	return out, nil
}

type rawHit struct {
	ID     string
	Score  float64
	Fields map[string]interface{}
}

func (s *BleveStore) search(query, docType string, topK int) ([]rawHit, error) {
	if topK <= 0 {
		topK = 5
	}
	matchQuery := bleve.NewMatchQuery(query)

	typeQuery := bleve.NewTermQuery(docType)
	typeQuery.SetField("doc_type")

	combined := bleve.NewConjunctionQuery(matchQuery, typeQuery)

	request := bleve.NewSearchRequest(combined)
	request.Size = topK
	request.Fields = []string{"*"}

	result, err := s.index.Search(request)
	if err != nil {
		return nil, fmt.Errorf("long-term search failed: %w", err)
	}

	hits := make([]rawHit, 0, len(result.Hits))
	for _, hit := range result.Hits {
		hits = append(hits, rawHit{ID: hit.ID, Score: hit.Score, Fields: hit.Fields})
	}
	return hits, nil
}

func fieldString(fields map[string]interface{}, name string) string {
	if v, ok := fields[name].(string); ok {
		return v
	}
	return ""
}

// Close closes the underlying index.
func (s *BleveStore) Close() error {
	return s.index.Close()
}
