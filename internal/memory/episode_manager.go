package memory

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/ChamsBouzaiene/aware/internal/engine"
)

// Chunk ordinal prefix for multi-episode observations.
const chunkPrefixFormat = "This is chunk %d of %d produced while performing ability: %s\n"

// Token slack reserved for the summary template when packing meta-episode
// chunks.
const metaPromptSlack = 100

// EpisodeManagerOptions configures a manager. Zero values get defaults
// derived from the model's context window.
type EpisodeManagerOptions struct {
	Model         string
	Tokenizer     engine.Tokenizer
	WindowBudget  int // max tokens across the working window
	SummaryBudget int // max tokens for the rolling summary
	ChunkBudget   int // max tokens per observation chunk
	OverlapTokens int // trailing overlap carried between chunks
	LongTerm      LongTermStore
}

// EpisodeManager keeps a token-bounded rolling window of episodes. When the
// window overflows, the oldest episodes are folded into a meta-episode that
// replaces the previous summary; nothing is dropped, every evicted episode
// stays reachable as a descendant of the summary and through the arena.
type EpisodeManager struct {
	tok           engine.Tokenizer
	model         string
	windowBudget  int
	summaryBudget int
	chunkBudget   int
	overlapTokens int

	episodes []Episode
	summary  *Episode
	arena    map[string]Episode

	longterm LongTermStore
	degraded bool
}

// NewEpisodeManager creates a manager with the given options.
func NewEpisodeManager(opts EpisodeManagerOptions) *EpisodeManager {
	tok := opts.Tokenizer
	if tok == nil {
		tok = engine.GetTokenizerForModel(opts.Model)
	}
	window := engine.ContextWindowForModel(opts.Model)
	if opts.WindowBudget <= 0 {
		opts.WindowBudget = window / 4
	}
	if opts.SummaryBudget <= 0 {
		opts.SummaryBudget = window / 4
	}
	if opts.ChunkBudget <= 0 {
		opts.ChunkBudget = window - window/5 - metaPromptSlack
	}
	if opts.OverlapTokens <= 0 {
		opts.OverlapTokens = 50
	}
	return &EpisodeManager{
		tok:           tok,
		model:         opts.Model,
		windowBudget:  opts.WindowBudget,
		summaryBudget: opts.SummaryBudget,
		chunkBudget:   opts.ChunkBudget,
		overlapTokens: opts.OverlapTokens,
		arena:         make(map[string]Episode),
		longterm:      opts.LongTerm,
	}
}

func (m *EpisodeManager) tokens(text string) int {
	n, err := m.tok.CountTokens(text, m.model)
	if err != nil {
		return engine.EstimateTokens(text)
	}
	return n
}

// AddEpisode appends an episode to the window, evicting oldest-first into the
// rolling summary when the window budget would be exceeded. The new episode
// is appended unconditionally afterward: the excess is computed from the
// window as it was before the append, so a bursty oversized episode is
// tolerated rather than rejected.
func (m *EpisodeManager) AddEpisode(ctx context.Context, ep Episode) {
	newTokens := m.tokens(ep.Description())
	currentTokens := 0
	for _, e := range m.episodes {
		currentTokens += m.tokens(e.Description())
	}

	excess := (currentTokens + newTokens) - m.windowBudget
	if excess > 0 {
		var evicted []Episode
		removed := 0
		for len(m.episodes) > 0 && removed < excess {
			oldest := m.episodes[0]
			removed += m.tokens(oldest.Description())
			evicted = append(evicted, oldest)
			m.episodes = m.episodes[1:]
		}
		if len(evicted) > 0 {
			if m.summary != nil {
				evicted = append([]Episode{*m.summary}, evicted...)
			}
			m.summary = m.CreateMetaEpisode(ctx, evicted, m.summaryBudget)
		}
	}

	ep.Order = len(m.episodes)
	m.episodes = append(m.episodes, ep)
	m.remember(ctx, ep)
}

// CreateEpisodes records one ability invocation. Observations that fit the
// chunk budget become a single episode; larger ones are split on sentence
// boundaries into ordinal-tagged chunk episodes which are folded into one
// meta-episode before entering the window.
func (m *EpisodeManager) CreateEpisodes(ctx context.Context, goal, ability, arguments, observation string) {
	full := FormatDescription(ability, arguments, observation)
	chunks := ChunkByTokens(m.tok, m.model, full, m.chunkBudget, m.overlapTokens)
	if len(chunks) == 0 {
		return
	}
	if len(chunks) == 1 {
		m.AddEpisode(ctx, NewEpisode(goal, ability, arguments, observation))
		return
	}

	episodes := make([]Episode, 0, len(chunks))
	for idx, chunk := range chunks {
		prefixed := fmt.Sprintf(chunkPrefixFormat, idx+1, len(chunks), ability) + chunk
		ep := NewEpisode(goal, ability, arguments, prefixed)
		ep.Order = idx
		m.remember(ctx, ep)
		episodes = append(episodes, ep)
	}

	meta := m.CreateMetaEpisode(ctx, episodes, m.summaryBudget)
	if meta != nil {
		m.AddEpisode(ctx, *meta)
	}
}

// CreateMetaEpisode compacts episodes into a synthetic summary episode.
// Zero episodes yield nil; a single episode is returned unchanged. Otherwise
// whole-episode descriptions are packed into token-bounded groups, one
// synthetic episode per group linking its members as children; multiple
// groups get a final parent over the group episodes.
func (m *EpisodeManager) CreateMetaEpisode(ctx context.Context, episodes []Episode, maxTokens int) *Episode {
	if len(episodes) == 0 {
		return nil
	}
	if len(episodes) == 1 {
		return &episodes[0]
	}
	if maxTokens <= 0 {
		maxTokens = m.summaryBudget
	}
	budget := maxTokens - metaPromptSlack
	if budget <= 0 {
		budget = maxTokens
	}

	var synthetic []Episode
	var groupText string
	var groupIDs []string

	flush := func() {
		if len(groupIDs) == 0 {
			return
		}
		meta := Episode{
			ID:          uuid.NewString(),
			Observation: groupText,
			Overview:    fmt.Sprintf("Summary of %d earlier episodes", len(groupIDs)),
			CreatedAt:   episodes[len(episodes)-1].CreatedAt,
			Order:       len(synthetic),
			ChildIDs:    append([]string(nil), groupIDs...),
		}
		synthetic = append(synthetic, meta)
		groupText = ""
		groupIDs = nil
	}

	for _, ep := range episodes {
		desc := ep.Description()
		future := desc
		if groupText != "" {
			future = groupText + "\n\n" + desc
		}
		if groupText != "" && m.tokens(future) >= budget {
			flush()
			groupText = desc
		} else {
			groupText = future
		}
		groupIDs = append(groupIDs, ep.ID)
	}
	flush()

	for i := range synthetic {
		m.remember(ctx, synthetic[i])
	}
	if len(synthetic) == 1 {
		return &synthetic[0]
	}

	childIDs := make([]string, 0, len(synthetic))
	for _, s := range synthetic {
		childIDs = append(childIDs, s.ID)
	}
	parent := Episode{
		ID:        uuid.NewString(),
		Overview:  fmt.Sprintf("Summary of %d earlier episodes", len(episodes)),
		CreatedAt: episodes[len(episodes)-1].CreatedAt,
		ChildIDs:  childIDs,
	}
	m.remember(ctx, parent)
	return &parent
}

// remember records the episode in the arena and mirrors it to long-term
// storage. A mirror failure marks the memory degraded but never blocks.
func (m *EpisodeManager) remember(ctx context.Context, ep Episode) {
	m.arena[ep.ID] = ep
	if m.longterm == nil {
		return
	}
	if _, err := m.longterm.StoreEpisode(ctx, recordOf(ep)); err != nil {
		m.degraded = true
		log.Printf("long-term store failed for episode %s: %v", ep.ID, err)
	}
}

// Window returns the current working window, oldest first.
func (m *EpisodeManager) Window() []Episode {
	return m.episodes
}

// Summary returns the rolling summary episode, if any.
func (m *EpisodeManager) Summary() *Episode {
	return m.summary
}

// EpisodeByID looks up any episode ever created, including evicted children
// of meta-episodes.
func (m *EpisodeManager) EpisodeByID(id string) (Episode, bool) {
	ep, ok := m.arena[id]
	return ep, ok
}

// StorageDegraded reports whether any long-term mirror failed.
func (m *EpisodeManager) StorageDegraded() bool {
	return m.degraded
}

// Clear drops the working window. The summary and arena are untouched.
func (m *EpisodeManager) Clear() {
	m.episodes = nil
}

// EpisodesText renders the window newest-first for prompts, or "" when empty.
func (m *EpisodeManager) EpisodesText() string {
	if len(m.episodes) == 0 {
		return ""
	}
	text := ""
	for i := len(m.episodes) - 1; i >= 0; i-- {
		if text != "" {
			text += "\n\n"
		}
		text += m.episodes[i].Description()
	}
	return text
}

// SummaryText returns the compacted content of the rolling summary, or "".
func (m *EpisodeManager) SummaryText() string {
	if m.summary == nil {
		return ""
	}
	if m.summary.Observation != "" {
		return m.summary.Observation
	}
	return m.summary.Overview
}

type episodeManagerState struct {
	Model         string             `json:"model"`
	WindowBudget  int                `json:"window_budget"`
	SummaryBudget int                `json:"summary_budget"`
	ChunkBudget   int                `json:"chunk_budget"`
	OverlapTokens int                `json:"overlap_tokens"`
	Summary       *Episode           `json:"summary"`
	Episodes      []Episode          `json:"episodes"`
	Arena         map[string]Episode `json:"arena"`
	Degraded      bool               `json:"degraded"`
}

func (m *EpisodeManager) state() episodeManagerState {
	return episodeManagerState{
		Model:         m.model,
		WindowBudget:  m.windowBudget,
		SummaryBudget: m.summaryBudget,
		ChunkBudget:   m.chunkBudget,
		OverlapTokens: m.overlapTokens,
		Summary:       m.summary,
		Episodes:      m.episodes,
		Arena:         m.arena,
		Degraded:      m.degraded,
	}
}

func episodeManagerFromState(s episodeManagerState, longterm LongTermStore) *EpisodeManager {
	m := NewEpisodeManager(EpisodeManagerOptions{
		Model:         s.Model,
		WindowBudget:  s.WindowBudget,
		SummaryBudget: s.SummaryBudget,
		ChunkBudget:   s.ChunkBudget,
		OverlapTokens: s.OverlapTokens,
		LongTerm:      longterm,
	})
	m.summary = s.Summary
	m.episodes = s.Episodes
	if s.Arena != nil {
		m.arena = s.Arena
	}
	m.degraded = s.Degraded
	return m
}
