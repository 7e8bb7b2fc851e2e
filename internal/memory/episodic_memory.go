package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ChamsBouzaiene/aware/internal/engine"
)

const memoryFileName = "episodic_memory.json"

// Options configures an EpisodicMemory and the episode manager it owns.
type Options struct {
	Model         string
	MaxIterations int
	WindowBudget  int
	SummaryBudget int
	ChunkBudget   int
	OverlapTokens int
	Tokenizer     engine.Tokenizer
	LongTerm      LongTermStore
}

// EpisodicMemory is the per-task aggregate: last thought, goal memory,
// episode window, task state and retrieval caches. The whole aggregate is
// persisted as one JSON document and rewritten after every mutation, so a
// crashed step resumes from the last consistent state.
type EpisodicMemory struct {
	folder   string
	filePath string
	opts     Options

	thought             *Thought
	goalMemory          *GoalMemory
	episodeManager      *EpisodeManager
	task                *TaskState
	similarEpisodes     map[string]Episode
	relevantInformation string
}

// TaskState tracks the task a memory belongs to.
type TaskState struct {
	TaskID   string `json:"task_id"`
	Input    string `json:"input"`
	Finished bool   `json:"finished"`
}

type memoryDocument struct {
	Thought             *Thought            `json:"thought"`
	SimilarEpisodes     map[string]Episode  `json:"similar_episodes"`
	GoalMemory          goalMemoryState     `json:"goal_memory"`
	EpisodeManager      episodeManagerState `json:"episode_manager"`
	Task                *TaskState          `json:"task_memory"`
	RelevantInformation string              `json:"relevant_information"`
}

// Open loads the memory document under folder, or starts fresh when the file
// is missing or unreadable. The document is written back immediately either
// way.
func Open(folder string, opts Options) (*EpisodicMemory, error) {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 20
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create memory folder: %w", err)
	}

	m := &EpisodicMemory{
		folder:   folder,
		filePath: filepath.Join(folder, memoryFileName),
		opts:     opts,
	}

	loaded := false
	if data, err := os.ReadFile(m.filePath); err == nil {
		var doc memoryDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			log.Printf("error loading episodic memory: %v", err)
		} else {
			m.load(doc)
			loaded = true
		}
	}
	if !loaded {
		m.fresh()
	}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *EpisodicMemory) fresh() {
	m.thought = nil
	m.goalMemory = NewGoalMemory(m.opts.MaxIterations)
	m.episodeManager = NewEpisodeManager(EpisodeManagerOptions{
		Model:         m.opts.Model,
		Tokenizer:     m.opts.Tokenizer,
		WindowBudget:  m.opts.WindowBudget,
		SummaryBudget: m.opts.SummaryBudget,
		ChunkBudget:   m.opts.ChunkBudget,
		OverlapTokens: m.opts.OverlapTokens,
		LongTerm:      m.opts.LongTerm,
	})
	m.task = nil
	m.similarEpisodes = make(map[string]Episode)
	m.relevantInformation = ""
}

func (m *EpisodicMemory) load(doc memoryDocument) {
	m.thought = doc.Thought
	m.goalMemory = goalMemoryFromState(doc.GoalMemory)
	m.episodeManager = episodeManagerFromState(doc.EpisodeManager, m.opts.LongTerm)
	if m.opts.Tokenizer != nil {
		m.episodeManager.tok = m.opts.Tokenizer
	}
	m.task = doc.Task
	m.similarEpisodes = doc.SimilarEpisodes
	if m.similarEpisodes == nil {
		m.similarEpisodes = make(map[string]Episode)
	}
	m.relevantInformation = doc.RelevantInformation
}

func (m *EpisodicMemory) save() error {
	doc := memoryDocument{
		Thought:             m.thought,
		SimilarEpisodes:     m.similarEpisodes,
		GoalMemory:          m.goalMemory.state(),
		EpisodeManager:      m.episodeManager.state(),
		Task:                m.task,
		RelevantInformation: m.relevantInformation,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal episodic memory: %w", err)
	}
	if err := os.WriteFile(m.filePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write episodic memory: %w", err)
	}
	return nil
}

// AddEpisode records one ability invocation.
func (m *EpisodicMemory) AddEpisode(ctx context.Context, goal, ability, arguments, observation string) error {
	m.episodeManager.CreateEpisodes(ctx, goal, ability, arguments, observation)
	return m.save()
}

// SetTask attaches the task this memory serves.
func (m *EpisodicMemory) SetTask(task TaskState) error {
	m.task = &task
	return m.save()
}

// Task returns the attached task, or nil.
func (m *EpisodicMemory) Task() *TaskState {
	return m.task
}

// SetTaskFinished marks the attached task done.
func (m *EpisodicMemory) SetTaskFinished() error {
	if m.task != nil {
		m.task.Finished = true
	}
	return m.save()
}

// Thought returns the last recorded thought, or nil.
func (m *EpisodicMemory) Thought() *Thought {
	return m.thought
}

// UpdateThought replaces the last thought.
func (m *EpisodicMemory) UpdateThought(t Thought) error {
	m.thought = &t
	return m.save()
}

// Goals returns the current goal list.
func (m *EpisodicMemory) Goals() []Goal {
	return m.goalMemory.Goals()
}

// SetGoals replaces the goal list; empty slices are ignored.
func (m *EpisodicMemory) SetGoals(goals []Goal) error {
	if len(goals) == 0 {
		return nil
	}
	m.goalMemory.SetGoals(goals)
	return m.save()
}

// MaxIterationsReached consumes one iteration and reports whether the ceiling
// was exceeded. The consumed iteration is persisted.
func (m *EpisodicMemory) MaxIterationsReached() (bool, error) {
	reached := m.goalMemory.MaxIterationsReached()
	return reached, m.save()
}

// MemoryText renders the episode window (newest first) plus the rolling
// summary for prompts, or "" when there is nothing to show.
func (m *EpisodicMemory) MemoryText() string {
	episodes := m.episodeManager.EpisodesText()
	if episodes == "" {
		return ""
	}
	if summary := m.episodeManager.SummaryText(); summary != "" {
		return episodes + "\nPrevious summary:\n" + summary
	}
	return episodes
}

// SimilarEpisodes returns the retrieval cache keyed by query.
func (m *EpisodicMemory) SimilarEpisodes() map[string]Episode {
	return m.similarEpisodes
}

// UpdateSimilarEpisodes replaces the retrieval cache.
func (m *EpisodicMemory) UpdateSimilarEpisodes(similar map[string]Episode) error {
	m.similarEpisodes = similar
	return m.save()
}

// RelevantInformation returns cached context gathered for the task.
func (m *EpisodicMemory) RelevantInformation() string {
	return m.relevantInformation
}

// UpdateRelevantInformation replaces the cached context.
func (m *EpisodicMemory) UpdateRelevantInformation(info string) error {
	m.relevantInformation = info
	return m.save()
}

// Manager exposes the underlying episode manager.
func (m *EpisodicMemory) Manager() *EpisodeManager {
	return m.episodeManager
}

// StorageDegraded reports whether any long-term mirror failed.
func (m *EpisodicMemory) StorageDegraded() bool {
	return m.episodeManager.StorageDegraded()
}

// Reset folds the current window into a meta-episode for long-term recall,
// then starts a fresh state.
func (m *EpisodicMemory) Reset(ctx context.Context) error {
	if window := m.episodeManager.Window(); len(window) > 0 {
		m.episodeManager.CreateMetaEpisode(ctx, window, 0)
	}
	m.fresh()
	log.Printf("starting new memory in %s", m.folder)
	return m.save()
}
