package prompts

import (
	"fmt"
	"sync"
)

// PromptRegistry holds the agent's prompts keyed by id and version.
type PromptRegistry struct {
	mu      sync.RWMutex
	prompts map[string]map[PromptVersion]*Prompt
}

var defaultRegistry *PromptRegistry
var defaultRegistryOnce sync.Once

// DefaultRegistry returns the global registry the prompt files register into.
func DefaultRegistry() *PromptRegistry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewPromptRegistry()
	})
	return defaultRegistry
}

// NewPromptRegistry creates an empty registry.
func NewPromptRegistry() *PromptRegistry {
	return &PromptRegistry{
		prompts: make(map[string]map[PromptVersion]*Prompt),
	}
}

// Register adds a prompt, replacing any existing entry for its id and version.
func (r *PromptRegistry) Register(p *Prompt) {
	if p == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.prompts[p.ID] == nil {
		r.prompts[p.ID] = make(map[PromptVersion]*Prompt)
	}
	r.prompts[p.ID][p.Version] = p
}

// Get retrieves a specific version of a prompt.
func (r *PromptRegistry) Get(id string, version PromptVersion) (*Prompt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions, ok := r.prompts[id]
	if !ok {
		return nil, fmt.Errorf("prompt not found: %s", id)
	}

	prompt, ok := versions[version]
	if !ok {
		return nil, fmt.Errorf("prompt %s version %s not found", id, version)
	}

	return prompt, nil
}

// GetLatest retrieves the latest (non-deprecated) version of a prompt.
// If all versions are deprecated, returns the most recent version.
func (r *PromptRegistry) GetLatest(id string) (*Prompt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions, ok := r.prompts[id]
	if !ok {
		return nil, fmt.Errorf("prompt not found: %s", id)
	}

	// Find latest non-deprecated version
	var latest *Prompt
	var latestVersion PromptVersion

	for version, prompt := range versions {
		if !prompt.Deprecated {
			if latest == nil || version > latestVersion {
				latest = prompt
				latestVersion = version
			}
		}
	}

	// If all are deprecated, return the most recent deprecated version
	if latest == nil {
		for version, prompt := range versions {
			if latest == nil || version > latestVersion {
				latest = prompt
				latestVersion = version
			}
		}
	}

	if latest == nil {
		return nil, fmt.Errorf("no versions found for prompt: %s", id)
	}

	return latest, nil
}
