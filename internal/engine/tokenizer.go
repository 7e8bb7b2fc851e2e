// Package engine provides the plumbing shared by the agent core: the
// chat-completion transport abstraction, token counting, retry policies
// and error classification.

package engine

import (
	"strings"
)

// Tokenizer provides token counting for text.
// Different models use different tokenization schemes, so the model name is required.
type Tokenizer interface {
	// CountTokens returns the number of tokens in the given text for the specified model.
	CountTokens(text string, model string) (int, error)
}

// EstimateTokens provides a rough token count estimation.
// Uses a simple heuristic: ~4 characters per token for English/code.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}

	charCount := len([]rune(text))

	// Whitespace-heavy text has fewer tokens per character.
	whitespaceCount := strings.Count(text, " ") + strings.Count(text, "\n") + strings.Count(text, "\t")

	estimated := (charCount / 4) + (whitespaceCount / 6)
	if estimated < 1 {
		return 1
	}
	return estimated
}

// DefaultTokenizer uses estimation as a fallback when no specific tokenizer is available.
type DefaultTokenizer struct{}

// CountTokens implements Tokenizer using estimation.
func (t DefaultTokenizer) CountTokens(text string, model string) (int, error) {
	return EstimateTokens(text), nil
}

// GetTokenizerForModel returns an appropriate tokenizer for the given model.
// Currently returns DefaultTokenizer (estimation), but can be extended to support
// provider-specific tokenizers like tiktoken for OpenAI models.
func GetTokenizerForModel(model string) Tokenizer {
	return DefaultTokenizer{}
}

// ContextWindowForModel returns the usable context window, in tokens, for a
// known model family. Unknown models get a conservative default.
func ContextWindowForModel(model string) int {
	switch {
	case strings.HasPrefix(model, "gpt-4o"), strings.HasPrefix(model, "gpt-4-turbo"):
		return 128000
	case strings.HasPrefix(model, "gpt-4"):
		return 8192
	case strings.HasPrefix(model, "claude-"):
		return 200000
	default:
		return 8192
	}
}
