package memory

import (
	"strings"

	"github.com/ChamsBouzaiene/aware/internal/engine"
)

// SplitSentences splits text on sentence boundaries. A sentence ends at a run
// of '.', '!' or '?' followed by whitespace or end of text. Whitespace-only
// input yields nil.
func SplitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0

	i := 0
	for i < len(runes) {
		r := runes[i]
		if r == '.' || r == '!' || r == '?' {
			// Consume the terminator run.
			for i < len(runes) && (runes[i] == '.' || runes[i] == '!' || runes[i] == '?') {
				i++
			}
			if i >= len(runes) || runes[i] == ' ' || runes[i] == '\n' || runes[i] == '\t' || runes[i] == '\r' {
				sentence := strings.TrimSpace(string(runes[start:i]))
				if sentence != "" {
					sentences = append(sentences, sentence)
				}
				start = i
			}
			continue
		}
		i++
	}

	tail := strings.TrimSpace(string(runes[start:]))
	if tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// ChunkByTokens splits text into chunks that each fit within maxTokens,
// breaking on sentence boundaries. A single sentence over the budget is
// split on word boundaries instead. When a chunk closes, its trailing words
// (up to overlapTokens) are carried into the next chunk for continuity.
func ChunkByTokens(tok engine.Tokenizer, model, text string, maxTokens, overlapTokens int) []string {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	count := func(s string) int {
		n, err := tok.CountTokens(s, model)
		if err != nil {
			n = engine.EstimateTokens(s)
		}
		return n
	}

	var chunks []string
	current := ""

	flush := func() {
		if strings.TrimSpace(current) != "" {
			chunks = append(chunks, current)
		}
	}

	for _, sentence := range sentences {
		if count(sentence) >= maxTokens {
			// Oversized sentence: word-boundary fallback.
			flush()
			wordChunks := splitWords(count, sentence, maxTokens, overlapTokens)
			if len(wordChunks) > 0 {
				chunks = append(chunks, wordChunks[:len(wordChunks)-1]...)
				current = wordChunks[len(wordChunks)-1]
			}
			continue
		}

		if current == "" {
			current = sentence
			continue
		}

		future := current + " " + sentence
		if count(future) >= maxTokens {
			chunks = append(chunks, current)
			overlap := TrailingWords(tok, model, current, overlapTokens)
			if overlap != "" {
				current = overlap + " " + sentence
			} else {
				current = sentence
			}
		} else {
			current = future
		}
	}
	flush()

	return chunks
}

// splitWords breaks one oversized sentence into word-boundary chunks under
// maxTokens, carrying a trailing overlap between consecutive chunks.
func splitWords(count func(string) int, sentence string, maxTokens, overlapTokens int) []string {
	words := strings.Fields(sentence)
	var chunks []string
	current := ""

	for _, word := range words {
		future := word
		if current != "" {
			future = current + " " + word
		}
		if current != "" && count(future) >= maxTokens {
			chunks = append(chunks, current)
			overlap := trailingWordsOf(count, current, overlapTokens)
			if overlap != "" {
				current = overlap + " " + word
			} else {
				current = word
			}
		} else {
			current = future
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}

// TrailingWords returns the longest word-boundary suffix of text that stays
// under maxTokens.
func TrailingWords(tok engine.Tokenizer, model, text string, maxTokens int) string {
	count := func(s string) int {
		n, err := tok.CountTokens(s, model)
		if err != nil {
			n = engine.EstimateTokens(s)
		}
		return n
	}
	return trailingWordsOf(count, text, maxTokens)
}

func trailingWordsOf(count func(string) int, text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	words := strings.Fields(text)
	suffix := ""
	for i := len(words) - 1; i >= 0; i-- {
		future := words[i]
		if suffix != "" {
			future = words[i] + " " + suffix
		}
		if count(future) >= maxTokens {
			return suffix
		}
		suffix = future
	}
	return suffix
}
