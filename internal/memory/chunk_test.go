package memory

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ChamsBouzaiene/aware/internal/engine"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: nil},
		{name: "whitespace only", text: "  \n\t ", want: nil},
		{name: "single sentence", text: "Hello world.", want: []string{"Hello world."}},
		{name: "no terminator", text: "Hello world", want: []string{"Hello world"}},
		{
			name: "multiple sentences",
			text: "First one. Second one! Third one?",
			want: []string{"First one.", "Second one!", "Third one?"},
		},
		{
			name: "terminator run",
			text: "Wait... what happened? Nothing.",
			want: []string{"Wait...", "what happened?", "Nothing."},
		},
		{
			name: "decimal point is not a boundary",
			text: "Version 1.5 shipped today. It works.",
			want: []string{"Version 1.5 shipped today.", "It works."},
		},
		{
			name: "newline boundary",
			text: "Line one.\nLine two.",
			want: []string{"Line one.", "Line two."},
		},
		{
			name: "trailing fragment",
			text: "Done. And then",
			want: []string{"Done.", "And then"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("Got %d sentences %v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("sentence %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestChunkByTokensSmallTextSingleChunk(t *testing.T) {
	tok := engine.DefaultTokenizer{}
	chunks := ChunkByTokens(tok, "gpt-4", "One short sentence. Another short one.", 500, 50)
	if len(chunks) != 1 {
		t.Fatalf("Got %d chunks, want 1", len(chunks))
	}
	if !strings.Contains(chunks[0], "Another short one.") {
		t.Errorf("chunk lost content: %q", chunks[0])
	}
}

func TestChunkByTokensLargeObservation(t *testing.T) {
	tok := engine.DefaultTokenizer{}
	const maxTokens = 500
	const overlap = 50

	var b strings.Builder
	var sentences []string
	for i := 0; b.Len() < 50000; i++ {
		s := fmt.Sprintf("Sentence number %04d carries a modest amount of text for the window.", i)
		sentences = append(sentences, s)
		b.WriteString(s)
		b.WriteString(" ")
	}

	chunks := ChunkByTokens(tok, "gpt-4", b.String(), maxTokens, overlap)
	if len(chunks) < 2 {
		t.Fatalf("Got %d chunks for a 50k character text, want several", len(chunks))
	}

	for i, chunk := range chunks {
		n, err := tok.CountTokens(chunk, "gpt-4")
		if err != nil {
			t.Fatalf("CountTokens() error = %v", err)
		}
		if n > maxTokens {
			t.Errorf("chunk %d has %d tokens, want at most %d", i, n, maxTokens)
		}
	}

	// Every sentence must survive, in the original order.
	joined := strings.Join(chunks, "\n")
	offset := 0
	for i, s := range sentences {
		idx := strings.Index(joined[offset:], s)
		if idx < 0 {
			t.Fatalf("sentence %d missing or out of order: %q", i, s)
		}
		offset += idx
	}
}

func TestChunkByTokensOversizedSentence(t *testing.T) {
	tok := engine.DefaultTokenizer{}
	// One sentence far over the budget must fall back to word boundaries.
	sentence := strings.Repeat("word ", 400) + "end."
	chunks := ChunkByTokens(tok, "gpt-4", sentence, 50, 10)
	if len(chunks) < 2 {
		t.Fatalf("Got %d chunks for an oversized sentence, want several", len(chunks))
	}
	for i, chunk := range chunks {
		n, _ := tok.CountTokens(chunk, "gpt-4")
		if n > 50 {
			t.Errorf("chunk %d has %d tokens, want at most 50", i, n)
		}
	}
}

func TestChunkByTokensOverlap(t *testing.T) {
	tok := engine.DefaultTokenizer{}
	var b strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, "This is the ordinary sentence number %d in the sequence. ", i)
	}
	chunks := ChunkByTokens(tok, "gpt-4", b.String(), 100, 20)
	if len(chunks) < 2 {
		t.Fatalf("Got %d chunks, want several", len(chunks))
	}
	// The second chunk starts with the trailing words of the first.
	firstWords := strings.Fields(chunks[0])
	tail := firstWords[len(firstWords)-1]
	if !strings.Contains(chunks[1], tail) {
		t.Errorf("chunk 1 does not carry overlap word %q: %q", tail, chunks[1][:80])
	}
}

func TestTrailingWords(t *testing.T) {
	tok := engine.DefaultTokenizer{}

	got := TrailingWords(tok, "gpt-4", "alpha beta gamma delta", 2)
	if got == "" {
		t.Fatal("TrailingWords() = empty, want a suffix")
	}
	if !strings.HasSuffix("alpha beta gamma delta", got) {
		t.Errorf("TrailingWords() = %q, want a suffix of the input", got)
	}

	if got := TrailingWords(tok, "gpt-4", "alpha beta", 0); got != "" {
		t.Errorf("TrailingWords() with zero budget = %q, want empty", got)
	}
}
