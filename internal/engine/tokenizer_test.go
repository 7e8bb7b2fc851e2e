package engine

import (
	"strings"
	"testing"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "single char", text: "a", want: 1},
		{name: "short word", text: "hello", want: 1},
		{name: "sentence", text: "The quick brown fox jumps over the lazy dog.", want: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateTokens(tt.text)
			if got != tt.want {
				t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestEstimateTokensGrowsWithLength(t *testing.T) {
	short := EstimateTokens("hello world")
	long := EstimateTokens(strings.Repeat("hello world ", 100))
	if long <= short {
		t.Errorf("long text estimate %d should exceed short text estimate %d", long, short)
	}
}

func TestDefaultTokenizer(t *testing.T) {
	tok := DefaultTokenizer{}
	got, err := tok.CountTokens("hello world, this is a test", "gpt-4")
	if err != nil {
		t.Fatalf("CountTokens() error = %v", err)
	}
	if got < 1 {
		t.Errorf("CountTokens() = %d, want at least 1", got)
	}
}

func TestContextWindowForModel(t *testing.T) {
	tests := []struct {
		model string
		want  int
	}{
		{"gpt-4o-mini", 128000},
		{"gpt-4-turbo", 128000},
		{"gpt-4", 8192},
		{"claude-3-sonnet-20240229", 200000},
		{"unknown-model", 8192},
	}

	for _, tt := range tests {
		if got := ContextWindowForModel(tt.model); got != tt.want {
			t.Errorf("ContextWindowForModel(%q) = %d, want %d", tt.model, got, tt.want)
		}
	}
}
