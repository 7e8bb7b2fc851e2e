package engine

import (
	"context"
	"fmt"
)

// MessageRole represents the role of a chat message.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ChatMessage is the provider-agnostic message we pass around.
type ChatMessage struct {
	Role    MessageRole
	Content string
}

// Validate checks if the ChatMessage is valid.
func (m ChatMessage) Validate() error {
	switch m.Role {
	case RoleSystem, RoleUser, RoleAssistant:
		return nil
	default:
		return fmt.Errorf("invalid message role: %s", m.Role)
	}
}

// Usage holds token accounting returned by providers.
type Usage struct {
	Prompt     int
	Completion int
	Total      int
}

// LLMResponse is a normalized result of one chat call.
type LLMResponse struct {
	Content      string
	Usage        Usage
	FinishReason string // "stop" | "length" | "content_filter"
}

// LLMClient abstracts the chat-completion transport (OpenAI, Anthropic, etc.).
// The oracle adapter treats the response as unstructured text and does its own
// schema parsing; providers never see tool/function definitions.
type LLMClient interface {
	Chat(ctx context.Context, model string, messages []ChatMessage, opts ChatOptions) (LLMResponse, error)
}

// ChatOptions keeps knobs forwarded to the SDK.
type ChatOptions struct {
	Temperature     float32
	MaxOutputTokens int
}
