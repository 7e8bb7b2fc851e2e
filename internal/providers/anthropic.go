package providers

import (
	"context"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/ChamsBouzaiene/aware/internal/engine"
)

// AnthropicClient implements engine.LLMClient by calling the Anthropic SDK
// directly.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicClient creates a new Anthropic client for the engine.
func NewAnthropicClient(apiKey, modelName string) (*AnthropicClient, error) {
	client := anthropic.NewClient(apiKey)

	return &AnthropicClient{
		client: client,
		model:  modelName,
	}, nil
}

// Chat implements engine.LLMClient.Chat.
func (c *AnthropicClient) Chat(ctx context.Context, modelName string, messages []engine.ChatMessage, opts engine.ChatOptions) (engine.LLMResponse, error) {
	var systemParts []anthropic.MessageSystemPart
	var anthropicMsgs []anthropic.Message

	for _, msg := range messages {
		switch msg.Role {
		case engine.RoleSystem:
			systemParts = append(systemParts, anthropic.MessageSystemPart{
				Type: "text",
				Text: msg.Content,
			})
		case engine.RoleUser:
			anthropicMsgs = append(anthropicMsgs, anthropic.Message{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(msg.Content)},
			})
		case engine.RoleAssistant:
			anthropicMsgs = append(anthropicMsgs, anthropic.Message{
				Role:    anthropic.RoleAssistant,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(msg.Content)},
			})
		}
	}

	maxTokens := 4096
	if opts.MaxOutputTokens > 0 {
		maxTokens = opts.MaxOutputTokens
	}

	temperature := float32(0.1)
	if opts.Temperature > 0 {
		temperature = opts.Temperature
	}

	req := anthropic.MessagesRequest{
		Model:       anthropic.Model(modelName),
		Messages:    anthropicMsgs,
		MaxTokens:   maxTokens,
		Temperature: &temperature,
	}
	if len(systemParts) > 0 {
		req.MultiSystem = systemParts
	}

	resp, err := c.client.CreateMessages(ctx, req)
	if err != nil {
		httpStatus, retryAfter := extractErrorMetadata(err)
		return engine.LLMResponse{}, engine.WrapOracleError(err, httpStatus, retryAfter)
	}

	var textContent string
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			textContent += *block.Text
		}
	}

	finishReason := "stop"
	if resp.StopReason == "max_tokens" {
		finishReason = "length"
	} else if resp.StopReason == "content_filtered" {
		finishReason = "content_filter"
	}

	return engine.LLMResponse{
		Content: textContent,
		Usage: engine.Usage{
			Prompt:     resp.Usage.InputTokens,
			Completion: resp.Usage.OutputTokens,
			Total:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
		FinishReason: finishReason,
	}, nil
}
