// Package providers implements engine.LLMClient over the vendor SDKs.

package providers

import (
	"context"
	"net/http"
	"strings"

	openai "github.com/meguminnnnnnnnn/go-openai"

	"github.com/ChamsBouzaiene/aware/internal/engine"
)

// OpenAIClient implements engine.LLMClient by calling the OpenAI SDK
// directly. A custom base URL covers OpenAI-compatible endpoints (Kimi,
// Ollama, local servers).
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a new OpenAI client for the engine.
func NewOpenAIClient(apiKey, modelName, baseURL string) (*OpenAIClient, error) {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	client := openai.NewClientWithConfig(config)

	return &OpenAIClient{
		client: client,
		model:  modelName,
	}, nil
}

// Chat implements engine.LLMClient.Chat.
func (c *OpenAIClient) Chat(ctx context.Context, modelName string, messages []engine.ChatMessage, opts engine.ChatOptions) (engine.LLMResponse, error) {
	openaiMsgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		role := openai.ChatMessageRoleUser
		switch msg.Role {
		case engine.RoleSystem:
			role = openai.ChatMessageRoleSystem
		case engine.RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		}
		openaiMsgs = append(openaiMsgs, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:    modelName,
		Messages: openaiMsgs,
	}
	if opts.Temperature > 0 {
		req.Temperature = &opts.Temperature
	}
	if opts.MaxOutputTokens > 0 {
		req.MaxTokens = opts.MaxOutputTokens
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		httpStatus, retryAfter := extractErrorMetadata(err)
		return engine.LLMResponse{}, engine.WrapOracleError(err, httpStatus, retryAfter)
	}

	if len(resp.Choices) == 0 {
		return engine.LLMResponse{}, engine.WrapOracleError(
			&emptyResponseError{}, 0, "")
	}

	choice := resp.Choices[0]
	finishReason := "stop"
	if choice.FinishReason == openai.FinishReasonLength {
		finishReason = "length"
	} else if choice.FinishReason == openai.FinishReasonContentFilter {
		finishReason = "content_filter"
	}

	return engine.LLMResponse{
		Content: choice.Message.Content,
		Usage: engine.Usage{
			Prompt:     resp.Usage.PromptTokens,
			Completion: resp.Usage.CompletionTokens,
			Total:      resp.Usage.TotalTokens,
		},
		FinishReason: finishReason,
	}, nil
}

type emptyResponseError struct{}

func (e *emptyResponseError) Error() string {
	return "oracle returned no choices"
}

// extractErrorMetadata extracts HTTP status code and Retry-After header from an error.
// This is a helper function to extract metadata from SDK errors.
func extractErrorMetadata(err error) (int, string) {
	if err == nil {
		return 0, ""
	}

	errStr := err.Error()
	var httpStatus int
	var retryAfter string

	// Try to extract HTTP status code from error message
	// Common patterns: "429", "status code 429", "HTTP 429", etc.
	if strings.Contains(errStr, "429") {
		httpStatus = http.StatusTooManyRequests
	} else if strings.Contains(errStr, "500") {
		httpStatus = http.StatusInternalServerError
	} else if strings.Contains(errStr, "502") {
		httpStatus = http.StatusBadGateway
	} else if strings.Contains(errStr, "503") {
		httpStatus = http.StatusServiceUnavailable
	} else if strings.Contains(errStr, "504") {
		httpStatus = http.StatusGatewayTimeout
	} else if strings.Contains(errStr, "401") {
		httpStatus = http.StatusUnauthorized
	} else if strings.Contains(errStr, "403") {
		httpStatus = http.StatusForbidden
	} else if strings.Contains(errStr, "400") {
		httpStatus = http.StatusBadRequest
	} else if strings.Contains(errStr, "402") {
		httpStatus = http.StatusPaymentRequired
	}

	// Try to extract Retry-After from error message
	if idx := strings.Index(strings.ToLower(errStr), "retry-after"); idx != -1 {
		remaining := errStr[idx+11:]
		parts := strings.Fields(remaining)
		if len(parts) > 0 {
			retryAfter = parts[0]
		}
	} else if idx := strings.Index(strings.ToLower(errStr), "retry after"); idx != -1 {
		remaining := errStr[idx+12:]
		parts := strings.Fields(remaining)
		if len(parts) > 0 {
			retryAfter = parts[0]
		}
	}

	return httpStatus, retryAfter
}
