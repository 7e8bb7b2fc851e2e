// Package behavior adapts the unreliable reasoning oracle into structured
// decisions. The oracle returns free text; the parser digs JSON objects out
// of it, validates them against a schema, and walks a two-tier retry
// protocol (cheap reformat prompts before expensive full re-requests) when
// the structure is wrong.

package behavior

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/ChamsBouzaiene/aware/internal/engine"
	"github.com/ChamsBouzaiene/aware/internal/prompts"
)

const fixFormatUserMessage = "Please provide the correct format!"

// Parser drives schema-validated decisions against the oracle.
type Parser struct {
	llm         engine.LLMClient
	model       string
	opts        engine.ChatOptions
	retryPolicy engine.RetryPolicy
	retries     int // full re-requests per container
	fixRetries  int // reformat attempts per parse failure
}

// NewParser creates a parser with the default retry protocol.
func NewParser(llm engine.LLMClient, model string, opts engine.ChatOptions) *Parser {
	return &Parser{
		llm:         llm,
		model:       model,
		opts:        opts,
		retryPolicy: engine.DefaultRetryPolicy(),
		retries:     2,
		fixRetries:  1,
	}
}

// SetRetries overrides the retry protocol knobs.
func (p *Parser) SetRetries(retries, fixRetries int) {
	p.retries = retries
	p.fixRetries = fixRetries
}

func (p *Parser) getResponse(ctx context.Context, system, user string) (string, error) {
	messages := []engine.ChatMessage{
		{Role: engine.RoleSystem, Content: system},
		{Role: engine.RoleUser, Content: user},
	}
	resp, err := engine.RetryOracleCall(ctx, p.retryPolicy, p.llm, p.model, messages, p.opts, nil)
	if err != nil {
		return "", fmt.Errorf("oracle request failed: %w", err)
	}
	return resp.Content, nil
}

// ExtractJSONObjects returns every balanced top-level JSON object found in
// text, fenced or bare. String literals and escapes are respected so braces
// inside values do not break the scan.
func ExtractJSONObjects(text string) []string {
	var objects []string
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i, r := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					objects = append(objects, text[start:i+1])
					start = -1
				}
			}
		}
	}
	return objects
}

// decodeContainer finds the first JSON object in text that validates against
// schemaJSON and unmarshals it into T. On failure it returns a
// human-readable message suitable for a reformat prompt.
func decodeContainer[T any](text, schemaJSON string) (*T, string) {
	candidates := ExtractJSONObjects(text)
	if len(candidates) == 0 {
		return nil, "no JSON object found in response"
	}

	schemaLoader := gojsonschema.NewStringLoader(schemaJSON)
	lastErr := ""
	for _, candidate := range candidates {
		docLoader := gojsonschema.NewStringLoader(candidate)
		result, err := gojsonschema.Validate(schemaLoader, docLoader)
		if err != nil {
			lastErr = fmt.Sprintf("invalid JSON: %v", err)
			continue
		}
		if !result.Valid() {
			var msgs []string
			for _, desc := range result.Errors() {
				msgs = append(msgs, desc.String())
			}
			lastErr = fmt.Sprintf("schema validation failed: %s", strings.Join(msgs, "; "))
			continue
		}
		var out T
		if err := json.Unmarshal([]byte(candidate), &out); err != nil {
			lastErr = fmt.Sprintf("failed to decode object: %v", err)
			continue
		}
		return &out, ""
	}
	return nil, lastErr
}

// parseWithFix parses one container from response, sending up to fixRetries
// reformat prompts that carry the schema and the parse error before giving
// up on this response.
func parseWithFix[T any](ctx context.Context, p *Parser, response, name, schemaJSON string) (*T, string) {
	out, errMsg := decodeContainer[T](response, schemaJSON)
	if out != nil {
		return out, ""
	}
	log.Printf("failed to parse %s, trying to fix format: %s", name, errMsg)

	for attempt := 0; attempt < p.fixRetries; attempt++ {
		fixPrompt, err := prompts.BuildFixFormatPrompt(response, schemaJSON, errMsg)
		if err != nil {
			return nil, errMsg
		}
		fixResponse, err := p.getResponse(ctx, fixPrompt, fixFormatUserMessage)
		if err != nil {
			log.Printf("fix request for %s failed: %v", name, err)
			continue
		}
		out, errMsg = decodeContainer[T](fixResponse, schemaJSON)
		if out != nil {
			log.Printf("response format for %s was fixed", name)
			return out, ""
		}
		log.Printf("could not fix %s format, remaining attempts: %d", name, p.fixRetries-attempt-1)
	}
	return nil, errMsg
}

// decisionSession holds one oracle response that multiple containers are
// parsed from. A container that exhausts its fix retries triggers a full
// re-request; later containers parse the refreshed response.
type decisionSession struct {
	p        *Parser
	system   string
	user     string
	response string
}

func (p *Parser) newSession(ctx context.Context, system, user string) (*decisionSession, error) {
	response, err := p.getResponse(ctx, system, user)
	if err != nil {
		return nil, err
	}
	return &decisionSession{p: p, system: system, user: user, response: response}, nil
}

func containerOf[T any](ctx context.Context, s *decisionSession, name, schemaJSON string) (*T, error) {
	lastErr := ""
	for attempt := 0; attempt < s.p.retries; attempt++ {
		out, errMsg := parseWithFix[T](ctx, s.p, s.response, name, schemaJSON)
		if out != nil {
			return out, nil
		}
		lastErr = errMsg
		if attempt < s.p.retries-1 {
			log.Printf("could not parse or fix %s, requesting a new response", name)
			response, err := s.p.getResponse(ctx, s.system, s.user)
			if err != nil {
				return nil, err
			}
			s.response = response
		}
	}
	return nil, &ParseExhaustedError{
		Container:  name,
		Retries:    s.p.retries,
		FixRetries: s.p.fixRetries,
		LastError:  lastErr,
	}
}
