// Package ability defines the invocable abilities the agent can plan around
// and the registry the control loop resolves them from.

package ability

import (
	"context"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// FinishName is the sentinel ability that concludes a task.
const FinishName = "finish"

// Func executes one ability invocation for a task.
type Func func(ctx context.Context, taskID string, args map[string]any) (string, error)

// Ability is one invocable capability: a name, a declared parameter schema
// rendered into prompts, and the function that runs it.
type Ability struct {
	Name        string
	Description string
	SchemaJSON  string
	Retryable   bool
	Fn          Func
}

// ValidationError reports arguments that failed the ability's schema.
type ValidationError struct {
	AbilityName string
	Errors      []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for ability %s: %s", e.AbilityName, strings.Join(e.Errors, "; "))
}

// ValidateArgs validates the provided arguments against the ability's JSON schema.
func (a Ability) ValidateArgs(args map[string]any) error {
	schemaLoader := gojsonschema.NewStringLoader(a.SchemaJSON)
	documentLoader := gojsonschema.NewGoLoader(args)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if !result.Valid() {
		var errorMsgs []string
		for _, err := range result.Errors() {
			errorMsgs = append(errorMsgs, err.String())
		}
		return &ValidationError{
			AbilityName: a.Name,
			Errors:      errorMsgs,
		}
	}

	return nil
}

// Signature renders the ability's name, description and parameter schema for
// prompt context.
func (a Ability) Signature() string {
	return fmt.Sprintf("%s: %s\nArgs: %s", a.Name, a.Description, a.SchemaJSON)
}
