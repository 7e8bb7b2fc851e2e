package prompts

func init() {
	registry := DefaultRegistry()

	registry.Register(&Prompt{
		ID:      "fix_format",
		Version: PromptV1,
		Content: `Your previous response could not be parsed.

Previous response:
{{response}}

Expected JSON schema:
{{schema}}

Parse error:
{{error}}

Rewrite the response as a single JSON object that conforms to the schema above.
Do not add explanations, markdown fences or any text outside the JSON object.`,
		Description: "Reformat prompt - asks the model to fix a malformed structured response",
		Tags:        []string{"fix", "format"},
		Deprecated:  false,
	})
}

// BuildFixFormatPrompt renders the reformat prompt carrying the failed
// response, the expected schema and the parse error.
func BuildFixFormatPrompt(response, schema, errMsg string) (string, error) {
	b, err := NewPromptBuilder(DefaultRegistry(), "fix_format", PromptV1)
	if err != nil {
		return "", err
	}
	return b.
		SetVariable("response", response).
		SetVariable("schema", schema).
		SetVariable("error", orNone(errMsg)).
		Build()
}
