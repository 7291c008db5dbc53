// Package llm provides options pattern for LLM generation parameters.
package llm

import "github.com/MehdiZare/langchain-fmp-data/pkg/tools"

// GenerateOptions holds parameters for LLM generation.
// Zero values mean "use provider default".
type GenerateOptions struct {
	// Model overrides the model identifier (e.g., "gpt-4o", "gpt-4o-mini")
	Model string

	// Temperature controls randomness in responses (0.0 = deterministic).
	// nil = provider default.
	Temperature *float64

	// MaxTokens limits the response length
	MaxTokens int

	// Tools are function definitions the model may call
	Tools []tools.ToolDefinition

	// ToolChoice is "auto", "none" or "required"; empty = "auto" when Tools set
	ToolChoice string
}

// GenerateOption is a functional option for configuring GenerateOptions.
type GenerateOption func(*GenerateOptions)

// ApplyOptions folds options into a GenerateOptions value.
func ApplyOptions(opts ...GenerateOption) GenerateOptions {
	var o GenerateOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithModel sets the model for generation.
func WithModel(model string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Model = model
	}
}

// WithTemperature sets the temperature for generation.
func WithTemperature(temp float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = &temp
	}
}

// WithMaxTokens sets the maximum tokens for generation.
func WithMaxTokens(tokens int) GenerateOption {
	return func(o *GenerateOptions) {
		o.MaxTokens = tokens
	}
}

// WithTools binds tool definitions to a single generation call.
func WithTools(defs []tools.ToolDefinition) GenerateOption {
	return func(o *GenerateOptions) {
		o.Tools = defs
	}
}

// WithToolChoice sets the tool choice mode.
func WithToolChoice(choice string) GenerateOption {
	return func(o *GenerateOptions) {
		o.ToolChoice = choice
	}
}
