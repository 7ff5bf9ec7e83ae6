// Package ai provides text-model clients for the deep intelligence agent.
// This is part of the platform layer and contains no business logic.
package ai

import "context"

// TextModel is a single-shot text completion model. Implementations wrap a
// specific provider and model name; tier selection happens above this layer.
type TextModel interface {
	// Name returns the provider-visible model identifier.
	Name() string
	// Generate sends one prompt and returns the raw text output.
	Generate(ctx context.Context, prompt string) (string, error)
}
