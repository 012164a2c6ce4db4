// Package ai orchestrates the generative helper: expanding a node's free
// text into itinerary steps, suggesting a next stop, and producing a
// trip-level analysis. All model failures are converted to nil results;
// nothing in this package throws past the orchestration boundary.
package ai

import (
	"context"
)

// Provider defines the interface for text-generation endpoints
// (OpenAI-compatible, Anthropic, etc.)
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	IsConfigured() bool
}

// CompletionRequest configures a single generation call
type CompletionRequest struct {
	System      string  `json:"system"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}
