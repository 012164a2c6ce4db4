package ai

import (
	"context"
	"strings"
)

// MockProvider returns canned responses keyed off the prompt shape.
// Used in development when no model endpoint is configured.
type MockProvider struct{}

// NewMockProvider creates a mock provider
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// IsConfigured always reports true so the mock can stand in everywhere
func (m *MockProvider) IsConfigured() bool { return true }

// Complete returns a canned response matching the request kind
func (m *MockProvider) Complete(_ context.Context, req CompletionRequest) (string, error) {
	switch {
	case strings.Contains(req.Prompt, "ordered list of itinerary steps"):
		return `{"steps": [
			{"title": "Kyoto", "type": "location", "content": "Historic temples and gardens.", "cost": "¥12000", "date": "2026-04-02", "image_keyword": "kyoto temple"},
			{"title": "Shinkansen to Osaka", "type": "transport", "content": "30 minutes on the Nozomi.", "cost": "¥1500", "date": "2026-04-03", "image_keyword": "shinkansen"},
			{"title": "Osaka", "type": "location", "content": "Street food in Dotonbori.", "cost": "¥8000", "date": "2026-04-03", "image_keyword": "osaka dotonbori"}
		]}`, nil
	case strings.Contains(req.Prompt, "exactly one recommended next stop"):
		return `{"title": "Nara", "type": "location", "content": "Day trip for the deer park and Todai-ji.", "cost": "¥3000", "image_keyword": "nara deer park"}`, nil
	default:
		return "1. Front-load long transit legs early in the trip.\n" +
			"2. Keep one unplanned day for weather slack.\n" +
			"3. Book intercity rail a week ahead to halve the cost.", nil
	}
}
