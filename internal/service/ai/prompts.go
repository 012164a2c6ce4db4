package ai

import (
	"fmt"
	"strings"
)

const plannerSystem = "You are a travel planning assistant. Answer with valid JSON only when a JSON schema is given, with no commentary around it."

func buildExpandPrompt(content string) string {
	return fmt.Sprintf(`Decide whether the following trip idea is a single place or a multi-step itinerary request, then turn it into an ordered list of itinerary steps (a single place yields one step).

Trip idea:
%s

Respond with JSON of this exact shape:
{"steps": [{"title": "...", "type": "location|transport|stay|note", "content": "...", "cost": "...", "date": "YYYY-MM-DD", "image_keyword": "..."}]}

Rules:
- 1 to 6 steps, in travel order; a single place is one step.
- The first step restates the idea itself as a concrete stop.
- "cost" is a short human figure like "$120" or "¥8000".
- "image_keyword" is 1-3 plain words suitable for a stock photo search.`, content)
}

func buildSuggestPrompt(title, content string) string {
	return fmt.Sprintf(`Given this itinerary stop, propose exactly one recommended next stop that follows it naturally.

Current stop: %s
Details: %s

Respond with JSON of this exact shape:
{"title": "...", "type": "location|transport|stay|note", "content": "...", "cost": "...", "image_keyword": "..."}`, title, content)
}

func buildAnalysisPrompt(lines []string) string {
	return fmt.Sprintf(`Here is a trip itinerary, one stop per line as "date: title (cost)":

%s

Give exactly 3 short, numbered pieces of practical advice about pacing, budget and routing. Plain text, no JSON.`, strings.Join(lines, "\n"))
}
