package ai

import (
	"encoding/json"
	"strings"
)

// DecodeLenient parses model output that should contain structured data.
// It first attempts a strict parse of the whole text (after stripping
// markdown fences), then falls back to the first top-level brace-delimited
// substring. Returns false when no structured payload can be recovered;
// callers treat that as "no result", not an error.
func DecodeLenient(text string, v any) bool {
	text = stripFences(text)
	if json.Unmarshal([]byte(text), v) == nil {
		return true
	}
	if fragment, ok := extractBraced(text); ok {
		return json.Unmarshal([]byte(fragment), v) == nil
	}
	return false
}

// stripFences removes markdown code fencing the model may wrap around JSON
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
	}
	return text
}

// extractBraced returns the first top-level {...} substring, honoring
// string literals and escapes so braces inside values don't confuse it.
func extractBraced(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
	}
	return "", false
}
