package suggest

import (
	"encoding/json"
	"fmt"
	"strings"
)

type suggestions struct {
	SuggestedProjects []string `json:"suggestedProjects"`
}

// ParseSuggestions extracts the suggestedProjects list from raw model output.
// Markdown code fences and text around the JSON object are ignored. Names are
// trimmed; blanks and duplicates are dropped.
func ParseSuggestions(raw string) ([]string, error) {
	block := extractJSONBlock(stripCodeFences(raw))
	if block == "" {
		return nil, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}

	var s suggestions
	if err := json.Unmarshal([]byte(block), &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	seen := make(map[string]bool, len(s.SuggestedProjects))
	out := make([]string, 0, len(s.SuggestedProjects))
	for _, p := range s.SuggestedProjects {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out, nil
}

// stripCodeFences removes markdown fence lines (```json, ```).
func stripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		result = append(result, line)
	}
	return strings.Join(result, "\n")
}

// extractJSONBlock finds the first balanced { ... } block in the text.
func extractJSONBlock(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	return ""
}
