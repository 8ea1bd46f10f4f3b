package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON pulls the first top-level {...} span out of free-form model
// output (models love wrapping JSON in prose or markdown fences) and parses
// it. The span runs from the first '{' to the last '}' in the text.
func ExtractJSON(text string) (map[string]any, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	candidate := text
	if start != -1 && end > start {
		candidate = text[start : end+1]
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(candidate), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return out, nil
}
