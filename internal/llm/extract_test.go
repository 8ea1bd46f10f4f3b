package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		text string
		want map[string]any
	}{
		{
			name: "bare object",
			text: `{"destination":"Goa"}`,
			want: map[string]any{"destination": "Goa"},
		},
		{
			name: "markdown fenced",
			text: "```json\n{\"days\": 3}\n```",
			want: map[string]any{"days": 3.0},
		},
		{
			name: "prose wrapped",
			text: `Sure! Here is the plan: {"ok": true} Hope that helps.`,
			want: map[string]any{"ok": true},
		},
		{
			name: "nested braces",
			text: `{"plan": {"steps": []}}`,
			want: map[string]any{"plan": map[string]any{"steps": []any{}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractJSON_Malformed(t *testing.T) {
	for _, text := range []string{
		"",
		"no json here",
		"{broken",
		`[1, 2, 3]`, // a top-level array is not the contract
	} {
		_, err := ExtractJSON(text)
		assert.ErrorIs(t, err, ErrMalformedResponse, text)
	}
}
