package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no fences", `{"a":1}`, `{"a":1}`},
		{"plain fences", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"json fences", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```\n ", `{"a":1}`},
		{"empty", "", ""},
		{"only fences", "```json\n```", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFences(tt.input))
		})
	}
}

func TestRepairJSON_MissingOpeningQuote(t *testing.T) {
	broken := `{"title": "Fixing F28", url": "https://example.com", type": "video"}`

	repaired := repairJSON(broken)

	var out map[string]string
	require.NoError(t, json.Unmarshal([]byte(repaired), &out))
	assert.Equal(t, "https://example.com", out["url"])
	assert.Equal(t, "video", out["type"])
}

func TestRepairJSON_ValidInputUnchanged(t *testing.T) {
	valid := `{"ai_overview": "text", "troubleshooting": "steps: 1, 2"}`
	assert.Equal(t, valid, repairJSON(valid))
}

func TestRepairJSON_DoesNotTouchStringValues(t *testing.T) {
	// A colon inside a value must not be mistaken for a key.
	valid := `{"description": "open the panel, then: check"}`
	assert.Equal(t, valid, repairJSON(valid))
}
