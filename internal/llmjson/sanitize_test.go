package llmjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json fence",
			input:    "```json\n{\"a\": 1, \"b\": [1,2,3]}\n```",
			expected: `{"a": 1, "b": [1,2,3]}`,
		},
		{
			name:     "bare fence and uppercase tag",
			input:    "```JSON\n[1]\n```\n```\n",
			expected: "[1]",
		},
		{
			name:     "leading byte-order marks",
			input:    "\uFEFF\uFEFF {\"a\": 1}",
			expected: `{"a": 1}`,
		},
		{
			name:     "control bytes dropped, whitespace kept",
			input:    "{\"a\":\x00 \"x\x07\ty\"\r\n}",
			expected: "{\"a\": \"x\ty\"\r\n}",
		},
		{
			name:     "smart double quotes",
			input:    "{\u201Cname\u201D: \u201EParis\u201F}",
			expected: `{"name": "Paris"}`,
		},
		{
			name:     "smart single quotes",
			input:    "{\u201Cname\u201D: \u2018Paris\u2019}",
			expected: `{"name": 'Paris'}`,
		},
		{
			name:     "invalid utf-8",
			input:    "{\"a\": \"\xff\"}",
			expected: "{\"a\": \"\uFFFD\"}",
		},
		{
			name:     "decomposed accents outside strings are composed",
			input:    "Caf" + "e\u0301: [1]",
			expected: "Caf\u00E9: [1]",
		},
		{
			name:     "string contents keep their code points",
			input:    "Caf" + "e\u0301 {\"name\": \"Caf" + "e\u0301 \u212B\"}",
			expected: "Caf\u00E9 {\"name\": \"Caf" + "e\u0301 \u212B\"}",
		},
		{
			name:     "unterminated string is left as is",
			input:    "{\"a\": \"e\u0301",
			expected: "{\"a\": \"e\u0301",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sanitize(tt.input))
		})
	}
}

// TestSanitize_Idempotent checks Sanitize(Sanitize(x)) == Sanitize(x),
// including inputs where one removal exposes another.
func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"plain text",
		"```json\n{\"a\": 1}\n```",
		"``\x00`json {}",
		"`\x01``\x02`json",
		"\uFEFF\x00\uFEFF[1]",
		" \uFEFF \uFEFF x",
		"e\x00\u0301",
		"\"e\\\"\u0301\" e\u0301",
		"\xff\xfe```",
		"\u201C\u2018mixed\u2019\u201D",
		"{\"days\": [\n\t{\"day\": 1}\r\n]}",
	}

	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "input %q", in)
	}
}
