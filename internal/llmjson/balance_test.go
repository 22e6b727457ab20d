package llmjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateToBalanced(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Balanced
	}{
		{
			name:     "complete object",
			input:    `{"a": [1, 2]}`,
			expected: Balanced{Slice: `{"a": [1, 2]}`, Closed: true, Opened: true},
		},
		{
			name:     "leading prose is skipped",
			input:    `Here you go: [1, 2]`,
			expected: Balanced{Slice: `[1, 2]`, Closed: true, Opened: true},
		},
		{
			name:     "trailing prose is discarded",
			input:    `{"a": 1} hope this helps`,
			expected: Balanced{Slice: `{"a": 1}`, Truncated: true, Closed: true, Opened: true},
		},
		{
			name:     "trailing whitespace is not truncation",
			input:    "{\"a\": 1}\n\n",
			expected: Balanced{Slice: `{"a": 1}`, Closed: true, Opened: true},
		},
		{
			name:     "last boundary wins",
			input:    `{"a": 1} {"b": 2} {"c":`,
			expected: Balanced{Slice: `{"a": 1} {"b": 2}`, Truncated: true, Closed: true, Opened: true},
		},
		{
			name:     "never closes",
			input:    `note: {"a": [1, 2`,
			expected: Balanced{Slice: `{"a": [1, 2`, Truncated: true, Opened: true},
		},
		{
			name:     "no brackets",
			input:    `just words`,
			expected: Balanced{Slice: `just words`, Truncated: true},
		},
		{
			name:     "brackets only inside a string",
			input:    `"a [b {c"`,
			expected: Balanced{Slice: `"a [b {c"`, Truncated: true},
		},
		{
			name:     "escaped quote does not end the string",
			input:    `{"a": "say \"}\" now"} tail`,
			expected: Balanced{Slice: `{"a": "say \"}\" now"}`, Truncated: true, Closed: true, Opened: true},
		},
		{
			name:     "escaped backslash before quote ends the string",
			input:    `{"a": "dir\\"}`,
			expected: Balanced{Slice: `{"a": "dir\\"}`, Closed: true, Opened: true},
		},
		{
			name:     "stray closer before the structure is ignored",
			input:    `] {"a": 1}`,
			expected: Balanced{Slice: `{"a": 1}`, Closed: true, Opened: true},
		},
		{
			name:     "mismatched closer ends the scan",
			input:    `{"a":1]`,
			expected: Balanced{Slice: `{"a":1`, Truncated: true, Opened: true},
		},
		{
			name:     "mismatched outer closer keeps the open slice",
			input:    `[{"a":1}}`,
			expected: Balanced{Slice: `[{"a":1}`, Truncated: true, Opened: true},
		},
		{
			name:     "stray closer after a boundary ends the scan",
			input:    `{"a":1} ] {"b":2}`,
			expected: Balanced{Slice: `{"a":1}`, Truncated: true, Closed: true, Opened: true},
		},
		{
			name:     "mismatch after a boundary keeps the boundary",
			input:    `{"a":1} [2}`,
			expected: Balanced{Slice: `{"a":1}`, Truncated: true, Closed: true, Opened: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateToBalanced(tt.input))
		})
	}
}

// TestTruncateToBalanced_SliceIsBalanced verifies that a closed slice has
// matching bracket counts outside string literals.
func TestTruncateToBalanced_SliceIsBalanced(t *testing.T) {
	doc := `{"title": "Rome {in} [3] days", "days": [{"day": 1, "theme": "a \"quoted\" }"}, {"day": 2}]}`

	for cut := 0; cut <= len(doc); cut++ {
		in := doc[:cut] + ` trailing`
		bal := TruncateToBalanced(in)
		if !bal.Closed {
			continue
		}
		braces, brackets := bracketCounts(bal.Slice)
		assert.Zero(t, braces, "cut %d: %q", cut, bal.Slice)
		assert.Zero(t, brackets, "cut %d: %q", cut, bal.Slice)
	}
}

func TestTruncateToBalanced_MalformedSliceIsBalanced(t *testing.T) {
	inputs := []string{
		`{"a":1]`,
		`{"a":1} ] {"b":2}`,
		`{"a":[1}]`,
		`[{"a":1}}]`,
		`]}{"a":1}]]`,
		`{"a":1}}}{"b":[2]}`,
		`[1, 2]] [3]`,
		`{"a": "]}"} } {"b": 2}`,
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			assertBalancedWhenClosed(t, TruncateToBalanced(in))
		})
	}
}

func assertBalancedWhenClosed(t *testing.T, bal Balanced) {
	t.Helper()
	if !bal.Closed {
		return
	}
	braces, brackets := bracketCounts(bal.Slice)
	assert.Zero(t, braces, "slice %q", bal.Slice)
	assert.Zero(t, brackets, "slice %q", bal.Slice)
	assert.True(t, closersMatch(bal.Slice), "slice %q", bal.Slice)
}

// closersMatch reports whether every closer outside string literals matches
// the innermost open bracket.
func closersMatch(s string) bool {
	var stack []byte
	inString, escape := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escape:
				escape = false
			case c == '\\':
				escape = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0
}

// bracketCounts returns opens minus closes for braces and brackets outside
// string literals.
func bracketCounts(s string) (braces, brackets int) {
	inString, escape := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escape:
				escape = false
			case c == '\\':
				escape = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			braces++
		case '}':
			braces--
		case '[':
			brackets++
		case ']':
			brackets--
		}
	}
	return braces, brackets
}
