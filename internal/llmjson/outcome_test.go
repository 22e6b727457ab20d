package llmjson

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ParseError
		expected string
	}{
		{
			name:     "key not found",
			err:      &ParseError{Kind: KeyNotFound, Key: "days", Position: -1},
			expected: `key not found (key "days")`,
		},
		{
			name:     "syntax with cause and offset",
			err:      &ParseError{Kind: SyntaxFailure, Err: errors.New("unexpected end of JSON input"), Position: 12},
			expected: "invalid JSON: unexpected end of JSON input at offset 12",
		},
		{
			name:     "internal",
			err:      &ParseError{Kind: Internal, Err: errors.New("boom"), Position: -1},
			expected: "internal error: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestParseError_Unwrap(t *testing.T) {
	cause := &json.SyntaxError{Offset: 3}
	err := error(&ParseError{Kind: SyntaxFailure, Err: cause, Position: 3})

	assert.True(t, errors.Is(err, ErrSyntax))
	assert.False(t, errors.Is(err, ErrKeyNotFound))

	var syn *json.SyntaxError
	require.True(t, errors.As(err, &syn))
	assert.Equal(t, int64(3), syn.Offset)
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "syntax failure", SyntaxFailure.String())
	assert.Equal(t, "key not found", KeyNotFound.String())
	assert.Equal(t, "not an array", NotAnArray.String())
	assert.Equal(t, "internal", Internal.String())
	assert.Equal(t, "unknown", ErrorKind(0).String())
}

func TestRecoverOutcome(t *testing.T) {
	res := func() (out Outcome) {
		defer recoverOutcome(&out)
		panic("index out of range")
	}()

	require.False(t, res.OK())
	assert.Equal(t, Internal, res.Err.Kind)
	assert.True(t, errors.Is(res.Err, ErrInternal))
	assert.Contains(t, res.Err.Error(), "index out of range")
	assert.Equal(t, -1, res.Err.Position)
}

func TestContextWindow(t *testing.T) {
	text := strings.Repeat("a", 100) + "X" + strings.Repeat("b", 100)

	window := contextWindow(text, 100)
	assert.Len(t, window, 2*contextRadius)
	assert.Equal(t, byte('X'), window[contextRadius])

	assert.Equal(t, "abc", contextWindow("abc", 1))
	assert.Equal(t, "abc", contextWindow("abc", 99))
	assert.Equal(t, "abc", contextWindow("abc", -4))
}

func TestContextWindow_DropsSplitRunes(t *testing.T) {
	text := strings.Repeat("\u00e9", 100)

	window := contextWindow(text, 101)
	assert.NotContains(t, window, "\uFFFD")
	for _, r := range window {
		assert.Equal(t, '\u00e9', r)
	}
}
