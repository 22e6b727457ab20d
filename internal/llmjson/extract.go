package llmjson

import (
	"errors"
	"regexp"
	"strings"

	"github.com/CodexForgeBR/tripfix/internal/jsonvalue"
)

// ExtractArrayByKey recovers the array stored under key from raw, even when
// the surrounding document is too damaged to parse as a whole.
//
// The key may be given bare or quoted. Occurrences are searched double
// quoted first, then single quoted, then unquoted; the first occurrence
// whose value opens with '[' wins. The array is cut at its closing bracket,
// or at the last complete element when it never closes, then repaired and
// decoded. In the second case the Outcome reports WasTruncated.
func ExtractArrayByKey(raw, key string) (out Outcome) {
	defer recoverOutcome(&out)

	name := normalizeKey(key)
	if name == "" {
		return failure(&ParseError{Kind: KeyNotFound, Err: errors.New("empty key"), Position: -1})
	}

	clean := Sanitize(raw)
	values := locateKey(clean, name)
	if len(values) == 0 {
		return failure(&ParseError{Kind: KeyNotFound, Key: name, Position: -1})
	}

	for _, pos := range values {
		if pos < len(clean) && clean[pos] == '[' {
			return decodeArrayAt(clean, pos, name)
		}
	}

	pos := values[0]
	if pos >= len(clean) {
		return failure(&ParseError{
			Kind:     SyntaxFailure,
			Err:      errors.New("no value after key"),
			Key:      name,
			Position: pos,
			Context:  contextWindow(clean, pos),
		})
	}
	return failure(&ParseError{
		Kind:     NotAnArray,
		Key:      name,
		Position: pos,
		Context:  contextWindow(clean, pos),
	})
}

// normalizeKey trims whitespace and one pair of surrounding quotes.
func normalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if len(key) >= 2 {
		first, last := key[0], key[len(key)-1]
		if (first == '"' || first == '\'') && first == last {
			key = key[1 : len(key)-1]
		}
	}
	return strings.TrimSpace(key)
}

// locateKey returns the offsets where values of name begin, ordered by
// pattern preference and then by position.
func locateKey(text, name string) []int {
	quoted := regexp.QuoteMeta(name)
	patterns := []*regexp.Regexp{
		regexp.MustCompile(`"` + quoted + `"\s*:\s*`),
		regexp.MustCompile(`'` + quoted + `'\s*:\s*`),
		regexp.MustCompile(`(?:^|[\s{,])` + quoted + `\s*:\s*`),
	}

	seen := make(map[int]bool)
	var values []int
	for _, re := range patterns {
		for _, m := range re.FindAllStringIndex(text, -1) {
			if !seen[m[1]] {
				seen[m[1]] = true
				values = append(values, m[1])
			}
		}
	}
	return values
}

func decodeArrayAt(text string, start int, key string) Outcome {
	end, closed := arraySpan(text, start)
	repaired := Repair(text[start:end])

	v, err := jsonvalue.DecodeString(repaired)
	if err != nil {
		pe := syntaxFailure(err, repaired)
		pe.Key = key
		return failure(pe)
	}
	if v.Kind() != jsonvalue.KindArray {
		return failure(&ParseError{Kind: NotAnArray, Key: key, Position: start, Context: contextWindow(text, start)})
	}
	return Outcome{Value: v, WasTruncated: !closed, Strategy: StrategyKeyed, Key: key}
}

// arraySpan finds the end of the array opening at text[start]. When the
// array never closes, end is the last position where a complete element
// ended: after a nested closer back at element depth, or before a
// separating comma.
func arraySpan(text string, start int) (end int, closed bool) {
	depth := 0
	lastElement := -1
	inString, escape := false, false

	for i := start; i < len(text); i++ {
		c := text[i]
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
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i + 1, true
			}
			if depth == 1 {
				lastElement = i + 1
			}
		case ',':
			if depth == 1 {
				lastElement = i
			}
		}
	}

	if lastElement < 0 {
		return len(text), false
	}
	return lastElement, false
}
