package llmjson

import "strings"

// Balanced is the result of TruncateToBalanced.
type Balanced struct {
	// Slice is the recovered text.
	Slice string
	// Truncated is true when non-whitespace content after the last closed
	// boundary was discarded, or when no boundary was found at all.
	Truncated bool
	// Closed is true when Slice ends on a boundary where every bracket
	// opened in it was closed again.
	Closed bool
	// Opened is true when an opening bracket was found outside a string
	// literal. Text without one is a bare scalar, or no JSON at all.
	Opened bool
}

// TruncateToBalanced returns the longest prefix of text that forms a closed
// JSON structure.
//
// The scan tracks whether it is inside a string literal, whether the
// previous character was an unescaped backslash, and a stack of the closers
// the open brackets expect. Each return to an empty stack outside a string
// records a boundary. The slice starts at the first opening bracket and ends
// at the last boundary. A closer that does not match the innermost opener,
// or a stray closer once the structure has started, ends the scan; closers
// before the first opener are ignored.
//
// Without a boundary the slice runs from the first '{' or '[' outside a
// string to where the scan ended so the repairer can close it. Text without
// such a bracket is returned unchanged. Both cases report Truncated.
func TruncateToBalanced(text string) Balanced {
	start, boundary, end := -1, -1, len(text)
	var stack []byte
	inString, escape := false, false

scan:
	for i := 0; i < len(text); i++ {
		c := text[i]
		if escape {
			escape = false
			continue
		}
		if inString {
			switch c {
			case '\\':
				escape = true
			case '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{', '[':
			if start < 0 {
				start = i
			}
			stack = append(stack, closerFor(c))
		case '}', ']':
			if len(stack) == 0 && start < 0 {
				continue
			}
			if len(stack) == 0 || stack[len(stack)-1] != c {
				end = i
				break scan
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				boundary = i + 1
			}
		}
	}

	if boundary < 0 {
		if start < 0 {
			return Balanced{Slice: text, Truncated: true}
		}
		return Balanced{Slice: text[start:end], Truncated: true, Opened: true}
	}

	return Balanced{
		Slice:     text[start:boundary],
		Truncated: strings.TrimSpace(text[boundary:]) != "",
		Closed:    true,
		Opened:    true,
	}
}

func closerFor(opener byte) byte {
	if opener == '{' {
		return '}'
	}
	return ']'
}
