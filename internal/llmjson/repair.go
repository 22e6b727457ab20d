package llmjson

import (
	"bytes"
	"slices"
	"strings"
)

// Repair rewrites text into something encoding/json is more likely to
// accept. It is a best-effort transform: it never fails, it is the identity
// on valid JSON, and its output may still be invalid.
//
// Fixes, in order:
//   - literal newlines, carriage returns and tabs inside strings are escaped;
//     invalid escape sequences are neutralized;
//   - single-quoted strings in key or value position are re-quoted;
//   - numeric literals with a '.' not followed by a digit, or a dangling
//     exponent, are trimmed ("12." becomes "12");
//   - an unterminated string is closed;
//   - a comma is inserted where a new key, object or array directly follows
//     a completed value;
//   - missing closers are appended innermost first, with null for a
//     dangling ':';
//   - trailing commas before a closer are dropped.
func Repair(text string) string {
	out := fixLiterals(text)
	out = insertMissingCommas(out)
	out = closeContainers(out)
	return dropTrailingCommas(out)
}

func fixLiterals(text string) string {
	out := make([]byte, 0, len(text)+8)
	var quote byte // opening quote of the current string, 0 outside strings
	escape := false
	numStart := -1

	for i := 0; i < len(text); i++ {
		c := text[i]

		if quote != 0 {
			if escape {
				escape = false
				out = appendEscaped(out, text, i)
				continue
			}
			switch c {
			case '\\':
				if quote == '\'' && i+1 < len(text) && text[i+1] == '\'' {
					out = append(out, '\'')
					i++
					continue
				}
				escape = true
				out = append(out, c)
			case quote:
				quote = 0
				out = append(out, '"')
			case '"':
				// Only reachable inside a single-quoted string.
				out = append(out, '\\', '"')
			case '\n':
				out = append(out, '\\', 'n')
			case '\r':
				out = append(out, '\\', 'r')
			case '\t':
				out = append(out, '\\', 't')
			default:
				out = append(out, c)
			}
			continue
		}

		if numStart >= 0 {
			if isNumberByte(c) {
				out = append(out, c)
				continue
			}
			out = append(out[:numStart], fixNumber(string(out[numStart:]))...)
			numStart = -1
		}

		switch {
		case c == '"':
			quote = '"'
			out = append(out, c)
		case c == '\'' && opensValue(out):
			quote = '\''
			out = append(out, '"')
		case c == '-' || isDigit(c):
			if len(out) == 0 || !isWordByte(out[len(out)-1]) {
				numStart = len(out)
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}

	if numStart >= 0 {
		out = append(out[:numStart], fixNumber(string(out[numStart:]))...)
	}
	if quote != 0 {
		if escape {
			out = out[:len(out)-1]
		}
		out = append(out, '"')
	}
	return string(out)
}

// appendEscaped writes the character following a backslash. out already
// ends with that backslash.
func appendEscaped(out []byte, text string, i int) []byte {
	c := text[i]
	switch c {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		return append(out, c)
	case 'u':
		if i+4 < len(text) && isHex(text[i+1]) && isHex(text[i+2]) && isHex(text[i+3]) && isHex(text[i+4]) {
			return append(out, c)
		}
		return append(out, '\\', c)
	case '\n':
		return append(out, 'n')
	case '\r':
		return append(out, 'r')
	case '\t':
		return append(out, 't')
	case '\'':
		return append(out[:len(out)-1], c)
	default:
		return append(out, '\\', c)
	}
}

// fixNumber drops every '.' not followed by a digit and any dangling
// exponent marker or sign.
func fixNumber(run string) string {
	var b strings.Builder
	for i := 0; i < len(run); i++ {
		if run[i] == '.' && (i+1 >= len(run) || !isDigit(run[i+1])) {
			continue
		}
		b.WriteByte(run[i])
	}
	fixed := strings.TrimRight(b.String(), "eE+-")
	if fixed == "" || fixed == "-" {
		return "0"
	}
	return fixed
}

func insertMissingCommas(text string) string {
	out := make([]byte, 0, len(text)+8)
	inString, escape := false, false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			out = append(out, c)
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

		if (c == '"' || c == '{' || c == '[') && endsValue(out) {
			out = slices.Insert(out, lastSignificant(out)+1, ',')
		}
		if c == '"' {
			inString = true
		}
		out = append(out, c)
	}
	return string(out)
}

// closeContainers balances brackets against a stack of expected closers.
// A closer that matches an outer opener first emits the closers of the
// containers still open inside it; a closer matching no open container is
// dropped. Whatever remains open at the end is closed innermost first.
func closeContainers(text string) string {
	var stack []byte
	out := make([]byte, 0, len(text)+4)
	inString, escape := false, false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			out = append(out, c)
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
			at := bytes.LastIndexByte(stack, c)
			if at < 0 {
				continue
			}
			for len(stack)-1 > at {
				out = append(out, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
			stack = stack[:at]
		}
		out = append(out, c)
	}

	if inString {
		out = append(out, '"')
	}
	if len(stack) == 0 {
		return string(out)
	}

	var b strings.Builder
	trimmed := strings.TrimRight(string(out), " \t\r\n")
	b.WriteString(trimmed)
	if strings.HasSuffix(trimmed, ":") {
		b.WriteString("null")
	}
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteByte(stack[i])
	}
	return b.String()
}

func dropTrailingCommas(text string) string {
	out := make([]byte, 0, len(text))
	inString, escape := false, false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			out = append(out, c)
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

		if c == ',' {
			j := i + 1
			for j < len(text) && isSpace(text[j]) {
				j++
			}
			if j == len(text) || text[j] == '}' || text[j] == ']' {
				continue
			}
		}
		if c == '"' {
			inString = true
		}
		out = append(out, c)
	}
	return string(out)
}

// lastSignificant returns the index of the last non-whitespace byte, or -1.
func lastSignificant(out []byte) int {
	for i := len(out) - 1; i >= 0; i-- {
		if !isSpace(out[i]) {
			return i
		}
	}
	return -1
}

// opensValue reports whether a value may start here: at the beginning of
// the text or after one of { [ , :.
func opensValue(out []byte) bool {
	p := lastSignificant(out)
	if p < 0 {
		return true
	}
	return strings.IndexByte("{[,:", out[p]) >= 0
}

// endsValue reports whether out ends with a completed value: a closer, a
// closing quote, a number or a literal.
func endsValue(out []byte) bool {
	p := lastSignificant(out)
	if p < 0 {
		return false
	}
	switch c := out[p]; {
	case c == '}' || c == ']' || c == '"':
		return true
	case isDigit(c):
		return true
	}
	tail := string(out[:p+1])
	for _, lit := range []string{"true", "false", "null"} {
		if strings.HasSuffix(tail, lit) {
			rest := tail[:len(tail)-len(lit)]
			if rest == "" || !isWordByte(rest[len(rest)-1]) {
				return true
			}
		}
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isNumberByte(c byte) bool {
	return isDigit(c) || c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-'
}

func isWordByte(c byte) bool {
	return isDigit(c) || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
