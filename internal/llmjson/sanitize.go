// Package llmjson recovers JSON documents from raw LLM completions.
//
// The pipeline has three pure text stages, each usable on its own:
//
//  1. Sanitize strips markdown fences, byte-order marks and stray control
//     bytes, and folds typographic quotes to ASCII.
//  2. TruncateToBalanced keeps the longest structurally closed prefix,
//     dropping whatever a token limit cut off.
//  3. Repair closes strings and containers, fixes dangling numeric
//     literals and restores dropped commas.
//
// ParseSafe, ExtractArrayByKey and TryRepairAndParse orchestrate the stages.
// They never panic and never return a bare error: every result is an
// Outcome value.
package llmjson

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const byteOrderMark = "\uFEFF"

// fencePattern matches a triple-backtick fence with an optional json tag.
var fencePattern = regexp.MustCompile("(?i)```(?:json)?")

var quoteReplacer = strings.NewReplacer(
	"\u201C", `"`, "\u201D", `"`, "\u201E", `"`, "\u201F", `"`,
	"\u2018", "'", "\u2019", "'", "\u201A", "'", "\u201B", "'",
)

// Sanitize cleans a raw completion before structural analysis.
//
// It removes leading byte-order marks, every ``` / ```json fence, and C0
// control characters other than tab, newline and carriage return. Smart
// double quotes become '"' and smart single quotes become '\''. Invalid
// UTF-8 is replaced with U+FFFD, text outside double-quoted string literals
// is NFC-normalized and surrounding whitespace is trimmed. String contents
// keep their code points, so a valid document round-trips unchanged.
//
// Sanitize is total and idempotent. Removing a fence can expose a new one
// and removing a control byte can expose a composable accent, so the
// cleanup runs until the text stops changing.
func Sanitize(text string) string {
	for {
		next := sanitizePass(text)
		if next == text {
			return text
		}
		text = next
	}
}

func sanitizePass(text string) string {
	text = strings.ToValidUTF8(text, "\uFFFD")
	text = fencePattern.ReplaceAllString(text, "")
	text = quoteReplacer.Replace(text)
	text = strings.Map(dropControl, text)
	text = strings.TrimSpace(text)
	for strings.HasPrefix(text, byteOrderMark) {
		text = strings.TrimSpace(strings.TrimPrefix(text, byteOrderMark))
	}
	return composeOutsideStrings(text)
}

// composeOutsideStrings NFC-normalizes the text between double-quoted
// string literals. An unterminated literal runs to the end of the text.
func composeOutsideStrings(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inString, escape := false, false
	from := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escape:
				escape = false
			case c == '\\':
				escape = true
			case c == '"':
				inString = false
				b.WriteString(text[from : i+1])
				from = i + 1
			}
			continue
		}
		if c == '"' {
			b.WriteString(norm.NFC.String(text[from:i]))
			from = i
			inString = true
		}
	}
	if inString {
		b.WriteString(text[from:])
	} else {
		b.WriteString(norm.NFC.String(text[from:]))
	}
	return b.String()
}

// dropControl removes C0 control characters that JSON never contains
// literally. Tab, LF and CR are kept; the repairer escapes them inside
// strings.
func dropControl(r rune) rune {
	if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
		return -1
	}
	return r
}
