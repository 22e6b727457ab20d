// Package banner provides colored summary banners for the tripfix CLI.
//
// Banners go to the writer the caller passes, normally stderr, so they never
// mix with the document written to stdout.
package banner

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/CodexForgeBR/tripfix/internal/llmjson"
	"github.com/CodexForgeBR/tripfix/internal/logging"
	"github.com/CodexForgeBR/tripfix/internal/schema"
)

var (
	successColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	errorColor   = color.New(color.FgRed, color.Bold).SprintFunc()
	warnColor    = color.New(color.FgYellow, color.Bold).SprintFunc()
)

const rule = "═══════════════════════════════════════════════════"

// maxListed caps how many schema violations a banner lists.
const maxListed = 20

// PrintOutcome summarizes a repair or extraction.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ✓ Recovered JSON
//	  Strategy:  repair
//	  Truncated: true
//	  Duration:  1.2ms
//	═══════════════════════════════════════════════════
func PrintOutcome(w io.Writer, out llmjson.Outcome, elapsed time.Duration) {
	if !out.OK() {
		printFailure(w, out.Err)
		return
	}

	paint := successColor
	title := "  ✓ Recovered JSON"
	if out.WasTruncated {
		paint = warnColor
		title = "  ⚠ Recovered truncated JSON"
	}
	sep := paint(rule)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, paint(title))
	fmt.Fprintf(w, "  Strategy:  %s\n", out.Strategy)
	if out.Key != "" {
		fmt.Fprintf(w, "  Key:       %s\n", out.Key)
	}
	fmt.Fprintf(w, "  Truncated: %t\n", out.WasTruncated)
	fmt.Fprintf(w, "  Duration:  %s\n", logging.FormatDuration(elapsed))
	fmt.Fprintln(w, sep)
}

func printFailure(w io.Writer, perr *llmjson.ParseError) {
	sep := errorColor(rule)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, errorColor("  ✗ Could not recover JSON"))
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "  Kind:      %s\n", perr.Kind)
	fmt.Fprintf(w, "  Error:     %s\n", perr.Error())
	if perr.Position >= 0 {
		fmt.Fprintf(w, "  Offset:    %d\n", perr.Position)
	}
	if perr.Context != "" {
		fmt.Fprintln(w, "  Context:")
		fmt.Fprintf(w, "    %s\n", oneLine(perr.Context))
	}
	fmt.Fprintln(w, sep)
}

// PrintValidation summarizes a schema check. At most 20 violations are
// listed; the rest are counted.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ✗ Invalid against llm schema (2 errors)
//	═══════════════════════════════════════════════════
//	    - /title must NOT have fewer than 1 characters
//	    - /days must NOT have fewer than 1 items
//	═══════════════════════════════════════════════════
func PrintValidation(w io.Writer, variant string, res schema.Result) {
	if res.Valid {
		sep := successColor(rule)
		fmt.Fprintln(w, sep)
		fmt.Fprintln(w, successColor(fmt.Sprintf("  ✓ Valid against %s schema", variant)))
		fmt.Fprintln(w, sep)
		return
	}

	sep := errorColor(rule)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, errorColor(fmt.Sprintf("  ✗ Invalid against %s schema (%s)", variant, plural(len(res.Errors), "error"))))
	fmt.Fprintln(w, sep)
	for i, e := range res.Errors {
		if i == maxListed {
			fmt.Fprintf(w, "    ... and %d more\n", len(res.Errors)-maxListed)
			break
		}
		fmt.Fprintf(w, "    - %s\n", e)
	}
	fmt.Fprintln(w, sep)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// oneLine flattens whitespace so a context window prints on a single row.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
