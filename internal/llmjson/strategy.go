package llmjson

import (
	"errors"
	"slices"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/CodexForgeBR/tripfix/internal/jsonvalue"
)

// Logger receives diagnostics about each attempted strategy.
type Logger interface {
	Debugf(format string, args ...any)
}

// DefaultPartialFloor is the minimum share of the sanitized input a partial
// recovery must cover to be accepted.
const DefaultPartialFloor = 0.30

const (
	maxExtractCandidates = 16
	maxPartialCandidates = 32
)

// DefaultFallbackKeys returns the arrays worth salvaging from an itinerary
// response, most important first.
func DefaultFallbackKeys() []string {
	return []string{"days", "timeSlots"}
}

// Options configures TryRepairAndParse. The zero value runs every strategy
// except partial recovery, without fallback keys and without logging.
type Options struct {
	// Logger receives diagnostics when Verbose is set.
	Logger  Logger
	Verbose bool
	// MaxRepairAttempts caps how many strategies of the chain run.
	// Zero or negative means all of them.
	MaxRepairAttempts int
	// AllowPartial enables the largest-valid-prefix strategy.
	AllowPartial bool
	// PartialFloor overrides DefaultPartialFloor when in (0, 1].
	PartialFloor float64
	// FallbackKeys are tried in order with ExtractArrayByKey after the
	// chain fails.
	FallbackKeys []string
}

func (o Options) debugf(format string, args ...any) {
	if o.Verbose && o.Logger != nil {
		o.Logger.Debugf(format, args...)
	}
}

func (o Options) floor() float64 {
	if o.PartialFloor > 0 && o.PartialFloor <= 1 {
		return o.PartialFloor
	}
	return DefaultPartialFloor
}

type strategy struct {
	name string
	run  func(raw string) Outcome
}

func (o Options) chain() []strategy {
	chain := []strategy{
		{StrategyDirect, parseDirect},
		{StrategyExtract, parseExtracted},
		{StrategyRepair, ParseSafe},
		{StrategyJSONRepair, parseWithJSONRepair},
	}
	if o.AllowPartial {
		floor := o.floor()
		chain = append(chain, strategy{StrategyPartial, func(raw string) Outcome {
			return parsePartial(raw, floor)
		}})
	}
	return chain
}

// Strategies lists the strategy names TryRepairAndParse would attempt with
// opts, in order, before any keyed fallback.
func Strategies(opts Options) []string {
	chain := opts.chain()
	if n := opts.MaxRepairAttempts; n > 0 && n < len(chain) {
		chain = chain[:n]
	}
	names := make([]string, 0, len(chain))
	for _, s := range chain {
		names = append(names, s.name)
	}
	return names
}

// TryRepairAndParse runs the strategy chain on raw and returns the first
// success. When every strategy fails it tries ExtractArrayByKey for each
// fallback key. If that fails too, the whole-document failure is returned:
// the ParseSafe failure when that strategy ran, otherwise the first one.
func TryRepairAndParse(raw string, opts Options) (out Outcome) {
	defer recoverOutcome(&out)

	chain := opts.chain()
	if n := opts.MaxRepairAttempts; n > 0 && n < len(chain) {
		chain = chain[:n]
	}

	var first, whole *ParseError
	for _, s := range chain {
		res := s.run(raw)
		if res.OK() {
			opts.debugf("strategy %s succeeded (truncated=%t)", s.name, res.WasTruncated)
			return res
		}
		opts.debugf("strategy %s failed: %v", s.name, res.Err)
		if first == nil {
			first = res.Err
		}
		if s.name == StrategyRepair {
			whole = res.Err
		}
	}

	for _, key := range opts.FallbackKeys {
		res := ExtractArrayByKey(raw, key)
		if res.OK() {
			opts.debugf("fallback key %q recovered %d items (truncated=%t)", res.Key, res.Value.Len(), res.WasTruncated)
			return res
		}
		opts.debugf("fallback key %q failed: %v", key, res.Err)
	}

	if whole != nil {
		return failure(whole)
	}
	return failure(first)
}

func parseDirect(raw string) Outcome {
	text := strings.TrimSpace(raw)
	v, err := jsonvalue.DecodeString(text)
	if err != nil {
		return failure(syntaxFailure(err, text))
	}
	return Outcome{Value: v, Strategy: StrategyDirect}
}

// parseExtracted decodes the first complete top-level value embedded in
// the sanitized text, skipping surrounding prose. The result is truncated
// when another structure starts after the decoded value, since that
// content is discarded.
func parseExtracted(raw string) Outcome {
	clean := Sanitize(raw)
	var lastErr error
	var lastText string

	cursor := 0
	for range maxExtractCandidates {
		start := nextOpener(clean, cursor)
		if start < 0 {
			break
		}
		end, closed := matchClose(clean, start)
		if !closed {
			break
		}
		candidate := clean[start:end]
		v, err := jsonvalue.DecodeString(candidate)
		if err == nil {
			return Outcome{Value: v, WasTruncated: nextOpener(clean, end) >= 0, Strategy: StrategyExtract}
		}
		lastErr, lastText = err, candidate
		cursor = end
	}

	if lastErr == nil {
		return failure(&ParseError{Kind: SyntaxFailure, Err: errors.New("no complete JSON value found"), Position: -1})
	}
	return failure(syntaxFailure(lastErr, lastText))
}

func parseWithJSONRepair(raw string) Outcome {
	clean := Sanitize(raw)
	bal := TruncateToBalanced(clean)
	if !bal.Opened {
		return failure(&ParseError{Kind: SyntaxFailure, Err: errors.New("no JSON structure found"), Position: -1})
	}

	fixed, err := jsonrepair.JSONRepair(bal.Slice)
	if err != nil {
		return failure(&ParseError{Kind: SyntaxFailure, Err: err, Position: -1})
	}
	v, err := jsonvalue.DecodeString(fixed)
	if err != nil {
		return failure(syntaxFailure(err, fixed))
	}
	return Outcome{Value: v, WasTruncated: bal.Truncated, Strategy: StrategyJSONRepair}
}

// parsePartial tries repaired prefixes ending at element boundaries, longest
// first, and accepts the first that decodes and covers at least floor of
// the sanitized input.
func parsePartial(raw string, floor float64) Outcome {
	clean := Sanitize(raw)
	start := nextOpener(clean, 0)
	if start < 0 {
		return failure(&ParseError{Kind: SyntaxFailure, Err: errors.New("no JSON structure found"), Position: -1})
	}

	minLen := int(floor * float64(len(clean)))
	cuts := elementBoundaries(clean, start)
	slices.Reverse(cuts)

	var lastErr error
	var lastText string
	for i, cut := range cuts {
		if i >= maxPartialCandidates || cut-start < minLen {
			break
		}
		candidate := Repair(clean[start:cut])
		v, err := jsonvalue.DecodeString(candidate)
		if err == nil {
			return Outcome{Value: v, WasTruncated: true, Strategy: StrategyPartial}
		}
		lastErr, lastText = err, candidate
	}

	if lastErr == nil {
		return failure(&ParseError{Kind: SyntaxFailure, Err: errors.New("no prefix long enough to accept"), Position: -1})
	}
	return failure(syntaxFailure(lastErr, lastText))
}

// nextOpener returns the offset of the first '{' or '[' at or after from
// that lies outside a string literal, or -1.
func nextOpener(text string, from int) int {
	inString, escape := false, false
	for i := from; i < len(text); i++ {
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
			return i
		}
	}
	return -1
}

// matchClose returns the end of the structure opening at text[start].
func matchClose(text string, start int) (end int, closed bool) {
	depth := 0
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
		}
	}
	return len(text), false
}

// elementBoundaries lists, in ascending order, the offsets inside the
// structure opening at text[start] where a nested value has just closed or
// a separating comma begins.
func elementBoundaries(text string, start int) []int {
	var cuts []int
	depth := 0
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
			if depth <= 0 {
				return append(cuts, i+1)
			}
			cuts = append(cuts, i+1)
		case ',':
			cuts = append(cuts, i)
		}
	}
	return cuts
}
