package llmjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/CodexForgeBR/tripfix/internal/jsonvalue"
)

// ErrorKind classifies why a recovery failed.
type ErrorKind int

const (
	// SyntaxFailure means the text could not be turned into valid JSON.
	SyntaxFailure ErrorKind = iota + 1
	// KeyNotFound means a keyed extraction found no occurrence of the key.
	KeyNotFound
	// NotAnArray means the key was found but its value is not an array.
	NotAnArray
	// Internal means the pipeline itself misbehaved.
	Internal
)

// String returns the kind's name.
func (k ErrorKind) String() string {
	switch k {
	case SyntaxFailure:
		return "syntax failure"
	case KeyNotFound:
		return "key not found"
	case NotAnArray:
		return "not an array"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against a *ParseError of the same kind.
var (
	ErrSyntax      = errors.New("invalid JSON")
	ErrKeyNotFound = errors.New("key not found")
	ErrNotAnArray  = errors.New("value is not an array")
	ErrInternal    = errors.New("internal error")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case SyntaxFailure:
		return ErrSyntax
	case KeyNotFound:
		return ErrKeyNotFound
	case NotAnArray:
		return ErrNotAnArray
	default:
		return ErrInternal
	}
}

// contextRadius is how many bytes of text are kept on each side of a
// syntax error position.
const contextRadius = 80

// ParseError describes a failed recovery.
type ParseError struct {
	Kind ErrorKind
	// Err is the underlying decoder error, if any.
	Err error
	// Key is the key a keyed extraction was looking for.
	Key string
	// Position is the byte offset of the failure in the text that was
	// decoded, or -1 when unknown.
	Position int
	// Context is the text surrounding Position.
	Context string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.sentinel().Error())
	if e.Key != "" {
		fmt.Fprintf(&b, " (key %q)", e.Key)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Position >= 0 {
		fmt.Fprintf(&b, " at offset %d", e.Position)
	}
	return b.String()
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *ParseError) Unwrap() []error {
	errs := []error{e.Kind.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Strategy names reported in Outcome.Strategy.
const (
	StrategyDirect     = "direct"
	StrategyExtract    = "extract"
	StrategyRepair     = "repair"
	StrategyJSONRepair = "jsonrepair"
	StrategyPartial    = "partial"
	StrategyKeyed      = "keyed"
)

// Outcome is the result of every recovery entry point. Exactly one of Value
// and Err is meaningful: Err is nil on success.
type Outcome struct {
	Value jsonvalue.Value
	// WasTruncated is true when content was discarded or an unclosed
	// structure had to be completed.
	WasTruncated bool
	// Strategy names the tier that produced Value.
	Strategy string
	// Key is set when Value came from a keyed extraction.
	Key string
	Err *ParseError
}

// OK reports whether the recovery succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

func failure(err *ParseError) Outcome { return Outcome{Err: err} }

// syntaxFailure wraps a decoder error, locating it in text when the decoder
// reports an offset.
func syntaxFailure(err error, text string) *ParseError {
	pe := &ParseError{Kind: SyntaxFailure, Err: err, Position: -1}
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		pe.Position = int(syn.Offset)
		pe.Context = contextWindow(text, pe.Position)
	}
	return pe
}

// contextWindow returns up to contextRadius bytes on each side of pos.
// Partial UTF-8 sequences at the cut points are dropped.
func contextWindow(text string, pos int) string {
	pos = max(0, min(pos, len(text)))
	lo := max(0, pos-contextRadius)
	hi := min(len(text), pos+contextRadius)
	return strings.ToValidUTF8(text[lo:hi], "")
}

// recoverOutcome turns a panic into an Internal failure.
func recoverOutcome(out *Outcome) {
	if r := recover(); r != nil {
		*out = failure(&ParseError{
			Kind:     Internal,
			Err:      fmt.Errorf("recovered panic: %v", r),
			Position: -1,
		})
	}
}
