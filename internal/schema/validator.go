// Package schema validates recovered JSON values against declarative JSON
// Schemas built with github.com/invopop/jsonschema.
//
// Validation never stops at the first problem: every violation in the
// document is reported, each as "<instancePath> <message>". A type mismatch
// only stops descent into the offending node.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/invopop/jsonschema"

	"github.com/CodexForgeBR/tripfix/internal/jsonvalue"
)

// MinWordsKeyword is the custom keyword, read from Schema.Extras, that
// requires a string to contain at least N whitespace-delimited words.
const MinWordsKeyword = "minWords"

// maxRefHops bounds $ref chains so a self-referencing schema cannot loop.
const maxRefHops = 32

// Result is the outcome of a validation. Errors is empty when Valid.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Validator checks values against one root schema. It is immutable after
// New and safe for concurrent use.
type Validator struct {
	root     *jsonschema.Schema
	patterns map[string]*regexp.Regexp
	falses   map[*jsonschema.Schema]bool
}

// New prepares a validator for root. Patterns are compiled up front; an
// invalid pattern is reported as a violation wherever it applies.
func New(root *jsonschema.Schema) *Validator {
	v := &Validator{
		root:     root,
		patterns: make(map[string]*regexp.Regexp),
		falses:   make(map[*jsonschema.Schema]bool),
	}
	v.compile(root, make(map[*jsonschema.Schema]bool))
	return v
}

func (v *Validator) compile(s *jsonschema.Schema, seen map[*jsonschema.Schema]bool) {
	if s == nil || seen[s] {
		return
	}
	seen[s] = true

	if isFalseSchema(s) {
		v.falses[s] = true
	}
	if s.Pattern != "" {
		if _, ok := v.patterns[s.Pattern]; !ok {
			// A nil entry marks an invalid pattern.
			re, _ := regexp.Compile(s.Pattern)
			v.patterns[s.Pattern] = re
		}
	}

	for _, child := range children(s) {
		v.compile(child, seen)
	}
}

func children(s *jsonschema.Schema) []*jsonschema.Schema {
	var out []*jsonschema.Schema
	if s.Properties != nil {
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			out = append(out, pair.Value)
		}
	}
	for _, def := range s.Definitions {
		out = append(out, def)
	}
	out = append(out, s.Items, s.AdditionalProperties, s.Not)
	out = append(out, s.AllOf...)
	out = append(out, s.AnyOf...)
	out = append(out, s.OneOf...)
	return out
}

// Validate checks value against the root schema and collects every
// violation.
func (v *Validator) Validate(value jsonvalue.Value) Result {
	errs := []string{}
	v.validate(v.root, value, "", &errs)
	return Result{Valid: len(errs) == 0, Errors: errs}
}

func (v *Validator) validate(s *jsonschema.Schema, value jsonvalue.Value, path string, errs *[]string) {
	s, err := v.resolve(s)
	if err != nil {
		report(errs, path, err.Error())
		return
	}
	if s == nil || s == jsonschema.TrueSchema {
		return
	}
	if v.falses[s] {
		report(errs, path, "must not be present")
		return
	}

	if s.Type != "" && !typeMatches(s.Type, value) {
		report(errs, path, "must be "+s.Type)
		return
	}

	if len(s.Enum) > 0 && !inEnum(s.Enum, value) {
		report(errs, path, "must be equal to one of the allowed values")
	}
	if s.Const != nil && !equalsGo(s.Const, value) {
		report(errs, path, "must be equal to constant")
	}

	switch value.Kind() {
	case jsonvalue.KindString:
		v.validateString(s, value.AsString(), path, errs)
	case jsonvalue.KindNumber:
		validateNumber(s, value, path, errs)
	case jsonvalue.KindArray:
		v.validateArray(s, value, path, errs)
	case jsonvalue.KindObject:
		v.validateObject(s, value, path, errs)
	}

	v.validateCombinators(s, value, path, errs)
}

// resolve follows $ref into the root's definitions.
func (v *Validator) resolve(s *jsonschema.Schema) (*jsonschema.Schema, error) {
	for range maxRefHops {
		if s == nil || s.Ref == "" {
			return s, nil
		}
		target, err := v.lookup(s.Ref)
		if err != nil {
			return nil, err
		}
		s = target
	}
	return nil, fmt.Errorf("has a $ref chain longer than %d", maxRefHops)
}

func (v *Validator) lookup(ref string) (*jsonschema.Schema, error) {
	if ref == "#" {
		return v.root, nil
	}
	for _, prefix := range []string{"#/$defs/", "#/definitions/"} {
		if name, ok := strings.CutPrefix(ref, prefix); ok {
			if def, found := v.root.Definitions[name]; found {
				return def, nil
			}
		}
	}
	return nil, fmt.Errorf("has unresolvable $ref %q", ref)
}

func (v *Validator) validateString(s *jsonschema.Schema, str, path string, errs *[]string) {
	length := uint64(utf8.RuneCountInString(str))
	if s.MinLength != nil && length < *s.MinLength {
		report(errs, path, fmt.Sprintf("must NOT have fewer than %d characters", *s.MinLength))
	}
	if s.MaxLength != nil && length > *s.MaxLength {
		report(errs, path, fmt.Sprintf("must NOT have more than %d characters", *s.MaxLength))
	}

	if s.Pattern != "" {
		re := v.patterns[s.Pattern]
		switch {
		case re == nil:
			report(errs, path, fmt.Sprintf("has invalid pattern %q", s.Pattern))
		case !re.MatchString(str):
			report(errs, path, fmt.Sprintf("must match pattern %q", s.Pattern))
		}
	}

	if s.Format != "" && !formatMatches(s.Format, str) {
		report(errs, path, fmt.Sprintf("must match format %q", s.Format))
	}

	if want, ok := minWords(s); ok {
		if n := countWords(str); n < want {
			report(errs, path, fmt.Sprintf("must have at least %d words (got %d)", want, n))
		}
	}
}

func validateNumber(s *jsonschema.Schema, value jsonvalue.Value, path string, errs *[]string) {
	num, ok := value.Float()
	if !ok {
		report(errs, path, "must be a finite number")
		return
	}

	check := func(bound json.Number, violated func(n, b float64) bool, op string) {
		if bound == "" {
			return
		}
		b, err := bound.Float64()
		if err != nil {
			return
		}
		if violated(num, b) {
			report(errs, path, fmt.Sprintf("must be %s %s", op, bound))
		}
	}

	check(s.Minimum, func(n, b float64) bool { return n < b }, ">=")
	check(s.Maximum, func(n, b float64) bool { return n > b }, "<=")
	check(s.ExclusiveMinimum, func(n, b float64) bool { return n <= b }, ">")
	check(s.ExclusiveMaximum, func(n, b float64) bool { return n >= b }, "<")

	if s.MultipleOf != "" {
		if m, err := s.MultipleOf.Float64(); err == nil && m > 0 {
			if q := num / m; math.Abs(q-math.Round(q)) > 1e-9 {
				report(errs, path, fmt.Sprintf("must be multiple of %s", s.MultipleOf))
			}
		}
	}
}

func (v *Validator) validateArray(s *jsonschema.Schema, value jsonvalue.Value, path string, errs *[]string) {
	n := uint64(value.Len())
	if s.MinItems != nil && n < *s.MinItems {
		report(errs, path, fmt.Sprintf("must NOT have fewer than %d items", *s.MinItems))
	}
	if s.MaxItems != nil && n > *s.MaxItems {
		report(errs, path, fmt.Sprintf("must NOT have more than %d items", *s.MaxItems))
	}

	items := value.Items()
	if s.UniqueItems {
		for i := range items {
			for j := i + 1; j < len(items); j++ {
				if jsonvalue.Equal(items[i], items[j]) {
					report(errs, path, fmt.Sprintf("must NOT have duplicate items (items ## %d and %d are identical)", j, i))
				}
			}
		}
	}

	if s.Items == nil {
		return
	}
	for i, item := range items {
		v.validate(s.Items, item, fmt.Sprintf("%s/%d", path, i), errs)
	}
}

func (v *Validator) validateObject(s *jsonschema.Schema, value jsonvalue.Value, path string, errs *[]string) {
	for _, name := range s.Required {
		if _, ok := value.Get(name); !ok {
			report(errs, path, fmt.Sprintf("must have required property '%s'", name))
		}
	}

	for _, m := range value.Members() {
		childPath := path + "/" + escapePointer(m.Key)

		var prop *jsonschema.Schema
		if s.Properties != nil {
			prop, _ = s.Properties.Get(m.Key)
		}
		if prop != nil {
			v.validate(prop, m.Value, childPath, errs)
			continue
		}

		switch {
		case s.AdditionalProperties == nil:
		case v.falses[s.AdditionalProperties]:
			report(errs, path, fmt.Sprintf("must NOT have additional property '%s'", m.Key))
		default:
			v.validate(s.AdditionalProperties, m.Value, childPath, errs)
		}
	}
}

func (v *Validator) validateCombinators(s *jsonschema.Schema, value jsonvalue.Value, path string, errs *[]string) {
	for _, sub := range s.AllOf {
		v.validate(sub, value, path, errs)
	}

	if len(s.AnyOf) > 0 {
		matched := false
		for _, sub := range s.AnyOf {
			if v.matches(sub, value, path) {
				matched = true
				break
			}
		}
		if !matched {
			report(errs, path, "must match a schema in anyOf")
		}
	}

	if len(s.OneOf) > 0 {
		count := 0
		for _, sub := range s.OneOf {
			if v.matches(sub, value, path) {
				count++
			}
		}
		if count != 1 {
			report(errs, path, "must match exactly one schema in oneOf")
		}
	}

	if s.Not != nil && v.matches(s.Not, value, path) {
		report(errs, path, "must NOT be valid")
	}
}

func (v *Validator) matches(s *jsonschema.Schema, value jsonvalue.Value, path string) bool {
	var scratch []string
	v.validate(s, value, path, &scratch)
	return len(scratch) == 0
}

// typeMatches implements the JSON Schema type keyword. An integer is any
// number with no fractional part, so 3.0 is an integer.
func typeMatches(typ string, value jsonvalue.Value) bool {
	switch typ {
	case "integer":
		f, ok := value.Float()
		return ok && f == math.Trunc(f) && !math.IsInf(f, 0)
	case "number":
		return value.Kind() == jsonvalue.KindNumber
	default:
		return value.Kind().String() == typ
	}
}

func inEnum(enum []any, value jsonvalue.Value) bool {
	for _, candidate := range enum {
		if equalsGo(candidate, value) {
			return true
		}
	}
	return false
}

// equalsGo compares a schema literal (any Go value) with a JSON value.
func equalsGo(literal any, value jsonvalue.Value) bool {
	lit, err := jsonvalue.FromGo(literal)
	if err != nil {
		return false
	}
	return jsonvalue.Equal(lit, value)
}

// minWords reads the custom keyword. Struct tags deliver it as a string.
func minWords(s *jsonschema.Schema) (int, bool) {
	raw, ok := s.Extras[MinWordsKeyword]
	if !ok {
		return 0, false
	}
	switch n := raw.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	default:
		return 0, false
	}
}

// countWords counts whitespace-delimited tokens after trimming.
func countWords(s string) int {
	return len(strings.Fields(s))
}

func isFalseSchema(s *jsonschema.Schema) bool {
	if s == jsonschema.FalseSchema {
		return true
	}
	data, err := json.Marshal(s)
	return err == nil && string(data) == "false"
}

// escapePointer escapes a key for use as a JSON Pointer segment.
func escapePointer(key string) string {
	key = strings.ReplaceAll(key, "~", "~0")
	return strings.ReplaceAll(key, "/", "~1")
}

func report(errs *[]string, path, msg string) {
	if path == "" {
		path = "/"
	}
	*errs = append(*errs, path+" "+msg)
}
