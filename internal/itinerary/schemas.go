package itinerary

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/CodexForgeBR/tripfix/internal/jsonvalue"
	"github.com/CodexForgeBR/tripfix/internal/schema"
)

// Variant selects one of the two itinerary shapes.
type Variant string

// Supported variants.
const (
	VariantLLM Variant = "llm"
	VariantApp Variant = "app"
)

// ParseVariant accepts "llm" or "app", case-insensitively.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case VariantLLM, VariantApp:
		return v, nil
	default:
		return "", fmt.Errorf("unknown schema variant %q (want %q or %q)", s, VariantLLM, VariantApp)
	}
}

func reflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		AllowAdditionalProperties:  true,
		DoNotReference:             true,
		ExpandedStruct:             true,
	}
}

var (
	llmSchema = sync.OnceValue(func() *jsonschema.Schema {
		s := reflector().Reflect(&ItineraryLLM{})
		s.Title = "ItineraryLLM"
		numericMinWords(s)
		return s
	})
	appSchema = sync.OnceValue(func() *jsonschema.Schema {
		s := reflector().Reflect(&ItineraryApp{})
		s.Title = "ItineraryApp"
		numericMinWords(s)
		return s
	})

	llmValidator = sync.OnceValue(func() *schema.Validator { return schema.New(llmSchema()) })
	appValidator = sync.OnceValue(func() *schema.Validator { return schema.New(appSchema()) })
)

// numericMinWords rewrites minWords extras, which struct tags deliver as
// strings, to integers throughout s.
func numericMinWords(s *jsonschema.Schema) {
	if s == nil {
		return
	}
	if raw, ok := s.Extras[schema.MinWordsKeyword].(string); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			s.Extras[schema.MinWordsKeyword] = n
		}
	}
	if s.Properties != nil {
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			numericMinWords(pair.Value)
		}
	}
	numericMinWords(s.Items)
	for _, def := range s.Definitions {
		numericMinWords(def)
	}
}

// LLMSchema returns the schema of ItineraryLLM. The schema is shared and
// must not be modified.
func LLMSchema() *jsonschema.Schema { return llmSchema() }

// AppSchema returns the schema of ItineraryApp. The schema is shared and
// must not be modified.
func AppSchema() *jsonschema.Schema { return appSchema() }

// SchemaFor returns the schema of the given variant.
func SchemaFor(v Variant) (*jsonschema.Schema, error) {
	switch v {
	case VariantLLM:
		return LLMSchema(), nil
	case VariantApp:
		return AppSchema(), nil
	default:
		return nil, fmt.Errorf("unknown schema variant %q", v)
	}
}

// Validate checks value against the variant's schema. An unknown variant
// is reported as a single violation at the root.
func Validate(v Variant, value jsonvalue.Value) schema.Result {
	switch v {
	case VariantLLM:
		return llmValidator().Validate(value)
	case VariantApp:
		return appValidator().Validate(value)
	default:
		return schema.Result{Errors: []string{fmt.Sprintf("/ unknown schema variant %q", v)}}
	}
}
