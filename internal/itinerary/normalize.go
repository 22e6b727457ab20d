package itinerary

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/CodexForgeBR/tripfix/internal/jsonvalue"
)

// shortClock matches a clock time whose hour lacks the leading zero.
var shortClock = regexp.MustCompile(`^([0-9]):([0-5][0-9])$`)

type numericRule func(f float64) float64

func clamp(lo, hi float64) numericRule {
	return func(f float64) float64 { return min(max(f, lo), hi) }
}

func floor(lo float64) numericRule {
	return func(f float64) float64 { return max(f, lo) }
}

// numericRules maps field names of both variants to their repair.
var numericRules = map[string]numericRule{
	"lat":             clamp(-90, 90),
	"latitude":        clamp(-90, 90),
	"lng":             clamp(-180, 180),
	"lon":             clamp(-180, 180),
	"longitude":       clamp(-180, 180),
	"durationMinutes": floor(1),
	"cost":            floor(0),
	"estimatedCost":   floor(0),
}

var clockKeys = map[string]bool{"time": true, "startTime": true}

// Normalize fixes the numeric and format slips models commonly make, so a
// usable itinerary is not rejected over them. It runs after parsing and
// before validation, recursively, keyed by field name:
//
//   - "time"/"startTime" values like "9:30" become "09:30";
//   - latitudes are clamped to [-90, 90] and longitudes to [-180, 180];
//   - durationMinutes below 1 becomes 1;
//   - a negative cost or estimatedCost becomes 0.
//
// Numeric fields given as numeric strings ("12.5") are converted to numbers
// first. The transform is lossy by intent and never fails; values it does
// not recognize are left alone.
func Normalize(v jsonvalue.Value) jsonvalue.Value {
	switch v.Kind() {
	case jsonvalue.KindArray:
		items := v.Items()
		for i, item := range items {
			items[i] = Normalize(item)
		}
		return jsonvalue.Array(items...)
	case jsonvalue.KindObject:
		members := v.Members()
		for i, m := range members {
			members[i].Value = normalizeField(m.Key, m.Value)
		}
		return jsonvalue.Object(members...)
	default:
		return v
	}
}

func normalizeField(key string, v jsonvalue.Value) jsonvalue.Value {
	if rule, ok := numericRules[key]; ok {
		if f, ok := numberOf(v); ok {
			fixed := rule(f)
			if fixed == f && v.Kind() == jsonvalue.KindNumber {
				return v
			}
			return jsonvalue.Float(fixed)
		}
	}
	if clockKeys[key] && v.Kind() == jsonvalue.KindString {
		return jsonvalue.String(padClock(v.AsString()))
	}
	return Normalize(v)
}

func numberOf(v jsonvalue.Value) (float64, bool) {
	switch v.Kind() {
	case jsonvalue.KindNumber:
		return v.Float()
	case jsonvalue.KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.AsString()), 64)
		return f, err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return 0, false
	}
}

func padClock(s string) string {
	trimmed := strings.TrimSpace(s)
	if m := shortClock.FindStringSubmatch(trimmed); m != nil {
		return "0" + m[1] + ":" + m[2]
	}
	return s
}
