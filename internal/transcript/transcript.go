// Package transcript recovers the completion text from the event streams
// model CLIs write in their JSON output modes, so a saved transcript can be
// fed to the repair pipeline directly.
//
// Two line-delimited formats are understood:
//
//   - claude: stream-json events. Text comes from "assistant" events'
//     message.content[] blocks of type "text"; a "result" event is used
//     only when no assistant text was seen.
//   - codex: JSONL events. Text comes from "item.completed" events whose
//     item is an agent_message or assistant_message.
//
// Lines that are not JSON objects are skipped.
package transcript

import (
	"fmt"
	"strings"

	"github.com/CodexForgeBR/tripfix/internal/jsonvalue"
)

// Format names a transcript encoding.
type Format string

// Supported formats. None passes the input through untouched and Auto
// picks Claude or Codex from the events present.
const (
	None   Format = "none"
	Auto   Format = "auto"
	Claude Format = "claude"
	Codex  Format = "codex"
)

// ParseFormat accepts a format name case-insensitively; "" means None.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return None, nil
	case None, Auto, Claude, Codex:
		return f, nil
	default:
		return "", fmt.Errorf("unknown transcript format %q (want none, auto, claude or codex)", s)
	}
}

// Unwrap returns the completion text carried by input. With Auto, input
// that holds no recognized events is returned unchanged, as is any input
// under None.
func Unwrap(input string, f Format) string {
	switch f {
	case Claude:
		return claudeText(events(input))
	case Codex:
		return codexText(events(input))
	case Auto:
		evs := events(input)
		switch Detect(evs) {
		case Claude:
			return claudeText(evs)
		case Codex:
			return codexText(evs)
		}
		return input
	default:
		return input
	}
}

// Detect reports which format a list of events belongs to, or None.
// The first recognized event type decides.
func Detect(evs []jsonvalue.Value) Format {
	for _, ev := range evs {
		switch eventType(ev) {
		case "assistant", "result":
			return Claude
		case "item.completed":
			return Codex
		}
	}
	return None
}

// events decodes every line that is a JSON object carrying a string "type".
func events(input string) []jsonvalue.Value {
	var out []jsonvalue.Value
	for line := range strings.Lines(input) {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "{") {
			continue
		}
		ev, err := jsonvalue.DecodeString(line)
		if err != nil || eventType(ev) == "" {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func eventType(ev jsonvalue.Value) string {
	t, _ := ev.Get("type")
	return t.AsString()
}

func claudeText(evs []jsonvalue.Value) string {
	var text, result strings.Builder
	for _, ev := range evs {
		switch eventType(ev) {
		case "assistant":
			msg, _ := ev.Get("message")
			content, _ := msg.Get("content")
			for _, block := range content.Items() {
				if kind, _ := block.Get("type"); kind.AsString() != "text" {
					continue
				}
				t, _ := block.Get("text")
				text.WriteString(t.AsString())
			}
		case "result":
			r, _ := ev.Get("result")
			result.WriteString(r.AsString())
		}
	}
	if text.Len() > 0 {
		return text.String()
	}
	return result.String()
}

func codexText(evs []jsonvalue.Value) string {
	var parts []string
	for _, ev := range evs {
		if eventType(ev) != "item.completed" {
			continue
		}
		item, _ := ev.Get("item")
		switch kind, _ := item.Get("type"); kind.AsString() {
		case "agent_message", "assistant_message":
			if t, _ := item.Get("text"); t.AsString() != "" {
				parts = append(parts, t.AsString())
			}
		}
	}
	return strings.Join(parts, "\n")
}
