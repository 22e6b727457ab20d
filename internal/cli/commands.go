package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/tripfix/internal/banner"
	"github.com/CodexForgeBR/tripfix/internal/exitcode"
	"github.com/CodexForgeBR/tripfix/internal/itinerary"
	"github.com/CodexForgeBR/tripfix/internal/jsonvalue"
	"github.com/CodexForgeBR/tripfix/internal/llmjson"
	"github.com/CodexForgeBR/tripfix/internal/logging"
	"github.com/CodexForgeBR/tripfix/internal/transcript"
)

func (a *app) sanitizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sanitize [file]",
		Short: "Strip code fences, smart quotes and control characters",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := a.input(cmd, args)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), llmjson.Sanitize(raw)+"\n")
			return err
		},
	}
}

func (a *app) parseCmd() *cobra.Command {
	var safe bool
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Recover a JSON value from model output",
		Long:  "Recover a JSON value from model output, trying each repair strategy in turn and then the fallback keys.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := a.input(cmd, args)
			if err != nil {
				return err
			}
			out, err := a.parseInput(cmd, raw, safe)
			if err != nil {
				return err
			}
			return writeValue(cmd.OutOrStdout(), out.Value, a.cfg.OutputFormat)
		},
	}
	cmd.Flags().BoolVar(&safe, "safe", false, "Run only the sanitize, balance and repair pass")
	return cmd
}

func (a *app) extractCmd() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "extract --key <name> [file]",
		Short: "Recover the array bound to a key",
		Long:  "Recover the array bound to a key from a document too broken to parse whole.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := a.input(cmd, args)
			if err != nil {
				return err
			}
			start := time.Now()
			out := llmjson.ExtractArrayByKey(raw, key)
			banner.PrintOutcome(a.summary(cmd), out, time.Since(start))
			if !out.OK() {
				return &ExitError{Code: exitcode.ExtractFailed, Err: out.Err}
			}
			return writeValue(cmd.OutOrStdout(), out.Value, a.cfg.OutputFormat)
		},
	}
	cmd.Flags().StringVarP(&key, "key", "k", "", "Key whose array value to recover")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Parse, normalize and check against a schema",
		Long:  "Parse the input, normalize it unless --no-normalize is set, and check it against the --schema variant. The verdict is printed as {valid, errors}.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := a.input(cmd, args)
			if err != nil {
				return err
			}
			out, err := a.parseInput(cmd, raw, false)
			if err != nil {
				return err
			}
			variant, err := itinerary.ParseVariant(a.cfg.SchemaVariant)
			if err != nil {
				return err
			}

			res := itinerary.Validate(variant, a.normalize(out.Value))
			banner.PrintValidation(a.summary(cmd), string(variant), res)
			if err := writeGo(cmd.OutOrStdout(), res, a.cfg.OutputFormat); err != nil {
				return err
			}
			if !res.Valid {
				return &ExitError{Code: exitcode.SchemaInvalid, Err: fmt.Errorf("%d schema violations", len(res.Errors))}
			}
			return nil
		},
	}
}

func (a *app) convertCmd() *cobra.Command {
	var reverse bool
	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert an llm itinerary to the app shape",
		Long:  "Parse and validate an llm itinerary, then print it in the app shape with fresh slot IDs. With --reverse, convert an app itinerary back to the llm shape.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := a.input(cmd, args)
			if err != nil {
				return err
			}
			out, err := a.parseInput(cmd, raw, false)
			if err != nil {
				return err
			}

			from := itinerary.VariantLLM
			if reverse {
				from = itinerary.VariantApp
			}
			value := a.normalize(out.Value)
			if res := itinerary.Validate(from, value); !res.Valid {
				banner.PrintValidation(a.summary(cmd), string(from), res)
				return &ExitError{Code: exitcode.SchemaInvalid, Err: fmt.Errorf("input is not a valid %s itinerary", from)}
			}

			var converted any
			if reverse {
				var app itinerary.ItineraryApp
				if err := jsonvalue.Into(value, &app); err != nil {
					return fmt.Errorf("decode itinerary: %w", err)
				}
				converted = itinerary.FromApp(app)
			} else {
				it, err := itinerary.DecodeLLM(value)
				if err != nil {
					return err
				}
				converted = itinerary.ToApp(it)
			}
			if err := writeGo(cmd.OutOrStdout(), converted, a.cfg.OutputFormat); err != nil {
				return err
			}
			a.note(logging.Success, fmt.Sprintf("converted %s itinerary", from))
			return nil
		},
	}
	cmd.Flags().BoolVar(&reverse, "reverse", false, "Convert an app itinerary back to the llm shape")
	return cmd
}

func (a *app) schemaCmd() *cobra.Command {
	var variantFlag string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of an itinerary variant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name := a.cfg.SchemaVariant
			if cmd.Flags().Changed("variant") {
				name = variantFlag
			}
			variant, err := itinerary.ParseVariant(name)
			if err != nil {
				return fmt.Errorf("--variant: %w", err)
			}
			s, err := itinerary.SchemaFor(variant)
			if err != nil {
				return err
			}
			raw, err := json.Marshal(s)
			if err != nil {
				return fmt.Errorf("encode schema: %w", err)
			}
			v, err := jsonvalue.Decode(raw)
			if err != nil {
				return fmt.Errorf("encode schema: %w", err)
			}
			return writeValue(cmd.OutOrStdout(), v, a.cfg.OutputFormat)
		},
	}
	cmd.Flags().StringVar(&variantFlag, "variant", "", "Schema variant: llm or app (default: --schema)")
	return cmd
}

// input reads the command input and, when configured, unwraps it as a
// model CLI transcript.
func (a *app) input(cmd *cobra.Command, args []string) (string, error) {
	raw, err := readInput(cmd, args)
	if err != nil {
		return "", err
	}
	f, err := transcript.ParseFormat(a.cfg.Transcript)
	if err != nil || f == transcript.None {
		return raw, err
	}
	text := transcript.Unwrap(raw, f)
	if f == transcript.Auto && text == raw {
		a.note(logging.Info, "no transcript events found, using the input as is")
		return raw, nil
	}
	logging.Debugf("unwrapped %s transcript into %d bytes", f, len(text))
	return text, nil
}

// parseInput runs the repair pipeline, prints the outcome banner and maps a
// failure to exitcode.Unparseable. safe restricts it to ParseSafe.
func (a *app) parseInput(cmd *cobra.Command, raw string, safe bool) (llmjson.Outcome, error) {
	start := time.Now()
	var out llmjson.Outcome
	if safe {
		logging.Debug("strategy chain: repair")
		out = llmjson.ParseSafe(raw)
	} else {
		opts := a.cfg.PipelineOptions(logging.Sink{})
		logging.Debugf("strategy chain: %s", strings.Join(llmjson.Strategies(opts), " -> "))
		out = llmjson.TryRepairAndParse(raw, opts)
	}
	banner.PrintOutcome(a.summary(cmd), out, time.Since(start))
	if !out.OK() {
		return out, &ExitError{Code: exitcode.Unparseable, Err: out.Err}
	}

	if keys := out.Value.Keys(); len(keys) > 0 {
		logging.Debugf("top-level keys: %s", strings.Join(keys, ", "))
	}
	switch {
	case out.Key != "":
		a.note(logging.Warn, fmt.Sprintf("only the %q array could be recovered", out.Key))
	case out.WasTruncated:
		a.note(logging.Warn, "input was truncated; the completion likely hit its token limit")
	}
	return out, nil
}

// note logs msg through log unless --quiet is set.
func (a *app) note(log func(string), msg string) {
	if !a.cfg.Quiet {
		log(msg)
	}
}

func (a *app) normalize(v jsonvalue.Value) jsonvalue.Value {
	if !a.cfg.Normalize {
		return v
	}
	return itinerary.Normalize(v)
}
