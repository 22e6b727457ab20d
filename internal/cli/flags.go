// Package cli wires the tripfix commands, their flags and the config
// precedence chain on top of cobra.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/tripfix/internal/config"
	"github.com/CodexForgeBR/tripfix/internal/itinerary"
	"github.com/CodexForgeBR/tripfix/internal/transcript"
)

// BindFlags registers the persistent flags shared by every subcommand.
// The flags directly modify fields in the provided config pointer.
// Call BuildCLIOverrides after parsing to feed them into the config chain.
func BindFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.PersistentFlags()

	// Repair pipeline
	flags.IntVar(&cfg.MaxRepairAttempts, "max-repair-attempts", 0, "Run at most this many strategies (0 = all)")
	flags.BoolVar(&cfg.AllowPartial, "allow-partial", false, "Accept the largest valid prefix as a last resort")
	flags.Float64Var(&cfg.PartialFloor, "partial-floor", cfg.PartialFloor, "Minimum share of the input a partial result must cover")
	flags.StringSliceVar(&cfg.FallbackKeys, "fallback-keys", cfg.FallbackKeys, "Array keys to salvage when the whole document fails")

	// Validation
	flags.StringVar(&cfg.SchemaVariant, "schema", cfg.SchemaVariant, "Schema variant: llm or app")
	var noNormalize bool
	flags.BoolVar(&noNormalize, "no-normalize", false, "Skip clamping and time padding before validation")

	// Input and output
	flags.StringVar(&cfg.Transcript, "transcript", cfg.Transcript, "Input transcript format: none, auto, claude or codex")
	flags.StringVarP(&cfg.OutputFormat, "format", "o", cfg.OutputFormat, "Output format: json or yaml")
	flags.BoolVarP(&cfg.Quiet, "quiet", "q", false, "Suppress summary banners")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log every strategy attempt")

	// Config
	flags.StringVar(&cfg.ConfigFile, "config", "", "Path to additional config file")
}

// BuildCLIOverrides creates a map of CLI flag overrides from the config.
// Uses Changed() to only include flags explicitly set by the user, so config
// file values are not overridden by flag defaults.
func BuildCLIOverrides(cmd *cobra.Command, cfg *config.Config) map[string]string {
	overrides := make(map[string]string)
	flags := cmd.Flags()

	stringFlags := map[string]struct {
		key string
		val string
	}{
		"schema":     {"SCHEMA_VARIANT", cfg.SchemaVariant},
		"format":     {"OUTPUT_FORMAT", cfg.OutputFormat},
		"transcript": {"TRANSCRIPT", cfg.Transcript},
	}
	for flag, mapping := range stringFlags {
		if flags.Changed(flag) {
			overrides[mapping.key] = mapping.val
		}
	}

	if flags.Changed("max-repair-attempts") {
		overrides["MAX_REPAIR_ATTEMPTS"] = strconv.Itoa(cfg.MaxRepairAttempts)
	}
	if flags.Changed("partial-floor") {
		overrides["PARTIAL_FLOOR"] = strconv.FormatFloat(cfg.PartialFloor, 'f', -1, 64)
	}
	if flags.Changed("fallback-keys") {
		overrides["FALLBACK_KEYS"] = strings.Join(cfg.FallbackKeys, ",")
	}

	boolFlags := map[string]struct {
		key string
		val bool
	}{
		"verbose":       {"VERBOSE", cfg.Verbose},
		"allow-partial": {"ALLOW_PARTIAL", cfg.AllowPartial},
	}
	for flag, mapping := range boolFlags {
		if flags.Changed(flag) {
			overrides[mapping.key] = strconv.FormatBool(mapping.val)
		}
	}

	// Negation flag
	if flags.Changed("no-normalize") {
		overrides["NORMALIZE"] = "false"
	}

	return overrides
}

// ValidateFlags checks the resolved configuration. Call it after the config
// chain has been applied so file values are checked too.
func ValidateFlags(cfg *config.Config) error {
	// --config must exist if provided
	if cfg.ConfigFile != "" {
		if _, err := os.Stat(cfg.ConfigFile); err != nil {
			return fmt.Errorf("--config: %w", err)
		}
	}

	if _, err := itinerary.ParseVariant(cfg.SchemaVariant); err != nil {
		return fmt.Errorf("--schema: %w", err)
	}

	if _, err := transcript.ParseFormat(cfg.Transcript); err != nil {
		return fmt.Errorf("--transcript: %w", err)
	}

	if cfg.OutputFormat != config.FormatJSON && cfg.OutputFormat != config.FormatYAML {
		return fmt.Errorf("--format must be 'json' or 'yaml', got: %s", cfg.OutputFormat)
	}

	if cfg.MaxRepairAttempts < 0 {
		return fmt.Errorf("--max-repair-attempts must not be negative, got: %d", cfg.MaxRepairAttempts)
	}

	if cfg.PartialFloor <= 0 || cfg.PartialFloor > 1 {
		return fmt.Errorf("--partial-floor must be in (0, 1], got: %g", cfg.PartialFloor)
	}

	return nil
}
