// Package config defines the tripfix configuration model and default values.
//
// Configuration is assembled from multiple sources with a strict precedence
// chain: built-in defaults < global config file < project config file <
// explicit config file < CLI flag overrides.
package config

import (
	"os"
	"path/filepath"

	"github.com/CodexForgeBR/tripfix/internal/llmjson"
)

// ProjectFile is the per-directory config file name.
const ProjectFile = ".tripfix"

// WhitelistedVars lists every configuration variable name that may appear in
// config files. Variables not in this list are silently ignored during loading.
var WhitelistedVars = [9]string{
	"VERBOSE",
	"MAX_REPAIR_ATTEMPTS",
	"ALLOW_PARTIAL",
	"PARTIAL_FLOOR",
	"FALLBACK_KEYS",
	"SCHEMA_VARIANT",
	"NORMALIZE",
	"OUTPUT_FORMAT",
	"TRANSCRIPT",
}

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config holds every configuration field for the tripfix CLI.
type Config struct {
	// Runtime flags.
	Verbose bool

	// Repair pipeline.
	MaxRepairAttempts int
	AllowPartial      bool
	PartialFloor      float64
	FallbackKeys      []string

	// Validation.
	SchemaVariant string
	Normalize     bool

	// Input and output.
	Transcript   string
	OutputFormat string

	// CLI-only flags (not loaded from config files).
	ConfigFile string
	Quiet      bool
}

// NewDefaultConfig returns a Config populated with all built-in default values.
func NewDefaultConfig() *Config {
	return &Config{
		PartialFloor:  llmjson.DefaultPartialFloor,
		FallbackKeys:  llmjson.DefaultFallbackKeys(),
		SchemaVariant: "llm",
		Normalize:     true,
		Transcript:    "none",
		OutputFormat:  FormatJSON,
	}
}

// PipelineOptions maps the repair settings onto llmjson.Options.
func (c *Config) PipelineOptions(logger llmjson.Logger) llmjson.Options {
	return llmjson.Options{
		Logger:            logger,
		Verbose:           c.Verbose,
		MaxRepairAttempts: c.MaxRepairAttempts,
		AllowPartial:      c.AllowPartial,
		PartialFloor:      c.PartialFloor,
		FallbackKeys:      c.FallbackKeys,
	}
}

// GlobalPath returns $XDG_CONFIG_HOME/tripfix/config (or the platform
// equivalent), or "" when no config directory can be determined.
func GlobalPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tripfix", "config")
}
