package cli

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/tripfix/internal/config"
)

func parsedCmd(t *testing.T, args ...string) (*cobra.Command, *config.Config) {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cmd := &cobra.Command{Use: "test"}
	BindFlags(cmd, cfg)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, cfg
}

func TestBindFlags_DefaultValues(t *testing.T) {
	_, cfg := parsedCmd(t)

	assert.Equal(t, config.NewDefaultConfig(), cfg)
}

func TestBindFlags_Values(t *testing.T) {
	_, cfg := parsedCmd(t,
		"--max-repair-attempts", "2",
		"--allow-partial",
		"--partial-floor", "0.5",
		"--fallback-keys", "days,activities",
		"--schema", "app",
		"-o", "yaml",
		"--transcript", "codex",
		"-q",
		"-v",
		"--config", "extra.env",
	)

	assert.Equal(t, 2, cfg.MaxRepairAttempts)
	assert.True(t, cfg.AllowPartial)
	assert.InDelta(t, 0.5, cfg.PartialFloor, 1e-9)
	assert.Equal(t, []string{"days", "activities"}, cfg.FallbackKeys)
	assert.Equal(t, "app", cfg.SchemaVariant)
	assert.Equal(t, "yaml", cfg.OutputFormat)
	assert.Equal(t, "codex", cfg.Transcript)
	assert.True(t, cfg.Quiet)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "extra.env", cfg.ConfigFile)
}

func TestBuildCLIOverrides_OnlyChangedFlags(t *testing.T) {
	cmd, cfg := parsedCmd(t)

	assert.Empty(t, BuildCLIOverrides(cmd, cfg))
}

func TestBuildCLIOverrides(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected map[string]string
	}{
		{"schema", []string{"--schema", "app"}, map[string]string{"SCHEMA_VARIANT": "app"}},
		{"format", []string{"-o", "yaml"}, map[string]string{"OUTPUT_FORMAT": "yaml"}},
		{"transcript", []string{"--transcript", "auto"}, map[string]string{"TRANSCRIPT": "auto"}},
		{"attempts", []string{"--max-repair-attempts", "3"}, map[string]string{"MAX_REPAIR_ATTEMPTS": "3"}},
		{"floor", []string{"--partial-floor", "0.25"}, map[string]string{"PARTIAL_FLOOR": "0.25"}},
		{"fallback keys", []string{"--fallback-keys", "a,b"}, map[string]string{"FALLBACK_KEYS": "a,b"}},
		{"verbose", []string{"-v"}, map[string]string{"VERBOSE": "true"}},
		{"verbose off", []string{"--verbose=false"}, map[string]string{"VERBOSE": "false"}},
		{"allow partial", []string{"--allow-partial"}, map[string]string{"ALLOW_PARTIAL": "true"}},
		{"no normalize", []string{"--no-normalize"}, map[string]string{"NORMALIZE": "false"}},
		{"cli-only flags", []string{"-q", "--config", "x"}, map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, cfg := parsedCmd(t, tt.args...)
			assert.Equal(t, tt.expected, BuildCLIOverrides(cmd, cfg))
		})
	}
}

func TestValidateFlags_Defaults(t *testing.T) {
	assert.NoError(t, ValidateFlags(config.NewDefaultConfig()))
}

func TestValidateFlags_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		message string
	}{
		{"schema", func(c *config.Config) { c.SchemaVariant = "xml" }, "--schema"},
		{"transcript", func(c *config.Config) { c.Transcript = "gemini" }, "--transcript"},
		{"format", func(c *config.Config) { c.OutputFormat = "toml" }, "--format must be 'json' or 'yaml', got: toml"},
		{"attempts", func(c *config.Config) { c.MaxRepairAttempts = -1 }, "--max-repair-attempts"},
		{"floor zero", func(c *config.Config) { c.PartialFloor = 0 }, "--partial-floor"},
		{"floor above one", func(c *config.Config) { c.PartialFloor = 1.5 }, "--partial-floor"},
		{"missing config", func(c *config.Config) { c.ConfigFile = filepath.Join(t.TempDir(), "absent") }, "--config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewDefaultConfig()
			tt.mutate(cfg)
			err := ValidateFlags(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidateFlags_SchemaCaseInsensitive(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.SchemaVariant = "APP"

	assert.NoError(t, ValidateFlags(cfg))
}
