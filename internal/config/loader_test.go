package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/tripfix/internal/config"
)

// writeFile is a test helper that creates a temporary file with the given content.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)
	return path
}

// ---------------------------------------------------------------------------
// LoadFile tests
// ---------------------------------------------------------------------------

func TestLoadFileBasicKeyValue(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "SCHEMA_VARIANT=app\nMAX_REPAIR_ATTEMPTS=3\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "app", m["SCHEMA_VARIANT"])
	assert.Equal(t, "3", m["MAX_REPAIR_ATTEMPTS"])
}

func TestLoadFileSkipsComments(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "# This is a comment\nVERBOSE=true\n# Another comment\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Len(t, m, 1)
	assert.Equal(t, "true", m["VERBOSE"])
}

func TestLoadFileSkipsEmptyLines(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "\n\nVERBOSE=true\n\n\nNORMALIZE=false\n\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Len(t, m, 2)
	assert.Equal(t, "true", m["VERBOSE"])
	assert.Equal(t, "false", m["NORMALIZE"])
}

func TestLoadFileSkipsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "VERBOSE=true\nUNKNOWN_KEY=value\nBOGUS=stuff\nOUTPUT_FORMAT=yaml\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Len(t, m, 2)
	assert.Equal(t, "true", m["VERBOSE"])
	assert.Equal(t, "yaml", m["OUTPUT_FORMAT"])
}

func TestLoadFileQuotedAndExported(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "FALLBACK_KEYS=\"days, timeSlots\"\nexport PARTIAL_FLOOR=0.5\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "days, timeSlots", m["FALLBACK_KEYS"])
	assert.Equal(t, "0.5", m["PARTIAL_FLOOR"])
}

func TestLoadFileReturnsErrorForMissingFile(t *testing.T) {
	_, err := config.LoadFile("/nonexistent/path/config")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// ---------------------------------------------------------------------------
// Precedence tests
// ---------------------------------------------------------------------------

func TestLoadWithPrecedenceDefaultsOnly(t *testing.T) {
	cfg, err := config.LoadWithPrecedence("", "", "", nil)
	require.NoError(t, err)

	assert.Equal(t, config.NewDefaultConfig(), cfg)
}

func TestLoadWithPrecedenceGlobalOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	globalPath := writeFile(t, dir, "global", "SCHEMA_VARIANT=app\nMAX_REPAIR_ATTEMPTS=4\n")

	cfg, err := config.LoadWithPrecedence(globalPath, "", "", nil)
	require.NoError(t, err)

	assert.Equal(t, "app", cfg.SchemaVariant)
	assert.Equal(t, 4, cfg.MaxRepairAttempts)
	// Unset fields keep defaults.
	assert.Equal(t, config.FormatJSON, cfg.OutputFormat)
}

func TestLoadWithPrecedenceProjectOverridesGlobal(t *testing.T) {
	dir := t.TempDir()
	globalPath := writeFile(t, dir, "global", "SCHEMA_VARIANT=app\nOUTPUT_FORMAT=yaml\nMAX_REPAIR_ATTEMPTS=4\n")
	projectPath := writeFile(t, dir, "project", "SCHEMA_VARIANT=llm\nMAX_REPAIR_ATTEMPTS=2\n")

	cfg, err := config.LoadWithPrecedence(globalPath, projectPath, "", nil)
	require.NoError(t, err)

	// Project wins over global.
	assert.Equal(t, "llm", cfg.SchemaVariant)
	assert.Equal(t, 2, cfg.MaxRepairAttempts)
	// Global still applies for fields not set in project.
	assert.Equal(t, "yaml", cfg.OutputFormat)
}

func TestLoadWithPrecedenceExplicitOverridesProject(t *testing.T) {
	dir := t.TempDir()
	globalPath := writeFile(t, dir, "global", "SCHEMA_VARIANT=app\n")
	projectPath := writeFile(t, dir, "project", "SCHEMA_VARIANT=llm\nMAX_REPAIR_ATTEMPTS=2\n")
	explicitPath := writeFile(t, dir, "explicit", "MAX_REPAIR_ATTEMPTS=1\n")

	cfg, err := config.LoadWithPrecedence(globalPath, projectPath, explicitPath, nil)
	require.NoError(t, err)

	// Project wins for SCHEMA_VARIANT (explicit does not set it).
	assert.Equal(t, "llm", cfg.SchemaVariant)
	// Explicit wins for MAX_REPAIR_ATTEMPTS.
	assert.Equal(t, 1, cfg.MaxRepairAttempts)
}

func TestLoadWithPrecedenceCLIOverridesAll(t *testing.T) {
	dir := t.TempDir()
	globalPath := writeFile(t, dir, "global", "ALLOW_PARTIAL=true\nMAX_REPAIR_ATTEMPTS=4\n")
	projectPath := writeFile(t, dir, "project", "ALLOW_PARTIAL=true\nMAX_REPAIR_ATTEMPTS=2\n")
	explicitPath := writeFile(t, dir, "explicit", "MAX_REPAIR_ATTEMPTS=1\n")

	cli := map[string]string{
		"ALLOW_PARTIAL":       "false",
		"MAX_REPAIR_ATTEMPTS": "5",
		"VERBOSE":             "true",
	}

	cfg, err := config.LoadWithPrecedence(globalPath, projectPath, explicitPath, cli)
	require.NoError(t, err)

	assert.False(t, cfg.AllowPartial)
	assert.Equal(t, 5, cfg.MaxRepairAttempts)
	assert.True(t, cfg.Verbose)
}

func TestLoadWithPrecedenceFullChain(t *testing.T) {
	dir := t.TempDir()

	// Each layer sets a unique field so we can verify all layers contribute.
	globalPath := writeFile(t, dir, "global", "OUTPUT_FORMAT=yaml\n")
	projectPath := writeFile(t, dir, "project", "FALLBACK_KEYS=activities\n")
	explicitPath := writeFile(t, dir, "explicit", "PARTIAL_FLOOR=0.6\n")
	cli := map[string]string{"NORMALIZE": "false"}

	cfg, err := config.LoadWithPrecedence(globalPath, projectPath, explicitPath, cli)
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.OutputFormat)
	assert.Equal(t, []string{"activities"}, cfg.FallbackKeys)
	assert.InDelta(t, 0.6, cfg.PartialFloor, 1e-9)
	assert.False(t, cfg.Normalize)
}

func TestLoadWithPrecedenceMissingGlobalIsNotError(t *testing.T) {
	cfg, err := config.LoadWithPrecedence("/nonexistent/global", "", "", nil)
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestLoadWithPrecedenceMissingProjectIsNotError(t *testing.T) {
	cfg, err := config.LoadWithPrecedence("", "/nonexistent/project", "", nil)
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestLoadWithPrecedenceMissingExplicitIsError(t *testing.T) {
	_, err := config.LoadWithPrecedence("", "", "/nonexistent/explicit", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "explicit config")
}

func TestLoadWithPrecedenceGlobalDirectoryIsError(t *testing.T) {
	dir := t.TempDir()

	_, err := config.LoadWithPrecedence(dir, "", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "global config")
}

// ---------------------------------------------------------------------------
// ApplyMapToConfig tests
// ---------------------------------------------------------------------------

func TestApplyMapToConfigSetsAllFields(t *testing.T) {
	cfg := config.NewDefaultConfig()
	config.ApplyMapToConfig(cfg, map[string]string{
		"VERBOSE":             "yes",
		"MAX_REPAIR_ATTEMPTS": "3",
		"ALLOW_PARTIAL":       "1",
		"PARTIAL_FLOOR":       "0.45",
		"FALLBACK_KEYS":       " days , ,activities ",
		"SCHEMA_VARIANT":      "APP",
		"NORMALIZE":           "no",
		"OUTPUT_FORMAT":       "YAML",
		"TRANSCRIPT":          "Claude",
	})

	assert.True(t, cfg.Verbose)
	assert.Equal(t, 3, cfg.MaxRepairAttempts)
	assert.True(t, cfg.AllowPartial)
	assert.InDelta(t, 0.45, cfg.PartialFloor, 1e-9)
	assert.Equal(t, []string{"days", "activities"}, cfg.FallbackKeys)
	assert.Equal(t, "app", cfg.SchemaVariant)
	assert.False(t, cfg.Normalize)
	assert.Equal(t, "yaml", cfg.OutputFormat)
	assert.Equal(t, "claude", cfg.Transcript)
}

func TestApplyMapToConfigBooleanVariations(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{" Yes ", true},
		{"On", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"off", false},
		{"", false},
		{"maybe", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cfg := config.NewDefaultConfig()
			config.ApplyMapToConfig(cfg, map[string]string{"ALLOW_PARTIAL": tt.value})
			assert.Equal(t, tt.expected, cfg.AllowPartial)
		})
	}
}

func TestApplyMapToConfigIgnoresInvalidNumbers(t *testing.T) {
	cfg := config.NewDefaultConfig()
	config.ApplyMapToConfig(cfg, map[string]string{
		"MAX_REPAIR_ATTEMPTS": "many",
		"PARTIAL_FLOOR":       "half",
	})

	assert.Zero(t, cfg.MaxRepairAttempts)
	assert.InDelta(t, 0.30, cfg.PartialFloor, 1e-9)
}

func TestApplyMapToConfigEmptyFallbackKeysDisables(t *testing.T) {
	cfg := config.NewDefaultConfig()
	config.ApplyMapToConfig(cfg, map[string]string{"FALLBACK_KEYS": ""})

	assert.NotNil(t, cfg.FallbackKeys)
	assert.Empty(t, cfg.FallbackKeys)
}

func TestApplyMapToConfigIgnoresUnknownKeys(t *testing.T) {
	cfg := config.NewDefaultConfig()
	config.ApplyMapToConfig(cfg, map[string]string{"AI_CLI": "codex"})

	assert.Equal(t, config.NewDefaultConfig(), cfg)
}
