package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var whitelisted = func() map[string]struct{} {
	set := make(map[string]struct{}, len(WhitelistedVars))
	for _, v := range WhitelistedVars {
		set[v] = struct{}{}
	}
	return set
}()

// LoadFile parses a dotenv-style KEY=VALUE config file at the given path.
//
// Comments, blank lines, quoting and "export" prefixes follow godotenv.
// Keys not present in WhitelistedVars are silently ignored.
//
// Returns a map of whitelisted key-value pairs, or an error if the file
// cannot be opened or parsed.
func LoadFile(path string) (map[string]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	all, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	for key, value := range all {
		if _, ok := whitelisted[key]; !ok {
			delete(all, key)
			continue
		}
		all[key] = strings.TrimSpace(value)
	}
	return all, nil
}

// layer is one config file in the precedence chain.
type layer struct {
	name     string
	path     string
	required bool
}

// LoadWithPrecedence builds a Config from, lowest priority first: built-in
// defaults, the global file, the project file, the explicit file and the
// CLI overrides.
//
// Empty paths are skipped. Missing global and project files are fine; an
// explicit file must exist.
func LoadWithPrecedence(globalPath, projectPath, explicitPath string, cliOverrides map[string]string) (*Config, error) {
	cfg := NewDefaultConfig()

	layers := []layer{
		{"global", globalPath, false},
		{"project", projectPath, false},
		{"explicit", explicitPath, true},
	}
	for _, l := range layers {
		if l.path == "" {
			continue
		}
		m, err := LoadFile(l.path)
		switch {
		case err == nil:
			ApplyMapToConfig(cfg, m)
		case l.required || !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("%s config: %w", l.name, err)
		}
	}

	ApplyMapToConfig(cfg, cliOverrides)
	return cfg, nil
}

// ApplyMapToConfig sets fields on cfg from the key-value pairs in m.
// Unknown keys are silently ignored. Numeric fields that fail to parse
// keep their previous value.
func ApplyMapToConfig(cfg *Config, m map[string]string) {
	for key, value := range m {
		switch key {
		case "VERBOSE":
			cfg.Verbose = parseBool(value)
		case "MAX_REPAIR_ATTEMPTS":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.MaxRepairAttempts = v
			}
		case "ALLOW_PARTIAL":
			cfg.AllowPartial = parseBool(value)
		case "PARTIAL_FLOOR":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				cfg.PartialFloor = v
			}
		case "FALLBACK_KEYS":
			cfg.FallbackKeys = parseList(value)
		case "SCHEMA_VARIANT":
			cfg.SchemaVariant = strings.ToLower(value)
		case "NORMALIZE":
			cfg.Normalize = parseBool(value)
		case "OUTPUT_FORMAT":
			cfg.OutputFormat = strings.ToLower(value)
		case "TRANSCRIPT":
			cfg.Transcript = strings.ToLower(value)
		}
	}
}

// parseBool accepts true, 1, yes and on in any case. Anything else is false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// parseList splits a comma-separated value, dropping blanks. An empty value
// yields an empty, non-nil list so it can disable a default.
func parseList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
