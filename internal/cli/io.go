package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/CodexForgeBR/tripfix/internal/config"
	"github.com/CodexForgeBR/tripfix/internal/jsonvalue"
	"github.com/CodexForgeBR/tripfix/internal/logging"
)

// readInput returns the named file's contents, or stdin when no file or
// "-" is given.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	r, name := cmd.InOrStdin(), "stdin"
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r, name = f, args[0]
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	logging.Debugf("read %d bytes from %s", len(data), name)
	return string(data), nil
}

// writeValue prints v as indented JSON or as YAML.
func writeValue(w io.Writer, v jsonvalue.Value, format string) error {
	if format == config.FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}

	raw, err := v.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("indent json: %w", err)
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	return err
}

// writeGo converts a Go value through its JSON form and prints it.
func writeGo(w io.Writer, x any, format string) error {
	v, err := jsonvalue.FromGo(x)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return writeValue(w, v, format)
}
