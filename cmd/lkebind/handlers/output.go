package handlers

import (
	"encoding/json"
	"fmt"
	"io"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

func validateOutput(format string) error {
	if format != OutputText && format != OutputJSON {
		return fmt.Errorf("output must be %q or %q, got %q", OutputText, OutputJSON, format)
	}
	return nil
}

// writeOutput prints v as indented JSON or as the rendered text.
func writeOutput(w io.Writer, format string, v any, render func() string) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		return nil
	}
	_, err := io.WriteString(w, render())
	return err
}
