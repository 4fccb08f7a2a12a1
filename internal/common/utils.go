package common

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/fasty/models"
)

// WriteStructured renders v as JSON or YAML. Text output is command specific
// and not handled here.
func WriteStructured(w io.Writer, v any, format models.OutputFormat) error {
	switch format {
	case models.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to marshal JSON output: %w", err)
		}
	case models.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			_ = enc.Close() // Encode error is the one worth reporting
			return fmt.Errorf("failed to marshal YAML output: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported structured format %q", format)
	}
	return nil
}
