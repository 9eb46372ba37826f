// Package format renders command output as JSON or YAML.
package format

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	JSON = "json"
	YAML = "yaml"
)

// Write renders v to w in the requested format. JSON is compact unless
// pretty is set; YAML is always block-style.
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", JSON:
		enc := json.NewEncoder(w)
		if pretty {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(v)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want json or yaml)", format)
	}
}
