// Package source reads raw scenario data from disk.
package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/scenario"
)

// LoadFile reads a JSON or YAML scenario file and returns the decoded,
// untyped data for scenario.Load. The format is chosen by extension;
// anything that is not .yaml or .yml is read as JSON.
func LoadFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", scenario.ErrSourceUnavailable, path)
		}
		return nil, fmt.Errorf("%w: %v", scenario.ErrSourceUnavailable, err)
	}
	return Decode(data, formatOf(path))
}

// Format is the encoding of a scenario document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses data in the given format.
func Decode(data []byte, format Format) (any, error) {
	var raw any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: invalid YAML: %v", scenario.ErrMalformedSource, err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: invalid JSON: %v", scenario.ErrMalformedSource, err)
		}
	}
	return raw, nil
}

// LoadStore reads path and builds a Store from it.
func LoadStore(path string, opts scenario.LoadOptions) (*scenario.Store, scenario.LoadReport, error) {
	raw, err := LoadFile(path)
	if err != nil {
		return nil, scenario.LoadReport{}, err
	}
	return scenario.LoadWithOptions(raw, opts)
}
