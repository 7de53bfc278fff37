package converter

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/james-see/midi2tab/pkg/tab"
)

// LoadOptions reads partial mapping options from a YAML file. Keys that are
// absent keep their defaults.
//
//	maxFret: 15
//	evaluateOctaveShifts: false
func LoadOptions(path string) (tab.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tab.Options{}, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseOptions(data)
}

// ParseOptions decodes YAML mapping options
func ParseOptions(data []byte) (tab.Options, error) {
	var o tab.Options
	if err := yaml.UnmarshalWithOptions(data, &o, yaml.DisallowUnknownField()); err != nil {
		return tab.Options{}, fmt.Errorf("invalid config: %w", err)
	}
	if err := o.Validate(); err != nil {
		return tab.Options{}, fmt.Errorf("invalid config: %w", err)
	}
	return o, nil
}
