package tab

import (
	"fmt"
	"math"
)

// MappingConfig holds the weights of the mapping cost model.
// It is passed by value and never mutated by the mapper.
type MappingConfig struct {
	MaxFret                   int     `json:"maxFret" yaml:"maxFret"`
	ContinuityWeight          float64 `json:"continuityWeight" yaml:"continuityWeight"`
	PreferMelodyHighStrings   bool    `json:"preferMelodyHighStrings" yaml:"preferMelodyHighStrings"`
	OpenStringBonus           float64 `json:"openStringBonus" yaml:"openStringBonus"`
	FretCostWeight            float64 `json:"fretCostWeight" yaml:"fretCostWeight"`
	ContinuityFretWeight      float64 `json:"continuityFretWeight" yaml:"continuityFretWeight"`
	ContinuityStringWeight    float64 `json:"continuityStringWeight" yaml:"continuityStringWeight"`
	TieBreakPreferLowerString bool    `json:"tieBreakPreferLowerString" yaml:"tieBreakPreferLowerString"`
	EvaluateOctaveShifts      bool    `json:"evaluateOctaveShifts" yaml:"evaluateOctaveShifts"`
}

// DefaultConfig returns the beginner-friendly defaults
func DefaultConfig() MappingConfig {
	return MappingConfig{
		MaxFret:                   12,
		ContinuityWeight:          0.4,
		PreferMelodyHighStrings:   true,
		OpenStringBonus:           0.5,
		FretCostWeight:            1.0,
		ContinuityFretWeight:      1.0,
		ContinuityStringWeight:    1.5,
		TieBreakPreferLowerString: true,
		EvaluateOctaveShifts:      true,
	}
}

// FretCeiling is the highest fret a candidate may use. Two frets above
// MaxFret are tolerated and left to the fret cost to discourage.
func (c MappingConfig) FretCeiling() int {
	return c.MaxFret + 2
}

// Options is a partial MappingConfig. Nil fields fall back to the defaults.
type Options struct {
	MaxFret                   *int     `json:"maxFret,omitempty" yaml:"maxFret,omitempty"`
	ContinuityWeight          *float64 `json:"continuityWeight,omitempty" yaml:"continuityWeight,omitempty"`
	PreferMelodyHighStrings   *bool    `json:"preferMelodyHighStrings,omitempty" yaml:"preferMelodyHighStrings,omitempty"`
	OpenStringBonus           *float64 `json:"openStringBonus,omitempty" yaml:"openStringBonus,omitempty"`
	FretCostWeight            *float64 `json:"fretCostWeight,omitempty" yaml:"fretCostWeight,omitempty"`
	ContinuityFretWeight      *float64 `json:"continuityFretWeight,omitempty" yaml:"continuityFretWeight,omitempty"`
	ContinuityStringWeight    *float64 `json:"continuityStringWeight,omitempty" yaml:"continuityStringWeight,omitempty"`
	TieBreakPreferLowerString *bool    `json:"tieBreakPreferLowerString,omitempty" yaml:"tieBreakPreferLowerString,omitempty"`
	EvaluateOctaveShifts      *bool    `json:"evaluateOctaveShifts,omitempty" yaml:"evaluateOctaveShifts,omitempty"`
}

// Validate rejects a negative MaxFret and weights that are NaN or infinite.
// A non-finite weight turns every path cost into NaN.
func (o Options) Validate() error {
	if o.MaxFret != nil && *o.MaxFret < 0 {
		return fmt.Errorf("maxFret must not be negative (got %d)", *o.MaxFret)
	}
	weights := []struct {
		name string
		v    *float64
	}{
		{"continuityWeight", o.ContinuityWeight},
		{"openStringBonus", o.OpenStringBonus},
		{"fretCostWeight", o.FretCostWeight},
		{"continuityFretWeight", o.ContinuityFretWeight},
		{"continuityStringWeight", o.ContinuityStringWeight},
	}
	for _, w := range weights {
		if w.v != nil && (math.IsNaN(*w.v) || math.IsInf(*w.v, 0)) {
			return fmt.Errorf("%s must be a finite number (got %v)", w.name, *w.v)
		}
	}
	return nil
}

// Resolve merges the set fields over DefaultConfig
func (o Options) Resolve() MappingConfig {
	return o.Apply(DefaultConfig())
}

// Apply overlays the set fields onto base
func (o Options) Apply(base MappingConfig) MappingConfig {
	c := base
	if o.MaxFret != nil {
		c.MaxFret = *o.MaxFret
	}
	if o.ContinuityWeight != nil {
		c.ContinuityWeight = *o.ContinuityWeight
	}
	if o.PreferMelodyHighStrings != nil {
		c.PreferMelodyHighStrings = *o.PreferMelodyHighStrings
	}
	if o.OpenStringBonus != nil {
		c.OpenStringBonus = *o.OpenStringBonus
	}
	if o.FretCostWeight != nil {
		c.FretCostWeight = *o.FretCostWeight
	}
	if o.ContinuityFretWeight != nil {
		c.ContinuityFretWeight = *o.ContinuityFretWeight
	}
	if o.ContinuityStringWeight != nil {
		c.ContinuityStringWeight = *o.ContinuityStringWeight
	}
	if o.TieBreakPreferLowerString != nil {
		c.TieBreakPreferLowerString = *o.TieBreakPreferLowerString
	}
	if o.EvaluateOctaveShifts != nil {
		c.EvaluateOctaveShifts = *o.EvaluateOctaveShifts
	}
	return c
}

// Merge returns o with every field set in other taking precedence
func (o Options) Merge(other Options) Options {
	m := o
	if other.MaxFret != nil {
		m.MaxFret = other.MaxFret
	}
	if other.ContinuityWeight != nil {
		m.ContinuityWeight = other.ContinuityWeight
	}
	if other.PreferMelodyHighStrings != nil {
		m.PreferMelodyHighStrings = other.PreferMelodyHighStrings
	}
	if other.OpenStringBonus != nil {
		m.OpenStringBonus = other.OpenStringBonus
	}
	if other.FretCostWeight != nil {
		m.FretCostWeight = other.FretCostWeight
	}
	if other.ContinuityFretWeight != nil {
		m.ContinuityFretWeight = other.ContinuityFretWeight
	}
	if other.ContinuityStringWeight != nil {
		m.ContinuityStringWeight = other.ContinuityStringWeight
	}
	if other.TieBreakPreferLowerString != nil {
		m.TieBreakPreferLowerString = other.TieBreakPreferLowerString
	}
	if other.EvaluateOctaveShifts != nil {
		m.EvaluateOctaveShifts = other.EvaluateOctaveShifts
	}
	return m
}
