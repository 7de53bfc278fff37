// Package converter turns MIDI files into rendered guitar tablature
package converter

import (
	"github.com/james-see/midi2tab/pkg/analyzer"
	"github.com/james-see/midi2tab/pkg/tab"
)

// Tablature is a mapped track ready to be rendered
type Tablature struct {
	Source      string            `json:"source,omitempty"`
	TrackID     string            `json:"trackId,omitempty"` // empty when all tracks were combined
	TrackName   string            `json:"trackName,omitempty"`
	BPM         float64           `json:"bpm"`
	DurationSec float64           `json:"durationSec"`
	Config      tab.MappingConfig `json:"config"`
	Events      []tab.TabEvent    `json:"events"`
	TotalCost   float64           `json:"totalCost"`
}

// TrackPreview summarizes how well a track maps onto the fretboard
type TrackPreview struct {
	analyzer.TrackSummary
	TotalCost       float64 `json:"totalCost"`
	CostPerNote     float64 `json:"costPerNote"`
	HighestFret     int     `json:"highestFret"`
	OctaveShifted   int     `json:"octaveShifted"`
	OpenStringNotes int     `json:"openStringNotes"`
}

// Renderer interface for output-format specific rendering
type Renderer interface {
	Name() string
	Format() Format
	Render(t *Tablature) ([]byte, error)
}

// Converter maps MIDI tracks to tablature and renders them
type Converter struct {
	renderer Renderer
	options  tab.Options
}

// New creates a new Converter with the specified renderer
func New(renderer Renderer) *Converter {
	return &Converter{renderer: renderer}
}

// GetRenderer returns the current renderer
func (c *Converter) GetRenderer() Renderer {
	return c.renderer
}

// SetRenderer sets the renderer for conversion
func (c *Converter) SetRenderer(renderer Renderer) {
	c.renderer = renderer
}

// Options returns the mapping options
func (c *Converter) Options() tab.Options {
	return c.options
}

// SetOptions sets the mapping options used by Build
func (c *Converter) SetOptions(o tab.Options) {
	c.options = o
}
