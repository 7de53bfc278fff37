package renderers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/james-see/midi2tab/pkg/converter"
	"github.com/james-see/midi2tab/pkg/midifile"
)

// JSON renders the tablature as indented JSON
type JSON struct{}

// NewJSON creates a JSON renderer
func NewJSON() *JSON {
	return &JSON{}
}

// Name returns the renderer name
func (j *JSON) Name() string {
	return "JSON"
}

// Format returns the output format
func (j *JSON) Format() converter.Format {
	return converter.FormatJSON
}

// Render marshals the tablature, events included
func (j *JSON) Render(t *converter.Tablature) ([]byte, error) {
	if t == nil {
		return nil, errors.New("nil tablature")
	}
	return json.MarshalIndent(t, "", "  ")
}

// MIDI renders the tablature as a standard MIDI file with one channel per
// string
type MIDI struct{}

// NewMIDI creates a MIDI renderer
func NewMIDI() *MIDI {
	return &MIDI{}
}

// Name returns the renderer name
func (m *MIDI) Name() string {
	return "MIDI (channel per string)"
}

// Format returns the output format
func (m *MIDI) Format() converter.Format {
	return converter.FormatMIDI
}

// Render writes the events with midifile.GenerateMIDI
func (m *MIDI) Render(t *converter.Tablature) ([]byte, error) {
	if t == nil {
		return nil, errors.New("nil tablature")
	}
	return midifile.GenerateMIDI(t.Events, t.BPM)
}

// ForFormat returns the renderer for an output format
func ForFormat(f converter.Format) (converter.Renderer, error) {
	switch f {
	case converter.FormatText:
		return NewASCII(), nil
	case converter.FormatJSON:
		return NewJSON(), nil
	case converter.FormatMIDI:
		return NewMIDI(), nil
	default:
		return nil, fmt.Errorf("%w: %s", converter.ErrUnknownFormat, f)
	}
}

// All returns one renderer per supported format
func All() []converter.Renderer {
	return []converter.Renderer{NewASCII(), NewJSON(), NewMIDI()}
}
