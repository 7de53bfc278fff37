package converter

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/james-see/midi2tab/pkg/midifile"
	"github.com/james-see/midi2tab/pkg/tab"
)

// Format represents an output format
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatMIDI    Format = "midi"
	FormatUnknown Format = "unknown"
)

var (
	// ErrUnknownFormat is returned when no renderer matches the output
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrTrackNotFound is returned when the requested track does not exist
	ErrTrackNotFound = errors.New("track not found")
	// ErrNotMIDI is returned when the input is not a standard MIDI file
	ErrNotMIDI = errors.New("input is not a MIDI file")
)

// DetectFormat detects the output format from a file name
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt", ".tab":
		return FormatText
	case ".json":
		return FormatJSON
	case ".mid", ".midi":
		return FormatMIDI
	default:
		return FormatUnknown
	}
}

// ParseFormat parses a user supplied format name
func ParseFormat(name string) Format {
	switch strings.ToLower(name) {
	case "text", "txt", "tab", "ascii":
		return FormatText
	case "json":
		return FormatJSON
	case "midi", "mid":
		return FormatMIDI
	default:
		return FormatUnknown
	}
}

// IsMIDI checks for the "MThd" signature
func IsMIDI(data []byte) bool {
	return len(data) >= 4 && string(data[:4]) == "MThd"
}

// Build maps one track of a song. An empty trackID maps every
// non-percussion note of the song as a single line.
func (c *Converter) Build(song *midifile.Song, trackID string) (*Tablature, error) {
	cfg := c.options.Resolve()

	t := &Tablature{
		TrackID:     trackID,
		DurationSec: song.DurationSec,
		Config:      cfg,
		BPM:         120,
	}
	if song.BPM != nil {
		t.BPM = *song.BPM
	}

	var notes []tab.Note
	if trackID == "" {
		notes = song.Combined()
		t.TrackName = "All tracks"
	} else {
		st, ok := song.Stream(trackID)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrTrackNotFound, trackID)
		}
		notes = st.Notes
		t.TrackName = st.Name
	}

	res, err := tab.Solve(notes, cfg)
	if err != nil {
		return nil, fmt.Errorf("mapping failed: %w", err)
	}
	t.Events = res.Events
	t.TotalCost = res.TotalCost
	slog.Debug("converter: track mapped", "track", trackID, "notes", len(notes), "cost", res.TotalCost)
	return t, nil
}

// Convert parses MIDI data, maps the track and renders it
func (c *Converter) Convert(midiData []byte, trackID string) ([]byte, error) {
	if c.renderer == nil {
		return nil, errors.New("no renderer configured")
	}
	if !IsMIDI(midiData) {
		return nil, ErrNotMIDI
	}
	song, err := midifile.Parse(midiData)
	if err != nil {
		return nil, err
	}
	t, err := c.Build(song, trackID)
	if err != nil {
		return nil, err
	}
	return c.renderer.Render(t)
}

// ConvertFile converts a MIDI file into tablature written to outputPath
// using the converter's renderer.
func (c *Converter) ConvertFile(inputPath, outputPath, trackID string) error {
	if c.renderer == nil {
		return errors.New("no renderer configured")
	}
	if out := DetectFormat(outputPath); out != FormatUnknown && out != c.renderer.Format() {
		slog.Warn("converter: output extension does not match renderer", "output", outputPath, "renderer", c.renderer.Name())
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	song, err := midifile.Parse(data)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}
	t, err := c.Build(song, trackID)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}
	t.Source = filepath.Base(inputPath)

	outputData, err := c.renderer.Render(t)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if err := os.WriteFile(outputPath, outputData, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// GetSupportedFormats returns the output formats
func GetSupportedFormats() []Format {
	return []Format{FormatText, FormatJSON, FormatMIDI}
}
