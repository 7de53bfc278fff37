// Package renderers provides the output formats for tablature
package renderers

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/james-see/midi2tab/pkg/converter"
	"github.com/james-see/midi2tab/pkg/tab"
)

// ASCII layout constants
const (
	DefaultWidth = 80
	// onsets closer than this share a column
	chordTolerance = 0.001
)

// lineLabels are printed high string first, the way tab is read
var lineLabels = [tab.NumStrings]string{"E", "A", "D", "G", "B", "e"}

// ASCII renders six-line text tablature
type ASCII struct {
	Width int
}

// NewASCII creates a text renderer wrapping at DefaultWidth
func NewASCII() *ASCII {
	return &ASCII{Width: DefaultWidth}
}

// Name returns the renderer name
func (a *ASCII) Name() string {
	return "ASCII tab"
}

// Format returns the output format
func (a *ASCII) Format() converter.Format {
	return converter.FormatText
}

type column struct {
	onset float64
	frets [tab.NumStrings]int // -1 = not played
	width int
}

// Render writes a header followed by the tab systems
func (a *ASCII) Render(t *converter.Tablature) ([]byte, error) {
	if t == nil {
		return nil, errors.New("nil tablature")
	}

	var b strings.Builder
	name := t.TrackName
	if name == "" {
		name = "Untitled"
	}
	fmt.Fprintf(&b, "Track: %s\n", name)
	fmt.Fprintf(&b, "Tempo: %.0f BPM\n", t.BPM)
	fmt.Fprintf(&b, "Notes: %d\n", len(t.Events))
	if shifted := countShifted(t.Events); shifted > 0 {
		fmt.Fprintf(&b, "Octave-shifted notes: %d\n", shifted)
	}
	b.WriteString("\n")

	cols := buildColumns(t.Events)
	if len(cols) == 0 {
		writeSystem(&b, nil)
		return []byte(b.String()), nil
	}

	width := a.Width
	if width <= 0 {
		width = DefaultWidth
	}
	start := 0
	lineLen := 4 // "e|-" prefix plus the closing bar
	for i, c := range cols {
		if i > start && lineLen+c.width+1 > width {
			writeSystem(&b, cols[start:i])
			b.WriteString("\n")
			start = i
			lineLen = 4
		}
		lineLen += c.width + 1
	}
	writeSystem(&b, cols[start:])
	return []byte(b.String()), nil
}

func buildColumns(events []tab.TabEvent) []column {
	var cols []column
	for _, e := range events {
		if e.StringIndex < 0 || e.StringIndex >= tab.NumStrings {
			continue
		}
		n := len(cols)
		if n == 0 || math.Abs(e.OnsetSec-cols[n-1].onset) > chordTolerance || cols[n-1].frets[e.StringIndex] >= 0 {
			c := column{onset: e.OnsetSec, width: 1}
			for s := range c.frets {
				c.frets[s] = -1
			}
			cols = append(cols, c)
			n++
		}
		cur := &cols[n-1]
		cur.frets[e.StringIndex] = e.Fret
		if w := len(fmt.Sprint(e.Fret)); w > cur.width {
			cur.width = w
		}
	}
	return cols
}

func writeSystem(b *strings.Builder, cols []column) {
	for s := tab.NumStrings - 1; s >= 0; s-- {
		b.WriteString(lineLabels[s])
		b.WriteString("|-")
		for _, c := range cols {
			cell := ""
			if f := c.frets[s]; f >= 0 {
				cell = fmt.Sprint(f)
			}
			b.WriteString(cell)
			b.WriteString(strings.Repeat("-", c.width-len(cell)+1))
		}
		b.WriteString("|\n")
	}
}

func countShifted(events []tab.TabEvent) int {
	n := 0
	for _, e := range events {
		if e.OctaveShift() != 0 {
			n++
		}
	}
	return n
}
