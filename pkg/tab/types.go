// Package tab maps timed MIDI notes onto guitar string/fret positions
package tab

import "fmt"

// NumStrings is the number of strings on the supported guitar layout
const NumStrings = 6

// Note is a single timed note as produced by a MIDI parser
type Note struct {
	OnsetSec    float64 `json:"onsetSec"`
	DurationSec float64 `json:"durationSec"`
	Pitch       int     `json:"pitch"`    // MIDI note number (0-127)
	Velocity    float64 `json:"velocity"` // 0..1
}

// FingeringChoice is one way of producing a pitch on the fretboard
type FingeringChoice struct {
	StringIndex int `json:"string"` // 0 = low E
	Fret        int `json:"fret"`
}

func (c FingeringChoice) String() string {
	return fmt.Sprintf("s%d/f%d", c.StringIndex, c.Fret)
}

// TabEvent is a Note with its assigned string and fret
type TabEvent struct {
	Note
	StringIndex int `json:"string"`
	Fret        int `json:"fret"`
}

// Choice returns the string/fret pair of the event
func (e TabEvent) Choice() FingeringChoice {
	return FingeringChoice{StringIndex: e.StringIndex, Fret: e.Fret}
}

// SoundingPitch is the pitch actually produced by the assigned position,
// which differs from Pitch by an octave when the mapper substituted one.
func (e TabEvent) SoundingPitch() int {
	return StandardTuning.OpenPitch(e.StringIndex) + e.Fret
}

// OctaveShift returns -1, 0 or +1 depending on where the sounding pitch lies
// relative to the written pitch.
func (e TabEvent) OctaveShift() int {
	d := e.SoundingPitch() - e.Pitch
	switch {
	case d >= 12:
		return 1
	case d <= -12:
		return -1
	}
	return 0
}

// Result is the output of Solve
type Result struct {
	Events    []TabEvent `json:"events"`
	TotalCost float64    `json:"totalCost"`
}
