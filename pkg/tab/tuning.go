package tab

import "fmt"

// Tuning holds the open-string MIDI pitches, lowest string first
type Tuning [NumStrings]int

// StandardTuning is E2 A2 D3 G3 B3 E4
var StandardTuning = Tuning{40, 45, 50, 55, 59, 64}

var stringNames = [NumStrings]string{"E2", "A2", "D3", "G3", "B3", "E4"}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// OpenPitch returns the pitch of string i played open
func (t Tuning) OpenPitch(i int) int {
	return t[i]
}

// StringName returns the scientific pitch name of open string i (e.g. "E2")
func StringName(i int) string {
	if i < 0 || i >= NumStrings {
		return "?"
	}
	return stringNames[i]
}

// StringLabel converts a string index to guitarist numbering:
// index 0 (low E) is string 6, index 5 (high E) is string 1.
func StringLabel(i int) string {
	return fmt.Sprintf("%d", NumStrings-i)
}

// PitchName formats a MIDI pitch as a note name with octave, e.g. 40 -> "E2"
func PitchName(pitch int) string {
	if pitch < 0 {
		return fmt.Sprintf("?%d", pitch)
	}
	return fmt.Sprintf("%s%d", noteNames[pitch%12], (pitch/12)-1)
}
