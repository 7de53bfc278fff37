package tab

import (
	"fmt"
	"math"
)

// InvalidNoteError reports a note that breaks the input contract
type InvalidNoteError struct {
	Index int
	Field string
	Value float64
}

func (e *InvalidNoteError) Error() string {
	return fmt.Sprintf("invalid note %d: %s out of range (%v)", e.Index, e.Field, e.Value)
}

func validateNotes(notes []Note) error {
	for i, n := range notes {
		if n.Pitch < 0 || n.Pitch > 127 {
			return &InvalidNoteError{Index: i, Field: "pitch", Value: float64(n.Pitch)}
		}
		if math.IsNaN(n.OnsetSec) || math.IsInf(n.OnsetSec, 0) || n.OnsetSec < 0 {
			return &InvalidNoteError{Index: i, Field: "onset", Value: n.OnsetSec}
		}
		if math.IsNaN(n.DurationSec) || math.IsInf(n.DurationSec, 0) || n.DurationSec < 0 {
			return &InvalidNoteError{Index: i, Field: "duration", Value: n.DurationSec}
		}
		if math.IsNaN(n.Velocity) || n.Velocity < 0 || n.Velocity > 1 {
			return &InvalidNoteError{Index: i, Field: "velocity", Value: n.Velocity}
		}
	}
	return nil
}
