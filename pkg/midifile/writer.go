package midifile

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/james-see/midi2tab/pkg/tab"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// GM program for acoustic guitar (nylon)
const guitarProgram = 24

type timedMessage struct {
	tick int64
	off  bool
	msg  []byte
}

// GenerateMIDI writes tab events as a single-track SMF with one MIDI channel
// per guitar string (channel 0 = low E). Each note sounds at the pitch of its
// assigned position, so octave substitutions are audible.
func GenerateMIDI(events []tab.TabEvent, bpm float64) ([]byte, error) {
	if events == nil {
		return nil, errors.New("nil events")
	}
	if bpm <= 0 {
		bpm = 120.0
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(defaultTicksPerQuarter)
	ticksPerSec := float64(defaultTicksPerQuarter) * bpm / 60

	var track smf.Track

	track.Add(0, smf.MetaTempo(bpm))
	track.Add(0, smf.MetaTrackSequenceName("Guitar"))
	for ch := uint8(0); ch < tab.NumStrings; ch++ {
		track.Add(0, midi.ProgramChange(ch, guitarProgram))
	}

	msgs := make([]timedMessage, 0, 2*len(events))
	for _, e := range events {
		if e.StringIndex < 0 || e.StringIndex >= tab.NumStrings {
			return nil, fmt.Errorf("event has invalid string %d", e.StringIndex)
		}
		pitch := e.SoundingPitch()
		if pitch < 0 || pitch > 127 {
			return nil, fmt.Errorf("event sounds out of MIDI range: %d", pitch)
		}
		ch := uint8(e.StringIndex)
		vel := uint8(math.Round(e.Velocity * 127))
		if vel == 0 {
			vel = 1
		}
		on := int64(math.Round(e.OnsetSec * ticksPerSec))
		off := int64(math.Round((e.OnsetSec + e.DurationSec) * ticksPerSec))
		msgs = append(msgs,
			timedMessage{tick: on, msg: midi.NoteOn(ch, uint8(pitch), vel)},
			timedMessage{tick: off, off: true, msg: midi.NoteOff(ch, uint8(pitch))},
		)
	}
	// releases go before attacks on the same tick so repeated notes retrigger
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].tick != msgs[j].tick {
			return msgs[i].tick < msgs[j].tick
		}
		return msgs[i].off && !msgs[j].off
	})

	var current int64
	for _, m := range msgs {
		track.Add(uint32(m.tick-current), m.msg)
		current = m.tick
	}
	track.Close(0)

	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteMIDIFile writes tab events to a MIDI file
func WriteMIDIFile(events []tab.TabEvent, bpm float64, filename string) error {
	data, err := GenerateMIDI(events, bpm)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
