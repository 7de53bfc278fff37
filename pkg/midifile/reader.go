// Package midifile reads standard MIDI files into note streams and writes
// mapped tablature back out as MIDI.
package midifile

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"

	"github.com/james-see/midi2tab/pkg/analyzer"
	"github.com/james-see/midi2tab/pkg/tab"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	defaultTicksPerQuarter = 480
	defaultMicrosPerBeat   = 500000 // 120 BPM
	percussionChannel      = 9      // GM channel 10
)

// ErrNoTracks is returned for files that contain no tracks at all
var ErrNoTracks = errors.New("midi file has no tracks")

// Song is a parsed MIDI file
type Song struct {
	DurationSec float64               `json:"durationSec"`
	BPM         *float64              `json:"bpm,omitempty"`
	Streams     []analyzer.NoteStream `json:"tracks"`
}

// Stream looks up a stream by ID
func (s *Song) Stream(id string) (analyzer.NoteStream, bool) {
	for _, st := range s.Streams {
		if st.ID == id {
			return st, true
		}
	}
	return analyzer.NoteStream{}, false
}

// Combined merges the notes of every non-percussion track, ordered by onset
func (s *Song) Combined() []tab.Note {
	var notes []tab.Note
	for _, st := range s.Streams {
		if st.IsPercussion {
			continue
		}
		notes = append(notes, st.Notes...)
	}
	sortNotes(notes)
	return notes
}

// ParseFile reads and parses a MIDI file from disk
func ParseFile(filename string) (*Song, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read MIDI file: %w", err)
	}
	return Parse(data)
}

// Parse decodes MIDI data into one NoteStream per track
func Parse(data []byte) (song *Song, err error) {
	// the smf reader can panic on truncated input
	defer func() {
		if r := recover(); r != nil {
			song = nil
			err = fmt.Errorf("failed to parse MIDI: %v", r)
		}
	}()

	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIDI: %w", err)
	}
	if len(s.Tracks) == 0 {
		return nil, ErrNoTracks
	}

	clock := newClock(s)
	song = &Song{Streams: make([]analyzer.NoteStream, 0, len(s.Tracks))}
	if bpm, ok := firstTempo(s.Tracks); ok {
		song.BPM = &bpm
	}

	for i, track := range s.Tracks {
		st := readTrack(strconv.Itoa(i), track, clock)
		for _, n := range st.Notes {
			if end := n.OnsetSec + n.DurationSec; end > song.DurationSec {
				song.DurationSec = end
			}
		}
		slog.Debug("midifile: track read", "id", st.ID, "name", st.Name, "notes", len(st.Notes), "percussion", st.IsPercussion)
		song.Streams = append(song.Streams, st)
	}
	return song, nil
}

// clock converts absolute ticks to seconds, following every tempo change
// in the file.
type clock func(tick int64) float64

func newClock(s *smf.SMF) clock {
	if _, ok := s.TimeFormat.(smf.MetricTicks); ok {
		return func(tick int64) float64 {
			return float64(s.TimeAt(tick)) / 1e6
		}
	}
	slog.Warn("midifile: non-metric time format, assuming 480 ticks per quarter at 120 BPM")
	return func(tick int64) float64 {
		return float64(tick) / defaultTicksPerQuarter * defaultMicrosPerBeat / 1e6
	}
}

// firstTempo returns the earliest tempo event of any track
func firstTempo(tracks []smf.Track) (float64, bool) {
	var bpm float64
	found := false
	firstTick := int64(-1)
	for _, track := range tracks {
		var tick int64
		for _, ev := range track {
			tick += int64(ev.Delta)
			if firstTick >= 0 && tick >= firstTick {
				break
			}
			var b float64
			if ev.Message.GetMetaTempo(&b) && b > 0 {
				bpm, firstTick, found = b, tick, true
				break
			}
		}
	}
	return bpm, found
}

type noteKey struct{ channel, key uint8 }

type pendingNote struct {
	tick     int64
	velocity uint8
}

func readTrack(id string, track smf.Track, seconds clock) analyzer.NoteStream {
	st := analyzer.NoteStream{ID: id}
	var instrument string
	pending := map[noteKey][]pendingNote{}
	var tick int64

	closeNote := func(k noteKey, end int64) {
		queue := pending[k]
		if len(queue) == 0 {
			return
		}
		p := queue[0]
		pending[k] = queue[1:]
		onset := seconds(p.tick)
		st.Notes = append(st.Notes, tab.Note{
			OnsetSec:    onset,
			DurationSec: seconds(end) - onset,
			Pitch:       int(k.key),
			Velocity:    float64(p.velocity) / 127,
		})
	}

	for _, ev := range track {
		tick += int64(ev.Delta)
		msg := ev.Message

		var ch, key, vel, program uint8
		var text string
		switch {
		case msg.GetMetaTrackName(&text):
			if st.Name == "" {
				st.Name = text
			}
		case msg.GetMetaInstrument(&text):
			if instrument == "" {
				instrument = text
			}
		case msg.GetNoteStart(&ch, &key, &vel):
			if st.Channel == nil {
				c := ch
				st.Channel = &c
			}
			k := noteKey{ch, key}
			pending[k] = append(pending[k], pendingNote{tick: tick, velocity: vel})
		case msg.GetNoteEnd(&ch, &key):
			closeNote(noteKey{ch, key}, tick)
		case msg.GetProgramChange(&ch, &program):
			if st.Program == nil {
				st.Program = &program
			}
		}
	}
	// notes still sounding at the end of the track stop there
	keys := make([]noteKey, 0, len(pending))
	for k := range pending {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].channel != keys[j].channel {
			return keys[i].channel < keys[j].channel
		}
		return keys[i].key < keys[j].key
	})
	for _, k := range keys {
		for len(pending[k]) > 0 {
			closeNote(k, tick)
		}
	}

	if st.Name == "" {
		st.Name = instrument
	}
	st.IsPercussion = st.Channel != nil && *st.Channel == percussionChannel
	sortNotes(st.Notes)
	return st
}

func sortNotes(notes []tab.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].OnsetSec < notes[j].OnsetSec
	})
}
