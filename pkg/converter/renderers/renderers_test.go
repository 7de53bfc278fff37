package renderers

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/james-see/midi2tab/pkg/converter"
	"github.com/james-see/midi2tab/pkg/midifile"
	"github.com/james-see/midi2tab/pkg/tab"
)

func ev(onset float64, pitch, str, fret int) tab.TabEvent {
	return tab.TabEvent{
		Note:        tab.Note{OnsetSec: onset, DurationSec: 1, Pitch: pitch, Velocity: 0.8},
		StringIndex: str,
		Fret:        fret,
	}
}

func sample() *converter.Tablature {
	return &converter.Tablature{
		TrackName: "Lead",
		BPM:       120,
		Events: []tab.TabEvent{
			ev(0, 40, 0, 0),
			ev(1, 52, 2, 2),
			ev(2, 76, 5, 12),
			ev(2, 55, 3, 0),
		},
	}
}

func TestASCIIRender(t *testing.T) {
	out, err := NewASCII().Render(sample())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := strings.Join([]string{
		"e|-----12-|",
		"B|--------|",
		"G|-----0--|",
		"D|---2----|",
		"A|--------|",
		"E|-0------|",
	}, "\n") + "\n"
	got := string(out)
	if !strings.HasSuffix(got, want) {
		t.Errorf("Render() =\n%s\nwant suffix\n%s", got, want)
	}
	if !strings.HasPrefix(got, "Track: Lead\nTempo: 120 BPM\nNotes: 4\n") {
		t.Errorf("unexpected header:\n%s", got)
	}
}

func TestASCIISameStringStartsNewColumn(t *testing.T) {
	tb := &converter.Tablature{Events: []tab.TabEvent{ev(0, 45, 1, 0), ev(0, 47, 1, 2)}}
	out, err := NewASCII().Render(tb)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(string(out), "A|-0-2-|") {
		t.Errorf("Render() =\n%s\nwant A line 0 then 2", out)
	}
}

func TestASCIIWraps(t *testing.T) {
	var events []tab.TabEvent
	for i := 0; i < 40; i++ {
		events = append(events, ev(float64(i), 45+i%5, 1, i%5))
	}
	a := &ASCII{Width: 30}
	out, err := a.Render(&converter.Tablature{Events: events})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	systems := strings.Count(string(out), "e|-")
	if systems < 2 {
		t.Errorf("expected wrapped output, got %d systems", systems)
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.Contains(line, "|-") && len(line) > 30 {
			t.Errorf("line longer than width: %q", line)
		}
	}
}

func TestASCIIEmpty(t *testing.T) {
	out, err := NewASCII().Render(&converter.Tablature{Events: []tab.TabEvent{}})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(string(out), "e|-|") {
		t.Errorf("Render(empty) =\n%s", out)
	}
}

func TestJSONRender(t *testing.T) {
	out, err := NewJSON().Render(sample())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	var decoded struct {
		TrackName string `json:"trackName"`
		Events    []struct {
			Pitch  int `json:"pitch"`
			String int `json:"string"`
			Fret   int `json:"fret"`
		} `json:"events"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.TrackName != "Lead" || len(decoded.Events) != 4 {
		t.Fatalf("decoded = %+v", decoded)
	}
	if decoded.Events[1].String != 2 || decoded.Events[1].Fret != 2 || decoded.Events[1].Pitch != 52 {
		t.Errorf("event 1 = %+v", decoded.Events[1])
	}
}

func TestMIDIRender(t *testing.T) {
	out, err := NewMIDI().Render(sample())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	song, err := midifile.Parse(out)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := len(song.Combined()); got != 4 {
		t.Errorf("rendered MIDI has %d notes, want 4", got)
	}
}

func TestForFormat(t *testing.T) {
	for _, f := range converter.GetSupportedFormats() {
		r, err := ForFormat(f)
		if err != nil {
			t.Fatalf("ForFormat(%s) error = %v", f, err)
		}
		if r.Format() != f {
			t.Errorf("ForFormat(%s).Format() = %s", f, r.Format())
		}
	}
	if _, err := ForFormat(converter.FormatUnknown); !errors.Is(err, converter.ErrUnknownFormat) {
		t.Errorf("ForFormat(unknown) error = %v, want ErrUnknownFormat", err)
	}
	if len(All()) != len(converter.GetSupportedFormats()) {
		t.Error("All() should cover every supported format")
	}
}
