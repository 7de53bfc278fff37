package tab

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

const eps = 1e-9

func melody() []Note {
	pitches := []int{52, 55, 57, 59, 60, 62, 64, 67, 69, 71, 72, 76, 79, 81, 84, 64, 40, 45, 88, 59}
	notes := make([]Note, len(pitches))
	for i, p := range pitches {
		notes[i] = Note{OnsetSec: float64(i) * 0.5, DurationSec: 0.5, Pitch: p, Velocity: 0.8}
	}
	return notes
}

func TestCandidates(t *testing.T) {
	tests := []struct {
		name  string
		pitch int
		cfg   func(*MappingConfig)
		want  []FingeringChoice
	}{
		{
			name:  "low E with octave shifts",
			pitch: 40,
			want: []FingeringChoice{
				{0, 0},
				{0, 12}, {1, 7}, {2, 2},
			},
		},
		{
			name:  "E3 with octave shifts",
			pitch: 52,
			want: []FingeringChoice{
				{0, 12}, {1, 7}, {2, 2},
				{2, 14}, {3, 9}, {4, 5}, {5, 0},
				{0, 0},
			},
		},
		{
			name:  "E3 without octave shifts",
			pitch: 52,
			cfg:   func(c *MappingConfig) { c.EvaluateOctaveShifts = false },
			want:  []FingeringChoice{{0, 12}, {1, 7}, {2, 2}},
		},
		{
			name:  "max fret tolerance",
			pitch: 54,
			cfg: func(c *MappingConfig) {
				c.MaxFret = 12
				c.EvaluateOctaveShifts = false
			},
			want: []FingeringChoice{{0, 14}, {1, 9}, {2, 4}},
		},
		{
			name:  "lower ceiling drops high positions",
			pitch: 54,
			cfg: func(c *MappingConfig) {
				c.MaxFret = 5
				c.EvaluateOctaveShifts = false
			},
			want: []FingeringChoice{{2, 4}},
		},
		{
			name:  "unreachable pitch",
			pitch: 0,
			want:  []FingeringChoice{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tt.cfg != nil {
				tt.cfg(&cfg)
			}
			got := Candidates(tt.pitch, cfg)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Candidates(%d) = %v, want %v", tt.pitch, got, tt.want)
			}
		})
	}
}

func TestCandidatesAreUnique(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxFret = 24
	for p := 0; p <= 127; p++ {
		seen := map[FingeringChoice]bool{}
		for _, c := range Candidates(p, cfg) {
			if seen[c] {
				t.Fatalf("Candidates(%d) repeats %v", p, c)
			}
			seen[c] = true
		}
	}
}

func TestCost(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name string
		c    FingeringChoice
		prev *FingeringChoice
		want float64
	}{
		{"open low E", FingeringChoice{0, 0}, nil, -0.5},
		{"open high E", FingeringChoice{5, 0}, nil, 0.5 + 0.6 - 0.5},
		{"fret 2 on D", FingeringChoice{2, 2}, nil, 2 + 0.2 + 0.24},
		{"continuity", FingeringChoice{2, 2}, &FingeringChoice{0, 0}, 2 + 0.2 + 0.24 + 0.4*(2+1.5*2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cost(tt.c, tt.prev, cfg)
			if math.Abs(got-tt.want) > eps {
				t.Errorf("Cost(%v) = %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}

func TestCostBiasesDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TieBreakPreferLowerString = false
	cfg.PreferMelodyHighStrings = false
	cfg.OpenStringBonus = 0

	for s := 0; s < NumStrings; s++ {
		if got := Cost(FingeringChoice{s, 3}, nil, cfg); math.Abs(got-3) > eps {
			t.Errorf("Cost(s%d/f3) = %v, want 3", s, got)
		}
	}
}

func TestSolveScenario(t *testing.T) {
	notes := []Note{
		{OnsetSec: 0, DurationSec: 1, Pitch: 40, Velocity: 0.8},
		{OnsetSec: 1, DurationSec: 1, Pitch: 52, Velocity: 0.8},
	}

	t.Run("defaults", func(t *testing.T) {
		res, err := Solve(notes, DefaultConfig())
		if err != nil {
			t.Fatalf("Solve() error = %v", err)
		}
		want := []FingeringChoice{{0, 0}, {0, 0}}
		for i, e := range res.Events {
			if e.Choice() != want[i] {
				t.Errorf("event %d = %v, want %v", i, e.Choice(), want[i])
			}
		}
		if math.Abs(res.TotalCost-(-1.0)) > eps {
			t.Errorf("TotalCost = %v, want -1", res.TotalCost)
		}
		if res.Events[1].OctaveShift() != -1 {
			t.Errorf("event 1 OctaveShift() = %d, want -1", res.Events[1].OctaveShift())
		}
	})

	t.Run("no octave shifts", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.EvaluateOctaveShifts = false
		res, err := Solve(notes, cfg)
		if err != nil {
			t.Fatalf("Solve() error = %v", err)
		}
		want := []FingeringChoice{{0, 0}, {2, 2}}
		for i, e := range res.Events {
			if e.Choice() != want[i] {
				t.Errorf("event %d = %v, want %v", i, e.Choice(), want[i])
			}
		}
		if math.Abs(res.TotalCost-3.94) > eps {
			t.Errorf("TotalCost = %v, want 3.94", res.TotalCost)
		}
	})
}

func TestSolveEmpty(t *testing.T) {
	res, err := Solve(nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Solve(nil) error = %v", err)
	}
	if len(res.Events) != 0 || res.TotalCost != 0 {
		t.Errorf("Solve(nil) = %+v, want empty result", res)
	}
}

func TestSolveSingleNoteTakesCheapestSoloCandidate(t *testing.T) {
	cfg := DefaultConfig()
	for _, pitch := range []int{40, 52, 64, 71, 88} {
		res, err := Solve([]Note{{DurationSec: 1, Pitch: pitch, Velocity: 1}}, cfg)
		if err != nil {
			t.Fatalf("Solve() error = %v", err)
		}
		cands := Candidates(pitch, cfg)
		want := cands[0]
		for _, c := range cands[1:] {
			if Cost(c, nil, cfg) < Cost(want, nil, cfg) {
				want = c
			}
		}
		if got := res.Events[0].Choice(); got != want {
			t.Errorf("pitch %d mapped to %v, want %v", pitch, got, want)
		}
	}
}

func TestSolveHighE(t *testing.T) {
	res, err := Solve([]Note{{DurationSec: 1, Pitch: 64, Velocity: 1}}, DefaultConfig())
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if got := res.Events[0].Choice(); got != (FingeringChoice{5, 0}) {
		t.Errorf("E4 mapped to %v, want s5/f0", got)
	}
}

func TestSolveDeterministic(t *testing.T) {
	notes := melody()
	first, err := Solve(notes, DefaultConfig())
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	for i := 0; i < 20; i++ {
		again, _ := Solve(notes, DefaultConfig())
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %+v vs %+v", i, again, first)
		}
	}
}

func TestSolvePreservesOrderAndCount(t *testing.T) {
	notes := melody()
	events, err := Map(notes, DefaultConfig())
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	if len(events) != len(notes) {
		t.Fatalf("len(events) = %d, want %d", len(events), len(notes))
	}
	for i := range notes {
		if events[i].Note != notes[i] {
			t.Errorf("event %d note = %+v, want %+v", i, events[i].Note, notes[i])
		}
	}
}

func TestSolvePlayability(t *testing.T) {
	for _, octaves := range []bool{true, false} {
		cfg := DefaultConfig()
		cfg.EvaluateOctaveShifts = octaves
		events, err := Map(melody(), cfg)
		if err != nil {
			t.Fatalf("Map() error = %v", err)
		}
		for i, e := range events {
			if e.Fret < 0 || e.Fret > cfg.MaxFret+2 {
				t.Errorf("event %d fret %d outside [0,%d]", i, e.Fret, cfg.MaxFret+2)
			}
			d := e.SoundingPitch() - e.Pitch
			ok := d == 0 || (octaves && (d == 12 || d == -12))
			if !ok {
				t.Errorf("event %d sounds %d for pitch %d (octaves=%v)", i, e.SoundingPitch(), e.Pitch, octaves)
			}
		}
	}
}

func TestSolveFallback(t *testing.T) {
	notes := []Note{
		{OnsetSec: 0, DurationSec: 1, Pitch: 45, Velocity: 0.5},
		{OnsetSec: 1, DurationSec: 1, Pitch: 0, Velocity: 0.5},
		{OnsetSec: 2, DurationSec: 1, Pitch: 127, Velocity: 0.5},
		{OnsetSec: 3, DurationSec: 1, Pitch: 50, Velocity: 0.5},
	}
	events, err := Map(notes, DefaultConfig())
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("len(events) = %d, want 4", len(events))
	}
	for _, i := range []int{1, 2} {
		if events[i].Choice() != fallbackChoice {
			t.Errorf("event %d = %v, want fallback %v", i, events[i].Choice(), fallbackChoice)
		}
	}
	for _, i := range []int{0, 3} {
		if d := events[i].SoundingPitch() - events[i].Pitch; d != 0 && d != 12 && d != -12 {
			t.Errorf("event %d sounds %d for pitch %d", i, events[i].SoundingPitch(), events[i].Pitch)
		}
	}
}

func TestSolveInvalidNotes(t *testing.T) {
	tests := []struct {
		name  string
		note  Note
		field string
	}{
		{"pitch too high", Note{Pitch: 128, Velocity: 0.5}, "pitch"},
		{"negative pitch", Note{Pitch: -1, Velocity: 0.5}, "pitch"},
		{"negative duration", Note{Pitch: 60, DurationSec: -0.1, Velocity: 0.5}, "duration"},
		{"negative onset", Note{Pitch: 60, OnsetSec: -1, Velocity: 0.5}, "onset"},
		{"velocity above 1", Note{Pitch: 60, Velocity: 1.5}, "velocity"},
		{"NaN duration", Note{Pitch: 60, DurationSec: math.NaN(), Velocity: 0.5}, "duration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes := []Note{{Pitch: 60, DurationSec: 1, Velocity: 0.5}, tt.note}
			_, err := Solve(notes, DefaultConfig())
			var invalid *InvalidNoteError
			if !errors.As(err, &invalid) {
				t.Fatalf("Solve() error = %v, want *InvalidNoteError", err)
			}
			if invalid.Index != 1 || invalid.Field != tt.field {
				t.Errorf("InvalidNoteError = {%d %s}, want {1 %s}", invalid.Index, invalid.Field, tt.field)
			}
		})
	}
}

func TestSolveTotalCostMatchesPathCost(t *testing.T) {
	cfg := DefaultConfig()
	res, err := Solve(melody(), cfg)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if got := PathCost(res.Events, cfg); math.Abs(got-res.TotalCost) > eps {
		t.Errorf("PathCost() = %v, TotalCost = %v", got, res.TotalCost)
	}
}

func TestSolveIsOptimal(t *testing.T) {
	notes := []Note{
		{Pitch: 52, DurationSec: 1, Velocity: 1},
		{Pitch: 64, DurationSec: 1, Velocity: 1},
		{Pitch: 57, DurationSec: 1, Velocity: 1},
		{Pitch: 71, DurationSec: 1, Velocity: 1},
	}
	cfg := DefaultConfig()
	res, err := Solve(notes, cfg)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}

	layers := make([][]FingeringChoice, len(notes))
	for i, n := range notes {
		layers[i] = Candidates(n.Pitch, cfg)
	}
	bruteBest := math.Inf(1)
	var walk func(i int, path []TabEvent)
	walk = func(i int, path []TabEvent) {
		if i == len(notes) {
			if c := PathCost(path, cfg); c < bruteBest {
				bruteBest = c
			}
			return
		}
		for _, c := range layers[i] {
			walk(i+1, append(path, TabEvent{Note: notes[i], StringIndex: c.StringIndex, Fret: c.Fret}))
		}
	}
	walk(0, nil)

	if math.Abs(res.TotalCost-bruteBest) > eps {
		t.Errorf("TotalCost = %v, exhaustive minimum = %v", res.TotalCost, bruteBest)
	}
}

func TestSolveWiderRangeNeverCostsMore(t *testing.T) {
	narrow := DefaultConfig()
	wide := DefaultConfig()
	wide.MaxFret = 24

	notes := melody()
	a, err := Solve(notes, narrow)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	b, err := Solve(notes, wide)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if b.TotalCost > a.TotalCost+eps {
		t.Errorf("MaxFret 24 cost %v > MaxFret 12 cost %v", b.TotalCost, a.TotalCost)
	}
}

func TestSolveConcurrentCalls(t *testing.T) {
	want, err := Solve(melody(), DefaultConfig())
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	done := make(chan Result, 8)
	for i := 0; i < 8; i++ {
		go func() {
			res, _ := Solve(melody(), DefaultConfig())
			done <- res
		}()
	}
	for i := 0; i < 8; i++ {
		if got := <-done; !reflect.DeepEqual(got, want) {
			t.Errorf("concurrent Solve() = %+v, want %+v", got, want)
		}
	}
}
