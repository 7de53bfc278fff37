package tab

import (
	"math"
	"slices"
)

// fallbackChoice is used for notes that no string can reach
var fallbackChoice = FingeringChoice{StringIndex: 0, Fret: 0}

// Candidates lists the playable positions for pitch under cfg.
//
// Pitch variants are visited in the order p, p+12, p-12 (only p when octave
// shifts are off) and strings from low to high within each variant. The first
// occurrence of a (string, fret) pair is kept, so the order is canonical and
// ties in the solver resolve toward earlier candidates.
func Candidates(pitch int, cfg MappingConfig) []FingeringChoice {
	variants := []int{pitch}
	if cfg.EvaluateOctaveShifts {
		variants = append(variants, pitch+12, pitch-12)
	}

	ceiling := cfg.FretCeiling()
	out := make([]FingeringChoice, 0, NumStrings*len(variants))
	for _, p := range variants {
		for s := 0; s < NumStrings; s++ {
			fret := p - StandardTuning.OpenPitch(s)
			if fret < 0 || fret > ceiling {
				continue
			}
			c := FingeringChoice{StringIndex: s, Fret: fret}
			if !slices.Contains(out, c) {
				out = append(out, c)
			}
		}
	}
	return out
}

// Cost scores choice c given the previous choice (nil for the first note).
// Lower is better.
func Cost(c FingeringChoice, prev *FingeringChoice, cfg MappingConfig) float64 {
	score := cfg.FretCostWeight * float64(c.Fret)

	if cfg.TieBreakPreferLowerString {
		score += float64(c.StringIndex) * 0.1
	}
	if cfg.PreferMelodyHighStrings {
		highness := float64(NumStrings-1-c.StringIndex) / float64(NumStrings-1)
		score += (1 - highness) * 0.6
	}
	if c.Fret == 0 {
		score -= cfg.OpenStringBonus
	}

	if prev != nil {
		fretDelta := math.Abs(float64(c.Fret - prev.Fret))
		stringDelta := math.Abs(float64(c.StringIndex - prev.StringIndex))
		score += cfg.ContinuityWeight * (cfg.ContinuityFretWeight*fretDelta + cfg.ContinuityStringWeight*stringDelta)
	}
	return score
}

// Solve assigns a string and fret to every note, minimising the summed Cost
// over the whole sequence. Notes are expected in playing order. The result has
// one event per note, in input order.
func Solve(notes []Note, cfg MappingConfig) (Result, error) {
	if err := validateNotes(notes); err != nil {
		return Result{}, err
	}
	n := len(notes)
	if n == 0 {
		return Result{Events: []TabEvent{}}, nil
	}

	// layers[i] holds the candidates of note i; best and pred are flat arenas
	// with offsets[i] marking where layer i starts.
	layers := make([][]FingeringChoice, n)
	offsets := make([]int, n+1)
	for i, note := range notes {
		cands := Candidates(note.Pitch, cfg)
		if len(cands) == 0 {
			cands = []FingeringChoice{fallbackChoice}
		}
		layers[i] = cands
		offsets[i+1] = offsets[i] + len(cands)
	}
	best := make([]float64, offsets[n])
	pred := make([]int, offsets[n])

	for j, c := range layers[0] {
		best[j] = Cost(c, nil, cfg)
		pred[j] = -1
	}

	for i := 1; i < n; i++ {
		prevLayer := layers[i-1]
		prevBase := offsets[i-1]
		base := offsets[i]
		for j, c := range layers[i] {
			bestCost := math.Inf(1)
			bestK := 0
			for k := range prevLayer {
				cost := best[prevBase+k] + Cost(c, &prevLayer[k], cfg)
				if cost < bestCost {
					bestCost = cost
					bestK = k
				}
			}
			best[base+j] = bestCost
			pred[base+j] = bestK
		}
	}

	lastBase := offsets[n-1]
	endJ := 0
	for j := 1; j < len(layers[n-1]); j++ {
		if best[lastBase+j] < best[lastBase+endJ] {
			endJ = j
		}
	}

	events := make([]TabEvent, n)
	j := endJ
	for i := n - 1; i >= 0; i-- {
		c := layers[i][j]
		events[i] = TabEvent{Note: notes[i], StringIndex: c.StringIndex, Fret: c.Fret}
		j = pred[offsets[i]+j]
	}

	return Result{Events: events, TotalCost: best[lastBase+endJ]}, nil
}

// Map is Solve without the path cost
func Map(notes []Note, cfg MappingConfig) ([]TabEvent, error) {
	res, err := Solve(notes, cfg)
	if err != nil {
		return nil, err
	}
	return res.Events, nil
}

// PathCost re-scores an existing assignment with the cost model
func PathCost(events []TabEvent, cfg MappingConfig) float64 {
	total := 0.0
	for i, e := range events {
		c := e.Choice()
		if i == 0 {
			total += Cost(c, nil, cfg)
			continue
		}
		prev := events[i-1].Choice()
		total += Cost(c, &prev, cfg)
	}
	return total
}
