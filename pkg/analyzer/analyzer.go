// Package analyzer computes per-track statistics used to pick a melody track
package analyzer

import (
	"sort"

	"github.com/james-see/midi2tab/pkg/tab"
)

// NoteStream is the notes of one input track plus its identity
type NoteStream struct {
	ID           string     `json:"id"`
	Name         string     `json:"name,omitempty"`
	Channel      *uint8     `json:"channel,omitempty"`
	Program      *uint8     `json:"program,omitempty"` // GM program 0-127
	IsPercussion bool       `json:"isPercussion"`
	Notes        []tab.Note `json:"-"`
}

// Statistics describes a NoteStream
type Statistics struct {
	NoteCount        int     `json:"noteCount"`
	MeanPitch        float64 `json:"meanPitch"`
	MeanVelocity     float64 `json:"meanVelocity"`
	MeanConcurrency  float64 `json:"meanConcurrency"` // 1.0 monophonic, >1 polyphonic
	TotalDurationSec float64 `json:"totalDurationSec"`
}

// TrackSummary pairs a stream with its statistics
type TrackSummary struct {
	NoteStream
	Stats           Statistics `json:"stats"`
	MelodyCandidate bool       `json:"melodyCandidate"`
}

// Analyze computes the statistics of a stream. An empty stream yields all
// zeros.
func Analyze(stream NoteStream) Statistics {
	notes := stream.Notes
	if len(notes) == 0 {
		return Statistics{}
	}

	var pitchSum, velSum, end float64
	for _, n := range notes {
		pitchSum += float64(n.Pitch)
		velSum += n.Velocity
		if e := n.OnsetSec + n.DurationSec; e > end {
			end = e
		}
	}
	count := float64(len(notes))
	return Statistics{
		NoteCount:        len(notes),
		MeanPitch:        pitchSum / count,
		MeanVelocity:     velSum / count,
		MeanConcurrency:  MeanConcurrency(notes),
		TotalDurationSec: end,
	}
}

type edge struct {
	t     float64
	delta int
}

// MeanConcurrency is the time-weighted average number of sounding notes over
// the span from the first onset to the last release.
func MeanConcurrency(notes []tab.Note) float64 {
	if len(notes) == 0 {
		return 0
	}

	edges := make([]edge, 0, 2*len(notes))
	for _, n := range notes {
		edges = append(edges, edge{t: n.OnsetSec, delta: 1})
		edges = append(edges, edge{t: n.OnsetSec + n.DurationSec, delta: -1})
	}
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].t != edges[j].t {
			return edges[i].t < edges[j].t
		}
		return edges[i].delta < edges[j].delta
	})

	active := 0
	last := edges[0].t
	var weighted, total float64
	for _, e := range edges {
		if dt := e.t - last; dt > 0 {
			weighted += float64(active) * dt
			total += dt
		}
		last = e.t
		active += e.delta
	}
	if total == 0 {
		return 1
	}
	return weighted / total
}

// IsMelodyCandidate reports whether a stream is worth mapping: it must have
// notes and must not be a percussion track.
func IsMelodyCandidate(stream NoteStream) bool {
	return !stream.IsPercussion && len(stream.Notes) > 0
}

// Summarize analyzes every stream, keeping input order
func Summarize(streams []NoteStream) []TrackSummary {
	out := make([]TrackSummary, len(streams))
	for i, s := range streams {
		out[i] = TrackSummary{
			NoteStream:      s,
			Stats:           Analyze(s),
			MelodyCandidate: IsMelodyCandidate(s),
		}
	}
	return out
}

// Candidates returns the melody candidates among streams, in input order
func Candidates(streams []NoteStream) []NoteStream {
	var out []NoteStream
	for _, s := range streams {
		if IsMelodyCandidate(s) {
			out = append(out, s)
		}
	}
	return out
}
