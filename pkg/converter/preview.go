package converter

import (
	"context"
	"fmt"
	"runtime"

	"github.com/james-see/midi2tab/pkg/analyzer"
	"github.com/james-see/midi2tab/pkg/midifile"
	"github.com/james-see/midi2tab/pkg/tab"
	"golang.org/x/sync/errgroup"
)

// Preview maps every melody candidate of the song in parallel and reports
// how playable each one is. Results follow track order. Cancelling ctx stops
// tracks that have not started mapping yet.
func (c *Converter) Preview(ctx context.Context, song *midifile.Song) ([]TrackPreview, error) {
	cfg := c.options.Resolve()
	summaries := analyzer.Summarize(song.Streams)

	var cands []analyzer.TrackSummary
	for _, s := range summaries {
		if s.MelodyCandidate {
			cands = append(cands, s)
		}
	}

	out := make([]TrackPreview, len(cands))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, s := range cands {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := tab.Solve(s.Notes, cfg)
			if err != nil {
				return fmt.Errorf("track %s: %w", s.ID, err)
			}
			out[i] = previewOf(s, res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func previewOf(s analyzer.TrackSummary, res tab.Result) TrackPreview {
	p := TrackPreview{TrackSummary: s, TotalCost: res.TotalCost}
	for _, e := range res.Events {
		if e.Fret > p.HighestFret {
			p.HighestFret = e.Fret
		}
		if e.OctaveShift() != 0 {
			p.OctaveShifted++
		}
		if e.Fret == 0 {
			p.OpenStringNotes++
		}
	}
	if n := len(res.Events); n > 0 {
		p.CostPerNote = res.TotalCost / float64(n)
	}
	return p
}
