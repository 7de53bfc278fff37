// Package main is the entry point for the midi2tab CLI
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/james-see/midi2tab/pkg/analyzer"
	"github.com/james-see/midi2tab/pkg/api"
	"github.com/james-see/midi2tab/pkg/converter"
	"github.com/james-see/midi2tab/pkg/converter/renderers"
	"github.com/james-see/midi2tab/pkg/logging"
	"github.com/james-see/midi2tab/pkg/midifile"
	"github.com/james-see/midi2tab/pkg/tab"
	"github.com/james-see/midi2tab/pkg/tui"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	debug        bool
	configFile   string
	trackID      string
	outputFile   string
	formatName   string
	showPreview  bool
	serverPort   int
	mappingFlags mappingOverrides
)

// mappingOverrides holds the mapping flags. Only flags the user set are
// applied on top of the config file.
type mappingOverrides struct {
	maxFret          int
	continuity       float64
	openStringBonus  float64
	fretCost         float64
	continuityFret   float64
	continuityString float64
	noMelodyBias     bool
	noLowStringTie   bool
	noOctaveShifts   bool
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "midi2tab",
	Short: "Turn MIDI tracks into beginner-friendly guitar tablature",
	Long: `midi2tab reads a standard MIDI file, finds the tracks worth playing
and maps their notes onto a six-string guitar in standard tuning, keeping
frets low and hand movement small.

Examples:
  midi2tab tracks song.mid --preview
  midi2tab tab song.mid -t 1
  midi2tab tab song.mid -t 1 -o lead.json
  midi2tab tab song.mid --max-fret 5 --no-octave-shifts
  midi2tab tui
  midi2tab serve --port 8080`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(debug)
	},
	SilenceUsage: true,
}

var tracksCmd = &cobra.Command{
	Use:   "tracks <input.mid>",
	Short: "List the tracks of a MIDI file with their statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runTracks,
}

var tabCmd = &cobra.Command{
	Use:   "tab <input.mid>",
	Short: "Map a track to guitar tablature",
	Long: `Maps one track (or every non-drum track when --track is omitted) to
tablature. The output format follows --format, then the extension of
--output, and defaults to ASCII text on stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runTab,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML file with mapping options")

	// Mapping flags, shared by tracks --preview, tab and tui
	for _, cmd := range []*cobra.Command{tracksCmd, tabCmd, tuiCmd} {
		f := cmd.Flags()
		f.IntVar(&mappingFlags.maxFret, "max-fret", 12, "Highest preferred fret")
		f.Float64Var(&mappingFlags.continuity, "continuity-weight", 0.4, "Weight of hand movement between notes")
		f.Float64Var(&mappingFlags.openStringBonus, "open-string-bonus", 0.5, "Cost reduction for open strings")
		f.Float64Var(&mappingFlags.fretCost, "fret-cost-weight", 1.0, "Weight of the fret position cost")
		f.Float64Var(&mappingFlags.continuityFret, "continuity-fret-weight", 1.0, "Weight of fret jumps in hand movement")
		f.Float64Var(&mappingFlags.continuityString, "continuity-string-weight", 1.5, "Weight of string jumps in hand movement")
		f.BoolVar(&mappingFlags.noMelodyBias, "no-melody-bias", false, "Disable the string preference bias")
		f.BoolVar(&mappingFlags.noLowStringTie, "no-low-string-tiebreak", false, "Disable the lower string tie-break")
		f.BoolVar(&mappingFlags.noOctaveShifts, "no-octave-shifts", false, "Only use the written pitch")
	}

	tracksCmd.Flags().BoolVar(&showPreview, "preview", false, "Also map every melody candidate and report playability")

	tabCmd.Flags().StringVarP(&trackID, "track", "t", "", "Track ID (see the tracks command)")
	tabCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (stdout when empty)")
	tabCmd.Flags().StringVarP(&formatName, "format", "f", "", "Output format: text, json or midi")

	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	rootCmd.AddCommand(tracksCmd)
	rootCmd.AddCommand(tabCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadOptions reads --config and applies every mapping flag the user set
func loadOptions(cmd *cobra.Command) (tab.Options, error) {
	var opts tab.Options
	if configFile != "" {
		o, err := converter.LoadOptions(configFile)
		if err != nil {
			return opts, err
		}
		opts = o
	}

	f := cmd.Flags()
	var flagOpts tab.Options
	if f.Changed("max-fret") {
		flagOpts.MaxFret = &mappingFlags.maxFret
	}
	floats := []struct {
		name string
		src  *float64
		dst  **float64
	}{
		{"continuity-weight", &mappingFlags.continuity, &flagOpts.ContinuityWeight},
		{"open-string-bonus", &mappingFlags.openStringBonus, &flagOpts.OpenStringBonus},
		{"fret-cost-weight", &mappingFlags.fretCost, &flagOpts.FretCostWeight},
		{"continuity-fret-weight", &mappingFlags.continuityFret, &flagOpts.ContinuityFretWeight},
		{"continuity-string-weight", &mappingFlags.continuityString, &flagOpts.ContinuityStringWeight},
	}
	for _, fl := range floats {
		if f.Changed(fl.name) {
			*fl.dst = fl.src
		}
	}
	off := false
	if f.Changed("no-melody-bias") && mappingFlags.noMelodyBias {
		flagOpts.PreferMelodyHighStrings = &off
	}
	if f.Changed("no-low-string-tiebreak") && mappingFlags.noLowStringTie {
		flagOpts.TieBreakPreferLowerString = &off
	}
	if f.Changed("no-octave-shifts") && mappingFlags.noOctaveShifts {
		flagOpts.EvaluateOctaveShifts = &off
	}

	merged := opts.Merge(flagOpts)
	if err := merged.Validate(); err != nil {
		return opts, fmt.Errorf("invalid mapping flags: %w", err)
	}
	slog.Debug("mapping options", "config", merged.Resolve())
	return merged, nil
}

func runTracks(cmd *cobra.Command, args []string) error {
	song, err := midifile.ParseFile(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d tracks, %.1fs", args[0], len(song.Streams), song.DurationSec)
	if song.BPM != nil {
		fmt.Printf(", %.0f BPM", *song.BPM)
	}
	fmt.Println()

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "CH", "NOTES", "MEAN PITCH", "MEAN VEL", "POLY", "SECS", "MELODY")
	for _, s := range analyzer.Summarize(song.Streams) {
		ch := "-"
		if s.Channel != nil {
			ch = fmt.Sprint(*s.Channel + 1)
		}
		melody := ""
		if s.MelodyCandidate {
			melody = "yes"
		}
		t.Row(
			s.ID, s.Name, ch,
			fmt.Sprint(s.Stats.NoteCount),
			fmt.Sprintf("%.1f (%s)", s.Stats.MeanPitch, tab.PitchName(int(s.Stats.MeanPitch+0.5))),
			fmt.Sprintf("%.2f", s.Stats.MeanVelocity),
			fmt.Sprintf("%.2f", s.Stats.MeanConcurrency),
			fmt.Sprintf("%.1f", s.Stats.TotalDurationSec),
			melody,
		)
	}
	fmt.Println(t.Render())

	if !showPreview {
		return nil
	}

	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	conv := converter.New(nil)
	conv.SetOptions(opts)
	previews, err := conv.Preview(context.Background(), song)
	if err != nil {
		return err
	}
	p := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "COST", "COST/NOTE", "MAX FRET", "OPEN", "OCTAVE SHIFTED")
	for _, pv := range previews {
		p.Row(
			pv.ID, pv.Name,
			fmt.Sprintf("%.2f", pv.TotalCost),
			fmt.Sprintf("%.2f", pv.CostPerNote),
			fmt.Sprint(pv.HighestFret),
			fmt.Sprint(pv.OpenStringNotes),
			fmt.Sprint(pv.OctaveShifted),
		)
	}
	fmt.Println(p.Render())
	return nil
}

func runTab(cmd *cobra.Command, args []string) error {
	input := args[0]

	format := converter.FormatText
	switch {
	case formatName != "":
		format = converter.ParseFormat(formatName)
	case outputFile != "":
		if f := converter.DetectFormat(outputFile); f != converter.FormatUnknown {
			format = f
		}
	}
	renderer, err := renderers.ForFormat(format)
	if err != nil {
		return err
	}

	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	conv := converter.New(renderer)
	conv.SetOptions(opts)

	if outputFile != "" {
		if err := conv.ConvertFile(input, outputFile, trackID); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s tab to %s\n", renderer.Name(), outputFile)
		return nil
	}

	if format == converter.FormatMIDI {
		return fmt.Errorf("refusing to write MIDI to stdout, use --output")
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	out, err := conv.Convert(data, trackID)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

func runTUI(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	return tui.Run(opts)
}

func runServe(cmd *cobra.Command, args []string) error {
	slog.Info("starting API server", "port", serverPort,
		"swagger", fmt.Sprintf("http://localhost:%d/swagger/index.html", serverPort))
	return api.StartServer(serverPort)
}
