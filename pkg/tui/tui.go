// Package tui provides a terminal user interface for midi2tab
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/james-see/midi2tab/pkg/converter"
	"github.com/james-see/midi2tab/pkg/converter/renderers"
	"github.com/james-see/midi2tab/pkg/midifile"
	"github.com/james-see/midi2tab/pkg/tab"
)

// Fretboard colors: rosewood, bone and brass
var (
	bone     = lipgloss.Color("#EDE6D6")
	brass    = lipgloss.Color("#D4A017")
	rosewood = lipgloss.Color("#4A2C2A")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(bone).
			Background(rosewood).
			Padding(0, 2).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(brass).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#777777")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(brass).
			Padding(0, 1)
)

// State represents the current TUI state
type State int

const (
	StateFilePicker State = iota
	StateLoading
	StateTracks
	StateTab
)

// Model represents the TUI model
type Model struct {
	state        State
	options      tab.Options
	filePicker   filepicker.Model
	spinner      spinner.Model
	tracks       table.Model
	tabView      viewport.Model
	selectedFile string
	song         *midifile.Song
	previews     []converter.TrackPreview
	err          error
	width        int
	height       int
}

// songLoadedMsg carries a parsed song and its track previews
type songLoadedMsg struct {
	song     *midifile.Song
	previews []converter.TrackPreview
	err      error
}

// tabRenderedMsg carries the ASCII tab of one track
type tabRenderedMsg struct {
	text string
	err  error
}

// New creates a new TUI model mapping tracks with opts
func New(opts tab.Options) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".mid", ".midi"}
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(brass)

	t := table.New(
		table.WithColumns(trackColumns()),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	ts := table.DefaultStyles()
	ts.Selected = ts.Selected.Foreground(bone).Background(rosewood).Bold(true)
	t.SetStyles(ts)

	return Model{
		state:      StateFilePicker,
		options:    opts,
		filePicker: fp,
		spinner:    s,
		tracks:     t,
		tabView:    viewport.New(80, 20),
	}
}

func trackColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 3},
		{Title: "Name", Width: 20},
		{Title: "Notes", Width: 6},
		{Title: "Pitch", Width: 6},
		{Title: "Poly", Width: 5},
		{Title: "Secs", Width: 7},
		{Title: "Cost/note", Width: 9},
		{Title: "Max fret", Width: 8},
	}
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return m.filePicker.Init()
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				if m.song != nil {
					m.state = StateTracks
					return m, nil
				}
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.err = nil
			m.state = StateLoading
			return m, tea.Batch(m.spinner.Tick, m.loadSong())
		}
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		m.tabView.Width = msg.Width - 4
		m.tabView.Height = msg.Height - 10
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateTracks:
			return m.updateTracks(msg)
		case StateTab:
			return m.updateTab(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case songLoadedMsg:
		m.err = msg.err
		if msg.err != nil {
			m.state = StateFilePicker
			return m, nil
		}
		m.song = msg.song
		m.previews = msg.previews
		m.tracks.SetRows(trackRows(msg.song, msg.previews))
		m.tracks.SetCursor(0)
		m.state = StateTracks
		return m, nil

	case tabRenderedMsg:
		m.err = msg.err
		if msg.err != nil {
			m.state = StateTracks
			return m, nil
		}
		m.tabView.SetContent(msg.text)
		m.tabView.GotoTop()
		m.state = StateTab
		return m, nil
	}

	return m, nil
}

func (m Model) updateTracks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		row := m.tracks.SelectedRow()
		if row == nil {
			return m, nil
		}
		m.state = StateLoading
		return m, tea.Batch(m.spinner.Tick, m.renderTrack(row[0]))
	case "a":
		m.state = StateLoading
		return m, tea.Batch(m.spinner.Tick, m.renderTrack(""))
	case "esc", "o":
		m.state = StateFilePicker
		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.tracks, cmd = m.tracks.Update(msg)
	return m, cmd
}

func (m Model) updateTab(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = StateTracks
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.tabView, cmd = m.tabView.Update(msg)
	return m, cmd
}

func (m Model) loadSong() tea.Cmd {
	path := m.selectedFile
	opts := m.options
	return func() tea.Msg {
		song, err := midifile.ParseFile(path)
		if err != nil {
			return songLoadedMsg{err: err}
		}
		conv := converter.New(nil)
		conv.SetOptions(opts)
		previews, err := conv.Preview(context.Background(), song)
		if err != nil {
			return songLoadedMsg{err: err}
		}
		return songLoadedMsg{song: song, previews: previews}
	}
}

func (m Model) renderTrack(trackID string) tea.Cmd {
	song := m.song
	opts := m.options
	source := filepath.Base(m.selectedFile)
	width := m.tabView.Width
	return func() tea.Msg {
		ascii := renderers.NewASCII()
		if width > 20 {
			ascii.Width = width
		}
		conv := converter.New(ascii)
		conv.SetOptions(opts)
		t, err := conv.Build(song, trackID)
		if err != nil {
			return tabRenderedMsg{err: err}
		}
		t.Source = source
		out, err := ascii.Render(t)
		if err != nil {
			return tabRenderedMsg{err: err}
		}
		return tabRenderedMsg{text: string(out)}
	}
}

// trackRows lists every track. Preview columns stay blank for tracks that
// are not melody candidates.
func trackRows(song *midifile.Song, previews []converter.TrackPreview) []table.Row {
	byID := make(map[string]converter.TrackPreview, len(previews))
	for _, p := range previews {
		byID[p.ID] = p
	}
	rows := make([]table.Row, 0, len(song.Streams))
	for _, st := range song.Streams {
		name := st.Name
		if st.IsPercussion {
			name += " (drums)"
		}
		row := table.Row{st.ID, name, fmt.Sprint(len(st.Notes)), "", "", "", "", ""}
		if p, ok := byID[st.ID]; ok {
			row[3] = tab.PitchName(int(p.Stats.MeanPitch + 0.5))
			row[4] = fmt.Sprintf("%.2f", p.Stats.MeanConcurrency)
			row[5] = fmt.Sprintf("%.1f", p.Stats.TotalDurationSec)
			row[6] = fmt.Sprintf("%.2f", p.CostPerNote)
			row[7] = fmt.Sprint(p.HighestFret)
		}
		rows = append(rows, row)
	}
	return rows
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" midi2tab "))
	s.WriteString("\n")

	switch m.state {
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateLoading:
		s.WriteString(m.viewLoading())
	case StateTracks:
		s.WriteString(m.viewTracks())
	case StateTab:
		s.WriteString(m.viewTab())
	}

	if m.err != nil {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s", m.err.Error())))
	}
	return s.String()
}

func (m Model) viewFilePicker() string {
	var s strings.Builder
	s.WriteString("Select a MIDI file\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("enter: open • q: quit"))
	return s.String()
}

func (m Model) viewLoading() string {
	return boxStyle.Render(fmt.Sprintf("%s Mapping %s...", m.spinner.View(), filepath.Base(m.selectedFile)))
}

func (m Model) viewTracks() string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("%s  %.1fs", filepath.Base(m.selectedFile), m.song.DurationSec))
	if m.song.BPM != nil {
		s.WriteString(fmt.Sprintf("  %.0f BPM", *m.song.BPM))
	}
	s.WriteString("\n")
	s.WriteString(boxStyle.Render(m.tracks.View()))
	s.WriteString("\n")
	s.WriteString(statusStyle.Render(fmt.Sprintf("%d melody candidates", len(m.previews))))
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: show tab • a: all tracks • o: open file • q: quit"))
	return s.String()
}

func (m Model) viewTab() string {
	var s strings.Builder
	s.WriteString(boxStyle.Render(m.tabView.View()))
	s.WriteString("\n")
	s.WriteString(helpStyle.Render(fmt.Sprintf("↑/↓: scroll • esc: tracks • q: quit  %3.f%%", m.tabView.ScrollPercent()*100)))
	return s.String()
}

// Run starts the TUI application
func Run(opts tab.Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
