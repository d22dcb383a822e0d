package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/charmbracelet/lipgloss"
	"github.com/vsariola/notegrid"
	"github.com/vsariola/notegrid/config"
	"github.com/vsariola/notegrid/editor"
	"github.com/vsariola/notegrid/player"
	"gitlab.com/gomidi/midi/v2"
)

const listingTemplate = `{{ .Name | title }} ({{ .Length }} ticks, {{ .Cells }} cells of {{ .CellTicks }}{{ if .Triplets }}, triplets{{ end }})
{{ repeat 16 " " }}|{{ .Ruler }}|
{{- range .Lanes }}
{{ .Name | trunc 15 | printf "%-15s" }} |{{ .Cells }}| {{ .Count }}{{ if .Muted }} muted{{ end }}
{{- end }}
notes: {{ .Notes }}, selected: {{ .Selected }}, undo: {{ default "-" .Undo }}, redo: {{ default "-" .Redo }}
`

type (
	listing struct {
		Name      string
		Length    int
		Cells     int
		CellTicks int
		Triplets  bool
		Ruler     string
		Lanes     []lane
		Notes     int
		Selected  int
		Undo      string
		Redo      string
	}

	lane struct {
		Name  string
		Cells string
		Count int
		Muted bool
	}
)

var listingTmpl = template.Must(template.New("listing").Funcs(sprig.TxtFuncMap()).Parse(listingTemplate))

// palette colors the cells of the listing. The zero palette prints plain
// text.
type palette map[byte]lipgloss.Style

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	return palette{
		'X': r.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00")),
		'x': r.NewStyle().Foreground(lipgloss.Color("#44bbff")),
		'-': r.NewStyle().Foreground(lipgloss.Color("#2277aa")),
		'.': r.NewStyle().Faint(true),
	}
}

func (p palette) render(cells []byte) string {
	if len(p) == 0 {
		return string(cells)
	}
	var b strings.Builder
	for _, c := range cells {
		if style, ok := p[c]; ok {
			b.WriteString(style.Render(string(c)))
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// printListing writes the pattern as a step grid: X marks a cell where a
// selected note starts, x any other note, - a cell covered by a longer note.
func printListing(w io.Writer, ed *editor.Editor, colors palette) error {
	grid := ed.GridConfig()
	l := listing{
		CellTicks: grid.CellTicks(),
		Triplets:  grid.Triplets,
		Selected:  len(ed.Selected()),
		Undo:      ed.UndoLabel(),
		Redo:      ed.RedoLabel(),
	}
	ed.Pattern(func(p *notegrid.Pattern) {
		l.Name, l.Length = p.Name, p.Length
		l.Cells = (p.Length + l.CellTicks - 1) / l.CellTicks
		l.Notes = p.Notes.Len()
		rows := make([][]byte, p.Rows())
		for i := range rows {
			rows[i] = []byte(strings.Repeat(".", l.Cells))
		}
		for id, n := range p.Notes.All() {
			if n.Row >= len(rows) {
				continue
			}
			first := n.Column / l.CellTicks
			last := min((n.End()-1)/l.CellTicks, l.Cells-1)
			for c := first + 1; c <= last; c++ {
				if rows[n.Row][c] == '.' {
					rows[n.Row][c] = '-'
				}
			}
			if ed.IsSelected(id) {
				rows[n.Row][first] = 'X'
			} else {
				rows[n.Row][first] = 'x'
			}
		}
		for i, instr := range p.Kit {
			l.Lanes = append(l.Lanes, lane{
				Name:  instr.Name,
				Cells: colors.render(rows[i]),
				Count: strings.Count(string(rows[i]), "x") + strings.Count(string(rows[i]), "X"),
				Muted: instr.Muted,
			})
		}
	})
	var ruler strings.Builder
	for c := 0; c < l.Cells; c++ {
		if tick := c * l.CellTicks; tick%notegrid.TicksPerBeat == 0 {
			fmt.Fprintf(&ruler, "%d", (tick/notegrid.TicksPerBeat+1)%10)
		} else {
			ruler.WriteByte(' ')
		}
	}
	l.Ruler = ruler.String()
	return listingTmpl.Execute(w, l)
}

// dumpMIDI steps a player through one loop of the pattern without waiting for
// the clock and prints the messages with the tick they were sent at.
func dumpMIDI(ctx context.Context, w io.Writer, cfg *config.Config, gate *notegrid.Gate, logger *slog.Logger) error {
	var tick int
	sink := func(msg midi.Message) error {
		_, err := fmt.Fprintf(w, "%6d %v\n", tick, msg)
		return err
	}
	opts := append(cfg.PlayerOptions(), player.WithLogger(logger))
	pl := player.New(gate, sink, opts...)
	length := 0
	gate.Read(func(p *notegrid.Pattern) { length = p.Length })
	for tick = 0; tick < length; tick += cfg.Playback.Step {
		if _, err := pl.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}
