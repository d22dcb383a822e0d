package editor

import (
	"log/slog"
	"math/rand/v2"

	"github.com/vsariola/notegrid"
)

type (
	// Editor is the editing side of a pattern. All its methods are called by
	// the single editing actor; the playback side only ever goes through the
	// gate. Every mutation is built into a Command outside the gate, applied
	// inside it, and recorded in the history. The selection is validated
	// before any mutating method returns.
	Editor struct {
		gate      *notegrid.Gate
		selection *notegrid.Selection
		history   *History
		grid      notegrid.GridConfig
		cursor    notegrid.Cell

		selectNewNotes bool
		logger         *slog.Logger
		rand           *rand.Rand
	}

	// Option configures an Editor.
	Option func(*Editor)
)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) { e.logger = logger }
}

// WithRand sets the random source used by RandomizeVelocity.
func WithRand(r *rand.Rand) Option {
	return func(e *Editor) { e.rand = r }
}

func WithHistoryCapacity(capacity int) Option {
	return func(e *Editor) { e.history = NewHistory(capacity) }
}

// WithSelectNewNotes makes added notes become the selection.
func WithSelectNewNotes(on bool) Option {
	return func(e *Editor) { e.selectNewNotes = on }
}

func WithGridConfig(c notegrid.GridConfig) Option {
	return func(e *Editor) { e.grid = c }
}

func New(gate *notegrid.Gate, opts ...Option) *Editor {
	e := &Editor{
		gate:      gate,
		selection: notegrid.NewSelection(),
		grid:      notegrid.DefaultGridConfig,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.history == nil {
		e.history = NewHistory(DefaultHistoryCapacity)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.rand == nil {
		e.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if e.grid.Validate() != nil {
		e.grid = notegrid.DefaultGridConfig
	}
	return e
}

func (e *Editor) Gate() *notegrid.Gate     { return e.gate }
func (e *Editor) History() *History        { return e.history }
func (e *Editor) Logger() *slog.Logger     { return e.logger }
func (e *Editor) SelectNewNotes() bool     { return e.selectNewNotes }
func (e *Editor) SetSelectNewNotes(b bool) { e.selectNewNotes = b }

// do applies a new command and records it. A command that fails leaves the
// pattern unchanged and is not recorded.
func (e *Editor) do(c *Command) error {
	if c.Empty() {
		return nil
	}
	err := e.gate.Exclusive(func(p *notegrid.Pattern) error {
		err := c.apply(p, true)
		e.afterApply(c)(p, err)
		return err
	})
	if err != nil {
		if notegrid.IsCorrupt(err) {
			e.logger.Error("edit failed and could not be rolled back", "command", c.Kind, "error", err)
		}
		return err
	}
	e.history.Record(c)
	e.logger.Debug("recorded edit", "command", c.Kind, "notes", c.Size())
	return nil
}

// afterApply returns the selection maintenance run inside the gate after c
// has been applied or inverted. It also runs after a failure, when a failed
// rollback may have removed selected notes.
func (e *Editor) afterApply(c *Command) func(p *notegrid.Pattern, err error) {
	return func(p *notegrid.Pattern, err error) {
		if err == nil && c.state == Applied && (c.selectAdded || e.selectNewNotes) {
			if added := c.Added(); len(added) > 0 {
				e.selection.Set(p.Notes, added)
			}
		}
		if n := e.selection.Validate(p.Notes); n > 0 {
			e.logger.Debug("dropped stale selection", "count", n)
		}
		e.clampCursor(p)
	}
}

// Undo inverts the last edit. It returns false if there was nothing to undo.
func (e *Editor) Undo() (bool, error) {
	var c *Command
	if len(e.history.done) > 0 {
		c = e.history.done[len(e.history.done)-1]
	}
	ok, err := e.history.Undo(e.gate, e.afterReplay(c))
	e.logReplay("undo", c, ok, err)
	return ok, err
}

// Redo applies the last undone edit again. It returns false if there was
// nothing to redo.
func (e *Editor) Redo() (bool, error) {
	var c *Command
	if len(e.history.undone) > 0 {
		c = e.history.undone[len(e.history.undone)-1]
	}
	ok, err := e.history.Redo(e.gate, e.afterReplay(c))
	e.logReplay("redo", c, ok, err)
	return ok, err
}

func (e *Editor) afterReplay(c *Command) func(p *notegrid.Pattern, err error) {
	if c == nil {
		return nil
	}
	return e.afterApply(c)
}

func (e *Editor) logReplay(verb string, c *Command, ok bool, err error) {
	switch {
	case err != nil:
		e.logger.Error(verb+" failed, history cleared", "command", c.Kind, "error", err)
	case ok:
		e.logger.Debug(verb, "command", c.Kind)
	}
}

// UndoLabel returns the menu label of the edit Undo would invert, or "" if
// there is none.
func (e *Editor) UndoLabel() string {
	if k, ok := e.history.UndoKind(); ok {
		return k.Label()
	}
	return ""
}

// RedoLabel returns the menu label of the edit Redo would apply.
func (e *Editor) RedoLabel() string {
	if k, ok := e.history.RedoKind(); ok {
		return k.Label()
	}
	return ""
}

// Pattern calls fn with read access to the pattern.
func (e *Editor) Pattern(fn func(p *notegrid.Pattern)) {
	e.gate.Read(fn)
}

// Notes returns a snapshot of all notes in grid order.
func (e *Editor) Notes() (ret []notegrid.Note) {
	e.gate.Read(func(p *notegrid.Pattern) { ret = p.Notes.Snapshot() })
	return
}

// Note returns the current value of a note.
func (e *Editor) Note(id notegrid.NoteID) (n notegrid.Note, ok bool) {
	e.gate.Read(func(p *notegrid.Pattern) { n, ok = p.Notes.Get(id) })
	return
}

// Find returns the note starting at the cell.
func (e *Editor) Find(column, row int) (id notegrid.NoteID, ok bool) {
	e.gate.Read(func(p *notegrid.Pattern) { id, ok = p.Notes.Find(column, row) })
	return
}

// GridConfig returns the current grid settings.
func (e *Editor) GridConfig() notegrid.GridConfig { return e.grid }

// SetGridConfig replaces the grid settings. The notes are not touched.
func (e *Editor) SetGridConfig(c notegrid.GridConfig) error {
	if err := c.Validate(); err != nil {
		return err
	}
	e.grid = c
	return nil
}

func (e *Editor) SetResolution(resolution int, triplets bool) error {
	c, err := e.grid.SetResolution(resolution, triplets)
	if err != nil {
		return err
	}
	e.grid = c
	return nil
}

func (e *Editor) ZoomIn()  { e.grid = e.grid.ZoomIn() }
func (e *Editor) ZoomOut() { e.grid = e.grid.ZoomOut() }

// CellAt resolves an input position to a grid cell with the current grid
// settings.
func (e *Editor) CellAt(pos notegrid.Position, mods notegrid.Modifiers) notegrid.Cell {
	return e.grid.ToGridCell(pos, mods)
}

// Cursor returns the keyboard cursor cell.
func (e *Editor) Cursor() notegrid.Cell { return e.cursor }

// SetCursor moves the keyboard cursor, clamped to the pattern and snapped to
// the grid.
func (e *Editor) SetCursor(c notegrid.Cell) {
	e.cursor = notegrid.Cell{Column: e.grid.Quantize(c.Column), Row: c.Row}
	e.gate.Read(e.clampCursor)
}

// MoveCursor moves the keyboard cursor by whole grid cells and rows.
func (e *Editor) MoveCursor(dColumns, dRows int) {
	e.SetCursor(notegrid.Cell{
		Column: e.cursor.Column + dColumns*e.grid.CellTicks(),
		Row:    e.cursor.Row + dRows,
	})
}

// CursorRect returns the one cell region under the cursor, for hit testing
// with ElementsIntersecting.
func (e *Editor) CursorRect() notegrid.Rect {
	return notegrid.Rect{
		Min: e.cursor,
		Max: notegrid.Cell{Column: e.cursor.Column + e.grid.CellTicks(), Row: e.cursor.Row + 1},
	}
}

func (e *Editor) clampCursor(p *notegrid.Pattern) {
	lastColumn := e.grid.Quantize(max(p.Length-1, 0))
	e.cursor.Column = max(min(e.cursor.Column, lastColumn), 0)
	e.cursor.Row = max(min(e.cursor.Row, p.Rows()-1), 0)
	e.cursor.Offset = 0
}
