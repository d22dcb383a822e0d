package editor

import "github.com/vsariola/notegrid"

// Selected returns the selected notes in grid order.
func (e *Editor) Selected() (ret []notegrid.NoteID) {
	e.gate.Read(func(p *notegrid.Pattern) { ret = e.selection.IDs(p.Notes) })
	return
}

func (e *Editor) IsSelected(id notegrid.NoteID) bool { return e.selection.Contains(id) }

// NumSelected returns the size of the selection. It equals len(Selected())
// whenever the selection is valid.
func (e *Editor) NumSelected() int { return e.selection.Len() }

func (e *Editor) SelectAll() {
	e.gate.Read(func(p *notegrid.Pattern) { e.selection.SelectAll(p.Notes) })
}

func (e *Editor) SelectNone() { e.selection.SelectNone() }

// SelectRow selects the notes of one instrument lane.
func (e *Editor) SelectRow(row int) {
	e.gate.Read(func(p *notegrid.Pattern) { e.selection.SelectRow(p.Notes, row) })
}

// Toggle flips the selection state of a note and returns the new state.
func (e *Editor) Toggle(id notegrid.NoteID) (ret bool) {
	e.gate.Read(func(p *notegrid.Pattern) { ret = e.selection.Toggle(p.Notes, id) })
	return
}

// Select replaces the selection.
func (e *Editor) Select(ids []notegrid.NoteID) {
	e.gate.Read(func(p *notegrid.Pattern) { e.selection.Set(p.Notes, ids) })
}

// ElementsIntersecting returns the notes overlapping the region, e.g. for
// highlighting a rubber band selection while it is dragged.
func (e *Editor) ElementsIntersecting(r notegrid.Rect) (ret []notegrid.NoteID) {
	e.gate.Read(func(p *notegrid.Pattern) { ret = e.selection.ElementsIntersecting(p.Notes, r) })
	return
}

// SelectRect selects the notes overlapping the region. With add, they are
// added to the current selection.
func (e *Editor) SelectRect(r notegrid.Rect, add bool) {
	e.gate.Read(func(p *notegrid.Pattern) {
		if !add {
			e.selection.SelectNone()
		}
		for _, id := range p.Notes.Intersecting(r) {
			e.selection.Add(p.Notes, id)
		}
	})
}
