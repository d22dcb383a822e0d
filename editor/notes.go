package editor

import (
	"fmt"

	"github.com/vsariola/notegrid"
)

// AddNote adds a note. It fails with Occupied if the note's cell already holds
// a note and with Invalid if the note is out of range or outside the pattern.
func (e *Editor) AddNote(n notegrid.Note) (notegrid.NoteID, error) {
	var err error
	e.gate.Read(func(p *notegrid.Pattern) { err = checkFree(p, n) })
	if err != nil {
		return notegrid.NoteID{}, err
	}
	c := &Command{Kind: KindAdd}
	c.addNotes(n)
	if err := e.do(c); err != nil {
		return notegrid.NoteID{}, err
	}
	return c.Added()[0], nil
}

// ToggleNote deletes the note starting at the cell, or adds a new note of the
// given length there if the cell is empty. With a fine-grained cell, the new
// note is placed at the unquantized offset. It reports if a note was added.
func (e *Editor) ToggleNote(cell notegrid.Cell, length int) (added bool, err error) {
	var c *Command
	e.gate.Read(func(p *notegrid.Pattern) {
		column := cell.Column + cell.Offset
		if id, ok := p.Notes.Find(column, cell.Row); ok {
			n, _ := p.Notes.Get(id)
			c = &Command{Kind: KindDelete}
			c.removeNotes(n)
			return
		}
		n := notegrid.NewNote(column, cell.Row)
		n.Length = length
		if err = checkFree(p, n); err != nil {
			return
		}
		c = &Command{Kind: KindAdd}
		c.addNotes(n)
	})
	if err != nil {
		return false, err
	}
	if err := e.do(c); err != nil {
		return false, err
	}
	return c.Kind == KindAdd, nil
}

// DeleteNote removes the note.
func (e *Editor) DeleteNote(id notegrid.NoteID) error {
	c := &Command{Kind: KindDelete}
	var err error
	e.gate.Read(func(p *notegrid.Pattern) {
		var notes []notegrid.Note
		notes, err = snapshot(p, []notegrid.NoteID{id})
		c.removeNotes(notes...)
	})
	if err != nil {
		return err
	}
	return e.do(c)
}

// DeleteSelection removes every selected note.
func (e *Editor) DeleteSelection() error {
	return e.deleteNotes(KindDeleteSelection, e.Selected())
}

func (e *Editor) deleteNotes(kind Kind, ids []notegrid.NoteID) error {
	c := &Command{Kind: kind}
	var err error
	e.gate.Read(func(p *notegrid.Pattern) {
		var notes []notegrid.Note
		notes, err = snapshot(p, ids)
		c.removeNotes(notes...)
	})
	if err != nil {
		return err
	}
	return e.do(c)
}

// MoveNotes shifts the notes by dColumn ticks and dRow rows, keeping their
// identities. Notes pushed outside the pattern are deleted. With
// mods.CopyNotMove the notes are copied instead and the copies become the
// selection; copies that would land outside the pattern are dropped.
// Landing on a note that is not moved fails with Occupied.
func (e *Editor) MoveNotes(ids []notegrid.NoteID, dColumn, dRow int, mods notegrid.Modifiers) error {
	if len(ids) == 0 || (dColumn == 0 && dRow == 0 && !mods.CopyNotMove) {
		return nil
	}
	var c *Command
	var err error
	e.gate.Read(func(p *notegrid.Pattern) {
		var notes []notegrid.Note
		if notes, err = snapshot(p, ids); err != nil {
			return
		}
		if mods.CopyNotMove {
			c = &Command{Kind: KindCopyMove, selectAdded: true}
			var copies []notegrid.Note
			for _, n := range notes {
				n.Column += dColumn
				n.Row += dRow
				if p.InBounds(n) {
					copies = append(copies, n)
				}
			}
			c.addNotes(copies...)
			return
		}
		c = &Command{Kind: KindMove}
		var gone []notegrid.Note
		var edits []noteEdit
		for _, n := range notes {
			m := n
			m.Column += dColumn
			m.Row += dRow
			if !p.InBounds(m) {
				gone = append(gone, n)
				continue
			}
			edits = append(edits, noteEdit{Before: n, After: m})
		}
		c.removeNotes(gone...)
		c.changeNotes(edits...)
	})
	if err != nil {
		return err
	}
	return e.do(c)
}

// MoveSelection drags the selection from one cell to another. In
// fine-grained mode the offsets of the cells are part of the distance;
// otherwise the notes move by whole grid cells.
func (e *Editor) MoveSelection(from, to notegrid.Cell, mods notegrid.Modifiers) error {
	dColumn := to.Column - from.Column
	if mods.FineGrained {
		dColumn += to.Offset - from.Offset
	}
	return e.MoveNotes(e.Selected(), dColumn, to.Row-from.Row, mods)
}

// ResizeNote sets the length of the note in ticks.
func (e *Editor) ResizeNote(id notegrid.NoteID, length int) error {
	if length < 1 {
		return notegrid.Invalid(fmt.Sprintf("note length %d is less than 1", length))
	}
	return e.editNotes(KindResize, []notegrid.NoteID{id}, func(n *notegrid.Note) { n.Length = length })
}

func (e *Editor) SetVelocity(ids []notegrid.NoteID, velocity float64) error {
	return e.editNotes(KindVelocity, ids, func(n *notegrid.Note) { n.Velocity = velocity })
}

func (e *Editor) SetPan(ids []notegrid.NoteID, pan float64) error {
	return e.editNotes(KindPan, ids, func(n *notegrid.Note) { n.Pan = pan })
}

func (e *Editor) SetLeadLag(ids []notegrid.NoteID, leadLag float64) error {
	return e.editNotes(KindLeadLag, ids, func(n *notegrid.Note) { n.LeadLag = leadLag })
}

func (e *Editor) SetProbability(ids []notegrid.NoteID, probability float64) error {
	return e.editNotes(KindProbability, ids, func(n *notegrid.Note) { n.Probability = probability })
}

// SetKey sets the pitch offset of the notes.
func (e *Editor) SetKey(ids []notegrid.NoteID, key, octave int) error {
	return e.editNotes(KindPitch, ids, func(n *notegrid.Note) { n.Key, n.Octave = key, octave })
}

// SetNoteOff turns the notes into note-off events or back.
func (e *Editor) SetNoteOff(ids []notegrid.NoteID, noteOff bool) error {
	return e.editNotes(KindNoteOff, ids, func(n *notegrid.Note) { n.NoteOff = noteOff })
}

// editNotes records a change of the notes' properties. Notes the edit does not
// change are left out of the command; an edit changing nothing is not
// recorded.
func (e *Editor) editNotes(kind Kind, ids []notegrid.NoteID, edit func(n *notegrid.Note)) error {
	c := &Command{Kind: kind}
	var err error
	e.gate.Read(func(p *notegrid.Pattern) {
		var notes []notegrid.Note
		if notes, err = snapshot(p, ids); err != nil {
			return
		}
		edits := make([]noteEdit, 0, len(notes))
		for _, n := range notes {
			m := n
			edit(&m)
			if err = m.Validate(); err != nil {
				return
			}
			if m != n {
				edits = append(edits, noteEdit{Before: n, After: m})
			}
		}
		c.changeNotes(edits...)
	})
	if err != nil {
		return err
	}
	return e.do(c)
}

// snapshot returns the current values of the notes, failing with NotFound if
// any of them is gone. Duplicate ids are skipped.
func snapshot(p *notegrid.Pattern, ids []notegrid.NoteID) ([]notegrid.Note, error) {
	ret := make([]notegrid.Note, 0, len(ids))
	seen := make(map[notegrid.NoteID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		n, ok := p.Notes.Get(id)
		if !ok {
			return nil, notegrid.NotFound(fmt.Sprintf("note %v is not in the pattern", id))
		}
		ret = append(ret, n)
	}
	return ret, nil
}

func checkFree(p *notegrid.Pattern, n notegrid.Note) error {
	if err := n.Validate(); err != nil {
		return err
	}
	if !p.InBounds(n) {
		return notegrid.Invalid(fmt.Sprintf("%v lies outside the pattern", n))
	}
	if id, ok := p.Notes.Find(n.Column, n.Row); ok {
		return notegrid.Occupied(fmt.Sprintf("cell (%d,%d) holds %v", n.Column, n.Row, id))
	}
	return nil
}
