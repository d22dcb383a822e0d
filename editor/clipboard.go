package editor

import "github.com/vsariola/notegrid"

// NoteList is the clipboard content: value copies of notes, with columns
// relative to the earliest copied note and absolute rows.
type NoteList struct {
	Notes []notegrid.Note
}

func (l NoteList) Len() int { return len(l.Notes) }

// Copy returns the selected notes as a NoteList.
func (e *Editor) Copy() NoteList {
	var ret NoteList
	e.gate.Read(func(p *notegrid.Pattern) {
		ret = noteList(p, e.selection.IDs(p.Notes))
	})
	return ret
}

// Cut copies the selected notes and deletes them.
func (e *Editor) Cut() (NoteList, error) {
	var ids []notegrid.NoteID
	var ret NoteList
	e.gate.Read(func(p *notegrid.Pattern) {
		ids = e.selection.IDs(p.Notes)
		ret = noteList(p, ids)
	})
	if err := e.deleteNotes(KindCut, ids); err != nil {
		return NoteList{}, err
	}
	return ret, nil
}

func noteList(p *notegrid.Pattern, ids []notegrid.NoteID) NoteList {
	notes, _ := snapshot(p, ids)
	if len(notes) == 0 {
		return NoteList{}
	}
	origin := notes[0].Column
	for _, n := range notes {
		origin = min(origin, n.Column)
	}
	for i := range notes {
		notes[i].Column -= origin
	}
	return NoteList{Notes: notes}
}

// Paste adds the notes of the list with their columns shifted to start at
// origin. Notes already occupying the target cells are replaced, notes
// falling outside the pattern are dropped. The pasted notes become the
// selection. The returned command is the recorded undo step; it is nil if
// nothing was pasted.
func (e *Editor) Paste(list NoteList, origin int) (*Command, error) {
	notes := make([]notegrid.Note, 0, len(list.Notes))
	seen := make(map[notegrid.Cell]bool, len(list.Notes))
	for _, n := range list.Notes {
		n.Column += origin
		if n.Column < 0 || n.Row < 0 {
			continue
		}
		n = n.Clamp()
		if seen[n.Cell()] {
			continue
		}
		seen[n.Cell()] = true
		notes = append(notes, n)
	}
	c := &Command{Kind: KindPaste, selectAdded: true}
	e.gate.Read(func(p *notegrid.Pattern) {
		var replaced, added []notegrid.Note
		for _, n := range notes {
			if !p.InBounds(n) {
				continue
			}
			if id, ok := p.Notes.Find(n.Column, n.Row); ok {
				old, _ := p.Notes.Get(id)
				replaced = append(replaced, old)
			}
			added = append(added, n)
		}
		c.removeNotes(replaced...)
		c.addNotes(added...)
	})
	if c.Empty() {
		return nil, nil
	}
	if err := e.do(c); err != nil {
		return nil, err
	}
	return c, nil
}
