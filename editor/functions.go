package editor

import (
	"fmt"

	"github.com/viterin/vek/vek32"
	"github.com/vsariola/notegrid"
)

// ClearNotes removes every note of one instrument lane.
func (e *Editor) ClearNotes(row int) error {
	c := &Command{Kind: KindClear}
	e.gate.Read(func(p *notegrid.Pattern) {
		var notes []notegrid.Note
		for _, n := range p.Notes.All() {
			if n.Row == row {
				notes = append(notes, n)
			}
		}
		c.removeNotes(notes...)
	})
	return e.do(c)
}

// ClearPattern removes every note of the pattern.
func (e *Editor) ClearPattern() error {
	c := &Command{Kind: KindClear}
	e.gate.Read(func(p *notegrid.Pattern) { c.removeNotes(p.Notes.Snapshot()...) })
	return e.do(c)
}

// FillNotes puts a note on every every-th grid cell of the lane, with the
// current resolution. Cells already holding a note are left alone.
func (e *Editor) FillNotes(row, every int) error {
	if every < 1 {
		return notegrid.Invalid(fmt.Sprintf("fill step %d must be positive", every))
	}
	step := every * e.grid.CellTicks()
	c := &Command{Kind: KindFill}
	var err error
	e.gate.Read(func(p *notegrid.Pattern) {
		if row < 0 || row >= p.Rows() {
			err = notegrid.Invalid(fmt.Sprintf("row %d is not a lane of the pattern", row))
			return
		}
		var notes []notegrid.Note
		for column := 0; column < p.Length; column += step {
			if _, ok := p.Notes.Find(column, row); ok {
				continue
			}
			n := notegrid.NewNote(column, row)
			n.Length = e.grid.CellTicks()
			notes = append(notes, n)
		}
		c.addNotes(notes...)
	})
	if err != nil {
		return err
	}
	return e.do(c)
}

// RandomizeVelocity nudges the velocity of the notes by a random amount in
// [-0.25, 0.25), keeping it within [0, 1]. With no ids, the selection is
// used.
func (e *Editor) RandomizeVelocity(ids []notegrid.NoteID) error {
	if len(ids) == 0 {
		ids = e.Selected()
	}
	c := &Command{Kind: KindRandomVelocity}
	var err error
	e.gate.Read(func(p *notegrid.Pattern) {
		var notes []notegrid.Note
		if notes, err = snapshot(p, ids); err != nil {
			return
		}
		velocities := make([]float32, len(notes))
		offsets := make([]float32, len(notes))
		for i, n := range notes {
			velocities[i] = float32(n.Velocity)
			offsets[i] = (e.rand.Float32() - 0.5) / 2
		}
		vek32.Add_Inplace(velocities, offsets)
		vek32.MaximumNumber_Inplace(velocities, 0)
		vek32.MinimumNumber_Inplace(velocities, 1)
		edits := make([]noteEdit, 0, len(notes))
		for i, n := range notes {
			m := n
			m.Velocity = float64(velocities[i])
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

// MoveInstrument moves lane src to dst together with its notes. The lanes in
// between shift by one.
func (e *Editor) MoveInstrument(src, dst int) error {
	if src == dst {
		return nil
	}
	c := &Command{Kind: KindMoveInstrument}
	var err error
	e.gate.Read(func(p *notegrid.Pattern) {
		if src < 0 || src >= p.Rows() || dst < 0 || dst >= p.Rows() {
			err = notegrid.Invalid(fmt.Sprintf("cannot move lane %d to %d in a kit of %d", src, dst, p.Rows()))
			return
		}
		var edits []noteEdit
		for _, n := range p.Notes.All() {
			if row := notegrid.MovedRow(n.Row, src, dst); row != n.Row {
				m := n
				m.Row = row
				edits = append(edits, noteEdit{Before: n, After: m})
			}
		}
		c.changeNotes(edits...)
		c.moveLane(src, dst)
	})
	if err != nil {
		return err
	}
	return e.do(c)
}

// AddInstrument appends an empty lane.
func (e *Editor) AddInstrument(instr notegrid.Instrument) error {
	c := &Command{Kind: KindAddInstrument}
	e.gate.Read(func(p *notegrid.Pattern) { c.insertLane(p.Rows(), instr) })
	return e.do(c)
}

// DropInstrument inserts a lane at the given row, e.g. when an instrument is
// dropped from a drumkit. Notes on later lanes move down with them.
func (e *Editor) DropInstrument(instr notegrid.Instrument, at int) error {
	c := &Command{Kind: KindDropInstrument}
	var err error
	e.gate.Read(func(p *notegrid.Pattern) {
		if at < 0 || at > p.Rows() {
			err = notegrid.Invalid(fmt.Sprintf("cannot insert a lane at %d in a kit of %d", at, p.Rows()))
			return
		}
		c.insertLane(at, instr)
		c.changeNotes(shiftRows(p, at, 1)...)
	})
	if err != nil {
		return err
	}
	return e.do(c)
}

// DeleteInstrument removes a lane with all its notes. Undo restores the lane
// with its drumkit association and the notes.
func (e *Editor) DeleteInstrument(row int) error {
	c := &Command{Kind: KindDeleteInstrument}
	var err error
	e.gate.Read(func(p *notegrid.Pattern) {
		instr, ok := p.Kit.Get(row)
		if !ok {
			err = notegrid.NotFound(fmt.Sprintf("no lane %d in a kit of %d", row, p.Rows()))
			return
		}
		var notes []notegrid.Note
		for _, n := range p.Notes.All() {
			if n.Row == row {
				notes = append(notes, n)
			}
		}
		c.removeNotes(notes...)
		c.changeNotes(shiftRows(p, row+1, -1)...)
		c.removeLane(row, instr)
	})
	if err != nil {
		return err
	}
	return e.do(c)
}

// shiftRows returns the edits moving every note on row from or later by d
// rows.
func shiftRows(p *notegrid.Pattern, from, d int) []noteEdit {
	var ret []noteEdit
	for _, n := range p.Notes.All() {
		if n.Row >= from {
			m := n
			m.Row += d
			ret = append(ret, noteEdit{Before: n, After: m})
		}
	}
	return ret
}
