package editor

import (
	"fmt"
	"strings"

	"github.com/vsariola/notegrid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind tags what a Command does. It only labels the command; applying and
// inverting is driven by the primitive operations the command carries.
type Kind string

const (
	KindAdd              Kind = "add-note"
	KindDelete           Kind = "delete-note"
	KindMove             Kind = "move-notes"
	KindCopyMove         Kind = "copy-notes"
	KindResize           Kind = "resize-note"
	KindVelocity         Kind = "set-velocity"
	KindPan              Kind = "set-pan"
	KindLeadLag          Kind = "set-lead-lag"
	KindProbability      Kind = "set-probability"
	KindPitch            Kind = "set-pitch"
	KindNoteOff          Kind = "set-note-off"
	KindPaste            Kind = "paste-notes"
	KindCut              Kind = "cut-notes"
	KindDeleteSelection  Kind = "delete-selection"
	KindClear            Kind = "clear-notes"
	KindFill             Kind = "fill-notes"
	KindRandomVelocity   Kind = "randomize-velocity"
	KindMoveInstrument   Kind = "move-instrument"
	KindAddInstrument    Kind = "add-instrument"
	KindDropInstrument   Kind = "drop-instrument"
	KindDeleteInstrument Kind = "delete-instrument"
)

// Label returns a human readable name of the kind, e.g. "Move Notes".
func (k Kind) Label() string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(k), "-", " "))
}

type (
	// Command is one reversible edit, applied and inverted as a single undo
	// step. It is a sequence of primitive operations carrying full value
	// snapshots, so that both directions can be replayed without consulting
	// anything but the pattern.
	Command struct {
		Kind  Kind
		ops   []op
		state State

		// selectAdded replaces the selection with the added notes whenever
		// the command is applied forward.
		selectAdded bool
	}

	// State tells if a command is currently applied to the pattern or
	// inverted (undone).
	State int

	opKind int

	// op is a primitive operation. Notes are addressed by their cell, which
	// is unique within a grid; ids are only identity hints so that replaying
	// an operation gives notes back the identities they had.
	op struct {
		kind       opKind
		notes      []notegrid.Note   // opAddNotes, opRemoveNotes
		ids        []notegrid.NoteID // identities the notes had when last present
		changes    []noteEdit        // opChangeNotes
		lane, to   int               // opInsertLane, opRemoveLane, opMoveLane
		instrument notegrid.Instrument
	}

	noteEdit struct {
		Before, After notegrid.Note
	}
)

const (
	Inverted State = iota
	Applied
)

const (
	opAddNotes opKind = iota
	opRemoveNotes
	opChangeNotes
	opInsertLane
	opRemoveLane
	opMoveLane
)

func (s State) String() string {
	if s == Applied {
		return "applied"
	}
	return "inverted"
}

func (c *Command) State() State { return c.state }

// Label is the text for an undo/redo menu item.
func (c *Command) Label() string { return c.Kind.Label() }

// Empty reports if the command would not change anything.
func (c *Command) Empty() bool {
	for _, o := range c.ops {
		switch o.kind {
		case opAddNotes, opRemoveNotes:
			if len(o.notes) > 0 {
				return false
			}
		case opChangeNotes:
			if len(o.changes) > 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Size returns the number of notes the command touches.
func (c *Command) Size() int {
	ret := 0
	for _, o := range c.ops {
		ret += len(o.notes) + len(o.changes)
	}
	return ret
}

// Added returns the identities of the notes the command created the last
// time it was applied, in the order they were created.
func (c *Command) Added() []notegrid.NoteID {
	var ret []notegrid.NoteID
	for _, o := range c.ops {
		if o.kind == opAddNotes {
			ret = append(ret, o.ids...)
		}
	}
	return ret
}

func (c *Command) String() string {
	return fmt.Sprintf("%s (%d notes, %s)", c.Kind, c.Size(), c.state)
}

func (c *Command) addNotes(notes ...notegrid.Note) {
	if len(notes) > 0 {
		c.ops = append(c.ops, op{kind: opAddNotes, notes: notes})
	}
}

func (c *Command) removeNotes(notes ...notegrid.Note) {
	if len(notes) > 0 {
		c.ops = append(c.ops, op{kind: opRemoveNotes, notes: notes})
	}
}

func (c *Command) changeNotes(edits ...noteEdit) {
	if len(edits) > 0 {
		c.ops = append(c.ops, op{kind: opChangeNotes, changes: edits})
	}
}

func (c *Command) insertLane(index int, instr notegrid.Instrument) {
	c.ops = append(c.ops, op{kind: opInsertLane, lane: index, instrument: instr})
}

func (c *Command) removeLane(index int, instr notegrid.Instrument) {
	c.ops = append(c.ops, op{kind: opRemoveLane, lane: index, instrument: instr})
}

func (c *Command) moveLane(from, to int) {
	c.ops = append(c.ops, op{kind: opMoveLane, lane: from, to: to})
}

// apply runs the command forward (redo) or backward (undo) on the pattern.
// Either all operations succeed or the ones already applied are rolled
// back. If the rollback fails too, the error is a CorruptHistory error.
func (c *Command) apply(p *notegrid.Pattern, forward bool) error {
	n := len(c.ops)
	at := func(i int) *op {
		if forward {
			return &c.ops[i]
		}
		return &c.ops[n-1-i]
	}
	for i := 0; i < n; i++ {
		if err := at(i).apply(p, forward); err != nil {
			for j := i - 1; j >= 0; j-- {
				if rerr := at(j).apply(p, !forward); rerr != nil {
					return notegrid.Corrupt(rerr, fmt.Sprintf("rollback of %s failed after: %v", c.Kind, err))
				}
			}
			return err
		}
	}
	if forward {
		c.state = Applied
	} else {
		c.state = Inverted
	}
	return nil
}

// apply runs the operation forward or inverted. Every case checks all its
// preconditions before touching the pattern, so a failing operation leaves
// the pattern unchanged.
func (o *op) apply(p *notegrid.Pattern, forward bool) error {
	switch o.kind {
	case opAddNotes:
		if forward {
			return o.insert(p)
		}
		return o.remove(p)
	case opRemoveNotes:
		if forward {
			return o.remove(p)
		}
		return o.insert(p)
	case opChangeNotes:
		return o.change(p, forward)
	case opInsertLane:
		if forward {
			p.Kit.Insert(o.lane, o.instrument)
			return nil
		}
		return o.dropLane(p)
	case opRemoveLane:
		if forward {
			return o.dropLane(p)
		}
		p.Kit.Insert(o.lane, o.instrument)
		return nil
	case opMoveLane:
		from, to := o.lane, o.to
		if !forward {
			from, to = to, from
		}
		if !p.Kit.Move(from, to) {
			return notegrid.Invalid(fmt.Sprintf("cannot move lane %d to %d in a kit of %d", from, to, len(p.Kit)))
		}
		return nil
	}
	return notegrid.Corrupt(nil, fmt.Sprintf("unknown operation %d", o.kind))
}

func (o *op) insert(p *notegrid.Pattern) error {
	seen := make(map[notegrid.Cell]bool, len(o.notes))
	for _, n := range o.notes {
		if !p.InBounds(n) {
			return notegrid.Invalid(fmt.Sprintf("%v lies outside the pattern", n))
		}
		if err := n.Validate(); err != nil {
			return err
		}
		if _, ok := p.Notes.Find(n.Column, n.Row); ok || seen[n.Cell()] {
			return notegrid.Occupied(fmt.Sprintf("cannot add %v", n))
		}
		seen[n.Cell()] = true
	}
	if len(o.ids) != len(o.notes) {
		o.ids = make([]notegrid.NoteID, len(o.notes))
	}
	for i, n := range o.notes {
		id, err := p.Notes.Restore(o.ids[i], n)
		if err != nil { // checked above
			return err
		}
		o.ids[i] = id
	}
	return nil
}

func (o *op) remove(p *notegrid.Pattern) error {
	ids := make([]notegrid.NoteID, len(o.notes))
	for i, n := range o.notes {
		id, err := resolve(p.Notes, n)
		if err != nil {
			return err
		}
		ids[i] = id
	}
	for _, id := range ids {
		if _, err := p.Notes.Remove(id); err != nil {
			return err
		}
	}
	o.ids = ids
	return nil
}

func (o *op) change(p *notegrid.Pattern, forward bool) error {
	batch := make([]notegrid.NoteChange, len(o.changes))
	for i, e := range o.changes {
		from, to := e.Before, e.After
		if !forward {
			from, to = to, from
		}
		if !p.InBounds(to) {
			return notegrid.Invalid(fmt.Sprintf("%v lies outside the pattern", to))
		}
		id, err := resolve(p.Notes, from)
		if err != nil {
			return err
		}
		batch[i] = notegrid.NoteChange{ID: id, Note: to}
	}
	return p.Notes.Change(batch)
}

func (o *op) dropLane(p *notegrid.Pattern) error {
	instr, ok := p.Kit.Get(o.lane)
	if !ok || instr != o.instrument {
		return notegrid.NotFound(fmt.Sprintf("lane %d is not %q", o.lane, o.instrument.Name))
	}
	for _, n := range p.Notes.All() {
		if n.Row >= len(p.Kit)-1 {
			return notegrid.Occupied(fmt.Sprintf("lane %d still has notes below it", o.lane))
		}
	}
	p.Kit.Remove(o.lane)
	return nil
}

// resolve finds the note equal to the snapshot n.
func resolve(g *notegrid.Grid, n notegrid.Note) (notegrid.NoteID, error) {
	id, ok := g.Find(n.Column, n.Row)
	if !ok {
		return notegrid.NoteID{}, notegrid.NotFound(fmt.Sprintf("no note at (%d,%d)", n.Column, n.Row))
	}
	if cur, _ := g.Get(id); cur != n {
		return notegrid.NoteID{}, notegrid.NotFound(fmt.Sprintf("note at (%d,%d) is %v, expected %v", n.Column, n.Row, cur, n))
	}
	return id, nil
}
