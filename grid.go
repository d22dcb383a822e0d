package notegrid

import (
	"fmt"
	"iter"

	"golang.org/x/exp/slices"
)

// MinFreeSlots is the number of removed slots the grid keeps before it starts
// reusing them, oldest first. Until a slot is reused, Restore can bring back
// the identity of the note removed from it.
const MinFreeSlots = 1024

type (
	// NoteID is a stable reference to a note in a Grid. It survives relocation
	// but not removal: the slot of a removed note gets a new generation, so an
	// old NoteID never resolves to a note that later reuses the slot. The zero
	// NoteID never refers to a note.
	NoteID struct {
		slot uint32
		gen  uint32
	}

	// NoteChange replaces the value of the note ID with Note. The position of
	// the note may change; the identity is kept.
	NoteChange struct {
		ID   NoteID
		Note Note
	}

	// Grid owns the notes of one pattern. Notes live in an arena of slots;
	// identities are (slot, generation) pairs. A cell holds at most one note.
	// Grid is not safe for concurrent use: mutate it only inside
	// Gate.Exclusive.
	Grid struct {
		slots []slot
		free  []freeSlot // FIFO, may hold entries of restored slots
		dead  int        // slots waiting in free
		stamp uint64
		cells map[cellKey]NoteID
		order []NoteID // sorted by column, then row
	}

	slot struct {
		note  Note
		gen   uint32
		live  bool
		freed uint64 // stamp of the last removal
	}

	freeSlot struct {
		slot  uint32
		stamp uint64
	}

	cellKey struct{ column, row int }
)

func (id NoteID) IsZero() bool { return id.gen == 0 }

func (id NoteID) String() string {
	return fmt.Sprintf("#%d.%d", id.slot, id.gen)
}

func NewGrid() *Grid {
	return &Grid{cells: make(map[cellKey]NoteID)}
}

// Len returns the number of notes in the grid.
func (g *Grid) Len() int { return len(g.order) }

// Contains reports if id refers to a live note. This is a generation check,
// O(1).
func (g *Grid) Contains(id NoteID) bool {
	if id.gen == 0 || int(id.slot) >= len(g.slots) {
		return false
	}
	s := &g.slots[id.slot]
	return s.live && s.gen == id.gen
}

// Get returns the note with the given id.
func (g *Grid) Get(id NoteID) (Note, bool) {
	if !g.Contains(id) {
		return Note{}, false
	}
	return g.slots[id.slot].note, true
}

// Find returns the note starting at the given cell.
func (g *Grid) Find(column, row int) (NoteID, bool) {
	id, ok := g.cells[cellKey{column, row}]
	return id, ok
}

// Insert adds a note to the grid and returns its identity. It fails if the
// note is invalid or its cell is already occupied.
func (g *Grid) Insert(n Note) (NoteID, error) {
	if err := n.Validate(); err != nil {
		return NoteID{}, err
	}
	key := cellKey{n.Column, n.Row}
	if other, ok := g.cells[key]; ok {
		return NoteID{}, Occupied(fmt.Sprintf("cannot insert at (%d,%d): cell holds %v", n.Column, n.Row, other))
	}
	var id NoteID
	if g.dead > MinFreeSlots {
		id.slot = g.popFree()
	} else {
		id.slot = uint32(len(g.slots))
		g.slots = append(g.slots, slot{})
	}
	s := &g.slots[id.slot]
	s.gen++
	s.live = true
	s.note = n
	id.gen = s.gen
	g.cells[key] = id
	g.index(id)
	return id, nil
}

// Restore puts a removed note back under its old identity if its slot has not
// been reused since the removal; otherwise the note gets a new identity. It
// returns the identity the note lives under.
func (g *Grid) Restore(id NoteID, n Note) (NoteID, error) {
	if id.IsZero() || int(id.slot) >= len(g.slots) {
		return g.Insert(n)
	}
	s := &g.slots[id.slot]
	if s.live || s.gen != id.gen+1 {
		return g.Insert(n)
	}
	if err := n.Validate(); err != nil {
		return NoteID{}, err
	}
	key := cellKey{n.Column, n.Row}
	if other, ok := g.cells[key]; ok {
		return NoteID{}, Occupied(fmt.Sprintf("cannot restore at (%d,%d): cell holds %v", n.Column, n.Row, other))
	}
	// the queue entry of the slot goes stale and is skipped by popFree
	g.dead--
	s.gen = id.gen
	s.live = true
	s.note = n
	g.cells[key] = id
	g.index(id)
	return id, nil
}

// Remove deletes the note from the grid and returns its last value.
func (g *Grid) Remove(id NoteID) (Note, error) {
	if !g.Contains(id) {
		return Note{}, NotFound(fmt.Sprintf("cannot remove %v", id))
	}
	s := &g.slots[id.slot]
	n := s.note
	g.unindex(id)
	delete(g.cells, cellKey{n.Column, n.Row})
	s.live = false
	s.note = Note{}
	s.gen++ // ids handed out for this slot become stale right away
	g.stamp++
	s.freed = g.stamp
	g.free = append(g.free, freeSlot{slot: id.slot, stamp: g.stamp})
	g.dead++
	if len(g.free) > 2*g.dead+MinFreeSlots {
		g.free = slices.DeleteFunc(g.free, g.stale)
	}
	return n, nil
}

// popFree takes the oldest removed slot off the queue. There must be one.
func (g *Grid) popFree() uint32 {
	for {
		f := g.free[0]
		g.free = g.free[1:]
		if !g.stale(f) {
			g.dead--
			return f.slot
		}
	}
}

func (g *Grid) stale(f freeSlot) bool {
	s := &g.slots[f.slot]
	return s.live || s.freed != f.stamp
}

// Relocate moves the note to a new cell, keeping its identity. The
// destination must be empty or the note's own cell.
func (g *Grid) Relocate(id NoteID, column, row int) error {
	n, ok := g.Get(id)
	if !ok {
		return NotFound(fmt.Sprintf("cannot relocate %v", id))
	}
	n.Column, n.Row = column, row
	return g.Change([]NoteChange{{ID: id, Note: n}})
}

// Change replaces the values of several notes at once. Collisions are
// checked against the final state, so notes in the batch may move into
// cells vacated by other notes in the same batch. Either every change is
// applied or none is.
func (g *Grid) Change(changes []NoteChange) error {
	targets := make(map[cellKey]NoteID, len(changes))
	moving := make(map[NoteID]bool, len(changes))
	for _, c := range changes {
		if !g.Contains(c.ID) {
			return NotFound(fmt.Sprintf("cannot change %v", c.ID))
		}
		if moving[c.ID] {
			return Invalid(fmt.Sprintf("note %v changed twice in one batch", c.ID))
		}
		moving[c.ID] = true
		if err := c.Note.Validate(); err != nil {
			return err
		}
	}
	for _, c := range changes {
		key := cellKey{c.Note.Column, c.Note.Row}
		if other, ok := targets[key]; ok {
			return Occupied(fmt.Sprintf("notes %v and %v both moved to (%d,%d)", other, c.ID, key.column, key.row))
		}
		targets[key] = c.ID
		if occupant, ok := g.cells[key]; ok && !moving[occupant] {
			return Occupied(fmt.Sprintf("cannot move %v to (%d,%d): cell holds %v", c.ID, key.column, key.row, occupant))
		}
	}
	for _, c := range changes {
		old := g.slots[c.ID.slot].note
		g.unindex(c.ID)
		delete(g.cells, cellKey{old.Column, old.Row})
	}
	for _, c := range changes {
		g.slots[c.ID.slot].note = c.Note
		g.cells[cellKey{c.Note.Column, c.Note.Row}] = c.ID
		g.index(c.ID)
	}
	return nil
}

// QueryRange returns the notes starting in columns [from, to), ordered by
// column and then row.
func (g *Grid) QueryRange(from, to int) []NoteID {
	if to <= from {
		return nil
	}
	i, _ := slices.BinarySearchFunc(g.order, cellKey{from, -1}, g.compare)
	j, _ := slices.BinarySearchFunc(g.order, cellKey{to, -1}, g.compare)
	return slices.Clone(g.order[i:j])
}

// All iterates over the notes in column, row order. The grid must not be
// mutated during the iteration.
func (g *Grid) All() iter.Seq2[NoteID, Note] {
	return func(yield func(NoteID, Note) bool) {
		for _, id := range g.order {
			if !yield(id, g.slots[id.slot].note) {
				return
			}
		}
	}
}

// IDs returns the identities of all notes in column, row order.
func (g *Grid) IDs() []NoteID {
	return slices.Clone(g.order)
}

// Snapshot returns copies of all notes in column, row order.
func (g *Grid) Snapshot() []Note {
	ret := make([]Note, 0, len(g.order))
	for _, id := range g.order {
		ret = append(ret, g.slots[id.slot].note)
	}
	return ret
}

func (g *Grid) compare(id NoteID, key cellKey) int {
	n := &g.slots[id.slot].note
	if n.Column != key.column {
		if n.Column < key.column {
			return -1
		}
		return 1
	}
	switch {
	case n.Row < key.row:
		return -1
	case n.Row > key.row:
		return 1
	}
	return 0
}

func (g *Grid) index(id NoteID) {
	n := &g.slots[id.slot].note
	i, _ := slices.BinarySearchFunc(g.order, cellKey{n.Column, n.Row}, g.compare)
	g.order = slices.Insert(g.order, i, id)
}

func (g *Grid) unindex(id NoteID) {
	n := &g.slots[id.slot].note
	i, found := slices.BinarySearchFunc(g.order, cellKey{n.Column, n.Row}, g.compare)
	if found && g.order[i] == id {
		g.order = slices.Delete(g.order, i, i+1)
	}
}
