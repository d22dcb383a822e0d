package notegrid

import (
	"cmp"

	"golang.org/x/exp/slices"
)

type (
	// Rect is a region of grid cells. It is half-open: it covers columns
	// [Min.Column, Max.Column) and rows [Min.Row, Max.Row). Offsets are
	// ignored.
	Rect struct {
		Min, Max Cell
	}

	// Selection is the set of currently selected notes. It holds identities
	// only; call Validate after every grid mutation so that it never refers
	// to a removed note.
	Selection struct {
		ids map[NoteID]struct{}
	}
)

// RectFromCorners returns the smallest Rect containing both cells; the
// corners are inclusive, as when dragging a rubber band from a to b.
func RectFromCorners(a, b Cell) Rect {
	return Rect{
		Min: Cell{Column: min(a.Column, b.Column), Row: min(a.Row, b.Row)},
		Max: Cell{Column: max(a.Column, b.Column) + 1, Row: max(a.Row, b.Row) + 1},
	}
}

func (r Rect) Empty() bool {
	return r.Min.Column >= r.Max.Column || r.Min.Row >= r.Max.Row
}

// Overlaps reports if the cells occupied by the note, [Column, Column+Length)
// on its row, overlap the rect.
func (r Rect) Overlaps(n Note) bool {
	return n.Column < r.Max.Column && n.End() > r.Min.Column &&
		n.Row >= r.Min.Row && n.Row < r.Max.Row
}

// Intersecting returns the notes overlapping the rect, in grid order.
func (g *Grid) Intersecting(r Rect) []NoteID {
	if r.Empty() {
		return nil
	}
	var ret []NoteID
	for id, n := range g.All() {
		if n.Column >= r.Max.Column {
			break
		}
		if r.Overlaps(n) {
			ret = append(ret, id)
		}
	}
	return ret
}

func NewSelection() *Selection {
	return &Selection{ids: make(map[NoteID]struct{})}
}

func (s *Selection) Len() int { return len(s.ids) }

func (s *Selection) Contains(id NoteID) bool {
	_, ok := s.ids[id]
	return ok
}

// Add selects the note if it is in the grid.
func (s *Selection) Add(g *Grid, id NoteID) bool {
	if !g.Contains(id) {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *Selection) Remove(id NoteID) {
	delete(s.ids, id)
}

// Toggle flips the selection state of the note and returns the new state.
// Notes not in the grid are never selected.
func (s *Selection) Toggle(g *Grid, id NoteID) bool {
	if s.Contains(id) {
		delete(s.ids, id)
		return false
	}
	return s.Add(g, id)
}

func (s *Selection) SelectAll(g *Grid) {
	for id := range g.All() {
		s.ids[id] = struct{}{}
	}
}

func (s *Selection) SelectNone() {
	clear(s.ids)
}

// SelectRow replaces the selection with all notes of the row.
func (s *Selection) SelectRow(g *Grid, row int) {
	clear(s.ids)
	for id, n := range g.All() {
		if n.Row == row {
			s.ids[id] = struct{}{}
		}
	}
}

// Set replaces the selection with the given notes; ids not in the grid are
// skipped.
func (s *Selection) Set(g *Grid, ids []NoteID) {
	clear(s.ids)
	for _, id := range ids {
		s.Add(g, id)
	}
}

// ElementsIntersecting returns the notes of the grid that overlap the rect.
// It does not change the selection.
func (s *Selection) ElementsIntersecting(g *Grid, r Rect) []NoteID {
	return g.Intersecting(r)
}

// Validate drops every identity that no longer refers to a note in the grid
// and returns how many were dropped.
func (s *Selection) Validate(g *Grid) int {
	dropped := 0
	for id := range s.ids {
		if !g.Contains(id) {
			delete(s.ids, id)
			dropped++
		}
	}
	return dropped
}

// IDs returns the selected notes in grid order (column, then row). Stale
// identities are skipped.
func (s *Selection) IDs(g *Grid) []NoteID {
	ret := make([]NoteID, 0, len(s.ids))
	for id := range s.ids {
		if g.Contains(id) {
			ret = append(ret, id)
		}
	}
	slices.SortFunc(ret, func(a, b NoteID) int {
		na, nb := g.slots[a.slot].note, g.slots[b.slot].note
		if c := cmp.Compare(na.Column, nb.Column); c != 0 {
			return c
		}
		return cmp.Compare(na.Row, nb.Row)
	})
	return ret
}
