package notegrid_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vsariola/notegrid"
)

func TestInsertFindRemove(t *testing.T) {
	g := notegrid.NewGrid()
	n := notegrid.NewNote(0, 2)
	id, err := g.Insert(n)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if got, ok := g.Find(0, 2); !ok || got != id {
		t.Fatalf("find(0,2) returned %v, %v, expected %v", got, ok, id)
	}
	removed, err := g.Remove(id)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if removed != n {
		t.Fatalf("remove returned %v, expected %v", removed, n)
	}
	if _, ok := g.Find(0, 2); ok {
		t.Fatal("cell (0,2) still holds a note after remove")
	}
	if _, err := g.Remove(id); !notegrid.IsNotFound(err) {
		t.Fatalf("second remove returned %v, expected NotFound", err)
	}
}

func TestInsertOccupied(t *testing.T) {
	g := notegrid.NewGrid()
	if _, err := g.Insert(notegrid.NewNote(2, 1)); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	_, err := g.Insert(notegrid.NewNote(2, 1))
	if !notegrid.IsOccupied(err) {
		t.Fatalf("insert into occupied cell returned %v, expected Occupied", err)
	}
	if !errors.Is(err, notegrid.ErrOccupied) {
		t.Fatalf("error %v does not wrap ErrOccupied", err)
	}
	if g.Len() != 1 {
		t.Fatalf("grid has %d notes, expected 1", g.Len())
	}
}

func TestInsertInvalid(t *testing.T) {
	g := notegrid.NewGrid()
	for _, n := range []notegrid.Note{
		{Column: -1, Length: 1},
		{Length: 0},
		{Length: 1, Velocity: 1.5},
		{Length: 1, Pan: -2},
		{Length: 1, Key: 12},
		{Length: 1, Octave: 4},
	} {
		if _, err := g.Insert(n); !notegrid.IsInvalid(err) {
			t.Errorf("insert of %+v returned %v, expected Invalid", n, err)
		}
	}
	if g.Len() != 0 {
		t.Fatalf("grid has %d notes after invalid inserts", g.Len())
	}
}

// removeMany inserts and removes enough notes to make the grid reuse the slot
// of the first one on the next insert.
func removeMany(t *testing.T, g *notegrid.Grid, first notegrid.NoteID) {
	t.Helper()
	if _, err := g.Remove(first); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	ids := make([]notegrid.NoteID, notegrid.MinFreeSlots)
	for i := range ids {
		id, err := g.Insert(notegrid.NewNote(i, 1))
		if err != nil {
			t.Fatalf("insert failed: %v", err)
		}
		ids[i] = id
	}
	for _, id := range ids {
		if _, err := g.Remove(id); err != nil {
			t.Fatalf("remove failed: %v", err)
		}
	}
}

func TestStaleIDAfterSlotReuse(t *testing.T) {
	g := notegrid.NewGrid()
	a, _ := g.Insert(notegrid.NewNote(0, 0))
	removeMany(t, g, a)
	b, err := g.Insert(notegrid.NewNote(12, 0))
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if a == b {
		t.Fatalf("reused slot got the same identity %v", a)
	}
	if g.Contains(a) {
		t.Fatalf("stale identity %v still resolves", a)
	}
	if !g.Contains(b) {
		t.Fatalf("new identity %v does not resolve", b)
	}
}

func TestRemovedSlotsAreNotReusedRightAway(t *testing.T) {
	g := notegrid.NewGrid()
	a, _ := g.Insert(notegrid.NewNote(0, 0))
	if _, err := g.Remove(a); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, err := g.Insert(notegrid.NewNote(0, 0)); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if _, err := g.Remove(mustFind(t, g, 0, 0)); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	restored, err := g.Restore(a, notegrid.NewNote(0, 0))
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if restored != a {
		t.Fatalf("restore gave identity %v, expected %v", restored, a)
	}
}

func mustFind(t *testing.T, g *notegrid.Grid, column, row int) notegrid.NoteID {
	t.Helper()
	id, ok := g.Find(column, row)
	if !ok {
		t.Fatalf("no note at (%d,%d)", column, row)
	}
	return id
}

func TestRelocate(t *testing.T) {
	g := notegrid.NewGrid()
	id, _ := g.Insert(notegrid.NewNote(0, 2))
	if err := g.Relocate(id, 4, 2); err != nil {
		t.Fatalf("relocate failed: %v", err)
	}
	if _, ok := g.Find(0, 2); ok {
		t.Fatal("old cell still occupied")
	}
	if got, ok := g.Find(4, 2); !ok || got != id {
		t.Fatalf("find(4,2) returned %v, %v, expected %v", got, ok, id)
	}
	if err := g.Relocate(id, 4, 2); err != nil {
		t.Fatalf("relocating onto own cell failed: %v", err)
	}
}

func TestRelocateOccupied(t *testing.T) {
	g := notegrid.NewGrid()
	if _, err := g.Insert(notegrid.NewNote(2, 1)); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	other, _ := g.Insert(notegrid.NewNote(5, 3))
	err := g.Relocate(other, 2, 1)
	if !notegrid.IsOccupied(err) {
		t.Fatalf("relocate returned %v, expected Occupied", err)
	}
	if n, _ := g.Get(other); n.Column != 5 || n.Row != 3 {
		t.Fatalf("failed relocate moved the note to (%d,%d)", n.Column, n.Row)
	}
}

func TestChangeSwap(t *testing.T) {
	g := notegrid.NewGrid()
	a, _ := g.Insert(notegrid.NewNote(0, 0))
	b, _ := g.Insert(notegrid.NewNote(0, 1))
	na, _ := g.Get(a)
	nb, _ := g.Get(b)
	na.Row, nb.Row = 1, 0
	if err := g.Change([]notegrid.NoteChange{{ID: a, Note: na}, {ID: b, Note: nb}}); err != nil {
		t.Fatalf("swapping rows failed: %v", err)
	}
	if got, _ := g.Find(0, 1); got != a {
		t.Fatalf("cell (0,1) holds %v, expected %v", got, a)
	}
	if got, _ := g.Find(0, 0); got != b {
		t.Fatalf("cell (0,0) holds %v, expected %v", got, b)
	}
}

func TestChangeIsAtomic(t *testing.T) {
	g := notegrid.NewGrid()
	a, _ := g.Insert(notegrid.NewNote(0, 0))
	b, _ := g.Insert(notegrid.NewNote(12, 0))
	if _, err := g.Insert(notegrid.NewNote(24, 0)); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	before := g.Snapshot()
	na, _ := g.Get(a)
	nb, _ := g.Get(b)
	na.Column, nb.Column = 6, 24 // b collides with the third note
	err := g.Change([]notegrid.NoteChange{{ID: a, Note: na}, {ID: b, Note: nb}})
	if !notegrid.IsOccupied(err) {
		t.Fatalf("change returned %v, expected Occupied", err)
	}
	if after := g.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Fatalf("failed change modified the grid, got: %v expected: %v", after, before)
	}
}

func TestQueryRangeOrder(t *testing.T) {
	g := notegrid.NewGrid()
	cells := [][2]int{{24, 0}, {0, 3}, {12, 1}, {0, 1}, {36, 2}, {12, 0}}
	ids := map[[2]int]notegrid.NoteID{}
	for _, c := range cells {
		id, err := g.Insert(notegrid.NewNote(c[0], c[1]))
		if err != nil {
			t.Fatalf("insert failed: %v", err)
		}
		ids[c] = id
	}
	got := g.QueryRange(0, 36)
	expected := []notegrid.NoteID{ids[[2]int{0, 1}], ids[[2]int{0, 3}], ids[[2]int{12, 0}], ids[[2]int{12, 1}], ids[[2]int{24, 0}]}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("QueryRange(0,36) got: %v expected: %v", got, expected)
	}
	if got := g.QueryRange(13, 24); len(got) != 0 {
		t.Fatalf("QueryRange(13,24) returned %v, expected nothing", got)
	}
	if got := g.QueryRange(36, 36); len(got) != 0 {
		t.Fatalf("empty range returned %v", got)
	}
}

func TestRestoreKeepsIdentity(t *testing.T) {
	g := notegrid.NewGrid()
	n := notegrid.NewNote(0, 0)
	id, _ := g.Insert(n)
	if _, err := g.Remove(id); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	restored, err := g.Restore(id, n)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if restored != id {
		t.Fatalf("restore gave identity %v, expected %v", restored, id)
	}
	// once the slot has been reused, the old identity must not come back
	removeMany(t, g, id)
	reused, _ := g.Insert(notegrid.NewNote(12, 0))
	again, err := g.Restore(id, n)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if again == id || again == reused {
		t.Fatalf("restore after reuse gave identity %v (old %v, reused %v)", again, id, reused)
	}
}

func TestRestoreRemoveCycles(t *testing.T) {
	g := notegrid.NewGrid()
	n := notegrid.NewNote(0, 0)
	id, _ := g.Insert(n)
	for i := 0; i < 3*notegrid.MinFreeSlots; i++ {
		if _, err := g.Remove(id); err != nil {
			t.Fatalf("remove %d failed: %v", i, err)
		}
		restored, err := g.Restore(id, n)
		if err != nil || restored != id {
			t.Fatalf("restore %d gave %v, %v, expected %v", i, restored, err, id)
		}
	}
	removeMany(t, g, id)
	b, err := g.Insert(notegrid.NewNote(12, 0))
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	c, err := g.Insert(notegrid.NewNote(24, 0))
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if b == c || !g.Contains(b) || !g.Contains(c) || g.Contains(id) {
		t.Fatalf("identities after reuse: %v %v, old %v still live: %v", b, c, id, g.Contains(id))
	}
	if g.Len() != 2 {
		t.Fatalf("grid has %d notes, expected 2", g.Len())
	}
}

func TestRestoredSlotLeavesFreeQueue(t *testing.T) {
	g := notegrid.NewGrid()
	n := notegrid.NewNote(0, 0)
	a, _ := g.Insert(n)
	removeMany(t, g, a)
	if restored, err := g.Restore(a, n); err != nil || restored != a {
		t.Fatalf("restore gave %v, %v, expected %v", restored, err, a)
	}
	for i := 0; i < 2*notegrid.MinFreeSlots; i++ {
		id, err := g.Insert(notegrid.NewNote(i, 2))
		if err != nil {
			t.Fatalf("insert failed: %v", err)
		}
		if !g.Contains(a) {
			t.Fatalf("slot of restored note %v was handed out again as %v", a, id)
		}
	}
	if got, ok := g.Get(a); !ok || got != n {
		t.Fatalf("restored note got %v, %v, expected %v", got, ok, n)
	}
}
