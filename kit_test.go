package notegrid_test

import (
	"reflect"
	"testing"

	"github.com/vsariola/notegrid"
)

func TestKitMoveMatchesMovedRow(t *testing.T) {
	for src := 0; src < 5; src++ {
		for dst := 0; dst < 5; dst++ {
			kit := make(notegrid.Kit, 5)
			for i := range kit {
				kit[i] = notegrid.Instrument{Name: string(rune('a' + i))}
			}
			orig := kit.Copy()
			if !kit.Move(src, dst) {
				t.Fatalf("move %d->%d failed", src, dst)
			}
			for row := range orig {
				if got := kit[notegrid.MovedRow(row, src, dst)]; got != orig[row] {
					t.Fatalf("move %d->%d: lane of row %d ended up as %v, expected %v", src, dst, row, got, orig[row])
				}
			}
		}
	}
}

func TestKitInsertRemove(t *testing.T) {
	kit := notegrid.Kit{{Name: "a"}, {Name: "c"}}
	kit.Insert(1, notegrid.Instrument{Name: "b"})
	kit.Insert(100, notegrid.Instrument{Name: "d"})
	expected := notegrid.Kit{{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}}
	if !reflect.DeepEqual(kit, expected) {
		t.Fatalf("got: %v expected: %v", kit, expected)
	}
	if instr, ok := kit.Remove(0); !ok || instr.Name != "a" {
		t.Fatalf("remove returned %v, %v", instr, ok)
	}
	if _, ok := kit.Remove(3); ok {
		t.Fatal("remove of a missing lane succeeded")
	}
	if len(kit) != 3 {
		t.Fatalf("kit has %d lanes, expected 3", len(kit))
	}
}

func TestNoteClamp(t *testing.T) {
	n := notegrid.Note{Column: -3, Length: 0, Velocity: 2, Pan: -5, Key: 20, Octave: -9, Probability: -1}
	c := n.Clamp()
	if err := c.Validate(); err != nil {
		t.Fatalf("clamped note %+v is invalid: %v", c, err)
	}
	expected := notegrid.Note{Column: 0, Length: 1, Velocity: 1, Pan: -1, Key: notegrid.KeyMax, Octave: notegrid.OctaveMin}
	if c != expected {
		t.Fatalf("got: %+v expected: %+v", c, expected)
	}
}
