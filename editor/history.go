package editor

import (
	"github.com/vsariola/notegrid"
)

// DefaultHistoryCapacity is the number of undo steps kept when no capacity is
// configured.
const DefaultHistoryCapacity = 256

// History is a linear undo/redo log of Commands. Recording a command after an
// undo discards the undone commands. When the log is full, the oldest command
// is forgotten.
type History struct {
	done     []*Command // applied, most recent last
	undone   []*Command // inverted, next to redo last
	capacity int
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{capacity: capacity}
}

// Record appends an applied command to the log.
func (h *History) Record(c *Command) {
	clear(h.undone)
	h.undone = h.undone[:0]
	h.done = append(h.done, c)
	if len(h.done) > h.capacity {
		n := copy(h.done, h.done[len(h.done)-h.capacity:])
		clear(h.done[n:])
		h.done = h.done[:n]
	}
}

// Clear forgets every command.
func (h *History) Clear() {
	clear(h.done)
	clear(h.undone)
	h.done, h.undone = h.done[:0], h.undone[:0]
}

func (h *History) Len() int      { return len(h.done) + len(h.undone) }
func (h *History) Capacity() int { return h.capacity }
func (h *History) CanUndo() bool { return len(h.done) > 0 }
func (h *History) CanRedo() bool { return len(h.undone) > 0 }

// UndoKind returns the kind of the command Undo would invert.
func (h *History) UndoKind() (Kind, bool) {
	if len(h.done) == 0 {
		return "", false
	}
	return h.done[len(h.done)-1].Kind, true
}

// RedoKind returns the kind of the command Redo would apply.
func (h *History) RedoKind() (Kind, bool) {
	if len(h.undone) == 0 {
		return "", false
	}
	return h.undone[len(h.undone)-1].Kind, true
}

// Undo inverts the most recent command inside the gate, then calls after with
// the pattern and the result while still holding the gate. after is called
// on failure too. It returns false if there was
// nothing to undo. A failing inverse means the log does not match the
// pattern anymore: the error is a CorruptHistory error and the log is cleared.
func (h *History) Undo(g *notegrid.Gate, after func(p *notegrid.Pattern, err error)) (bool, error) {
	if len(h.done) == 0 {
		return false, nil
	}
	c := h.done[len(h.done)-1]
	if err := h.replay(g, c, false, after); err != nil {
		return false, err
	}
	h.done = h.done[:len(h.done)-1]
	h.undone = append(h.undone, c)
	return true, nil
}

// Redo applies the most recently undone command again. See Undo.
func (h *History) Redo(g *notegrid.Gate, after func(p *notegrid.Pattern, err error)) (bool, error) {
	if len(h.undone) == 0 {
		return false, nil
	}
	c := h.undone[len(h.undone)-1]
	if err := h.replay(g, c, true, after); err != nil {
		return false, err
	}
	h.undone = h.undone[:len(h.undone)-1]
	h.done = append(h.done, c)
	return true, nil
}

func (h *History) replay(g *notegrid.Gate, c *Command, forward bool, after func(p *notegrid.Pattern, err error)) error {
	err := g.Exclusive(func(p *notegrid.Pattern) error {
		err := c.apply(p, forward)
		if after != nil {
			after(p, err)
		}
		return err
	})
	if err == nil {
		return nil
	}
	h.Clear()
	if notegrid.IsCorrupt(err) {
		return err
	}
	verb := "undo"
	if forward {
		verb = "redo"
	}
	return notegrid.Corrupt(err, verb+" of "+string(c.Kind)+" failed")
}
