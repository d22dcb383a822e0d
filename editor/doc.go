/*
Package editor contains the editing model of a notegrid pattern.

The GUI does not modify the pattern directly. It calls the entry points of an
Editor with grid cells it has already resolved (see notegrid.GridConfig), and
the Editor turns every logical edit into a Command: a sequence of primitive
operations with full value snapshots of the notes involved. The command is
built while holding only read access to the pattern; it is then applied
inside notegrid.Gate.Exclusive, so a playback engine reading the same pattern
never sees a half-done edit. Applied commands are recorded in the History,
from which editor.Undo() and editor.Redo() replay them backwards and forwards
through the same gate.

The selection holds note identities only. It is validated against the grid
whenever the grid changes, including undo and redo, so it never refers to a
removed note.

For buttons and key bindings, the Editor also offers Actions, e.g.
editor.UndoAction(), which advertise whether they are currently enabled.
*/
package editor
