package editor

import "github.com/vsariola/notegrid"

type (
	// Action is an editing command bound to a key, a menu entry or a toolbar
	// button. Calling Do runs it unless it is disabled; a front end asks
	// Enabled to decide whether to offer it at all. Actions whose doer does
	// not implement Enabler are always on.
	Action struct {
		doer Doer
	}

	// Doer performs the work of an Action.
	Doer interface {
		Do()
	}

	// Enabler is implemented by doers that are only available in some
	// editor states, such as undo with an empty history.
	Enabler interface {
		Enabled() bool
	}
)

func MakeAction(doer Doer) Action {
	return Action{doer: doer}
}

func (a Action) Do() {
	if !a.Enabled() {
		return
	}
	a.doer.Do()
}

func (a Action) Enabled() bool {
	if a.doer == nil {
		return false
	}
	if e, ok := a.doer.(Enabler); ok {
		return e.Enabled()
	}
	return true
}

// Actions report their failures through the editor's logger, since Do has no
// way to return them.

// undo
type undoAction Editor

func (e *Editor) UndoAction() Action { return MakeAction((*undoAction)(e)) }
func (e *undoAction) Enabled() bool  { return e.history.CanUndo() }
func (e *undoAction) Do()            { (*Editor)(e).Undo() }

// redo
type redoAction Editor

func (e *Editor) RedoAction() Action { return MakeAction((*redoAction)(e)) }
func (e *redoAction) Enabled() bool  { return e.history.CanRedo() }
func (e *redoAction) Do()            { (*Editor)(e).Redo() }

// selectAll
type selectAllAction Editor

func (e *Editor) SelectAllAction() Action { return MakeAction((*selectAllAction)(e)) }
func (e *selectAllAction) Do()            { (*Editor)(e).SelectAll() }

// deleteSelection
type deleteSelectionAction Editor

func (e *Editor) DeleteSelectionAction() Action { return MakeAction((*deleteSelectionAction)(e)) }
func (e *deleteSelectionAction) Enabled() bool  { return e.selection.Len() > 0 }
func (e *deleteSelectionAction) Do() {
	if err := (*Editor)(e).DeleteSelection(); err != nil {
		e.logger.Warn("delete selection failed", "error", err)
	}
}

// toggleNote
type toggleNoteAction Editor

// ToggleNoteAction adds or deletes a note at the keyboard cursor.
func (e *Editor) ToggleNoteAction() Action { return MakeAction((*toggleNoteAction)(e)) }
func (e *toggleNoteAction) Do() {
	if _, err := (*Editor)(e).ToggleNote(e.cursor, e.grid.CellTicks()); err != nil {
		e.logger.Warn("toggle note failed", "cell", e.cursor, "error", err)
	}
}

// clearPattern
type clearPatternAction Editor

func (e *Editor) ClearPatternAction() Action { return MakeAction((*clearPatternAction)(e)) }
func (e *clearPatternAction) Do() {
	if err := (*Editor)(e).ClearPattern(); err != nil {
		e.logger.Warn("clear pattern failed", "error", err)
	}
}

// zoomIn
type zoomInAction Editor

func (e *Editor) ZoomInAction() Action { return MakeAction((*zoomInAction)(e)) }
func (e *zoomInAction) Enabled() bool  { return e.grid.Zoom < notegrid.MaxZoom }
func (e *zoomInAction) Do()            { (*Editor)(e).ZoomIn() }

// zoomOut
type zoomOutAction Editor

func (e *Editor) ZoomOutAction() Action { return MakeAction((*zoomOutAction)(e)) }
func (e *zoomOutAction) Enabled() bool  { return e.grid.Zoom > notegrid.MinZoom }
func (e *zoomOutAction) Do()            { (*Editor)(e).ZoomOut() }
