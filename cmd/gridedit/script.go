package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/vsariola/notegrid"
	"github.com/vsariola/notegrid/editor"
)

type (
	// script is an edit script: a list of steps applied to an empty pattern.
	// Notes are addressed by the cell they start at.
	script struct {
		Name   string `yaml:"name"`
		Length int    `yaml:"length"` // ticks; the config decides if 0
		Steps  []step `yaml:"steps"`
	}

	step struct {
		Op      string `yaml:"op"`
		MayFail bool   `yaml:"mayfail"` // log the error and carry on

		Note       notegrid.Note       `yaml:"note"`
		Column     int                 `yaml:"column"`
		Row        int                 `yaml:"row"`
		ToColumn   int                 `yaml:"tocolumn"`
		ToRow      int                 `yaml:"torow"`
		Length     int                 `yaml:"length"`
		Every      int                 `yaml:"every"`
		Value      float64             `yaml:"value"`
		Key        int                 `yaml:"key"`
		Octave     int                 `yaml:"octave"`
		Copy       bool                `yaml:"copy"`
		Fine       bool                `yaml:"fine"`
		Resolution int                 `yaml:"resolution"`
		Triplets   bool                `yaml:"triplets"`
		Instrument notegrid.Instrument `yaml:"instrument"`
	}

	runner struct {
		editor    *editor.Editor
		logger    *slog.Logger
		clipboard editor.NoteList
	}
)

func (r *runner) run(s step) error {
	e := r.editor
	r.logger.Debug("step", "op", s.Op)
	switch s.Op {
	case "add":
		_, err := e.AddNote(s.Note.Clamp())
		return err
	case "toggle":
		length := s.Length
		if length == 0 {
			length = e.GridConfig().CellTicks()
		}
		_, err := e.ToggleNote(notegrid.Cell{Column: s.Column, Row: s.Row}, length)
		return err
	case "delete":
		id, err := r.find(s.Column, s.Row)
		if err != nil {
			return err
		}
		return e.DeleteNote(id)
	case "select":
		e.SelectRect(notegrid.RectFromCorners(
			notegrid.Cell{Column: s.Column, Row: s.Row},
			notegrid.Cell{Column: s.ToColumn, Row: s.ToRow}), s.Copy)
	case "select-all":
		e.SelectAll()
	case "select-none":
		e.SelectNone()
	case "select-row":
		e.SelectRow(s.Row)
	case "move":
		mods := notegrid.Modifiers{CopyNotMove: s.Copy, FineGrained: s.Fine}
		return e.MoveSelection(
			notegrid.Cell{Column: s.Column, Row: s.Row},
			notegrid.Cell{Column: s.ToColumn, Row: s.ToRow}, mods)
	case "resize":
		id, err := r.find(s.Column, s.Row)
		if err != nil {
			return err
		}
		return e.ResizeNote(id, s.Length)
	case "velocity":
		return e.SetVelocity(e.Selected(), s.Value)
	case "pan":
		return e.SetPan(e.Selected(), s.Value)
	case "leadlag":
		return e.SetLeadLag(e.Selected(), s.Value)
	case "probability":
		return e.SetProbability(e.Selected(), s.Value)
	case "pitch":
		return e.SetKey(e.Selected(), s.Key, s.Octave)
	case "noteoff":
		return e.SetNoteOff(e.Selected(), s.Value != 0)
	case "delete-selection":
		return e.DeleteSelection()
	case "copy":
		r.clipboard = e.Copy()
	case "cut":
		list, err := e.Cut()
		if err != nil {
			return err
		}
		r.clipboard = list
	case "paste":
		_, err := e.Paste(r.clipboard, s.Column)
		return err
	case "clear":
		return e.ClearNotes(s.Row)
	case "clear-all":
		return e.ClearPattern()
	case "fill":
		return e.FillNotes(s.Row, max(s.Every, 1))
	case "randomize-velocity":
		return e.RandomizeVelocity(nil)
	case "move-instrument":
		return e.MoveInstrument(s.Row, s.ToRow)
	case "add-instrument":
		return e.AddInstrument(s.Instrument)
	case "drop-instrument":
		return e.DropInstrument(s.Instrument, s.Row)
	case "delete-instrument":
		return e.DeleteInstrument(s.Row)
	case "resolution":
		return e.SetResolution(s.Resolution, s.Triplets)
	case "zoom-in":
		e.ZoomIn()
	case "zoom-out":
		e.ZoomOut()
	case "undo":
		if ok, err := e.Undo(); err != nil || !ok {
			return emptyOr(err, "nothing to undo")
		}
	case "redo":
		if ok, err := e.Redo(); err != nil || !ok {
			return emptyOr(err, "nothing to redo")
		}
	default:
		return fmt.Errorf("unknown op %q", s.Op)
	}
	return nil
}

func (r *runner) find(column, row int) (notegrid.NoteID, error) {
	id, ok := r.editor.Find(column, row)
	if !ok {
		return notegrid.NoteID{}, notegrid.NotFound(fmt.Sprintf("no note at (%d,%d)", column, row))
	}
	return id, nil
}

func emptyOr(err error, msg string) error {
	if err != nil {
		return err
	}
	return errors.New(msg)
}
