package notegrid

import (
	"fmt"
	"math"
)

const (
	MinZoom = 0.5
	MaxZoom = 64
)

// snapEpsilon absorbs floating point error when an input lies exactly on a
// grid line, so that ToGridCell(ToPosition(c, r)) == (c, r).
const snapEpsilon = 1e-9

type (
	// GridConfig parameterizes the mapping between input positions and grid
	// cells. Changing it never changes the notes, only how later input is
	// interpreted.
	GridConfig struct {
		Resolution int     `yaml:"resolution"` // grid subdivisions per beat
		Triplets   bool    `yaml:"triplets"`
		Zoom       float64 `yaml:"zoom"`      // pixels per tick
		RowHeight  float64 `yaml:"rowheight"` // pixels per row
	}

	// Position is an input position in the pattern's local pixel space.
	Position struct {
		X, Y float64
	}

	// Modifiers is the abstract modifier state of an input event.
	Modifiers struct {
		FineGrained bool // keep the sub-cell offset instead of snapping
		CopyNotMove bool // dragging copies the notes instead of moving them
	}
)

// DefaultGridConfig is sixteenth notes without triplets.
var DefaultGridConfig = GridConfig{Resolution: 4, Zoom: 3, RowHeight: 18}

// Validate checks that the cell width is a positive whole number of ticks and
// the scales are positive.
func (c GridConfig) Validate() error {
	if c.Resolution <= 0 {
		return Invalid(fmt.Sprintf("resolution %d must be positive", c.Resolution))
	}
	num, den := c.cellFraction()
	if num%den != 0 {
		return Invalid(fmt.Sprintf("resolution %d (triplets %v) does not divide %d ticks per beat", c.Resolution, c.Triplets, TicksPerBeat))
	}
	if c.Zoom <= 0 || math.IsNaN(c.Zoom) || math.IsInf(c.Zoom, 0) {
		return Invalid(fmt.Sprintf("zoom %v must be positive", c.Zoom))
	}
	if c.RowHeight <= 0 || math.IsNaN(c.RowHeight) || math.IsInf(c.RowHeight, 0) {
		return Invalid(fmt.Sprintf("row height %v must be positive", c.RowHeight))
	}
	return nil
}

// cellFraction returns the cell width in ticks as num/den. Triplet cells are
// 2/3 of a regular cell: three of them span two regular cells.
func (c GridConfig) cellFraction() (num, den int) {
	if c.Triplets {
		return 2 * TicksPerBeat, 3 * c.Resolution
	}
	return TicksPerBeat, c.Resolution
}

// CellTicks returns the width of one grid cell in ticks. The config must be
// valid.
func (c GridConfig) CellTicks() int {
	num, den := c.cellFraction()
	return num / den
}

// CellWidth returns the width of one grid cell in pixels.
func (c GridConfig) CellWidth() float64 {
	return c.Zoom * float64(c.CellTicks())
}

// Quantize floors a tick position to the grid line at or before it.
func (c GridConfig) Quantize(tick int) int {
	w := c.CellTicks()
	q := tick / w
	if tick < 0 && tick%w != 0 {
		q--
	}
	return q * w
}

// ToGridCell maps an input position to the cell under it. Columns are floored
// to the nearest lower grid line; with mods.FineGrained the unquantized tick
// offset from that line is kept in Cell.Offset. Positions left of or above
// the pattern map to column or row 0.
func (c GridConfig) ToGridCell(p Position, mods Modifiers) Cell {
	cellTicks := c.CellTicks()
	cells := math.Floor(p.X/c.CellWidth() + snapEpsilon)
	column := max(int(cells), 0) * cellTicks
	row := max(int(math.Floor(p.Y/c.RowHeight+snapEpsilon)), 0)
	ret := Cell{Column: column, Row: row}
	if mods.FineGrained {
		tick := max(int(math.Floor(p.X/c.Zoom+snapEpsilon)), 0)
		ret.Offset = tick - column
	}
	return ret
}

// ToPosition returns the top-left corner of the cell in pixels.
func (c GridConfig) ToPosition(column, row int) Position {
	return Position{X: float64(column) * c.Zoom, Y: float64(row) * c.RowHeight}
}

// ZoomIn returns the config with the zoom doubled, up to MaxZoom.
func (c GridConfig) ZoomIn() GridConfig {
	c.Zoom = min(c.Zoom*2, MaxZoom)
	return c
}

// ZoomOut returns the config with the zoom halved, down to MinZoom.
func (c GridConfig) ZoomOut() GridConfig {
	c.Zoom = max(c.Zoom/2, MinZoom)
	return c
}

// SetResolution returns the config with a new resolution and triplet mode,
// or an error if the combination does not fit the tick grid.
func (c GridConfig) SetResolution(resolution int, triplets bool) (GridConfig, error) {
	c.Resolution, c.Triplets = resolution, triplets
	if err := c.Validate(); err != nil {
		return GridConfig{}, err
	}
	return c, nil
}
