package notegrid

import "fmt"

// TicksPerBeat is the time resolution of the grid. Note columns and lengths
// are expressed in ticks; the quantization grid is a GridConfig concern.
const TicksPerBeat = 48

const (
	KeyMin    = 0
	KeyMax    = 11
	OctaveMin = -3
	OctaveMax = 3
)

type (
	// Note is an event placed in a pattern. Column and Length are in ticks,
	// Row is the instrument lane. The zero value is not a valid note: Length
	// must be at least 1.
	Note struct {
		Column      int     `yaml:"column"`
		Row         int     `yaml:"row"`
		Length      int     `yaml:"length"`
		Velocity    float64 `yaml:"velocity"`              // 0..1
		Pan         float64 `yaml:"pan,omitempty"`         // -1 (left) .. 1 (right)
		LeadLag     float64 `yaml:"leadlag,omitempty"`     // -1 (lead) .. 1 (lag)
		Probability float64 `yaml:"probability,omitempty"` // 0..1
		Key         int     `yaml:"key,omitempty"`
		Octave      int     `yaml:"octave,omitempty"`
		NoteOff     bool    `yaml:"noteoff,omitempty"`
	}

	// Cell is a discrete address on the grid. Offset is only non-zero for
	// cells resolved in fine-grained mode: it is the unquantized distance, in
	// ticks, from Column to the actual input position.
	Cell struct {
		Column int
		Row    int
		Offset int
	}
)

// NewNote returns a note at the given cell with default properties: length of
// one tick, full probability, centered pan and velocity 0.8.
func NewNote(column, row int) Note {
	return Note{Column: column, Row: row, Length: 1, Velocity: 0.8, Probability: 1}
}

// Cell returns the grid cell the note starts at.
func (n Note) Cell() Cell {
	return Cell{Column: n.Column, Row: n.Row}
}

// End returns the first column after the note.
func (n Note) End() int {
	return n.Column + n.Length
}

// Validate checks that all fields are within their ranges.
func (n Note) Validate() error {
	switch {
	case n.Column < 0 || n.Row < 0:
		return Invalid(fmt.Sprintf("note position (%d,%d) is negative", n.Column, n.Row))
	case n.Length < 1:
		return Invalid(fmt.Sprintf("note length %d is less than 1", n.Length))
	case n.Velocity < 0 || n.Velocity > 1:
		return Invalid(fmt.Sprintf("note velocity %v out of range [0,1]", n.Velocity))
	case n.Pan < -1 || n.Pan > 1:
		return Invalid(fmt.Sprintf("note pan %v out of range [-1,1]", n.Pan))
	case n.LeadLag < -1 || n.LeadLag > 1:
		return Invalid(fmt.Sprintf("note lead/lag %v out of range [-1,1]", n.LeadLag))
	case n.Probability < 0 || n.Probability > 1:
		return Invalid(fmt.Sprintf("note probability %v out of range [0,1]", n.Probability))
	case n.Key < KeyMin || n.Key > KeyMax:
		return Invalid(fmt.Sprintf("note key %d out of range [%d,%d]", n.Key, KeyMin, KeyMax))
	case n.Octave < OctaveMin || n.Octave > OctaveMax:
		return Invalid(fmt.Sprintf("note octave %d out of range [%d,%d]", n.Octave, OctaveMin, OctaveMax))
	}
	return nil
}

// Pitch returns the semitone offset of the note relative to the instrument's
// base key.
func (n Note) Pitch() int {
	return n.Octave*12 + n.Key
}

func (n Note) String() string {
	return fmt.Sprintf("note(%d,%d len=%d vel=%.2f)", n.Column, n.Row, n.Length, n.Velocity)
}

func clamp[T int | float64](v, lo, hi T) T {
	return max(min(v, hi), lo)
}

// Clamp returns a copy of the note with every property forced into its
// valid range.
func (n Note) Clamp() Note {
	n.Column = max(n.Column, 0)
	n.Row = max(n.Row, 0)
	n.Length = max(n.Length, 1)
	n.Velocity = clamp(n.Velocity, 0, 1)
	n.Pan = clamp(n.Pan, -1, 1)
	n.LeadLag = clamp(n.LeadLag, -1, 1)
	n.Probability = clamp(n.Probability, 0, 1)
	n.Key = clamp(n.Key, KeyMin, KeyMax)
	n.Octave = clamp(n.Octave, OctaveMin, OctaveMax)
	return n
}
