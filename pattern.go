package notegrid

// DefaultPatternLength is one 4/4 measure.
const DefaultPatternLength = 4 * TicksPerBeat

// Pattern is the musical data shared between the editor and the playback
// engine: the notes and the lanes they are played on. Access it only through
// a Gate.
type Pattern struct {
	Name   string
	Length int // in ticks
	Notes  *Grid
	Kit    Kit
}

// NewPattern returns an empty pattern of the given length. A non-positive
// length means DefaultPatternLength.
func NewPattern(name string, length int, kit Kit) *Pattern {
	if length <= 0 {
		length = DefaultPatternLength
	}
	return &Pattern{Name: name, Length: length, Notes: NewGrid(), Kit: kit.Copy()}
}

// Rows returns the number of lanes in the pattern.
func (p *Pattern) Rows() int { return len(p.Kit) }

// InBounds reports if the note starts inside the pattern and sits on one of
// its lanes. A note may extend past the end of the pattern.
func (p *Pattern) InBounds(n Note) bool {
	return n.Column >= 0 && n.Column < p.Length && n.Row >= 0 && n.Row < len(p.Kit)
}
