package notegrid

type (
	// Instrument describes one lane of the pattern. The sound itself is not
	// handled here; Drumkit and Name only identify where the instrument came
	// from so that a deleted lane can be restored with the same association.
	Instrument struct {
		Name    string `yaml:"name"`
		Drumkit string `yaml:"drumkit,omitempty"`
		Key     uint8  `yaml:"key"`               // MIDI key triggered by the lane
		Channel uint8  `yaml:"channel,omitempty"` // MIDI channel, 0-based
		Muted   bool   `yaml:"muted,omitempty"`
	}

	// Kit is the ordered list of lanes; row i of the grid plays Kit[i].
	Kit []Instrument
)

// Get returns the instrument of the given row, or false if the row is out of
// range.
func (k Kit) Get(row int) (Instrument, bool) {
	if row < 0 || row >= len(k) {
		return Instrument{}, false
	}
	return k[row], true
}

// Copy makes a copy of the kit.
func (k Kit) Copy() Kit {
	ret := make(Kit, len(k))
	copy(ret, k)
	return ret
}

// Insert inserts the instrument at index, shifting later lanes down.
func (k *Kit) Insert(index int, instr Instrument) {
	index = clamp(index, 0, len(*k))
	*k = append(*k, Instrument{})
	copy((*k)[index+1:], (*k)[index:])
	(*k)[index] = instr
}

// Remove removes the lane at index and returns it.
func (k *Kit) Remove(index int) (Instrument, bool) {
	if index < 0 || index >= len(*k) {
		return Instrument{}, false
	}
	ret := (*k)[index]
	*k = append((*k)[:index], (*k)[index+1:]...)
	return ret, true
}

// Move moves the lane from src to dst; the lanes in between shift by one.
func (k Kit) Move(src, dst int) bool {
	if src < 0 || src >= len(k) || dst < 0 || dst >= len(k) {
		return false
	}
	instr := k[src]
	if src < dst {
		copy(k[src:dst], k[src+1:dst+1])
	} else {
		copy(k[dst+1:src+1], k[dst:src])
	}
	k[dst] = instr
	return true
}

// MovedRow returns where a note on row ends up when the lane src is moved to
// dst.
func MovedRow(row, src, dst int) int {
	switch {
	case row == src:
		return dst
	case src < dst && row > src && row <= dst:
		return row - 1
	case dst < src && row >= dst && row < src:
		return row + 1
	}
	return row
}

// GM drum map keys used by DefaultKit.
var DefaultKit = Kit{
	{Name: "Kick", Drumkit: "GMRockKit", Key: 36, Channel: 9},
	{Name: "Stick", Drumkit: "GMRockKit", Key: 37, Channel: 9},
	{Name: "Snare", Drumkit: "GMRockKit", Key: 38, Channel: 9},
	{Name: "Hand Clap", Drumkit: "GMRockKit", Key: 39, Channel: 9},
	{Name: "Tom Low", Drumkit: "GMRockKit", Key: 41, Channel: 9},
	{Name: "Closed HH", Drumkit: "GMRockKit", Key: 42, Channel: 9},
	{Name: "Tom Mid", Drumkit: "GMRockKit", Key: 45, Channel: 9},
	{Name: "Open HH", Drumkit: "GMRockKit", Key: 46, Channel: 9},
	{Name: "Tom Hi", Drumkit: "GMRockKit", Key: 48, Channel: 9},
	{Name: "Crash", Drumkit: "GMRockKit", Key: 49, Channel: 9},
	{Name: "Ride", Drumkit: "GMRockKit", Key: 51, Channel: 9},
	{Name: "Cowbell", Drumkit: "GMRockKit", Key: 56, Channel: 9},
}
