// Package player is a playback consumer of a notegrid pattern: on a fixed
// tick schedule it reads the notes of the current window through the gate
// and turns them into MIDI messages.
package player

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/vsariola/notegrid"
	"gitlab.com/gomidi/midi/v2"
)

const (
	DefaultBPM          = 120
	DefaultTickDeadline = 2 * time.Millisecond
	// panController is the MIDI controller number of pan.
	panController = 10
)

type (
	// Sink receives the messages of every tick, in order. midi.SendTo returns
	// a function of this type for an output port.
	Sink func(msg midi.Message) error

	// Player plays a pattern in a loop. The pattern is only read inside
	// Gate.TryRead; when the gate cannot be acquired before the tick
	// deadline, the tick is skipped rather than delaying the output.
	Player struct {
		gate     *notegrid.Gate
		sink     Sink
		bpm      float64
		step     int // pattern ticks advanced per timer tick
		deadline time.Duration
		logger   *slog.Logger
		rand     *rand.Rand

		position int   // next pattern tick to play
		elapsed  int64 // ticks played since start
		pending  []release
		skipped  atomic.Int64
		skipRun  int
	}

	// Option configures a Player.
	Option func(*Player)

	release struct {
		at           int64
		channel, key uint8
	}

	event struct {
		at    int
		note  notegrid.Note
		instr notegrid.Instrument
	}
)

var ErrNoSink = errors.New("player has no sink")

func WithBPM(bpm float64) Option {
	return func(p *Player) { p.bpm = bpm }
}

// WithStep sets how many pattern ticks one timer tick advances. Larger steps
// mean fewer, larger windows.
func WithStep(ticks int) Option {
	return func(p *Player) { p.step = ticks }
}

// WithTickDeadline bounds how long a tick waits for the gate.
func WithTickDeadline(d time.Duration) Option {
	return func(p *Player) { p.deadline = d }
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Player) { p.logger = logger }
}

// WithRand sets the random source deciding whether notes with a probability
// below 1 are played.
func WithRand(r *rand.Rand) Option {
	return func(p *Player) { p.rand = r }
}

func New(gate *notegrid.Gate, sink Sink, opts ...Option) *Player {
	p := &Player{
		gate:     gate,
		sink:     sink,
		bpm:      DefaultBPM,
		step:     1,
		deadline: DefaultTickDeadline,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bpm <= 0 {
		p.bpm = DefaultBPM
	}
	p.step = max(p.step, 1)
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.rand == nil {
		p.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return p
}

// Interval returns the wall clock duration of one timer tick.
func (p *Player) Interval() time.Duration {
	perTick := float64(time.Minute) / (p.bpm * notegrid.TicksPerBeat)
	return time.Duration(perTick * float64(p.step))
}

// Position returns the pattern tick the next Step starts at.
func (p *Player) Position() int { return p.position }

// Skipped returns how many ticks were skipped because the gate was held for
// too long. It is safe to call from any goroutine.
func (p *Player) Skipped() int64 { return p.skipped.Load() }

// Run plays until ctx is done, then releases every sounding note.
func (p *Player) Run(ctx context.Context) error {
	if p.sink == nil {
		return ErrNoSink
	}
	ticker := time.NewTicker(p.Interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.releaseAll()
			return ctx.Err()
		case <-ticker.C:
			if _, err := p.Step(ctx); err != nil {
				p.releaseAll()
				return err
			}
		}
	}
}

// Step plays one window of the pattern. It returns false if the window was
// skipped because the gate could not be read in time; the position still
// advances so that playback stays in time.
func (p *Player) Step(ctx context.Context) (bool, error) {
	if p.sink == nil {
		return false, ErrNoSink
	}
	ctx, cancel := context.WithTimeout(ctx, p.deadline)
	defer cancel()
	var events []event
	length := 0
	ok := p.gate.TryRead(ctx, func(pat *notegrid.Pattern) {
		length = pat.Length
		events = p.collect(pat)
	})
	end := p.elapsed + int64(p.step)
	if err := p.releaseDue(end); err != nil {
		return ok, err
	}
	if !ok {
		n := p.skipped.Add(1)
		p.skipRun++
		if p.skipRun == 1 {
			p.logger.Warn("skipped tick, pattern is being edited", "position", p.position, "skipped", n)
		}
		p.advance(0)
		return false, nil
	}
	if p.skipRun > 0 {
		p.logger.Info("playback caught up", "skipped", p.skipRun)
		p.skipRun = 0
	}
	for _, e := range events {
		if err := p.play(e); err != nil {
			return true, err
		}
	}
	p.advance(length)
	return true, nil
}

// collect returns the playable notes starting within the current window,
// wrapping around the end of the pattern.
func (p *Player) collect(pat *notegrid.Pattern) []event {
	if pat.Length <= 0 {
		return nil
	}
	var ret []event
	from := p.position % pat.Length
	remaining := p.step
	offset := 0
	for remaining > 0 {
		to := min(from+remaining, pat.Length)
		for _, id := range pat.Notes.QueryRange(from, to) {
			n, _ := pat.Notes.Get(id)
			instr, ok := pat.Kit.Get(n.Row)
			if !ok || instr.Muted {
				continue
			}
			ret = append(ret, event{at: offset + n.Column - from, note: n, instr: instr})
		}
		remaining -= to - from
		offset += to - from
		from = 0
	}
	return ret
}

func (p *Player) play(e event) error {
	key := uint8(clamp(int(e.instr.Key)+e.note.Pitch(), 0, 127))
	ch := e.instr.Channel & 0x0f
	if e.note.NoteOff {
		p.dropRelease(ch, key)
		return p.sink(midi.NoteOff(ch, key))
	}
	if e.note.Velocity <= 0 {
		return nil
	}
	if e.note.Probability < 1 && p.rand.Float64() >= e.note.Probability {
		return nil
	}
	velocity := uint8(clamp(int(math.Round(e.note.Velocity*127)), 1, 127))
	if err := p.sink(midi.ControlChange(ch, panController, panValue(e.note.Pan))); err != nil {
		return err
	}
	if err := p.sink(midi.NoteOn(ch, key, velocity)); err != nil {
		return err
	}
	p.dropRelease(ch, key)
	p.pending = append(p.pending, release{
		at:      p.elapsed + int64(e.at) + int64(e.note.Length),
		channel: ch,
		key:     key,
	})
	return nil
}

// releaseDue sends the note offs of notes ending before tick end.
func (p *Player) releaseDue(end int64) error {
	kept := p.pending[:0]
	var err error
	for _, r := range p.pending {
		if r.at < end && err == nil {
			err = p.sink(midi.NoteOff(r.channel, r.key))
			continue
		}
		kept = append(kept, r)
	}
	p.pending = kept
	return err
}

func (p *Player) releaseAll() {
	for _, r := range p.pending {
		if err := p.sink(midi.NoteOff(r.channel, r.key)); err != nil {
			p.logger.Warn("could not release note", "channel", r.channel, "key", r.key, "error", err)
		}
	}
	p.pending = p.pending[:0]
}

// dropRelease forgets a scheduled note off; the note was retriggered or
// explicitly released.
func (p *Player) dropRelease(ch, key uint8) {
	kept := p.pending[:0]
	for _, r := range p.pending {
		if r.channel != ch || r.key != key {
			kept = append(kept, r)
		}
	}
	p.pending = kept
}

func (p *Player) advance(length int) {
	p.elapsed += int64(p.step)
	p.position += p.step
	if length > 0 {
		p.position %= length
	}
}

func panValue(pan float64) uint8 {
	return uint8(clamp(int(math.Round(64+pan*63)), 0, 127))
}

func clamp(v, lo, hi int) int {
	return max(min(v, hi), lo)
}
