package notegrid

import (
	"context"
	"sync"
	"time"
)

// tryReadInterval is how often TryRead polls a held gate.
const tryReadInterval = 100 * time.Microsecond

// Gate serializes access to a Pattern between the editing side and the
// playback engine. The pattern must not be touched outside of the functions
// passed to Exclusive, Read or TryRead, and references to its notes must not
// escape them.
type Gate struct {
	mu      sync.RWMutex
	pattern *Pattern
}

func NewGate(p *Pattern) *Gate {
	return &Gate{pattern: p}
}

// Exclusive runs fn with exclusive read/write access to the pattern. The gate
// is released on every exit path, including a panic inside fn. Keep fn short:
// the playback engine waits for it.
func (g *Gate) Exclusive(fn func(p *Pattern) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(g.pattern)
}

// Read runs fn with shared read access to the pattern. fn must not mutate it.
func (g *Gate) Read(fn func(p *Pattern)) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	fn(g.pattern)
}

// TryRead is Read for a caller with a deadline. It retries acquiring the gate
// until ctx is done and reports if fn was run. It never blocks past the
// deadline of ctx.
func (g *Gate) TryRead(ctx context.Context, fn func(p *Pattern)) bool {
	var timer *time.Timer
	for {
		if g.mu.TryRLock() {
			defer g.mu.RUnlock()
			fn(g.pattern)
			return true
		}
		if timer == nil {
			timer = time.NewTimer(tryReadInterval)
			defer timer.Stop()
		} else {
			timer.Reset(tryReadInterval)
		}
		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
		}
	}
}
