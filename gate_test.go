package notegrid_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vsariola/notegrid"
)

func TestGateReleasesOnPanic(t *testing.T) {
	g := notegrid.NewGate(notegrid.NewPattern("p", 0, notegrid.DefaultKit))
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("panic inside Exclusive was swallowed")
			}
		}()
		g.Exclusive(func(p *notegrid.Pattern) error { panic("boom") })
	}()
	ok := g.TryRead(context.Background(), func(p *notegrid.Pattern) {})
	if !ok {
		t.Fatal("gate still held after a panic")
	}
}

func TestGateReturnsError(t *testing.T) {
	g := notegrid.NewGate(notegrid.NewPattern("p", 0, notegrid.DefaultKit))
	expected := errors.New("fail")
	if err := g.Exclusive(func(p *notegrid.Pattern) error { return expected }); err != expected {
		t.Fatalf("Exclusive returned %v, expected %v", err, expected)
	}
	if err := g.Exclusive(func(p *notegrid.Pattern) error { return nil }); err != nil {
		t.Fatalf("gate still held after an error: %v", err)
	}
}

func TestTryReadDeadline(t *testing.T) {
	g := notegrid.NewGate(notegrid.NewPattern("p", 0, notegrid.DefaultKit))
	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		g.Exclusive(func(p *notegrid.Pattern) error {
			close(entered)
			<-release
			return nil
		})
		close(done)
	}()
	<-entered
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	start := time.Now()
	ran := g.TryRead(ctx, func(p *notegrid.Pattern) { t.Error("read ran while the gate was held") })
	if ran {
		t.Fatal("TryRead reported success while the gate was held")
	}
	if waited := time.Since(start); waited > time.Second {
		t.Fatalf("TryRead waited %v past a 5ms deadline", waited)
	}
	close(release)
	<-done
	if !g.TryRead(context.Background(), func(p *notegrid.Pattern) {}) {
		t.Fatal("TryRead failed on a free gate")
	}
}

// TestNoTornReads moves a note back and forth between two cells while readers
// check that it is always found in exactly one of them.
func TestNoTornReads(t *testing.T) {
	pattern := notegrid.NewPattern("p", 0, notegrid.DefaultKit)
	id, err := pattern.Notes.Insert(notegrid.NewNote(0, 0))
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	g := notegrid.NewGate(pattern)
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				g.Read(func(p *notegrid.Pattern) {
					_, a := p.Notes.Find(0, 0)
					_, b := p.Notes.Find(12, 0)
					if a == b || p.Notes.Len() != 1 {
						t.Errorf("torn read: at 0: %v, at 12: %v, len %d", a, b, p.Notes.Len())
					}
				})
			}
		}()
	}
	for i := 0; i < 1000; i++ {
		column := 12 * ((i + 1) % 2)
		err := g.Exclusive(func(p *notegrid.Pattern) error {
			return p.Notes.Relocate(id, column, 0)
		})
		if err != nil {
			t.Fatalf("relocate failed: %v", err)
		}
	}
	cancel()
	wg.Wait()
}
