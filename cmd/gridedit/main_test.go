package main

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/vsariola/notegrid"
	"github.com/vsariola/notegrid/config"
)

func TestProcessListing(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := process(config.Default(), logger, "testdata/rock.yml", output{w: &out, list: true}); err != nil {
		t.Fatalf("process failed: %v", err)
	}
	for _, expected := range []string{
		"Rock Beat (192 ticks, 16 cells of 12)\n",
		"                |1   2   3   4   |\n",
		"Kick            |x...x...x...x...| 4\n",
		"Snare           |x.......x.......| 2\n",
		"Closed HH       |...X...X........| 2\n",
		"notes: 8, selected: 2, undo: Move Notes, redo: -\n",
	} {
		if !strings.Contains(out.String(), expected) {
			t.Errorf("listing does not contain %q:\n%s", expected, out.String())
		}
	}
}

func TestProcessMIDIDump(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := process(config.Default(), logger, "testdata/rock.yml", output{w: &out, dump: true}); err != nil {
		t.Fatalf("process failed: %v", err)
	}
	// pan, note on and note off for each of the 8 notes
	if lines := strings.Count(out.String(), "\n"); lines != 24 {
		t.Fatalf("dump has %d messages, expected 24:\n%s", lines, out.String())
	}
}

func TestProcessFailingStep(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := process(config.Default(), logger, "testdata/broken.yml", output{w: io.Discard, list: true})
	if !notegrid.IsInvalid(err) {
		t.Fatalf("process returned %v, expected Invalid", err)
	}
	if !strings.Contains(err.Error(), "step 2 (move-instrument)") {
		t.Fatalf("error %q does not name the failing step", err)
	}
}

func TestUnknownOp(t *testing.T) {
	r := runner{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	if err := r.run(step{Op: "explode"}); err == nil {
		t.Fatal("unknown op did not fail")
	}
}

func TestPaletteWithoutColorTerminal(t *testing.T) {
	var out bytes.Buffer
	if got := newPalette(&out).render([]byte("X.x-")); got != "X.x-" {
		t.Fatalf("rendering for a plain writer got: %q", got)
	}
	if got := palette(nil).render([]byte("X.x-")); got != "X.x-" {
		t.Fatalf("rendering without a palette got: %q", got)
	}
}
