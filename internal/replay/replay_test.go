package replay

import (
	"bytes"
	"errors"
	"io"
	"log"
	"path/filepath"
	"testing"

	"go-lane-defense/internal/defs"
	"go-lane-defense/internal/session"
	"go-lane-defense/pkg/gridmap"
)

var quiet = log.New(io.Discard, "", 0)

// script returns the actions to queue on a given tick.
func script(s *session.Session, tick uint64) []session.Action {
	switch tick {
	case 1:
		var row []gridmap.Cell
		for y := 1; y < s.Grid.Height-1 && len(row) < 2; y++ {
			row = row[:0]
			for x := 1; x < s.Grid.Width-1 && len(row) < 2; x++ {
				c := gridmap.Cell{X: x, Y: y}
				if s.Grid.Buildable(c) {
					row = append(row, c)
				} else {
					row = row[:0]
				}
			}
		}
		return []session.Action{
			{Kind: session.ActionPlace, Archetype: defs.Generator, Cell: row[0]},
			{Kind: session.ActionPlace, Archetype: defs.Blaster, Cell: row[1]},
		}
	case 10:
		return []session.Action{{Kind: session.ActionSpeed, Speed: 4}}
	case 20:
		return []session.Action{{Kind: session.ActionSendEarly}}
	}
	return nil
}

func record(t *testing.T, rec *Recorder, s *session.Session, ticks int) []Frame {
	t.Helper()
	var frames []Frame
	for i := 0; i < ticks; i++ {
		actions := script(s, s.TickCount()+1)
		if _, _, err := rec.Tick(s, 1.0/60, actions); err != nil {
			t.Fatalf("record tick %d: %v", i, err)
		}
		frames = append(frames, Frame{Tick: s.TickCount(), DeltaTime: 1.0 / 60, Actions: actions, Digest: s.Digest()})
	}
	return frames
}

func TestRecordAndVerify(t *testing.T) {
	opts := session.Options{Seed: 7, Logger: quiet}
	s, err := session.New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	path := filepath.Join(t.TempDir(), "runs", "run.jsonl.zst")
	rec, err := Create(path, NewHeader(opts))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	record(t, rec, s, 600)
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	res, err := VerifyFile(path, quiet)
	if err != nil {
		t.Fatalf("VerifyFile: %v", err)
	}
	if res.Ticks != 600 || res.Digest != s.Digest() {
		t.Fatalf("verified %d ticks, digest match %v", res.Ticks, res.Digest == s.Digest())
	}
	if res.Header.Seed != 7 || res.Header.RunID == "" {
		t.Fatalf("header %+v", res.Header)
	}
	if s.Speed() != 4 {
		t.Fatalf("speed action not applied: %v", s.Speed())
	}
}

func TestVerifyReportsFirstDivergingTick(t *testing.T) {
	opts := session.Options{Seed: 3, Logger: quiet}
	s, err := session.New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var scratch bytes.Buffer
	rec, err := NewRecorder(&scratch, NewHeader(opts))
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	frames := record(t, rec, s, 120)
	_ = rec.Close()

	frames[79].Digest = "tampered"
	var buf bytes.Buffer
	out, err := NewRecorder(&buf, rec.Header)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	for _, f := range frames {
		if err := out.Record(f); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	_, err = Verify(&buf, quiet)
	var div *Divergence
	if !errors.As(err, &div) {
		t.Fatalf("expected divergence, got %v", err)
	}
	if div.Tick != 80 || div.Want != "tampered" {
		t.Fatalf("divergence %+v", div)
	}
}

func TestReaderRejectsForeignFormat(t *testing.T) {
	var buf bytes.Buffer
	rec, err := NewRecorder(&buf, Header{Format: "other/1"})
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	_ = rec.Close()
	if _, err := NewReader(&buf); err == nil {
		t.Fatalf("foreign format accepted")
	}
}

func TestRecordAfterCloseFails(t *testing.T) {
	var buf bytes.Buffer
	rec, err := NewRecorder(&buf, Header{Format: Format})
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := rec.Record(Frame{Tick: 1}); err == nil {
		t.Fatalf("record after close accepted")
	}
}
