// Package replay records a session's inputs as zstd-compressed JSON lines and
// re-runs them to check that the simulation is reproducible.
package replay

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"go-lane-defense/internal/defs"
	"go-lane-defense/internal/event"
	"go-lane-defense/internal/session"
)

// Format tags the first line of every log.
const Format = "lane-defense-replay/1"

// Header is the first line of a log: everything session.New needs.
type Header struct {
	Format    string      `json:"format"`
	RunID     string      `json:"run_id"`
	Seed      int64       `json:"seed"`
	LaneCount int         `json:"lane_count,omitempty"`
	Tuning    defs.Tuning `json:"tuning"`
}

// NewHeader builds a header with a fresh run ID.
func NewHeader(opts session.Options) Header {
	return Header{
		Format:    Format,
		RunID:     uuid.NewString(),
		Seed:      opts.Seed,
		LaneCount: opts.LaneCount,
		Tuning:    opts.Tuning,
	}
}

// Options returns the session options the header was recorded with.
func (h Header) Options() session.Options {
	return session.Options{Seed: h.Seed, LaneCount: h.LaneCount, Tuning: h.Tuning}
}

// Frame is one recorded tick.
type Frame struct {
	Tick      uint64           `json:"tick"`
	DeltaTime float64          `json:"dt"`
	Actions   []session.Action `json:"actions,omitempty"`
	Digest    string           `json:"digest"`
}

// Recorder appends frames to a compressed log.
type Recorder struct {
	Header Header

	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// Create opens path (creating parent directories) and writes the header.
func Create(path string, h Header) (*Recorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	r, err := NewRecorder(f, h)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.f = f
	return r, nil
}

// NewRecorder writes the header to out. Closing the recorder does not close out.
func NewRecorder(out io.Writer, h Header) (*Recorder, error) {
	enc, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}
	r := &Recorder{Header: h, enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}
	if err := r.writeLine(h); err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	return r, nil
}

func (r *Recorder) writeLine(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := r.w.Write(b); err != nil {
		return err
	}
	return r.w.WriteByte('\n')
}

// Record appends one frame.
func (r *Recorder) Record(f Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.enc == nil {
		return errors.New("recorder closed")
	}
	return r.writeLine(f)
}

// Tick advances s and records the frame that reproduces the step.
func (r *Recorder) Tick(s *session.Session, deltaTime float64, actions []session.Action) (*event.TickEvents, []session.ActionResult, error) {
	events, results := s.Tick(deltaTime, actions)
	err := r.Record(Frame{Tick: s.TickCount(), DeltaTime: deltaTime, Actions: actions, Digest: s.Digest()})
	return events, results, err
}

// Close flushes the log.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.enc == nil {
		return nil
	}
	err := r.w.Flush()
	if cerr := r.enc.Close(); err == nil {
		err = cerr
	}
	r.enc = nil
	r.w = nil
	if r.f != nil {
		if cerr := r.f.Close(); err == nil {
			err = cerr
		}
		r.f = nil
	}
	return err
}

// Reader decodes a log written by Recorder.
type Reader struct {
	Header Header

	dec *zstd.Decoder
	sc  *bufio.Scanner
}

// NewReader reads and checks the header.
func NewReader(in io.Reader) (*Reader, error) {
	dec, err := zstd.NewReader(in)
	if err != nil {
		return nil, err
	}
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	r := &Reader{dec: dec, sc: sc}
	if !sc.Scan() {
		dec.Close()
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		return nil, errors.New("read header: empty log")
	}
	if err := json.Unmarshal(sc.Bytes(), &r.Header); err != nil {
		dec.Close()
		return nil, fmt.Errorf("read header: %w", err)
	}
	if r.Header.Format != Format {
		dec.Close()
		return nil, fmt.Errorf("unsupported replay format %q", r.Header.Format)
	}
	return r, nil
}

// Next returns the next frame, or io.EOF after the last one.
func (r *Reader) Next() (Frame, error) {
	var f Frame
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return f, err
		}
		return f, io.EOF
	}
	if err := json.Unmarshal(r.sc.Bytes(), &f); err != nil {
		return f, fmt.Errorf("unmarshal frame: %w", err)
	}
	return f, nil
}

// Close releases the decoder.
func (r *Reader) Close() {
	r.dec.Close()
}
