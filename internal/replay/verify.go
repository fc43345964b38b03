package replay

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"go-lane-defense/internal/session"
)

// Divergence reports the first tick whose digest differs from the log.
type Divergence struct {
	Tick uint64
	Got  string
	Want string
}

func (d *Divergence) Error() string {
	return fmt.Sprintf("digest mismatch at tick %d: got=%s want=%s", d.Tick, d.Got, d.Want)
}

// Result summarises a verified log.
type Result struct {
	Header Header
	Ticks  uint64
	Digest string
}

// Verify rebuilds the session from the header, replays every frame and
// compares digests tick by tick. A mismatch is returned as *Divergence.
func Verify(in io.Reader, logger *log.Logger) (Result, error) {
	r, err := NewReader(in)
	if err != nil {
		return Result{}, err
	}
	defer r.Close()

	opts := r.Header.Options()
	opts.Logger = logger
	s, err := session.New(opts)
	if err != nil {
		return Result{}, fmt.Errorf("session: %w", err)
	}

	res := Result{Header: r.Header, Digest: s.Digest()}
	for {
		f, err := r.Next()
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		if err != nil {
			return res, err
		}
		if want := s.TickCount() + 1; f.Tick != want {
			return res, fmt.Errorf("tick mismatch: want=%d got=%d", want, f.Tick)
		}
		s.Tick(f.DeltaTime, f.Actions)
		res.Ticks++
		res.Digest = s.Digest()
		if res.Digest != f.Digest {
			return res, &Divergence{Tick: f.Tick, Got: res.Digest, Want: f.Digest}
		}
	}
}

// VerifyFile opens path and runs Verify on it.
func VerifyFile(path string, logger *log.Logger) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()
	return Verify(f, logger)
}
