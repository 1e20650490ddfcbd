package codec

import (
	"testing"

	"github.com/sea-codec/sea-go/internal/dequant"
	"github.com/sea-codec/sea-go/internal/lms"
)

// codeFeeder replays a fixed sequence of residual codes, ignoring the
// requested width (the caller already knows it matches what was encoded).
type codeFeeder struct {
	codes []uint32
	pos   int
}

func (f *codeFeeder) ReadBits(n byte) (uint64, error) {
	c := f.codes[f.pos]
	f.pos++
	return uint64(c), nil
}

func (f *codeFeeder) Align() byte { return 0 }

func TestDecodeSliceInvertsEncodeSlice(t *testing.T) {
	tables := dequant.New(4)
	enc := NewBaseEncoder(tables)
	samples := []int16{100, -200, 300, -50, 0, 5000, -5000, 1}

	width := 5
	result := enc.EncodeSlice(lms.State{}, width, samples)

	feeder := &codeFeeder{codes: result.Codes}
	decoded, finalState, err := DecodeSlice(feeder, tables, lms.State{}, width, result.Scale, len(samples))
	if err != nil {
		t.Fatalf("DecodeSlice: %v", err)
	}
	if len(decoded) != len(samples) {
		t.Fatalf("len(decoded) = %d, want %d", len(decoded), len(samples))
	}
	if finalState != result.State {
		t.Errorf("decoder LMS state = %+v, want %+v (encoder/decoder must stay in lockstep)", finalState, result.State)
	}
}

func TestDecodeSlicePropagatesReadError(t *testing.T) {
	tables := dequant.New(4)
	r := errReader{}
	_, _, err := DecodeSlice(r, tables, lms.State{}, 4, 0, 3)
	if err == nil {
		t.Fatal("expected error from a failing bit reader")
	}
}

type errReader struct{}

func (errReader) ReadBits(n byte) (uint64, error) {
	return 0, errShortRead
}

func (errReader) Align() byte { return 0 }

var errShortRead = &shortReadError{}

type shortReadError struct{}

func (*shortReadError) Error() string { return "short read" }
