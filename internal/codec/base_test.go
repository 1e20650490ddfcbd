package codec

import (
	"testing"

	"github.com/sea-codec/sea-go/internal/dequant"
	"github.com/sea-codec/sea-go/internal/lms"
)

func TestEncodeSliceProducesOneCodePerSample(t *testing.T) {
	tables := dequant.New(4)
	enc := NewBaseEncoder(tables)
	samples := []int16{100, 200, 150, -50, 0, 300}

	result := enc.EncodeSlice(lms.State{}, 4, samples)
	if len(result.Codes) != len(samples) {
		t.Fatalf("len(Codes) = %d, want %d", len(result.Codes), len(samples))
	}
	if result.Scale < 0 || result.Scale >= tables.NumScales {
		t.Fatalf("Scale = %d out of range [0, %d)", result.Scale, tables.NumScales)
	}
}

func TestEncodeSliceSilenceStaysQuiet(t *testing.T) {
	tables := dequant.New(4)
	enc := NewBaseEncoder(tables)
	samples := make([]int16, 40)

	result := enc.EncodeSlice(lms.State{}, 3, samples)
	if result.ErrorRank != 0 {
		t.Errorf("ErrorRank for all-zero input = %d, want 0", result.ErrorRank)
	}
}

func TestEncodeSlicePicksLowerScaleOnTie(t *testing.T) {
	tables := dequant.New(2)
	enc := NewBaseEncoder(tables)
	samples := make([]int16, 20)

	result := enc.EncodeSlice(lms.State{}, 2, samples)
	if result.Scale != 0 {
		t.Errorf("Scale for an all-tied all-zero slice = %d, want 0 (lowest index wins ties)", result.Scale)
	}
}

func TestEncodeSliceIsDeterministic(t *testing.T) {
	tables := dequant.New(4)
	enc := NewBaseEncoder(tables)
	samples := []int16{1000, -2000, 3000, -1500, 500, 0, -999, 1234}

	a := enc.EncodeSlice(lms.State{}, 5, samples)
	b := enc.EncodeSlice(lms.State{}, 5, samples)
	if a.Scale != b.Scale || a.ErrorRank != b.ErrorRank {
		t.Fatalf("EncodeSlice not deterministic: %+v vs %+v", a, b)
	}
	for i := range a.Codes {
		if a.Codes[i] != b.Codes[i] {
			t.Fatalf("codes differ at %d: %d vs %d", i, a.Codes[i], b.Codes[i])
		}
	}
}
