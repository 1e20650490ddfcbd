package dequant

import "testing"

func TestNewBuildsAllWidths(t *testing.T) {
	tb := New(4)
	if tb.NumScales != 16 {
		t.Fatalf("NumScales = %d, want 16", tb.NumScales)
	}
	for w := MinWidth; w <= MaxWidth; w++ {
		row := tb.row(w, 0)
		if len(row) != 1<<uint(w) {
			t.Errorf("width %d: row length = %d, want %d", w, len(row), 1<<uint(w))
		}
	}
}

func TestDequantHighBitIsSign(t *testing.T) {
	tb := New(4)
	width := 4
	half := 1 << uint(width-1)
	for scale := 0; scale < tb.NumScales; scale++ {
		for i := 0; i < half; i++ {
			pos := tb.Dequant(width, scale, uint32(i))
			neg := tb.Dequant(width, scale, uint32(i+half))
			if pos < 0 {
				t.Fatalf("scale %d code %d: expected non-negative magnitude, got %d", scale, i, pos)
			}
			if neg != -pos {
				t.Fatalf("scale %d code %d/%d: magnitudes not mirrored, got %d and %d", scale, i, i+half, pos, neg)
			}
		}
	}
}

func TestQuantizeRoundTripsNearby(t *testing.T) {
	tb := New(4)
	width := 6
	scale := 3
	for _, want := range []int32{0, 5, -5, 40, -40} {
		code := tb.Quantize(width, scale, want)
		got := tb.Dequant(width, scale, code)
		diff := got - want
		if diff < 0 {
			diff = -diff
		}
		// Quantization is lossy by construction; the reconstructed value
		// must stay within one nominal step of the target.
		step := stepSize(scale)
		if float64(diff) > step+1 {
			t.Errorf("Quantize/Dequant(%d) = %d, want within a step of %d (step=%.3f)", want, got, want, step)
		}
	}
}

func TestQuantizeClampsToWidth(t *testing.T) {
	tb := New(4)
	width := 1
	scale := 0
	code := tb.Quantize(width, scale, 1_000_000)
	if code > 1 {
		t.Errorf("Quantize clamped code = %d, want <= 1 for width 1", code)
	}
}

func TestStepSizeIsMonotonic(t *testing.T) {
	prev := stepSize(0)
	for s := 1; s < 32; s++ {
		cur := stepSize(s)
		if cur <= prev {
			t.Errorf("stepSize(%d) = %.4f not greater than stepSize(%d) = %.4f", s, cur, s-1, prev)
		}
		prev = cur
	}
}
