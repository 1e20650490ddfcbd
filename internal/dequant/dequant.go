// Package dequant builds the per-instance step-size and reciprocal tables
// that translate between residual codes and predictor deltas.
//
// Both tables are built once from scale_factor_bits when an encoder or
// decoder instance is constructed (never as a package-level cache — two
// instances with different settings must not share state).
package dequant

import "math"

// MinWidth and MaxWidth bound the residual bit-widths the codec supports.
const (
	MinWidth = 1
	MaxWidth = 8
)

// growth controls how much the nominal step size grows from one scale
// index to the next; chosen so that scale_factor_bits' full range (up to
// 6 bits, 64 scales) spans a useful dynamic range without overflowing
// int32 deltas at the largest supported width.
const growth = 1.12202

// Tables holds the dequantization and reciprocal tables for every
// supported residual width, addressed by scale index.
//
// Dqt[width-1] is a flat, scale-major slice of 2^width signed deltas per
// scale, arranged [+q0, +q1, ..., -q0, -q1, ...]: the high bit of a
// width-bit residual code selects the sign, the remaining bits index the
// magnitude. Row access goes through Dequant/Quantize below.
type Tables struct {
	ScaleFactorBits uint
	NumScales       int
	Dqt             [MaxWidth][]int32
	recip           []float64 // per scale index, shared across widths
}

// stepSize returns the nominal quantization step for scale index s,
// shared across all widths: a wider residual just resolves that same
// step into more discrete magnitude levels.
func stepSize(s int) float64 {
	return math.Pow(growth, float64(s))
}

// New builds the tables for the given scale_factor_bits (2-6 per the
// codec's settings, validated by the caller).
func New(scaleFactorBits uint) *Tables {
	numScales := 1 << scaleFactorBits
	t := &Tables{
		ScaleFactorBits: scaleFactorBits,
		NumScales:       numScales,
		recip:           make([]float64, numScales),
	}
	for w := MinWidth; w <= MaxWidth; w++ {
		levels := 1 << uint(w)
		half := levels / 2
		table := make([]int32, numScales*levels)
		for s := 0; s < numScales; s++ {
			step := stepSize(s)
			t.recip[s] = 1.0 / step
			base := s * levels
			for i := 0; i < half; i++ {
				mag := int32(math.Round(float64(i) * step))
				table[base+i] = mag
				table[base+half+i] = -mag
			}
		}
		t.Dqt[w-1] = table
	}
	return t
}

// row returns the dequant row for one (width, scale) pair: 2^width signed
// deltas, code-indexed.
func (t *Tables) row(width int, scale int) []int32 {
	levels := 1 << uint(width)
	base := scale * levels
	return t.Dqt[width-1][base : base+levels]
}

// Dequant returns the reconstructed delta for a residual code at the
// given width and scale.
func (t *Tables) Dequant(width int, scale int, code uint32) int32 {
	return t.row(width, scale)[code]
}

// Quantize turns a target delta into a residual code at the given width
// and scale, using the precomputed reciprocal to avoid division; the
// result is clamped to the representable magnitude range for width.
func (t *Tables) Quantize(width int, scale int, delta int32) uint32 {
	levels := 1 << uint(width)
	half := levels / 2
	sign := false
	mag := delta
	if mag < 0 {
		sign = true
		mag = -mag
	}
	code := int32(math.Round(float64(mag) * t.recip[scale]))
	if code > int32(half-1) {
		code = int32(half - 1)
	}
	if code < 0 {
		code = 0
	}
	if sign {
		code += int32(half)
	}
	return uint32(code)
}
