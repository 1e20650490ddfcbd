package codec

import (
	"github.com/sea-codec/sea-go/internal/bits"
	"github.com/sea-codec/sea-go/internal/dequant"
	"github.com/sea-codec/sea-go/internal/lms"
)

// BitReader is the minimal surface slice and chunk decoding need from a
// bit-level reader; github.com/icza/bitio.Reader satisfies it directly.
type BitReader interface {
	ReadBits(n byte) (u uint64, err error)
	Align() (skipped byte)
}

// DecodeSlice reverses EncodeSlice: read n width-bit residual codes from
// r, dequantize each against (width, scale), add to the running
// prediction, clamp to i16, and advance the predictor exactly as the
// encoder did when it committed this slice.
//
// Grounded on the teacher's DecodeFixed/lpcDecode reconstruct-and-update
// loop in frame/subframe.go.
func DecodeSlice(r BitReader, tables *dequant.Tables, state lms.State, width, scale, n int) ([]int16, lms.State, error) {
	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		raw, err := r.ReadBits(byte(width))
		if err != nil {
			return nil, state, err
		}
		code := uint32(raw)
		delta := tables.Dequant(width, scale, code)
		pred := state.Predict()
		x := bits.ClampInt16(pred + delta)
		state.Update(delta, x)
		samples[i] = x
	}
	return samples, state, nil
}

// Chunk kind tags, matching the chunk header byte on the wire.
const (
	KindCBR byte = 0x01
	KindVBR byte = 0x02
)

// WidthOffsetBias is subtracted from the 2-bit residual-width code to
// recover the signed offset from the chunk's base width: codes 0-3 map
// to offsets -1, 0, +1, +2. Shared with the encode side so both ends
// agree on the mapping.
const WidthOffsetBias = 1

// DecodeChunk reads one whole chunk's scale-factor block, residual-width
// block (VBR only), and residual data, advancing each channel's
// predictor from seeds. It returns the decoded samples per channel and
// the predictor states to carry into the next chunk.
//
// Grounded on frame/subframe.go's per-subframe reconstruct loop, scaled
// up to the chunk's per-slice, per-channel structure described in the
// container format.
func DecodeChunk(r BitReader, tables *dequant.Tables, seeds []lms.State, channels, framesInChunk, scaleFactorFrames int, scaleFactorBits uint, kind byte, baseWidth int) ([][]int16, []lms.State, error) {
	numSlices := ceilDiv(framesInChunk, scaleFactorFrames)
	total := numSlices * channels

	scales := make([]int, total)
	for i := 0; i < numSlices; i++ {
		for c := 0; c < channels; c++ {
			raw, err := r.ReadBits(byte(scaleFactorBits))
			if err != nil {
				return nil, nil, err
			}
			scales[i*channels+c] = int(raw)
		}
	}
	r.Align()

	widths := make([]int, total)
	if kind == KindVBR {
		for i := 0; i < numSlices; i++ {
			for c := 0; c < channels; c++ {
				raw, err := r.ReadBits(2)
				if err != nil {
					return nil, nil, err
				}
				widths[i*channels+c] = clampWidth(baseWidth + int(raw) - WidthOffsetBias)
			}
		}
	} else {
		for i := range widths {
			widths[i] = baseWidth
		}
	}

	states := append([]lms.State(nil), seeds...)
	out := make([][]int16, channels)

	for i := 0; i < numSlices; i++ {
		n := scaleFactorFrames
		if start := i * scaleFactorFrames; start+n > framesInChunk {
			n = framesInChunk - start
		}
		for c := 0; c < channels; c++ {
			idx := i*channels + c
			samples, next, err := DecodeSlice(r, tables, states[c], widths[idx], scales[idx], n)
			if err != nil {
				return nil, nil, err
			}
			states[c] = next
			out[c] = append(out[c], samples...)
		}
	}

	return out, states, nil
}
