// Package codec implements the slice-level scale-factor search and the
// CBR/VBR chunk encoders and decoder built on top of it.
package codec

import (
	"math"

	"github.com/sea-codec/sea-go/internal/bits"
	"github.com/sea-codec/sea-go/internal/dequant"
	"github.com/sea-codec/sea-go/internal/lms"
)

// SliceResult is what EncodeSlice commits for one (channel, slice) pair:
// the chosen scale factor, the residual codes at the requested width, the
// predictor state after the slice, and the error rank used by the VBR
// budget search to compare slices against each other.
type SliceResult struct {
	Scale     int
	Codes     []uint32
	State     lms.State
	ErrorRank uint64
}

// BaseEncoder runs the scale-factor search described for one slice at a
// time: try every candidate scale, replay the slice against a cloned LMS,
// and keep whichever scale produced the least squared error.
//
// This mirrors the shape of the teacher's fixed-predictor search
// (analyseFixed/chooseRice in analysis_fixed.go): iterate every candidate,
// score it, keep the best, break ties toward the lower index.
type BaseEncoder struct {
	Tables *dequant.Tables
}

// NewBaseEncoder builds a base encoder over the given dequant tables.
func NewBaseEncoder(tables *dequant.Tables) *BaseEncoder {
	return &BaseEncoder{Tables: tables}
}

// EncodeSlice searches every candidate scale factor for one slice of
// samples at a fixed residual width, starting from state, and returns the
// winning scale, its residual codes, and the predictor state it leaves
// behind.
func (e *BaseEncoder) EncodeSlice(state lms.State, width int, samples []int16) SliceResult {
	var best SliceResult
	bestError := uint64(math.MaxUint64)

	codes := make([]uint32, len(samples))
	for scale := 0; scale < e.Tables.NumScales; scale++ {
		candidate := state.Clone()
		var errAcc uint64

		for i, x := range samples {
			pred := candidate.Predict()
			target := int32(x) - pred
			code := e.Tables.Quantize(width, scale, target)
			delta := e.Tables.Dequant(width, scale, code)
			recon := bits.ClampInt16(pred + delta)

			diff := int64(x) - int64(recon)
			sq := uint64(diff * diff)
			errAcc = saturatingAddU64(errAcc, sq)

			candidate.Update(delta, recon)
			codes[i] = code
		}

		if errAcc < bestError || (errAcc == bestError && scale < best.Scale) {
			bestError = errAcc
			best = SliceResult{
				Scale:     scale,
				Codes:     append([]uint32(nil), codes...),
				State:     candidate,
				ErrorRank: errAcc,
			}
		}
	}
	return best
}

func saturatingAddU64(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return math.MaxUint64
	}
	return sum
}
