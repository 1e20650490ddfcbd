// Package lms implements the per-channel adaptive linear predictor used by
// both the encoder and the decoder. Keeping the implementation in one place
// guarantees the two sides stay bit-exact, since they share this exact code
// path rather than two hand-synchronized copies.
package lms

import "github.com/sea-codec/sea-go/internal/bits"

// Len is the number of taps in the predictor (history and weight vector
// length). Fixed by the wire format: chunk seeds always carry exactly Len
// history values and Len weights per channel.
const Len = 4

// shift is the number of bits the raw dot product is shifted down by to
// produce a prediction in sample range.
const shift = 13

// State is the adaptive predictor state for a single channel: a ring of
// previously reconstructed samples and the weight vector learned from the
// residual stream so far.
type State struct {
	History [Len]int32
	Weights [Len]int32
}

// Predict returns the next sample prediction: the dot product of history
// and weights, right-shifted by shift bits.
func (s *State) Predict() int32 {
	var acc int64
	for i := 0; i < Len; i++ {
		acc += int64(s.History[i]) * int64(s.Weights[i])
	}
	return int32(acc >> shift)
}

// weightStep buckets the magnitude of a residual delta into a small,
// fixed adjustment applied to every tap weight. Larger errors nudge the
// weights harder, mirroring the step-table adaptation used by sign-sign
// LMS predictors in other low-bitrate codecs (c.f. the ADPCM step/index
// tables): fixed lookup, no division, no floating point.
var weightStepTable = [...]int32{0, 1, 1, 2, 2, 2, 4, 4, 4, 4, 8, 8, 8, 8, 8, 8}

func weightStep(absDelta int32) int32 {
	if absDelta <= 0 {
		return 0
	}
	idx := absDelta
	if int(idx) >= len(weightStepTable) {
		idx = int32(len(weightStepTable) - 1)
	}
	return weightStepTable[idx]
}

// Update advances the predictor state after a sample has been decoded (or
// re-decoded during encoder search): the weights are nudged toward the
// sign of the residual, scaled per tap by the sign of the corresponding
// history entry, then the reconstructed sample is shifted into history.
//
// residualDelta is the dequantized delta (pred + residualDelta ==
// reconstructed, before clamping); reconstructed is the clamped i16 sample
// that was actually emitted.
func (s *State) Update(residualDelta int32, reconstructed int16) {
	sign := bits.Sign(residualDelta)
	step := weightStep(sign * residualDelta)
	if sign != 0 && step != 0 {
		for i := 0; i < Len; i++ {
			switch {
			case s.History[i] > 0:
				s.Weights[i] += sign * step
			case s.History[i] < 0:
				s.Weights[i] -= sign * step
			}
		}
	}

	for i := 0; i < Len-1; i++ {
		s.History[i] = s.History[i+1]
	}
	s.History[Len-1] = int32(reconstructed)
}

// Clone returns an independent copy of the state, used by the scale-factor
// search to try candidates without disturbing the caller's real state.
func (s State) Clone() State {
	return s
}

// Seed captures the wire representation of a channel's predictor state: Len
// history values followed by Len weights, both i16 on the wire (§4.7).
// History is stored internally as int32 for headroom during accumulation,
// but is always within int16 range since it mirrors reconstructed samples.
type Seed struct {
	History [Len]int16
	Weights [Len]int16
}

// ToSeed captures the current state for serialization.
func (s *State) ToSeed() Seed {
	var seed Seed
	for i := 0; i < Len; i++ {
		seed.History[i] = int16(s.History[i])
		seed.Weights[i] = int16(s.Weights[i])
	}
	return seed
}

// FromSeed restores a state previously captured with ToSeed.
func FromSeed(seed Seed) State {
	var s State
	for i := 0; i < Len; i++ {
		s.History[i] = int32(seed.History[i])
		s.Weights[i] = int32(seed.Weights[i])
	}
	return s
}
