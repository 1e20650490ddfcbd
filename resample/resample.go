// Package resample is a placeholder for the sample-rate conversion the
// original codec gates behind an optional feature: production callers
// are expected to resample before Encode and after Decode themselves, or
// to wire in a real resampler at this seam.
package resample

// Resample is a passthrough: it returns input unchanged regardless of
// sourceRate/targetRate. A real implementation needs an FFT- or
// polyphase-based resampler library, which this shim deliberately does
// not pull in — wiring one in is out of scope here, the same way the
// upstream codec keeps its real resampler behind a feature flag that
// defaults off.
func Resample(input []int16, sourceRate, targetRate uint32, channels int) []int16 {
	if sourceRate == targetRate {
		return input
	}
	out := make([]int16, len(input))
	copy(out, input)
	return out
}
