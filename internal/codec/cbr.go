package codec

import "github.com/sea-codec/sea-go/internal/lms"

// CBREncoder drives BaseEncoder with a single fixed residual width for
// every slice in a channel. It is the thin dispatch path mirroring the
// teacher's single-method subframe encode (as opposed to the switch over
// several prediction methods encodeSubframe uses elsewhere).
type CBREncoder struct {
	Base  *BaseEncoder
	Width int
}

// NewCBREncoder builds a CBR encoder at a fixed residual width.
func NewCBREncoder(base *BaseEncoder, width int) *CBREncoder {
	return &CBREncoder{Base: base, Width: width}
}

// EncodeChannel splits samples into scale_factor_frames-long slices and
// runs the base encoder's scale search over each, threading the LMS state
// from one slice to the next.
func (e *CBREncoder) EncodeChannel(seed lms.State, scaleFactorFrames int, samples []int16) ([]SliceResult, lms.State) {
	state := seed
	var results []SliceResult
	for start := 0; start < len(samples); start += scaleFactorFrames {
		end := start + scaleFactorFrames
		if end > len(samples) {
			end = len(samples)
		}
		r := e.Base.EncodeSlice(state, e.Width, samples[start:end])
		state = r.State
		results = append(results, r)
	}
	return results, state
}
