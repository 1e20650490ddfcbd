package codec

import (
	"log"
	"math"
	"sort"

	"github.com/sea-codec/sea-go/internal/lms"
)

// DefaultPrefixSlices is the window size the incremental VBR variant
// re-runs its analysis pass after, per slice-per-channel.
const DefaultPrefixSlices = 16

// VBREncoderIncremental is the second VBR algorithm mentioned in §9: instead
// of ranking every slice in the chunk against each other in one pass, it
// finalizes a width assignment after every PrefixSlices-slice window and
// moves on, so later windows never revisit earlier ones. It shares
// VBREncoder's probe-then-commit machinery and wire format (a single
// chunk-wide base width byte, §4.7) and only changes which slices compete
// against which when ranks are computed.
//
// Off by default (EncoderSettings.VBRIncremental); spec.md §9 treats the
// one-shot VBREncoder as production since the source leaves it ambiguous
// which of its two VBR encoders is canonical.
type VBREncoderIncremental struct {
	Base              *BaseEncoder
	ScaleFactorFrames int
	ScaleFactorBits   uint
	PrefixSlices      int

	// Verbose gates the per-window distribution diagnostic below, matching
	// original_source's encoder_vbr.rs println! at the same point.
	Verbose bool
}

// NewVBREncoderIncremental builds an incremental VBR encoder with the
// default 16-slice analysis window.
func NewVBREncoderIncremental(base *BaseEncoder, scaleFactorFrames int, scaleFactorBits uint) *VBREncoderIncremental {
	return &VBREncoderIncremental{
		Base:              base,
		ScaleFactorFrames: scaleFactorFrames,
		ScaleFactorBits:   scaleFactorBits,
		PrefixSlices:      DefaultPrefixSlices,
	}
}

// EncodeChunk mirrors VBREncoder.EncodeChunk's signature and wire
// contract, but assigns widths window-by-window instead of chunk-wide.
func (e *VBREncoderIncremental) EncodeChunk(seeds []lms.State, channelSamples [][]int16, targetResidualBits float64) ([]ChannelPlan, float64, int) {
	channels := len(channelSamples)
	scaleFactorFrames := e.ScaleFactorFrames
	numSlicesPerChannel := 0
	if channels > 0 {
		numSlicesPerChannel = ceilDiv(len(channelSamples[0]), scaleFactorFrames)
	}

	r := NormalizeResidualBits(channels, scaleFactorFrames, e.ScaleFactorBits, numSlicesPerChannel, targetResidualBits)
	baseWidth := clampWidth(int(math.Round(r)))
	probeWidth := clampWidth(int(math.Floor(r)) + 1)

	states := make([]lms.State, channels)
	copy(states, seeds)
	plans := make([]ChannelPlan, channels)

	prefix := e.PrefixSlices
	if prefix <= 0 {
		prefix = DefaultPrefixSlices
	}
	windowSamples := prefix * scaleFactorFrames

	for ch := 0; ch < channels; ch++ {
		samples := channelSamples[ch]
		state := states[ch]
		plan := ChannelPlan{}

		for winStart := 0; winStart < len(samples); winStart += windowSamples {
			winEnd := winStart + windowSamples
			if winEnd > len(samples) {
				winEnd = len(samples)
			}
			window := samples[winStart:winEnd]

			type probed struct {
				idx     int
				err     uint64
				partial bool
			}
			var probes []probed
			probeState := state
			idx := 0
			for start := 0; start < len(window); start += scaleFactorFrames {
				end := start + scaleFactorFrames
				if end > len(window) {
					end = len(window)
				}
				isPartial := (end - start) < scaleFactorFrames
				result := e.Base.EncodeSlice(probeState, probeWidth, window[start:end])
				probeState = result.State
				probes = append(probes, probed{idx: idx, err: result.ErrorRank, partial: isPartial})
				idx++
			}

			var sortable []probed
			for _, p := range probes {
				if !p.partial {
					sortable = append(sortable, p)
				}
			}
			sort.SliceStable(sortable, func(i, j int) bool { return sortable[i].err < sortable[j].err })

			dist := ComputeDistribution(len(sortable), r)
			dist.T = baseWidth // keep the wire-format base width consistent across windows
			if e.Verbose {
				log.Printf("res: %.3f %d %v", r, dist.T, dist.Counts)
			}
			weights := dist.bucketWeights()

			widths := make(map[int]int, len(probes))
			pos := 0
			for bucket := 0; bucket < 4; bucket++ {
				for i := 0; i < dist.Counts[bucket] && pos < len(sortable); i++ {
					widths[sortable[pos].idx] = clampWidth(int(weights[bucket]))
					pos++
				}
			}
			for _, p := range probes {
				if p.partial {
					widths[p.idx] = baseWidth
				}
			}

			idx = 0
			for start := 0; start < len(window); start += scaleFactorFrames {
				end := start + scaleFactorFrames
				if end > len(window) {
					end = len(window)
				}
				width, ok := widths[idx]
				if !ok {
					width = baseWidth
				}
				result := e.Base.EncodeSlice(state, width, window[start:end])
				state = result.State
				plan.Results = append(plan.Results, result)
				plan.Widths = append(plan.Widths, width)
				idx++
			}
		}

		plan.FinalState = state
		plans[ch] = plan
	}

	return plans, r, baseWidth
}
