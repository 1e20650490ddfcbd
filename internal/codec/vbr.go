package codec

import (
	"log"
	"math"
	"sort"

	"github.com/sea-codec/sea-go/internal/dequant"
	"github.com/sea-codec/sea-go/internal/lms"
)

// Distribution is the per-chunk bucket allocation computed by
// ComputeDistribution: how many slices get each of the four candidate
// widths {T-1, T, T+1, T+2}.
type Distribution struct {
	T      int
	Counts [4]int // counts for T-1, T, T+1, T+2 respectively
}

// bucketWeights returns the four candidate widths for distribution d, in
// the same order as d.Counts.
func (d Distribution) bucketWeights() [4]float64 {
	return [4]float64{float64(d.T - 1), float64(d.T), float64(d.T + 1), float64(d.T + 2)}
}

// ComputeDistribution works out how many of n slices should get each of
// the four candidate widths around target R, following the
// transition-zone rule: when frac sits in [0.3, 0.5) the base width is
// floor(target) and the two upper buckets get a larger share (pc=0.25,
// pd=0.125); otherwise the base width is round(target) with smaller
// upper shares (pc=0.15, pd=0.075).
func ComputeDistribution(n int, target float64) Distribution {
	frac := target - math.Floor(target)

	var t int
	var pc, pd float64
	if frac >= 0.3 && frac < 0.5 {
		t = int(math.Floor(target))
		pc, pd = 0.25, 0.125
	} else {
		t = int(math.Round(target))
		pc, pd = 0.15, 0.075
	}

	offset := pc + 2*pd
	pa := float64(t) + offset - target
	pb := 1 - pc - pd - pa
	if pa < 0 {
		pa = 0
		pb = 1 - pc - pd
	}
	if pb < 0 {
		pb = 0
		pa = 1 - pc - pd
	}

	counts := [4]int{
		int(math.Floor(float64(n) * pa)),
		int(math.Floor(float64(n) * pb)),
		int(math.Floor(float64(n) * pc)),
		int(math.Floor(float64(n) * pd)),
	}
	weights := [4]float64{float64(t - 1), float64(t), float64(t + 1), float64(t + 2)}

	assigned := counts[0] + counts[1] + counts[2] + counts[3]
	for assigned < n {
		bestIdx := 0
		bestDiff := math.Inf(1)
		for i := 0; i < 4; i++ {
			trial := counts
			trial[i]++
			sum := 0.0
			for j := 0; j < 4; j++ {
				sum += weights[j] * float64(trial[j])
			}
			mean := sum / float64(n)
			diff := math.Abs(mean - target)
			if diff < bestDiff {
				bestDiff = diff
				bestIdx = i
			}
		}
		counts[bestIdx]++
		assigned++
	}

	return Distribution{T: t, Counts: counts}
}

// NormalizeResidualBits reduces a requested target width by the amortized
// per-sample cost of the headers a VBR chunk adds on top of raw
// residuals: the per-channel LMS seed (emitted once per chunk), the
// scale-factor block, and the two-bit residual-width code per slice.
func NormalizeResidualBits(channels, scaleFactorFrames int, scaleFactorBits uint, numSlicesPerChannel int, target float64) float64 {
	samplesPerChannel := numSlicesPerChannel * scaleFactorFrames
	totalSamples := samplesPerChannel * channels
	if totalSamples == 0 {
		return target
	}

	seedBits := channels * lms.Len * 2 * 16 // history + weights, i16 each
	scaleBits := numSlicesPerChannel * channels * int(scaleFactorBits)
	widthBits := numSlicesPerChannel * channels * 2
	overheadBits := seedBits + scaleBits + widthBits

	r := target - float64(overheadBits)/float64(totalSamples)
	if r < dequant.MinWidth {
		r = dequant.MinWidth
	}
	return r
}

// ChannelPlan is the per-channel output of a VBR chunk encode: the
// per-slice search results, the residual width each slice was assigned,
// and the predictor state left behind for the next chunk.
type ChannelPlan struct {
	Results    []SliceResult
	Widths     []int
	FinalState lms.State
}

// VBREncoder allocates a per-slice residual width under a chunk-wide
// budget, then defers the actual residual search to BaseEncoder.
//
// Translated from original_source's encoder_vbr.rs
// (interpolate_distribution/analyze/calculate_simulation_errors/
// allocate_residuals_based_on_errors/decrement_budget) into two explicit
// passes: an analysis pass that measures each slice's error at a probe
// width without touching the real predictor state, and a commit pass
// that re-encodes every slice at its assigned width from the real seed.
type VBREncoder struct {
	Base              *BaseEncoder
	ScaleFactorFrames int
	ScaleFactorBits   uint

	// Verbose gates the per-chunk distribution diagnostic below, matching
	// original_source's encoder_vbr.rs println! at the same point.
	Verbose bool
}

// NewVBREncoder builds a VBR encoder over the given base encoder.
func NewVBREncoder(base *BaseEncoder, scaleFactorFrames int, scaleFactorBits uint) *VBREncoder {
	return &VBREncoder{Base: base, ScaleFactorFrames: scaleFactorFrames, ScaleFactorBits: scaleFactorBits}
}

type sliceKey struct {
	channel, index int
}

// EncodeChunk runs the full VBR allocation and encode for one chunk and
// returns the per-channel plan, the normalized target actually used, and
// the base width (T) that every slice's width is an offset from — the
// value the chunk header's base-width byte must carry.
func (e *VBREncoder) EncodeChunk(seeds []lms.State, channelSamples [][]int16, targetResidualBits float64) ([]ChannelPlan, float64, int) {
	channels := len(channelSamples)
	scaleFactorFrames := e.ScaleFactorFrames
	numSlicesPerChannel := 0
	if channels > 0 {
		numSlicesPerChannel = ceilDiv(len(channelSamples[0]), scaleFactorFrames)
	}

	r := NormalizeResidualBits(channels, scaleFactorFrames, e.ScaleFactorBits, numSlicesPerChannel, targetResidualBits)
	probeWidth := clampWidth(int(math.Floor(r)) + 1)

	type probed struct {
		key     sliceKey
		err     uint64
		partial bool
	}
	var probes []probed

	for ch := 0; ch < channels; ch++ {
		state := seeds[ch]
		samples := channelSamples[ch]
		idx := 0
		for start := 0; start < len(samples); start += scaleFactorFrames {
			end := start + scaleFactorFrames
			if end > len(samples) {
				end = len(samples)
			}
			isPartial := (end - start) < scaleFactorFrames
			result := e.Base.EncodeSlice(state, probeWidth, samples[start:end])
			state = result.State
			probes = append(probes, probed{key: sliceKey{ch, idx}, err: result.ErrorRank, partial: isPartial})
			idx++
		}
	}

	var sortable []probed
	for _, p := range probes {
		if !p.partial {
			sortable = append(sortable, p)
		}
	}
	sort.SliceStable(sortable, func(i, j int) bool { return sortable[i].err < sortable[j].err })

	dist := ComputeDistribution(len(sortable), r)
	if e.Verbose {
		log.Printf("res: %.3f %d %v", r, dist.T, dist.Counts)
	}
	weights := dist.bucketWeights()

	widths := make(map[sliceKey]int, len(probes))
	pos := 0
	for bucket := 0; bucket < 4; bucket++ {
		for i := 0; i < dist.Counts[bucket]; i++ {
			widths[sortable[pos].key] = clampWidth(int(weights[bucket]))
			pos++
		}
	}
	for _, p := range probes {
		if p.partial {
			widths[p.key] = clampWidth(dist.T)
		}
	}

	plans := make([]ChannelPlan, channels)
	for ch := 0; ch < channels; ch++ {
		state := seeds[ch]
		samples := channelSamples[ch]
		idx := 0
		plan := ChannelPlan{}
		for start := 0; start < len(samples); start += scaleFactorFrames {
			end := start + scaleFactorFrames
			if end > len(samples) {
				end = len(samples)
			}
			width := widths[sliceKey{ch, idx}]
			result := e.Base.EncodeSlice(state, width, samples[start:end])
			state = result.State
			plan.Results = append(plan.Results, result)
			plan.Widths = append(plan.Widths, width)
			idx++
		}
		plan.FinalState = state
		plans[ch] = plan
	}

	return plans, r, clampWidth(dist.T)
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

func clampWidth(w int) int {
	switch {
	case w < dequant.MinWidth:
		return dequant.MinWidth
	case w > dequant.MaxWidth:
		return dequant.MaxWidth
	default:
		return w
	}
}
