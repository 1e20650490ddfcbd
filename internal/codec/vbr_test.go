package codec

import (
	"math"
	"testing"

	"github.com/sea-codec/sea-go/internal/dequant"
	"github.com/sea-codec/sea-go/internal/lms"
)

func TestComputeDistributionSumsToN(t *testing.T) {
	for _, n := range []int{0, 1, 7, 1000, 4096} {
		for _, target := range []float64{2.0, 3.4, 3.5, 4.9, 6.0} {
			d := ComputeDistribution(n, target)
			sum := d.Counts[0] + d.Counts[1] + d.Counts[2] + d.Counts[3]
			if sum != n {
				t.Errorf("ComputeDistribution(%d, %.2f) counts sum to %d, want %d", n, target, sum, n)
			}
		}
	}
}

func TestComputeDistributionMeanNearTarget(t *testing.T) {
	n := 10000
	target := 3.4
	d := ComputeDistribution(n, target)
	weights := d.bucketWeights()
	var sum float64
	for i, c := range d.Counts {
		sum += weights[i] * float64(c)
	}
	mean := sum / float64(n)
	if math.Abs(mean-target) > 0.05 {
		t.Errorf("mean width = %.4f, want within 0.05 of %.2f", mean, target)
	}
}

func TestComputeDistributionTransitionZone(t *testing.T) {
	d := ComputeDistribution(1000, 3.35)
	if d.T != 3 {
		t.Errorf("transition zone T = %d, want 3 (floor of target)", d.T)
	}
}

func TestNormalizeResidualBitsReducesTarget(t *testing.T) {
	r := NormalizeResidualBits(2, 20, 4, 256, 4.0)
	if r >= 4.0 {
		t.Errorf("NormalizeResidualBits = %.4f, want < 4.0 (headers cost something)", r)
	}
	if r < dequant.MinWidth {
		t.Errorf("NormalizeResidualBits = %.4f, want >= %d", r, dequant.MinWidth)
	}
}

func TestVBREncodeChunkProducesAllSlices(t *testing.T) {
	tables := dequant.New(4)
	base := NewBaseEncoder(tables)
	enc := NewVBREncoder(base, 20, 4)

	samples := make([]int16, 200)
	for i := range samples {
		samples[i] = int16((i*37 + 11) % 2000)
	}
	channelSamples := [][]int16{samples, samples}
	seeds := []lms.State{{}, {}}

	plans, r, _ := enc.EncodeChunk(seeds, channelSamples, 3.4)
	if len(plans) != 2 {
		t.Fatalf("len(plans) = %d, want 2", len(plans))
	}
	for _, p := range plans {
		if len(p.Results) != 10 {
			t.Errorf("len(Results) = %d, want 10 slices", len(p.Results))
		}
		if len(p.Widths) != 10 {
			t.Errorf("len(Widths) = %d, want 10", len(p.Widths))
		}
		for _, w := range p.Widths {
			if w < dequant.MinWidth || w > dequant.MaxWidth {
				t.Errorf("width %d out of range", w)
			}
		}
	}
	if r <= 0 {
		t.Errorf("normalized target = %.4f, want > 0", r)
	}
}

func TestVBREncodeChunkPartialSliceKeepsBaseWidth(t *testing.T) {
	tables := dequant.New(4)
	base := NewBaseEncoder(tables)
	enc := NewVBREncoder(base, 20, 4)

	samples := make([]int16, 25) // one full slice, one 5-sample partial
	channelSamples := [][]int16{samples}
	seeds := []lms.State{{}}

	plans, _, baseWidth := enc.EncodeChunk(seeds, channelSamples, 3.0)
	if plans[0].Widths[1] != baseWidth {
		t.Errorf("partial slice width = %d, want base width %d", plans[0].Widths[1], baseWidth)
	}
}
