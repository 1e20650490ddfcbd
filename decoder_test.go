package sea

import (
	"bytes"
	"io"
	"testing"
)

func encodeTestStream(t *testing.T, settings EncoderSettings, channels, sampleRate, totalFrames int, samples []int16) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, settings, channels, uint32(sampleRate), uint32(totalFrames))
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	if _, err := enc.Write(samples); err != nil {
		t.Fatalf("Write: %v", err)
	}
	for {
		if err := enc.EncodeChunk(); err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("EncodeChunk: %v", err)
		}
	}
	if err := enc.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return buf.Bytes()
}

func TestDecoderHeaderMatchesEncoder(t *testing.T) {
	settings := DefaultSettings()
	settings.FramesPerChunk = 10
	data := encodeTestStream(t, settings, 2, 44100, 25, testSamples(2, 25))

	dec, err := NewDecoderFromBytes(data)
	if err != nil {
		t.Fatalf("NewDecoderFromBytes: %v", err)
	}
	h := dec.Header()
	if h.Channels != 2 || h.SampleRate != 44100 || h.TotalFrames != 25 {
		t.Errorf("Header() = %+v, unexpected", *h)
	}
}

func TestDecoderReconstructsAllFramesThenEOF(t *testing.T) {
	settings := DefaultSettings()
	settings.FramesPerChunk = 10
	totalFrames := 25
	data := encodeTestStream(t, settings, 1, 8000, totalFrames, testSamples(1, totalFrames))

	dec, err := NewDecoderFromBytes(data)
	if err != nil {
		t.Fatalf("NewDecoderFromBytes: %v", err)
	}

	var got []int16
	chunks := 0
	for {
		samples, err := dec.DecodeChunk()
		if err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("DecodeChunk: %v", err)
		}
		got = append(got, samples...)
		chunks++
	}
	if chunks != 3 { // 10 + 10 + 5
		t.Errorf("chunks decoded = %d, want 3", chunks)
	}
	if len(got) != totalFrames {
		t.Errorf("len(got) = %d, want %d", len(got), totalFrames)
	}

	if _, err := dec.DecodeChunk(); err != io.EOF {
		t.Errorf("DecodeChunk after end = %v, want io.EOF", err)
	}
}

func TestDecoderReader(t *testing.T) {
	settings := DefaultSettings()
	data := encodeTestStream(t, settings, 1, 8000, 5, testSamples(1, 5))

	dec, err := NewDecoder(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	samples, err := dec.DecodeChunk()
	if err != nil {
		t.Fatalf("DecodeChunk: %v", err)
	}
	if len(samples) != 5 {
		t.Errorf("len(samples) = %d, want 5", len(samples))
	}
}

// TestDecoderTruncatedStreamEndsCleanly covers scenario S5: a stream cut
// off after its first chunk (total_frames left unknown, so the decoder
// can't bound the chunk count from the header alone) decodes that
// chunk's samples and then signals end cleanly, with no error.
func TestDecoderTruncatedStreamEndsCleanly(t *testing.T) {
	settings := DefaultSettings()
	settings.FramesPerChunk = 10
	totalFrames := 25
	full := encodeTestStream(t, settings, 1, 8000, 0, testSamples(1, totalFrames))

	probe, err := NewDecoderFromBytes(full)
	if err != nil {
		t.Fatalf("NewDecoderFromBytes(full): %v", err)
	}
	boundary := headerFixedSize + len(probe.Header().Metadata) + int(probe.Header().ChunkSize)
	truncated := full[:boundary]

	dec, err := NewDecoderFromBytes(truncated)
	if err != nil {
		t.Fatalf("NewDecoderFromBytes(truncated): %v", err)
	}
	got, err := dec.DecodeChunk()
	if err != nil {
		t.Fatalf("DecodeChunk(truncated) first: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("len(got) = %d, want 10", len(got))
	}
	if _, err := dec.DecodeChunk(); err != io.EOF {
		t.Errorf("DecodeChunk(truncated) second = %v, want io.EOF", err)
	}
}

// TestDecoderShortFinalChunkUnknownTotalFrames covers the CLI's own
// default workflow (total_frames left 0, as cmd/wav2sea always passes):
// a final chunk genuinely shorter than frames_per_chunk must decode as
// exactly that many frames and signal end cleanly, never as an error,
// even though the decoder has no total_frames to bound it by.
func TestDecoderShortFinalChunkUnknownTotalFrames(t *testing.T) {
	settings := DefaultSettings()
	settings.FramesPerChunk = 10
	totalFrames := 25 // 10 + 10 + 5: a genuinely short final chunk
	data := encodeTestStream(t, settings, 1, 8000, 0, testSamples(1, totalFrames))

	dec, err := NewDecoderFromBytes(data)
	if err != nil {
		t.Fatalf("NewDecoderFromBytes: %v", err)
	}

	var got []int16
	for {
		samples, err := dec.DecodeChunk()
		if err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("DecodeChunk: %v", err)
		}
		got = append(got, samples...)
	}
	if len(got) != totalFrames {
		t.Fatalf("len(got) = %d, want %d", len(got), totalFrames)
	}
}
