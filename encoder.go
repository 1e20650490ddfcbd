package sea

import (
	"fmt"
	"io"

	"github.com/sea-codec/sea-go/internal/codec"
	"github.com/sea-codec/sea-go/internal/dequant"
	"github.com/sea-codec/sea-go/internal/lms"
)

// Encoder is the stateful push API described in §4.9: the caller feeds
// interleaved PCM with Write, then pulls one encoded chunk at a time with
// EncodeChunk until it signals end (io.EOF), then calls Finalize.
//
// Grounded on the teacher's encode.go Encoder (struct holding the output
// writer plus running state) and on original_source's encoder.rs state
// machine (Start/WritingFrames/Finished collapses here into the single
// headerWritten/closed pair, since Go has no enum variants to dispatch on).
type Encoder struct {
	w          io.Writer
	settings   EncoderSettings
	channels   int
	sampleRate uint32
	totalFrames uint32

	tables *dequant.Tables
	base   *codec.BaseEncoder
	seeds  []lms.State

	pending []int16 // buffered interleaved samples not yet chunked

	headerWritten  bool
	chunkSizeBytes uint16
	closed         bool
}

// NewEncoder starts an encoder over w. totalFrames may be 0 if unknown;
// it is written into the file header as-is and does not bound how many
// samples Write will accept.
func NewEncoder(w io.Writer, settings EncoderSettings, channels int, sampleRate uint32, totalFrames uint32) (*Encoder, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if channels <= 0 || sampleRate == 0 {
		return nil, ErrInvalidSettings
	}
	tables := dequant.New(settings.ScaleFactorBits)
	return &Encoder{
		w:           w,
		settings:    settings,
		channels:    channels,
		sampleRate:  sampleRate,
		totalFrames: totalFrames,
		tables:      tables,
		base:        codec.NewBaseEncoder(tables),
		seeds:       make([]lms.State, channels),
	}, nil
}

// Write buffers interleaved PCM samples for the next EncodeChunk calls.
// len(samples) need not be a multiple of channels across calls, only in
// total.
func (e *Encoder) Write(samples []int16) (int, error) {
	if e.closed {
		return 0, ErrEncoderClosed
	}
	e.pending = append(e.pending, samples...)
	return len(samples), nil
}

// EncodeChunk pulls up to frames_per_chunk*channels pending samples and
// writes one chunk to the underlying writer, prepending the file header
// on the first successful call. It returns io.EOF (not a codec error) once
// nothing is pending.
func (e *Encoder) EncodeChunk() error {
	if e.closed {
		return ErrEncoderClosed
	}
	if len(e.pending) == 0 {
		return io.EOF
	}

	want := int(e.settings.FramesPerChunk) * e.channels
	n := want
	final := false
	if n >= len(e.pending) {
		n = len(e.pending)
		final = true
	}
	chunkSamples := e.pending[:n]
	e.pending = e.pending[n:]

	channelSamples := deinterleave(chunkSamples, e.channels)
	data, finalSeeds, err := encodeChunk(e.settings, e.base, e.seeds, channelSamples)
	if err != nil {
		return err
	}
	if len(data) > maxChunkBytes {
		return fmt.Errorf("sea: chunk encoded to %d bytes, more than the chunk_size field can hold (%d): %w", len(data), maxChunkBytes, ErrInvalidSettings)
	}
	e.seeds = finalSeeds

	if !e.headerWritten {
		// chunk_size is back-patched from the very first chunk produced,
		// full or not: original_source/src/codec/file.rs sets it
		// unconditionally (`if self.header.chunk_size == 0 { ... }`), since
		// a single-chunk stream has no other chunk to measure from.
		header := &FileHeader{
			Version:           CurrentVersion,
			Channels:          byte(e.channels),
			ChunkSize:         uint16(len(data)),
			FramesPerChunk:    e.settings.FramesPerChunk,
			SampleRate:        e.sampleRate,
			TotalFrames:       e.totalFrames,
			ScaleFactorBits:   uint8(e.settings.ScaleFactorBits),
			ScaleFactorFrames: uint16(e.settings.ScaleFactorFrames),
		}
		e.chunkSizeBytes = header.ChunkSize
		if _, err := e.w.Write(header.Serialize()); err != nil {
			return wrapIo(err)
		}
		e.headerWritten = true
	} else if !final && uint16(len(data)) != e.chunkSizeBytes {
		// Every full chunk encodes the same number of slices at widths
		// drawn from the same target, so its byte length is constant
		// regardless of content; only the final, possibly-short chunk may
		// differ. original_source/src/codec/file.rs:154-156 makes the same
		// check with assert_eq!.
		return fmt.Errorf("sea: full chunk encoded to %d bytes, want %d: %w", len(data), e.chunkSizeBytes, ErrInvalidFile)
	}

	if _, err := e.w.Write(data); err != nil {
		return wrapIo(err)
	}
	return nil
}

// Finalize moves the encoder to its terminal state; further Write or
// EncodeChunk calls return ErrEncoderClosed.
func (e *Encoder) Finalize() error {
	if e.closed {
		return ErrEncoderClosed
	}
	e.closed = true
	return nil
}

// deinterleave splits flat interleaved PCM into one slice per channel.
// Any trailing partial frame (len(samples) not a multiple of channels)
// is dropped from every channel — callers are expected to feed whole
// frames.
func deinterleave(samples []int16, channels int) [][]int16 {
	frames := len(samples) / channels
	out := make([][]int16, channels)
	for c := range out {
		out[c] = make([]int16, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			out[c][i] = samples[i*channels+c]
		}
	}
	return out
}

// interleave is the inverse of deinterleave.
func interleave(channelSamples [][]int16) []int16 {
	if len(channelSamples) == 0 {
		return nil
	}
	frames := len(channelSamples[0])
	out := make([]int16, frames*len(channelSamples))
	for i := 0; i < frames; i++ {
		for c := range channelSamples {
			out[i*len(channelSamples)+c] = channelSamples[c][i]
		}
	}
	return out
}
