package sea

import (
	"io"

	"github.com/sea-codec/sea-go/internal/dequant"

	"github.com/sea-codec/sea-go/internal/cursor"
)

// maxChunkBytes bounds a chunk read when header.ChunkSize hasn't been
// observed yet (a foreign or hand-built file that never patched it in).
// ChunkSize itself is a uint16 field, and Encoder.EncodeChunk rejects any
// chunk longer than this, so no chunk this package writes can exceed it.
const maxChunkBytes = 1<<16 - 1

// Decoder is the stateful pull API described in §4.10: construct from a
// byte source, then call DecodeChunk repeatedly until it returns io.EOF.
//
// Grounded on the teacher's flac.go (NewStream: parse header, then pull
// frames) and original_source's decoder.rs (from_reader/from_slice).
type Decoder struct {
	src    cursor.Source
	header *FileHeader
	tables *dequant.Tables

	framesDecoded uint32
	done          bool
}

// NewDecoder constructs a decoder over an arbitrary io.Reader.
func NewDecoder(r io.Reader) (*Decoder, error) {
	return newDecoder(cursor.FromReader(r))
}

// NewDecoderFromBytes constructs a decoder over an in-memory buffer,
// avoiding a copy.
func NewDecoderFromBytes(data []byte) (*Decoder, error) {
	return newDecoder(cursor.FromSlice(data))
}

func newDecoder(src cursor.Source) (*Decoder, error) {
	header, err := ParseHeader(src)
	if err != nil {
		return nil, err
	}
	return &Decoder{
		src:    src,
		header: header,
		tables: dequant.New(uint(header.ScaleFactorBits)),
	}, nil
}

// Header returns the parsed file header.
func (d *Decoder) Header() *FileHeader {
	return d.header
}

// DecodeChunk decodes the next chunk and returns its samples, interleaved
// the same way they were encoded. It returns io.EOF once total_frames
// (when known) has been reached, or once the underlying source is
// exhausted — never as an error, matching the encoder's own end signal.
//
// Each chunk's byte read is bounded to at most header.ChunkSize bytes
// (read_max_or_zero, original_source/src/codec/file.rs:169-186), so a
// genuinely short final chunk is never decoded as if it held a full
// frames_per_chunk frames: with total_frames known, the exact frame
// count is computed up front as before; with total_frames unknown (0),
// the actual count is recovered from how many bits the bounded bytes
// actually hold.
func (d *Decoder) DecodeChunk() ([]int16, error) {
	if d.done {
		return nil, io.EOF
	}

	framesHint := int(d.header.FramesPerChunk)
	exact := false
	if d.header.TotalFrames != 0 {
		remaining := int(d.header.TotalFrames) - int(d.framesDecoded)
		if remaining <= 0 {
			d.done = true
			return nil, io.EOF
		}
		if framesHint > remaining {
			framesHint = remaining
		}
		exact = true
	}

	window := int(d.header.ChunkSize)
	if window == 0 {
		window = maxChunkBytes
	}
	chunkBytes, err := readMaxOrZero(d.src, window)
	if err != nil {
		return nil, err
	}
	if len(chunkBytes) == 0 {
		d.done = true
		return nil, io.EOF
	}

	channelSamples, _, framesDecoded, err := decodeChunk(
		chunkBytes, d.tables,
		int(d.header.Channels), framesHint, exact,
		int(d.header.ScaleFactorFrames), uint(d.header.ScaleFactorBits),
	)
	if err == ErrEndOfFile {
		d.done = true
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}

	d.framesDecoded += uint32(framesDecoded)
	if d.header.TotalFrames != 0 && d.framesDecoded >= d.header.TotalFrames {
		d.done = true
	}
	return interleave(channelSamples), nil
}
