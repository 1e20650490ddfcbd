package sea

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/icza/bitio"

	"github.com/sea-codec/sea-go/internal/codec"
	"github.com/sea-codec/sea-go/internal/cursor"
	"github.com/sea-codec/sea-go/internal/dequant"
	"github.com/sea-codec/sea-go/internal/lms"
)

// chunkHeaderSize is the three fixed bytes at the start of every chunk:
// kind, base residual width, and one reserved byte.
const chunkHeaderSize = 3

const seedBytesPerChannel = lms.Len * 4 // Len history + Len weights, 2 bytes each

// writeSeed appends one channel's predictor seed in its wire layout:
// Len i16 history values, then Len i16 weights, little-endian.
func writeSeed(buf *bytes.Buffer, seed lms.Seed) {
	var b [2]byte
	for _, h := range seed.History {
		binary.LittleEndian.PutUint16(b[:], uint16(h))
		buf.Write(b[:])
	}
	for _, w := range seed.Weights {
		binary.LittleEndian.PutUint16(b[:], uint16(w))
		buf.Write(b[:])
	}
}

// readSeed reverses writeSeed.
func readSeed(src cursor.Source) (lms.Seed, error) {
	var seed lms.Seed
	raw := make([]byte, seedBytesPerChannel)
	if err := src.ReadExact(raw); err != nil {
		return seed, ErrEndOfFile
	}
	for i := 0; i < lms.Len; i++ {
		seed.History[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	base := lms.Len * 2
	for i := 0; i < lms.Len; i++ {
		seed.Weights[i] = int16(binary.LittleEndian.Uint16(raw[base+i*2:]))
	}
	return seed, nil
}

// encodeChunk serializes one chunk's worth of per-channel samples to its
// wire bytes, per §4.7: chunk header, per-channel LMS seed, scale-factor
// block, VBR width block, then residuals. Returns the bytes and the
// predictor state each channel carries into the next chunk.
func encodeChunk(settings EncoderSettings, base *codec.BaseEncoder, seeds []lms.State, channelSamples [][]int16) ([]byte, []lms.State, error) {
	channels := len(channelSamples)

	var plans []codec.ChannelPlan
	var kind byte
	var baseWidth int

	if settings.VBR {
		var p []codec.ChannelPlan
		var bw int
		if settings.VBRIncremental {
			vbrEnc := codec.NewVBREncoderIncremental(base, settings.ScaleFactorFrames, settings.ScaleFactorBits)
			vbrEnc.Verbose = settings.Verbose
			p, _, bw = vbrEnc.EncodeChunk(seeds, channelSamples, settings.ResidualBits)
		} else {
			vbrEnc := codec.NewVBREncoder(base, settings.ScaleFactorFrames, settings.ScaleFactorBits)
			vbrEnc.Verbose = settings.Verbose
			p, _, bw = vbrEnc.EncodeChunk(seeds, channelSamples, settings.ResidualBits)
		}
		plans, baseWidth, kind = p, bw, codec.KindVBR
	} else {
		baseWidth = settings.BaseWidth()
		cbr := codec.NewCBREncoder(base, baseWidth)
		plans = make([]codec.ChannelPlan, channels)
		for c := 0; c < channels; c++ {
			results, finalState := cbr.EncodeChannel(seeds[c], settings.ScaleFactorFrames, channelSamples[c])
			widths := make([]int, len(results))
			for i := range widths {
				widths[i] = baseWidth
			}
			plans[c] = codec.ChannelPlan{Results: results, Widths: widths, FinalState: finalState}
		}
		kind = codec.KindCBR
	}

	var buf bytes.Buffer
	buf.WriteByte(kind)
	buf.WriteByte(byte(baseWidth))
	buf.WriteByte(0) // reserved

	finalStates := make([]lms.State, channels)
	for c := 0; c < channels; c++ {
		writeSeed(&buf, seeds[c].ToSeed())
		finalStates[c] = plans[c].FinalState
	}

	numSlices := len(plans[0].Results)
	bw := bitio.NewWriter(&buf)

	for i := 0; i < numSlices; i++ {
		for c := 0; c < channels; c++ {
			if err := bw.WriteBits(uint64(plans[c].Results[i].Scale), byte(settings.ScaleFactorBits)); err != nil {
				return nil, nil, wrapIo(err)
			}
		}
	}
	if _, err := bw.Align(); err != nil {
		return nil, nil, wrapIo(err)
	}

	if settings.VBR {
		for i := 0; i < numSlices; i++ {
			for c := 0; c < channels; c++ {
				offset := plans[c].Widths[i] - baseWidth + codec.WidthOffsetBias
				if err := bw.WriteBits(uint64(offset), 2); err != nil {
					return nil, nil, wrapIo(err)
				}
			}
		}
	}

	for i := 0; i < numSlices; i++ {
		for c := 0; c < channels; c++ {
			width := plans[c].Widths[i]
			for _, code := range plans[c].Results[i].Codes {
				if err := bw.WriteBits(uint64(code), byte(width)); err != nil {
					return nil, nil, wrapIo(err)
				}
			}
		}
	}
	if err := bw.Close(); err != nil {
		return nil, nil, wrapIo(err)
	}

	return buf.Bytes(), finalStates, nil
}

// readMaxOrZero reads up to max bytes from src, stopping early (without
// error) at end of stream. A zero-length, nil-error result means the
// source is exhausted. Mirrors original_source's read_max_or_zero: it
// bounds one chunk's byte window without assuming the window is full,
// since only the final chunk of a stream is ever short.
func readMaxOrZero(src cursor.Source, max int) ([]byte, error) {
	buf := make([]byte, max)
	n := 0
	for n < max {
		m, err := src.Read(buf[n:])
		n += m
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, wrapIo(err)
		}
		if m == 0 {
			break
		}
	}
	return buf[:n], nil
}

// decodeChunk parses one chunk already isolated to chunkBytes (at most
// header.ChunkSize bytes, read with readMaxOrZero so a short final
// chunk never pulls bits belonging to anything past it) and returns its
// per-channel samples, the predictor state to carry forward, and the
// number of frames actually decoded.
//
// When exact is true, framesHint is decoded as given: total_frames is
// known, so the caller has already worked out the real frame count.
// When exact is false, framesHint is only the configured
// frames_per_chunk ceiling; decodeChunk first tries it as-is (the
// common case, a full chunk), and only if that runs out of bits
// before finishing binary-searches for the largest frame count that
// decodes cleanly from chunkBytes — the actual count the encoder
// produced for a short final chunk, recovered without total_frames.
func decodeChunk(chunkBytes []byte, tables *dequant.Tables, channels, framesHint int, exact bool, scaleFactorFrames int, scaleFactorBits uint) ([][]int16, []lms.State, int, error) {
	prefixLen := chunkHeaderSize + channels*seedBytesPerChannel
	if len(chunkBytes) < prefixLen {
		return nil, nil, 0, ErrEndOfFile
	}

	kind, baseWidth := chunkBytes[0], int(chunkBytes[1])
	if kind != codec.KindCBR && kind != codec.KindVBR {
		return nil, nil, 0, ErrInvalidFile
	}

	seeds := make([]lms.State, channels)
	off := chunkHeaderSize
	for c := 0; c < channels; c++ {
		seed, err := readSeed(cursor.FromSlice(chunkBytes[off : off+seedBytesPerChannel]))
		if err != nil {
			return nil, nil, 0, err
		}
		seeds[c] = lms.FromSeed(seed)
		off += seedBytesPerChannel
	}
	body := chunkBytes[off:]

	attempt := func(frames int) ([][]int16, []lms.State, error) {
		br := bitio.NewReader(bytes.NewReader(body))
		return codec.DecodeChunk(br, tables, seeds, channels, frames, scaleFactorFrames, scaleFactorBits, kind, baseWidth)
	}

	if exact {
		out, states, err := attempt(framesHint)
		if err != nil {
			return nil, nil, 0, wrapIo(err)
		}
		return out, states, framesHint, nil
	}

	if out, states, err := attempt(framesHint); err == nil {
		return out, states, framesHint, nil
	}

	lo, hi := 0, framesHint
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if _, _, err := attempt(mid); err == nil {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	if lo == 0 {
		return nil, nil, 0, ErrEndOfFile
	}
	out, states, err := attempt(lo)
	if err != nil {
		return nil, nil, 0, wrapIo(err)
	}
	return out, states, lo, nil
}
