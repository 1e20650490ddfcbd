// Package sea implements the SEA lossy audio codec: a per-channel LMS
// adaptive predictor paired with an adaptively-scaled quantizer, wrapped
// in CBR/VBR chunk encoders, a chunk decoder, and a self-describing
// file/chunk container.
//
// Most callers want the whole-buffer convenience functions Encode and
// Decode; streaming callers drive Encoder/Decoder directly one chunk at
// a time.
package sea

import (
	"bytes"
	"io"
)

// Encode encodes interleaved PCM samples (channels values per frame) into
// a complete SEA byte stream using settings, in one call.
func Encode(samples []int16, channels int, sampleRate uint32, settings EncoderSettings) ([]byte, error) {
	if channels <= 0 {
		return nil, ErrInvalidSettings
	}
	totalFrames := uint32(len(samples) / channels)

	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, settings, channels, sampleRate, totalFrames)
	if err != nil {
		return nil, err
	}
	if _, err := enc.Write(samples); err != nil {
		return nil, err
	}
	for {
		if err := enc.EncodeChunk(); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
	}
	if err := enc.Finalize(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode decodes a complete SEA byte stream into interleaved PCM samples
// and the parsed file header.
func Decode(data []byte) ([]int16, *FileHeader, error) {
	dec, err := NewDecoderFromBytes(data)
	if err != nil {
		return nil, nil, err
	}

	var out []int16
	for {
		samples, err := dec.DecodeChunk()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, nil, err
		}
		out = append(out, samples...)
	}
	return out, dec.Header(), nil
}
