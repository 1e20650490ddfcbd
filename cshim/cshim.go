//go:build cgo

// Command cshim builds as a C archive/shared object (via -buildmode
// c-archive or c-shared) exposing the codec's push-button entry points
// across a C ABI, mirroring the original implementation's
// sea_encode/sea_decode pair so callers embedding this codec from C (or
// another cgo-capable host) don't need a Go build at all beyond this one
// translation unit.
package main

/*
#include <stdint.h>
#include <stdbool.h>
#include <stdlib.h>

typedef struct {
	uint8_t  scale_factor_bits;
	uint8_t  scale_factor_frames;
	float    residual_bits;
	uint16_t frames_per_chunk;
	bool     vbr;
} CSeaEncoderSettings;
*/
import "C"

import (
	"unsafe"

	"github.com/sea-codec/sea-go"
)

func settingsFromC(s *C.CSeaEncoderSettings) sea.EncoderSettings {
	if s == nil {
		return sea.DefaultSettings()
	}
	return sea.EncoderSettings{
		ScaleFactorBits:   uint(s.scale_factor_bits),
		ScaleFactorFrames: int(s.scale_factor_frames),
		ResidualBits:      float64(s.residual_bits),
		FramesPerChunk:    uint16(s.frames_per_chunk),
		VBR:               bool(s.vbr),
	}
}

//export sea_encoder_default_settings
func sea_encoder_default_settings() C.CSeaEncoderSettings {
	d := sea.DefaultSettings()
	return C.CSeaEncoderSettings{
		scale_factor_bits:   C.uint8_t(d.ScaleFactorBits),
		scale_factor_frames: C.uint8_t(d.ScaleFactorFrames),
		residual_bits:       C.float(d.ResidualBits),
		frames_per_chunk:    C.uint16_t(d.FramesPerChunk),
		vbr:                 C.bool(d.VBR),
	}
}

// sea_encode encodes input_samples (input_length int16 values,
// interleaved) and returns 0 with *output_data/*output_length populated
// on success, or a negative error code.
//
//export sea_encode
func sea_encode(
	inputSamples *C.int16_t, inputLength C.size_t,
	sampleRate C.uint32_t, channels C.uint32_t,
	settings *C.CSeaEncoderSettings,
	outputData **C.uint8_t, outputLength *C.size_t,
) C.int32_t {
	if inputSamples == nil || outputData == nil || outputLength == nil {
		return -1
	}

	samples := unsafe.Slice((*int16)(unsafe.Pointer(inputSamples)), int(inputLength))
	encoded, err := sea.Encode(samples, int(channels), uint32(sampleRate), settingsFromC(settings))
	if err != nil {
		return -2
	}

	buf := C.CBytes(encoded)
	*outputData = (*C.uint8_t)(buf)
	*outputLength = C.size_t(len(encoded))
	return 0
}

// sea_decode decodes encoded_data and returns 0 with the output pointers
// populated on success, or a negative error code.
//
//export sea_decode
func sea_decode(
	encodedData *C.uint8_t, encodedLength C.size_t,
	outputSamples **C.int16_t, outputSampleCount *C.size_t,
	outputSampleRate *C.uint32_t, outputChannels *C.uint32_t,
) C.int32_t {
	if encodedData == nil || outputSamples == nil || outputSampleCount == nil {
		return -1
	}

	data := C.GoBytes(unsafe.Pointer(encodedData), C.int(encodedLength))
	samples, header, err := sea.Decode(data)
	if err != nil {
		return -2
	}

	size := C.size_t(len(samples)) * C.size_t(unsafe.Sizeof(C.int16_t(0)))
	buf := C.malloc(size)
	if len(samples) > 0 {
		dst := unsafe.Slice((*int16)(unsafe.Pointer(buf)), len(samples))
		copy(dst, samples)
	}

	*outputSamples = (*C.int16_t)(buf)
	*outputSampleCount = C.size_t(len(samples))
	if outputSampleRate != nil {
		*outputSampleRate = C.uint32_t(header.SampleRate)
	}
	if outputChannels != nil {
		*outputChannels = C.uint32_t(header.Channels)
	}
	return 0
}

//export sea_free_packet
func sea_free_packet(data *C.uint8_t, length C.size_t) {
	if data != nil {
		C.free(unsafe.Pointer(data))
	}
}

//export sea_free_samples
func sea_free_samples(samples *C.int16_t, length C.size_t) {
	if samples != nil {
		C.free(unsafe.Pointer(samples))
	}
}

func main() {}
