package sea

import (
	"encoding/binary"

	"github.com/sea-codec/sea-go/internal/cursor"
)

// Magic is the four-byte file signature, big-endian: "SEAC".
const Magic uint32 = 0x53454143

// CurrentVersion is the only file header version this package writes.
const CurrentVersion uint8 = 1

// headerFixedSize is the byte length of the header up to (not including)
// the metadata payload.
const headerFixedSize = 25

// FileHeader is the fixed-layout header that precedes every chunk
// stream: magic, version, channel count, chunk size, frame geometry,
// sample rate, total frame count, quantizer geometry, and a free-form
// metadata string.
//
// ScaleFactorBits and ScaleFactorFrames are carried here rather than
// left as out-of-band encoder configuration: a decoder constructed from
// nothing but a byte source must be able to parse every chunk on its
// own (§4.10, "construct from a byte source: parse header"), so the
// quantizer geometry the chunk bitstream depends on has to travel with
// the file.
type FileHeader struct {
	Version           uint8
	Channels          uint8
	ChunkSize         uint16 // patched in after the first chunk is produced
	FramesPerChunk    uint16
	SampleRate        uint32
	TotalFrames       uint32 // 0 = unknown
	ScaleFactorBits   uint8
	ScaleFactorFrames uint16
	Metadata          string
}

// Serialize writes the header in its wire layout.
func (h *FileHeader) Serialize() []byte {
	buf := make([]byte, headerFixedSize+len(h.Metadata))
	binary.BigEndian.PutUint32(buf[0:4], Magic)
	buf[4] = h.Version
	buf[5] = h.Channels
	binary.LittleEndian.PutUint16(buf[6:8], h.ChunkSize)
	binary.LittleEndian.PutUint16(buf[8:10], h.FramesPerChunk)
	binary.LittleEndian.PutUint32(buf[10:14], h.SampleRate)
	binary.LittleEndian.PutUint32(buf[14:18], h.TotalFrames)
	buf[18] = h.ScaleFactorBits
	binary.LittleEndian.PutUint16(buf[19:21], h.ScaleFactorFrames)
	binary.LittleEndian.PutUint32(buf[21:25], uint32(len(h.Metadata)))
	copy(buf[headerFixedSize:], h.Metadata)
	return buf
}

// ParseHeader reads and validates a file header from src. The original
// source's read_exact call on the metadata field reads into a
// zero-length buffer (capacity, not length); here the metadata buffer is
// allocated to its full length before the read, so a short source
// correctly surfaces ErrEndOfFile instead of silently returning no
// metadata.
func ParseHeader(src cursor.Source) (*FileHeader, error) {
	fixed := make([]byte, headerFixedSize)
	if err := src.ReadExact(fixed); err != nil {
		return nil, ErrEndOfFile
	}

	if binary.BigEndian.Uint32(fixed[0:4]) != Magic {
		return nil, ErrInvalidFile
	}

	h := &FileHeader{
		Version:           fixed[4],
		Channels:          fixed[5],
		ChunkSize:         binary.LittleEndian.Uint16(fixed[6:8]),
		FramesPerChunk:    binary.LittleEndian.Uint16(fixed[8:10]),
		SampleRate:        binary.LittleEndian.Uint32(fixed[10:14]),
		TotalFrames:       binary.LittleEndian.Uint32(fixed[14:18]),
		ScaleFactorBits:   fixed[18],
		ScaleFactorFrames: binary.LittleEndian.Uint16(fixed[19:21]),
	}

	metaLen := binary.LittleEndian.Uint32(fixed[21:25])
	if metaLen > 0 {
		metaBuf := make([]byte, metaLen)
		if err := src.ReadExact(metaBuf); err != nil {
			return nil, ErrEndOfFile
		}
		h.Metadata = string(metaBuf)
	}

	if h.Channels == 0 || h.SampleRate == 0 || h.FramesPerChunk == 0 {
		return nil, ErrInvalidFile
	}
	if h.ScaleFactorBits < 2 || h.ScaleFactorBits > 6 {
		return nil, ErrInvalidFile
	}
	return h, nil
}
