// Package bits provides small bit-level helpers shared by the chunk codec.
//
// The heavy lifting (packing/unpacking variable-width fields MSB-first
// within a byte) is delegated to github.com/icza/bitio; this package only
// adds the handful of sign and clamp helpers the SEA wire format needs on
// top of it.
package bits

// SignExtend interprets x as a signed n-bit integer and sign extends it to
// a full int32.
func SignExtend(x uint64, n uint) int32 {
	if n == 0 || n >= 32 {
		return int32(x)
	}
	if x&(1<<(n-1)) != 0 {
		return int32(x | ^uint64(0)<<n)
	}
	return int32(x)
}

// ClampInt16 saturates x to the representable range of a signed 16-bit
// sample.
func ClampInt16(x int32) int16 {
	switch {
	case x > 32767:
		return 32767
	case x < -32768:
		return -32768
	default:
		return int16(x)
	}
}

// Sign returns -1, 0 or 1 according to the sign of x.
func Sign(x int32) int32 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
