package sea

// EncoderSettings configures a chunk encoder. Zero value is not valid;
// start from DefaultSettings and override individual fields.
type EncoderSettings struct {
	// ScaleFactorBits is the number of bits used to index the scale
	// factor table; 2-6, default 4.
	ScaleFactorBits uint

	// ScaleFactorFrames is the number of samples per slice; default 20.
	ScaleFactorFrames int

	// ResidualBits is the target residual width; an integer 1-8 in CBR
	// mode, a float in [2, 6] in VBR mode. Default 3.0.
	ResidualBits float64

	// FramesPerChunk bounds chunk size; default 5120.
	FramesPerChunk uint16

	// VBR selects the variable-bitrate encoder; default false (CBR).
	VBR bool

	// VBRIncremental switches on the incremental VBR variant (re-running
	// the allocation after every 16-slice prefix) instead of the
	// one-shot distribution search. Off by default: the one-shot
	// algorithm is the one treated as production.
	VBRIncremental bool

	// Verbose gates the VBR encoder's diagnostic log lines. Has no wire
	// representation and is not part of the C ABI settings struct.
	Verbose bool
}

// DefaultSettings returns the codec's documented defaults.
func DefaultSettings() EncoderSettings {
	return EncoderSettings{
		ScaleFactorBits:   4,
		ScaleFactorFrames: 20,
		ResidualBits:      3.0,
		FramesPerChunk:    5120,
		VBR:               false,
	}
}

// Validate checks the settings against the ranges the codec supports,
// returning ErrInvalidSettings itself (unwrapped) if any field is out of
// range.
func (s EncoderSettings) Validate() error {
	if s.ScaleFactorBits < 2 || s.ScaleFactorBits > 6 {
		return ErrInvalidSettings
	}
	if s.ScaleFactorFrames <= 0 {
		return ErrInvalidSettings
	}
	if s.FramesPerChunk == 0 {
		return ErrInvalidSettings
	}
	if s.VBR {
		if s.ResidualBits < 2 || s.ResidualBits > 6 {
			return ErrInvalidSettings
		}
	} else {
		if s.ResidualBits < 1 || s.ResidualBits > 8 {
			return ErrInvalidSettings
		}
	}
	return nil
}

// BaseWidth returns the integer residual width CBR mode encodes every
// slice at.
func (s EncoderSettings) BaseWidth() int {
	w := int(s.ResidualBits + 0.5)
	if w < 1 {
		w = 1
	}
	if w > 8 {
		w = 8
	}
	return w
}
