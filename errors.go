package sea

import "errors"

// Sentinel errors returned by the native API. Compare with errors.Is;
// IoError additionally wraps the underlying I/O failure and unwraps with
// the standard errors package.
var (
	// ErrInvalidFile is returned when a header fails validation: bad
	// magic, or a field outside its allowed range.
	ErrInvalidFile = errors.New("sea: invalid file")

	// ErrEndOfFile is returned when a reader is exhausted mid-field: a
	// truncated file header, or chunk bytes too short to hold the
	// channel seeds or a single frame.
	ErrEndOfFile = errors.New("sea: unexpected end of file")

	// ErrEncoderClosed is returned by any Encoder method called after
	// Finalize.
	ErrEncoderClosed = errors.New("sea: encoder closed")

	// ErrInvalidSettings is returned when EncoderSettings fail
	// validation: VBR target outside [2, 6], or a width outside 1-8.
	ErrInvalidSettings = errors.New("sea: invalid settings")
)

// IoErr wraps an underlying I/O failure so callers can still unwrap to
// the original error while matching it as a codec-level failure class.
type IoErr struct {
	Err error
}

func (e *IoErr) Error() string { return "sea: io error: " + e.Err.Error() }

func (e *IoErr) Unwrap() error { return e.Err }

// wrapIo wraps a non-nil error as an IoErr; nil in, nil out.
func wrapIo(err error) error {
	if err == nil {
		return nil
	}
	return &IoErr{Err: err}
}
