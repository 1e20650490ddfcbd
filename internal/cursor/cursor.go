// Package cursor provides a tagged byte source: either a borrowed slice
// or a generic io.Reader, behind one uniform read contract. This is a
// capability, not an inheritance hierarchy — callers that just need bytes
// never need to know which variant they hold.
package cursor

import (
	"bytes"
	"io"
)

// Source is the uniform contract both variants satisfy.
type Source interface {
	// ReadExact fills buf entirely or returns io.ErrUnexpectedEOF (or the
	// underlying error) without partially consuming more than it reports.
	ReadExact(buf []byte) error
	// Read behaves like io.Reader.Read.
	Read(buf []byte) (int, error)
}

// FromSlice wraps an in-memory byte slice as a Source. The slice is
// borrowed, not copied.
func FromSlice(data []byte) Source {
	return &sliceSource{r: bytes.NewReader(data)}
}

// FromReader wraps an arbitrary io.Reader as a Source.
func FromReader(r io.Reader) Source {
	return &readerSource{r: r}
}

type sliceSource struct {
	r *bytes.Reader
}

func (s *sliceSource) ReadExact(buf []byte) error {
	_, err := io.ReadFull(s.r, buf)
	return err
}

func (s *sliceSource) Read(buf []byte) (int, error) {
	return s.r.Read(buf)
}

type readerSource struct {
	r io.Reader
}

func (s *readerSource) ReadExact(buf []byte) error {
	_, err := io.ReadFull(s.r, buf)
	return err
}

func (s *readerSource) Read(buf []byte) (int, error) {
	return s.r.Read(buf)
}
