package cursor

import (
	"bytes"
	"io"
	"testing"
)

func TestFromSliceReadExact(t *testing.T) {
	s := FromSlice([]byte("hello world"))
	buf := make([]byte, 5)
	if err := s.ReadExact(buf); err != nil {
		t.Fatalf("ReadExact: %v", err)
	}
	if string(buf) != "hello" {
		t.Errorf("ReadExact = %q, want %q", buf, "hello")
	}
}

func TestFromSliceReadExactShortReturnsError(t *testing.T) {
	s := FromSlice([]byte("hi"))
	buf := make([]byte, 10)
	if err := s.ReadExact(buf); err == nil {
		t.Fatal("expected an error reading past the end of a short slice")
	}
}

func TestFromReaderReadExact(t *testing.T) {
	s := FromReader(bytes.NewBufferString("streamed bytes"))
	buf := make([]byte, 8)
	if err := s.ReadExact(buf); err != nil {
		t.Fatalf("ReadExact: %v", err)
	}
	if string(buf) != "streamed" {
		t.Errorf("ReadExact = %q, want %q", buf, "streamed")
	}
}

func TestFromReaderReadExactShortReturnsError(t *testing.T) {
	s := FromReader(bytes.NewBufferString("x"))
	buf := make([]byte, 4)
	err := s.ReadExact(buf)
	if err == nil {
		t.Fatal("expected an error")
	}
	if err != io.ErrUnexpectedEOF {
		t.Errorf("err = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestBothVariantsSatisfySource(t *testing.T) {
	var variants = []Source{
		FromSlice([]byte("abc")),
		FromReader(bytes.NewBufferString("abc")),
	}
	for _, v := range variants {
		buf := make([]byte, 3)
		if err := v.ReadExact(buf); err != nil {
			t.Errorf("ReadExact: %v", err)
		}
	}
}
