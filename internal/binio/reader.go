// SPDX-License-Identifier: EPL-2.0

// Package binio provides cursor-based field access for binary headers: sized
// integers and floats in either byte order, with the stream position tracked
// so parsers can record chunk offsets on seekable and sequential streams alike.
package binio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

var (
	// ErrTruncated indicates the stream ended inside a field
	ErrTruncated = errors.New("unexpected end of file")
	// ErrNotSeekable indicates a random-access operation on a sequential stream
	ErrNotSeekable = errors.New("stream is not seekable")
)

// Seekable reports whether the reader or writer v can actually reposition.
// Pipes and terminals satisfy io.Seeker but fail the probe.
func Seekable(v any) (io.Seeker, bool) {
	s, ok := v.(io.Seeker)
	if !ok {
		return nil, false
	}
	if _, err := s.Seek(0, io.SeekCurrent); err != nil {
		return nil, false
	}
	return s, true
}

// Reader reads header fields and counts consumed bytes.
type Reader struct {
	r    io.Reader
	s    io.Seeker
	pos  int64
	base int64
	size int64
	buf  [8]byte
	pend []byte // bytes returned by Unread
}

// NewReader wraps r. Positions are relative to r's current offset. For a
// seekable stream the remaining size is probed once.
func NewReader(r io.Reader) *Reader {
	br := &Reader{r: r, size: -1}
	if s, ok := Seekable(r); ok {
		br.s = s
		cur, _ := s.Seek(0, io.SeekCurrent)
		end, err := s.Seek(0, io.SeekEnd)
		if err == nil {
			br.size = end - cur
		}
		if _, err := s.Seek(cur, io.SeekStart); err != nil {
			br.s = nil
			br.size = -1
		}
		br.base = cur
	}
	return br
}

func (r *Reader) Seekable() bool { return r.s != nil }

// Size is the stream length from the starting offset, -1 when unknown.
func (r *Reader) Size() int64 { return r.size }

// Pos is the number of bytes consumed since the starting offset.
func (r *Reader) Pos() int64 { return r.pos }

// Remaining is the number of bytes left, -1 when unknown.
func (r *Reader) Remaining() int64 {
	if r.size < 0 {
		return -1
	}
	return r.size - r.pos
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	if len(r.pend) > 0 {
		n := copy(p, r.pend)
		r.pend = r.pend[n:]
		r.pos += int64(n)
		return n, nil
	}
	n, err := r.r.Read(p)
	r.pos += int64(n)
	return n, err
}

// Unread pushes back bytes that were just read so the next Read returns
// them again. It works on sequential streams.
func (r *Reader) Unread(b []byte) {
	r.pend = append(append([]byte(nil), b...), r.pend...)
	r.pos -= int64(len(b))
}

// Bytes reads exactly n bytes.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative field length %d", ErrTruncated, n)
	}
	if rem := r.Remaining(); rem >= 0 && int64(n) > rem {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, %d left", ErrTruncated, n, r.pos, rem)
	}
	b := make([]byte, n)
	if err := r.full(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *Reader) full(b []byte) error {
	if _, err := io.ReadFull(r, b); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w at offset %d", ErrTruncated, r.pos)
		}
		return fmt.Errorf("reading header: %w", err)
	}
	return nil
}

// Tag reads a four-character code.
func (r *Reader) Tag() ([4]byte, error) {
	var id [4]byte
	err := r.full(id[:])
	return id, err
}

func (r *Reader) U8() (uint8, error) {
	if err := r.full(r.buf[:1]); err != nil {
		return 0, err
	}
	return r.buf[0], nil
}

func (r *Reader) U16(bo binary.ByteOrder) (uint16, error) {
	if err := r.full(r.buf[:2]); err != nil {
		return 0, err
	}
	return bo.Uint16(r.buf[:2]), nil
}

func (r *Reader) U32(bo binary.ByteOrder) (uint32, error) {
	if err := r.full(r.buf[:4]); err != nil {
		return 0, err
	}
	return bo.Uint32(r.buf[:4]), nil
}

func (r *Reader) U64(bo binary.ByteOrder) (uint64, error) {
	if err := r.full(r.buf[:8]); err != nil {
		return 0, err
	}
	return bo.Uint64(r.buf[:8]), nil
}

func (r *Reader) I16(bo binary.ByteOrder) (int16, error) {
	v, err := r.U16(bo)
	return int16(v), err
}

func (r *Reader) I32(bo binary.ByteOrder) (int32, error) {
	v, err := r.U32(bo)
	return int32(v), err
}

func (r *Reader) F32(bo binary.ByteOrder) (float32, error) {
	v, err := r.U32(bo)
	return math.Float32frombits(v), err
}

func (r *Reader) F64(bo binary.ByteOrder) (float64, error) {
	v, err := r.U64(bo)
	return math.Float64frombits(v), err
}

// Ext80 reads a big-endian IEEE 754 80-bit extended value.
func (r *Reader) Ext80() (float64, error) {
	b, err := r.Bytes(10)
	if err != nil {
		return 0, err
	}
	return Ext80(b), nil
}

// Skip advances n bytes, seeking when possible and reading otherwise.
func (r *Reader) Skip(n int64) error {
	if n <= 0 {
		return nil
	}
	if r.s != nil {
		if rem := r.Remaining(); rem >= 0 && n > rem {
			return fmt.Errorf("%w: skipping %d bytes at offset %d, %d left", ErrTruncated, n, r.pos, rem)
		}
		if _, err := r.s.Seek(r.base+r.pos+n, io.SeekStart); err != nil {
			return fmt.Errorf("seeking: %w", err)
		}
		r.pos += n
		r.pend = nil
		return nil
	}
	m, err := io.CopyN(io.Discard, r, n)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: skipped %d of %d bytes", ErrTruncated, m, n)
		}
		return fmt.Errorf("skipping: %w", err)
	}
	return nil
}

// SeekTo moves to an absolute position. Forward moves on sequential streams
// are done by reading; backward moves need a seekable stream.
func (r *Reader) SeekTo(pos int64) error {
	if pos == r.pos {
		return nil
	}
	if r.s == nil {
		if pos < r.pos {
			return fmt.Errorf("%w: cannot move back from %d to %d", ErrNotSeekable, r.pos, pos)
		}
		return r.Skip(pos - r.pos)
	}
	if _, err := r.s.Seek(r.base+pos, io.SeekStart); err != nil {
		return fmt.Errorf("seeking: %w", err)
	}
	r.pos = pos
	r.pend = nil
	return nil
}

// Peek reads up to n bytes at the current position and rewinds. It needs a
// seekable stream.
func (r *Reader) Peek(n int) ([]byte, error) {
	if r.s == nil {
		return nil, ErrNotSeekable
	}
	start := r.pos
	b := make([]byte, n)
	m, err := io.ReadFull(r, b)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("peeking: %w", err)
	}
	if err := r.SeekTo(start); err != nil {
		return nil, err
	}
	return b[:m], nil
}
