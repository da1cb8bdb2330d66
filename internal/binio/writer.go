// SPDX-License-Identifier: EPL-2.0

package binio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Writer assembles headers and sample data, buffering writes and tracking the
// position so size fields can be patched once the data length is known.
type Writer struct {
	w    io.Writer
	s    io.Seeker
	bw   *bufio.Writer
	pos  int64
	base int64
	buf  [10]byte
	err  error
}

// NewWriter wraps w. Positions are relative to w's current offset.
func NewWriter(w io.Writer) *Writer {
	bw := &Writer{w: w, bw: bufio.NewWriterSize(w, 16384)}
	if s, ok := Seekable(w); ok {
		bw.s = s
		bw.base, _ = s.Seek(0, io.SeekCurrent)
	}
	return bw
}

func (w *Writer) Seekable() bool { return w.s != nil }

// Pos is the number of bytes written since the starting offset.
func (w *Writer) Pos() int64 { return w.pos }

// Err returns the first write error.
func (w *Writer) Err() error { return w.err }

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.bw.Write(p)
	w.pos += int64(n)
	if err != nil {
		w.err = fmt.Errorf("writing: %w", err)
	}
	return n, w.err
}

func (w *Writer) put(b []byte) { _, _ = w.Write(b) }

func (w *Writer) Tag(id string) {
	var t [4]byte
	copy(t[:], id)
	w.put(t[:])
}

func (w *Writer) Bytes(b []byte) { w.put(b) }

func (w *Writer) Text(s string) { w.put([]byte(s)) }

func (w *Writer) U8(v uint8) {
	w.buf[0] = v
	w.put(w.buf[:1])
}

func (w *Writer) U16(bo binary.ByteOrder, v uint16) {
	bo.PutUint16(w.buf[:2], v)
	w.put(w.buf[:2])
}

func (w *Writer) U32(bo binary.ByteOrder, v uint32) {
	bo.PutUint32(w.buf[:4], v)
	w.put(w.buf[:4])
}

func (w *Writer) U64(bo binary.ByteOrder, v uint64) {
	bo.PutUint64(w.buf[:8], v)
	w.put(w.buf[:8])
}

func (w *Writer) F32(bo binary.ByteOrder, v float32) { w.U32(bo, math.Float32bits(v)) }

func (w *Writer) Ext80(v float64) {
	PutExt80(w.buf[:10], v)
	w.put(w.buf[:10])
}

// Zeros writes n zero bytes.
func (w *Writer) Zeros(n int) {
	for ; n > 0; n-- {
		w.U8(0)
	}
}

// Flush pushes buffered bytes to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if err := w.bw.Flush(); err != nil {
		w.err = fmt.Errorf("flushing: %w", err)
	}
	return w.err
}

// PatchU32 overwrites a 32-bit field at an absolute position and returns to
// the end of the written data.
func (w *Writer) PatchU32(at int64, bo binary.ByteOrder, v uint32) error {
	var b [4]byte
	bo.PutUint32(b[:], v)
	return w.Patch(at, b[:])
}

// Patch overwrites bytes at an absolute position. It needs a seekable stream.
func (w *Writer) Patch(at int64, b []byte) error {
	if w.s == nil {
		return ErrNotSeekable
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if _, err := w.s.Seek(w.base+at, io.SeekStart); err != nil {
		return fmt.Errorf("seeking to %d: %w", at, err)
	}
	if _, err := w.w.Write(b); err != nil {
		return fmt.Errorf("patching at %d: %w", at, err)
	}
	if _, err := w.s.Seek(w.base+w.pos, io.SeekStart); err != nil {
		return fmt.Errorf("seeking to end: %w", err)
	}
	return nil
}
