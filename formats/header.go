// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"fmt"

	"github.com/ik5/audfile/codec"
	"github.com/ik5/audfile/internal/binio"
)

// SizeField is a header field that depends on the final data length.
type SizeField struct {
	Name  string
	At    int64
	Order codec.ByteOrder
	// Value computes the field from the data length in bytes and the
	// number of sample frames.
	Value func(dataBytes, frames int64) uint32
}

// Header is returned by encoders once the header is written and the stream
// is positioned at the start of the data.
type Header struct {
	DataStart int64
	// Declared is the data length written into the header, UnknownLen if
	// placeholders were written.
	Declared int64
	// PadOdd appends a pad byte after odd-length data.
	PadOdd bool
	Fields []SizeField
}

// Finalize completes a file after dataBytes of sample data. Size fields are
// rewritten in place when they differ from what the header announced. On a
// sequential stream that is impossible and ErrNotSeekable is returned after
// everything else has been flushed; the file remains readable up to the
// declared length.
func (h *Header) Finalize(w *binio.Writer, dataBytes, frames int64) error {
	if h.PadOdd && dataBytes%2 == 1 {
		w.U8(0)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if dataBytes == h.Declared || len(h.Fields) == 0 {
		return nil
	}
	if !w.Seekable() {
		return fmt.Errorf("%w: header sizes left at placeholder values", ErrNotSeekable)
	}
	for _, f := range h.Fields {
		if err := w.PatchU32(f.At, f.Order.Binary(), f.Value(dataBytes, frames)); err != nil {
			return fmt.Errorf("updating %s: %w", f.Name, err)
		}
	}
	return nil
}

// Clamp32 limits a length to the range of a 32-bit size field.
func Clamp32(n int64) uint32 {
	if n < 0 {
		return 0
	}
	if n > 0xFFFFFFFF {
		return 0xFFFFFFFF
	}
	return uint32(n)
}
