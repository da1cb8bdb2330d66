// SPDX-License-Identifier: EPL-2.0

// Package aiff reads and writes AIFF and AIFF-C headers.
//
// AIFF is Apple's interchange format. It differs from WAVE mainly in using
// big-endian chunk sizes and an 80-bit extended float for the sampling rate.
// AIFF-C adds a compression type to the COMM chunk.
//
// # Supported Formats
//
//   - AIFF: 8 to 32-bit big-endian integers
//   - AIFF-C NONE, twos, in24, in32: big-endian integers
//   - AIFF-C sowt: little-endian integers
//   - AIFF-C raw: 8-bit offset binary
//   - AIFF-C fl32, fl64: IEEE float
//   - AIFF-C ulaw, alaw: G.711
//
// # Decoding
//
//	r := binio.NewReader(file)
//	p, err := aiff.Decode(r, formats.DecodeOptions{Log: log})
//
// COMM may appear after SSND when the stream is seekable. NAME, AUTH, "(c) "
// and ANNO chunks become information records; an ANNO chunk starting with
// "AFsp" holds records written by this package. MARK, INST, FVER and other
// chunks are skipped.
//
// The COMM frame count wins over the SSND size when the data holds at least
// that many frames. Otherwise the frame count is reduced with a warning.
//
// Headers are walked here rather than through github.com/go-audio/aiff: that
// decoder reports neither chunk offsets nor the data start, and reads only
// PCM data, so the AIFF-C compression types and annotation chunks above are
// out of its reach. The encoder tests decode written files with go-audio/aiff
// as an independent check.
//
// # Encoding
//
// WriteParams.Container chooses the variant: formats.AIFF,
// formats.AIFFC or formats.AIFFCSowt. The header is written in one piece;
// if the frame count is unknown, the FORM size, COMM frame count and SSND
// size are rewritten by Header.Finalize on a seekable stream.
package aiff
