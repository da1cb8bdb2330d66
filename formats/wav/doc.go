// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes RIFF/WAVE headers.
//
// Chunk preambles are read with github.com/go-audio/riff; the package decodes
// the header fields and leaves sample transcoding to the codec package.
//
// # Supported Formats
//
//   - PCM: 8-bit offset binary, 16, 24 and 32-bit signed
//   - IEEE float: 32 and 64-bit
//   - G.711 A-law and mu-law
//   - WAVE_FORMAT_EXTENSIBLE with valid bits and a channel mask
//
// # Decoding
//
//	r := binio.NewReader(file)
//	p, err := wav.Decode(r, formats.DecodeOptions{Log: log})
//	if errors.Is(err, formats.ErrBadMagic) {
//	    // not a WAVE file
//	}
//
// The decoder walks the chunks after the 12-byte RIFF preamble:
//   - fmt : encoding, channels, rate, block size and the extensible fields
//   - fact: frame count, used for non-PCM data only
//   - LIST/INFO: text fields mapped to info records (INAM to "title:", ...)
//   - bext: Broadcast WAVE description, originator and coding history
//   - afsp: information records with no INFO equivalent
//   - data: the samples
//
// Other chunks are skipped by their declared size. When the stream is
// sequential, parsing stops at the data chunk.
//
// # Self-healing
//
// Some inconsistencies are common enough to be fixed with a warning rather
// than rejected:
//   - a RIFF size that disagrees with the file size
//   - a data size of zero or beyond the end of the file
//   - a trailing partial frame
//
// A zero data size on a sequential stream means the data runs to the end of
// the stream.
//
// # Encoding
//
// Encode writes the header in one piece. WAVE_FORMAT_EXTENSIBLE is used for
// PCM with more than two channels, fewer valid bits than the container holds,
// containers wider than 16 bits, or a loudspeaker layout that maps to a
// channel mask; float data uses it for more than two channels or a mask.
// When the frame count is unknown, sizes are written as zero and rewritten by
// Header.Finalize if the stream is seekable.
package wav
