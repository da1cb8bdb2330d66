// SPDX-License-Identifier: EPL-2.0

// Package codec converts audio samples between their on-disk encodings and
// program values.
//
// Every encoding has a native full scale (Kind.FullScale). A file handle
// derives a scale factor from it, and Decode multiplies raw values by that
// factor while Encoder.Encode divides by it. With the default program full
// scale of 1.0, 16-bit PCM sample 16384 reads as 0.5.
//
// # Supported Encodings
//
//   - unsigned 8-bit and signed 8/16/24/32-bit PCM, either byte order
//   - IEEE float32 and float64
//   - ITU-T G.711 A-law, mu-law and bit-reversed mu-law
//   - text (decimal numbers, see TextDecoder)
//
// # G.711
//
// Decoding is a 256-entry table lookup into 16-bit units. Encoding compares
// the value against 255 ordered decision levels and picks the first region i
// with value < Xq[i]; a value that is exactly on a decision level goes to the
// upper region. A second table maps the region to the byte written to disk,
// complement and bit reversal included.
//
// # Overloads
//
// Encoding never fails on range. Values that must be clipped increment
// Encoder.Overloads and the clipped value is written.
package codec
