// SPDX-License-Identifier: EPL-2.0

// Package au reads and writes Sun/NeXT AU headers.
//
// The fixed header is six 32-bit words: magic, data offset, data size,
// encoding, sampling rate and channel count. Files are normally big-endian
// with the magic ".snd"; the byte-swapped "dns." variant is read as
// little-endian. The annotation between the fixed header and the data holds
// either free text, stored as a comment record, or information records after
// an "AFsp" marker.
//
// A data size of 0xFFFFFFFF means the data runs to the end of the file. The
// encoder writes it when the length is not known in advance and replaces it
// on a seekable stream when the file is finalized.
package au
