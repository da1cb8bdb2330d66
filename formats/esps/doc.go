// SPDX-License-Identifier: EPL-2.0

// Package esps reads Entropic ESPS sampled-data (FEA_SD) headers.
//
// The byte order is given by which form of the magic 0x6A1A appears at
// offset 16. Each record holds one frame; the fixed header counts the
// doubles, floats, longs and shorts in a record, and exactly one of them
// must be non-zero. Its type is the sample format and its count the number
// of channels.
//
// Generic header items are located by their binary key: the item code 13,
// the name length in 32-bit words and the NUL-padded name, all in the file
// byte order. record_freq gives the sampling rate; start_time and max_value
// are kept as information records.
//
// Floating-point ESPS data is conventionally scaled like 16-bit integers, so
// ReadParams.FullScale is set to 32768 for float records.
package esps
