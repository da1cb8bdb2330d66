// SPDX-License-Identifier: EPL-2.0

// Package nist reads NIST SPHERE headers.
//
// A SPHERE header starts with the lines "NIST_1A" and the header length,
// normally "   1024", followed by "name -type value" lines up to
// "end_head". Types are -i (integer), -r (real) and -sN (string of N
// bytes). sample_count, sample_n_bytes and channel_count are required;
// sample_rate may only be omitted for mu-law data, which is then taken to
// be 8 kHz.
//
// Files with embedded compression (shorten, wavpack) are reported as
// unsupported.
package nist
