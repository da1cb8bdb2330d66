// SPDX-License-Identifier: EPL-2.0

package binio

import (
	"encoding/binary"
	"math"
)

// Ext80 converts a big-endian 80-bit extended float (sign, 15-bit exponent,
// 64-bit mantissa with explicit integer bit) as used by AIFF sample rates.
func Ext80(b []byte) float64 {
	se := binary.BigEndian.Uint16(b[0:2])
	mant := binary.BigEndian.Uint64(b[2:10])
	exp := int(se & 0x7FFF)
	if exp == 0 && mant == 0 {
		return 0
	}
	if exp == 0x7FFF {
		if se&0x8000 != 0 {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	v := math.Ldexp(float64(mant), exp-16383-63)
	if se&0x8000 != 0 {
		v = -v
	}
	return v
}

// PutExt80 stores v as a big-endian 80-bit extended float.
func PutExt80(b []byte, v float64) {
	for i := range 10 {
		b[i] = 0
	}
	if v == 0 {
		return
	}
	var sign uint16
	if v < 0 {
		sign = 0x8000
		v = -v
	}
	frac, e := math.Frexp(v) // v = frac * 2^e, frac in [0.5, 1)
	mant := uint64(math.Ldexp(frac, 64))
	binary.BigEndian.PutUint16(b[0:2], sign|uint16(e-1+16383))
	binary.BigEndian.PutUint64(b[2:10], mant)
}
