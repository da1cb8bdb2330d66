// SPDX-License-Identifier: EPL-2.0

package au

import (
	"github.com/ik5/audfile/codec"
)

const (
	magic      = ".snd"
	magicLE    = "dns."
	fixedSize  = 24
	unknownLen = 0xFFFFFFFF
	afspMarker = "AFsp"
)

// AU encoding codes.
const (
	encMuLaw   = 1
	encInt8    = 2
	encInt16   = 3
	encInt24   = 4
	encInt32   = 5
	encFloat32 = 6
	encFloat64 = 7
	encALaw    = 27
)

var encodings = map[uint32]codec.Kind{
	encMuLaw:   codec.MuLaw,
	encInt8:    codec.Int8,
	encInt16:   codec.Int16,
	encInt24:   codec.Int24,
	encInt32:   codec.Int32,
	encFloat32: codec.Float32,
	encFloat64: codec.Float64,
	encALaw:    codec.ALaw,
}

func encodingFor(k codec.Kind) (uint32, bool) {
	for code, kind := range encodings {
		if kind == k {
			return code, true
		}
	}
	return 0, false
}
