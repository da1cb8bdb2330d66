// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"encoding/binary"

	"github.com/ik5/audfile/codec"
	"github.com/ik5/audfile/info"
)

var be = binary.BigEndian

var (
	formID = [4]byte{'F', 'O', 'R', 'M'}
	aiffID = [4]byte{'A', 'I', 'F', 'F'}
	aifcID = [4]byte{'A', 'I', 'F', 'C'}
	commID = [4]byte{'C', 'O', 'M', 'M'}
	ssndID = [4]byte{'S', 'S', 'N', 'D'}
	fverID = [4]byte{'F', 'V', 'E', 'R'}
	annoID = [4]byte{'A', 'N', 'N', 'O'}
)

// aifcVersion is the only AIFF-C format version timestamp.
const aifcVersion = 0xA2805140

// afspMarker starts an ANNO chunk holding information records.
const afspMarker = "AFsp"

// textChunks pairs AIFF text chunk IDs with record identifiers. ANNO is
// handled separately since it also carries the AFsp records.
var textChunks = []struct {
	id  [4]byte
	rec string
}{
	{[4]byte{'N', 'A', 'M', 'E'}, info.Title},
	{[4]byte{'A', 'U', 'T', 'H'}, info.Author},
	{[4]byte{'(', 'c', ')', ' '}, info.Copyright},
	{annoID, info.Comment},
}

// compression describes an AIFF-C compression type.
type compression struct {
	code  string
	name  string
	kind  codec.Kind // Undefined for integer PCM sized by the sample size
	order codec.ByteOrder
}

var compressions = []compression{
	{"NONE", "not compressed", codec.Undefined, codec.BigEndian},
	{"twos", "big-endian", codec.Undefined, codec.BigEndian},
	{"sowt", "little-endian", codec.Undefined, codec.LittleEndian},
	{"raw ", "offset binary", codec.Uint8, codec.BigEndian},
	{"in24", "24-bit integer", codec.Int24, codec.BigEndian},
	{"in32", "32-bit integer", codec.Int32, codec.BigEndian},
	{"fl32", "IEEE 32-bit float", codec.Float32, codec.BigEndian},
	{"FL32", "IEEE 32-bit float", codec.Float32, codec.BigEndian},
	{"fl64", "IEEE 64-bit float", codec.Float64, codec.BigEndian},
	{"FL64", "IEEE 64-bit float", codec.Float64, codec.BigEndian},
	{"ulaw", "mu-law 2:1", codec.MuLaw, codec.BigEndian},
	{"ULAW", "mu-law 2:1", codec.MuLaw, codec.BigEndian},
	{"alaw", "A-law 2:1", codec.ALaw, codec.BigEndian},
	{"ALAW", "A-law 2:1", codec.ALaw, codec.BigEndian},
}

func lookupCompression(code [4]byte) (compression, bool) {
	for _, c := range compressions {
		if c.code == string(code[:]) {
			return c, true
		}
	}
	return compression{}, false
}

// intKind maps a sample size in bits to the integer kind holding it.
func intKind(bits int) codec.Kind {
	switch (bits + 7) / 8 {
	case 1:
		return codec.Int8
	case 2:
		return codec.Int16
	case 3:
		return codec.Int24
	case 4:
		return codec.Int32
	}
	return codec.Undefined
}

func pad2(n int64) int64 { return n + n&1 }
