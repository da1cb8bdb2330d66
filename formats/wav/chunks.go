// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"github.com/ik5/audfile/info"
)

var (
	factID = [4]byte{'f', 'a', 'c', 't'}
	listID = [4]byte{'L', 'I', 'S', 'T'}
	infoID = [4]byte{'I', 'N', 'F', 'O'}
	bextID = [4]byte{'b', 'e', 'x', 't'}
	afspID = [4]byte{'a', 'f', 's', 'p'}
)

// afspMarker starts the payload of the afsp chunk.
const afspMarker = "AFsp"

// WAVE format tags.
const (
	tagPCM        = 0x0001
	tagFloat      = 0x0003
	tagALaw       = 0x0006
	tagMuLaw      = 0x0007
	tagExtensible = 0xFFFE
)

// subFormatTail follows the two-byte format tag in an extensible sub-format
// GUID.
var subFormatTail = [14]byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71}

// infoMap pairs LIST/INFO subchunk tags with record identifiers. The order
// is the order of subchunks on output.
var infoMap = []struct {
	tag string
	id  string
}{
	{"INAM", info.Title},
	{"IART", info.Artist},
	{"ICMT", info.Comment},
	{"ICOP", info.Copyright},
	{"ICRD", info.Date},
	{"ISFT", info.Program},
	{"IENG", "engineer:"},
	{"IGNR", "genre:"},
	{"IKEY", "keywords:"},
	{"ISBJ", "subject:"},
	{"ISRC", "source:"},
	{"ITCH", "technician:"},
	{"IPRD", info.Product},
}

func infoRecordID(tag [4]byte) string {
	for _, m := range infoMap {
		if m.tag == string(tag[:]) {
			return m.id
		}
	}
	return info.NormalizeID(string(tag[:]))
}

func pad2(n int64) int64 { return n + n&1 }
