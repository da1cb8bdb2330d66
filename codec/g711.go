// SPDX-License-Identifier: EPL-2.0

package codec

import "sort"

// G.711 quantizer tables. Reconstruction levels are in 16-bit units
// (mu-law +-32124, A-law +-32256). Each law carries 255 decision levels
// between its 256 sorted reconstruction levels and a region-to-code map;
// the code map already includes the on-disk complement and, for MuLawR,
// the bit reversal.
type g711Tables struct {
	decode [256]float64
	xq     [255]float64
	code   [256]byte
}

var (
	muLawTables  = buildG711(muLawLevel, nil)
	aLawTables   = buildG711(aLawLevel, nil)
	muLawRTables = buildG711(muLawLevel, reverseBits)
)

// muLawLevel expands a mu-law code (G.711 Table 2) to 16-bit units.
func muLawLevel(code byte) float64 {
	u := ^code
	exp := (u >> 4) & 0x07
	mant := int(u & 0x0F)
	mag := (((mant << 3) + 0x84) << exp) - 0x84
	if u&0x80 != 0 {
		return -float64(mag)
	}
	return float64(mag)
}

// aLawLevel expands an A-law code (G.711 Table 1) to 16-bit units.
func aLawLevel(code byte) float64 {
	a := code ^ 0x55
	exp := (a >> 4) & 0x07
	mant := int(a & 0x0F)
	var mag int
	if exp == 0 {
		mag = (mant << 4) + 8
	} else {
		mag = ((mant << 4) + 0x108) << (exp - 1)
	}
	if a&0x80 != 0 {
		return float64(mag)
	}
	return -float64(mag)
}

func reverseBits(b byte) byte {
	b = (b&0xF0)>>4 | (b&0x0F)<<4
	b = (b&0xCC)>>2 | (b&0x33)<<2
	b = (b&0xAA)>>1 | (b&0x55)<<1
	return b
}

func buildG711(level func(byte) float64, disk func(byte) byte) *g711Tables {
	t := &g711Tables{}

	type entry struct {
		level float64
		neg   bool
		code  byte
	}
	entries := make([]entry, 256)
	for c := range 256 {
		code := byte(c)
		v := level(code)
		// mu-law has two zero codes; the negative one sorts first
		neg := v < 0 || (v == 0 && ^code&0x80 != 0)
		entries[c] = entry{level: v, neg: neg, code: code}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].level != entries[j].level {
			return entries[i].level < entries[j].level
		}
		return entries[i].neg && !entries[j].neg
	})

	for c := range 256 {
		onDisk := byte(c)
		code := onDisk
		if disk != nil {
			code = disk(onDisk)
		}
		t.decode[onDisk] = level(code)
	}
	for i, e := range entries {
		out := e.code
		if disk != nil {
			out = disk(e.code)
		}
		t.code[i] = out
		if i < len(t.xq) {
			t.xq[i] = (e.level + entries[i+1].level) / 2
		}
	}
	return t
}

// quantize returns the region index for x: the first i with x < xq[i], or
// 255 when x is at or above the top decision level. A value equal to a
// decision level lands in the upper region.
func (t *g711Tables) quantize(x float64) int {
	lo, hi := 0, len(t.xq)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if x < t.xq[mid] {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

func (t *g711Tables) encode(x float64) byte { return t.code[t.quantize(x)] }

func tablesFor(k Kind) *g711Tables {
	switch k {
	case ALaw:
		return aLawTables
	case MuLaw:
		return muLawTables
	case MuLawR:
		return muLawRTables
	}
	return nil
}

// G711Decode returns the reconstruction level of an on-disk byte in 16-bit
// units. It returns 0 for non-G.711 kinds.
func G711Decode(k Kind, b byte) float64 {
	t := tablesFor(k)
	if t == nil {
		return 0
	}
	return t.decode[b]
}

// G711Encode quantizes a 16-bit-unit value to its on-disk byte.
func G711Encode(k Kind, x float64) byte {
	t := tablesFor(k)
	if t == nil {
		return 0
	}
	return t.encode(x)
}

// G711Levels returns the sorted reconstruction levels and decision levels of a
// law, mainly for diagnostics and tests.
func G711Levels(k Kind) (levels []float64, decision []float64) {
	t := tablesFor(k)
	if t == nil {
		return nil, nil
	}
	levels = make([]float64, 0, 256)
	for _, c := range t.code {
		levels = append(levels, t.decode[c])
	}
	return levels, append([]float64(nil), t.xq[:]...)
}
