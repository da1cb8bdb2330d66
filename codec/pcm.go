// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"math"
)

// Decode converts len(dst) samples (or as many as src holds) from their
// on-disk representation and multiplies them by scale. It returns the number
// of samples written to dst. Text kinds are not handled here, see TextDecoder.
func Decode(dst []float64, src []byte, f Format, scale float64) int {
	w := f.Kind.Width()
	if w == 0 {
		return 0
	}
	n := min(len(dst), len(src)/w)
	bo := f.Order.Binary()

	switch f.Kind {
	case Uint8:
		for i := range n {
			dst[i] = float64(int(src[i])-128) * scale
		}
	case Int8:
		for i := range n {
			dst[i] = float64(int8(src[i])) * scale
		}
	case Int16:
		for i := range n {
			dst[i] = float64(int16(bo.Uint16(src[2*i:]))) * scale
		}
	case Int24:
		for i := range n {
			dst[i] = float64(int24(src[3*i:3*i+3], f.Order)) * scale
		}
	case Int32:
		for i := range n {
			dst[i] = float64(int32(bo.Uint32(src[4*i:]))) * scale
		}
	case Float32:
		for i := range n {
			dst[i] = float64(math.Float32frombits(bo.Uint32(src[4*i:]))) * scale
		}
	case Float64:
		for i := range n {
			dst[i] = math.Float64frombits(bo.Uint64(src[8*i:])) * scale
		}
	case ALaw, MuLaw, MuLawR:
		t := tablesFor(f.Kind)
		for i := range n {
			dst[i] = t.decode[src[i]] * scale
		}
	default:
		return 0
	}
	return n
}

// DecodeInt converts on-disk samples to their native integer values without
// scaling. G.711 kinds yield 16-bit units; float kinds are truncated toward zero
// after scaling to 32-bit full scale.
func DecodeInt(dst []int, src []byte, f Format) int {
	w := f.Kind.Width()
	if w == 0 {
		return 0
	}
	n := min(len(dst), len(src)/w)
	bo := f.Order.Binary()

	switch f.Kind {
	case Uint8:
		for i := range n {
			dst[i] = int(src[i]) - 128
		}
	case Int8:
		for i := range n {
			dst[i] = int(int8(src[i]))
		}
	case Int16:
		for i := range n {
			dst[i] = int(int16(bo.Uint16(src[2*i:])))
		}
	case Int24:
		for i := range n {
			dst[i] = int(int24(src[3*i:3*i+3], f.Order))
		}
	case Int32:
		for i := range n {
			dst[i] = int(int32(bo.Uint32(src[4*i:])))
		}
	case Float32, Float64:
		tmp := make([]float64, n)
		Decode(tmp, src, f, 1)
		for i, v := range tmp {
			dst[i] = int(clip(v*2147483648, math.MinInt32, math.MaxInt32))
		}
	case ALaw, MuLaw, MuLawR:
		t := tablesFor(f.Kind)
		for i := range n {
			dst[i] = int(t.decode[src[i]])
		}
	default:
		return 0
	}
	return n
}

func int24(b []byte, o ByteOrder) int32 {
	var u uint32
	if o == BigEndian {
		u = uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
	} else {
		u = uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0])
	}
	return int32(u<<8) >> 8
}

func putInt24(b []byte, v int32, o ByteOrder) {
	u := uint32(v)
	if o == BigEndian {
		b[0], b[1], b[2] = byte(u>>16), byte(u>>8), byte(u)
	} else {
		b[0], b[1], b[2] = byte(u), byte(u>>8), byte(u>>16)
	}
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Encoder converts program samples to their on-disk representation and keeps
// count of values that did not fit the destination range.
type Encoder struct {
	Overloads int64
}

// quant rounds v to the nearest integer (halves away from zero) and clips it
// to [lo, hi], counting an overload when clipping was needed.
func (e *Encoder) quant(v, lo, hi float64) float64 {
	r := math.Round(v)
	if r < lo || r > hi || math.IsNaN(r) {
		e.Overloads++
		if math.IsNaN(r) {
			return 0
		}
		return clip(r, lo, hi)
	}
	return r
}

// Encode divides each sample by scale and writes it to dst in format f. It
// returns the number of samples encoded, limited by the room in dst.
func (e *Encoder) Encode(dst []byte, src []float64, f Format, scale float64) int {
	w := f.Kind.Width()
	if w == 0 || scale == 0 {
		return 0
	}
	n := min(len(src), len(dst)/w)
	bo := f.Order.Binary()
	inv := 1 / scale

	switch f.Kind {
	case Uint8:
		for i := range n {
			dst[i] = byte(int(e.quant(src[i]*inv, -128, 127)) + 128)
		}
	case Int8:
		for i := range n {
			dst[i] = byte(int8(e.quant(src[i]*inv, -128, 127)))
		}
	case Int16:
		for i := range n {
			bo.PutUint16(dst[2*i:], uint16(int16(e.quant(src[i]*inv, math.MinInt16, math.MaxInt16))))
		}
	case Int24:
		for i := range n {
			putInt24(dst[3*i:3*i+3], int32(e.quant(src[i]*inv, -8388608, 8388607)), f.Order)
		}
	case Int32:
		for i := range n {
			bo.PutUint32(dst[4*i:], uint32(int32(e.quant(src[i]*inv, math.MinInt32, math.MaxInt32))))
		}
	case Float32:
		for i := range n {
			v := src[i] * inv
			if math.Abs(v) > math.MaxFloat32 {
				e.Overloads++
				v = clip(v, -math.MaxFloat32, math.MaxFloat32)
			}
			bo.PutUint32(dst[4*i:], math.Float32bits(float32(v)))
		}
	case Float64:
		for i := range n {
			bo.PutUint64(dst[8*i:], math.Float64bits(src[i]*inv))
		}
	case ALaw, MuLaw, MuLawR:
		t := tablesFor(f.Kind)
		for i := range n {
			v := src[i] * inv
			if v < -32768 || v >= 32768 {
				e.Overloads++
			}
			dst[i] = t.encode(v)
		}
	default:
		return 0
	}
	return n
}

// EncodeInt writes native integer values without scaling. Values are clipped
// to the destination range and counted as overloads. For float kinds the
// integers are taken as 32-bit full scale; for G.711 as 16-bit units.
func (e *Encoder) EncodeInt(dst []byte, src []int, f Format) int {
	tmp := make([]float64, len(src))
	scale := 1.0
	if f.Kind.IsFloat() {
		scale = 2147483648
	}
	for i, v := range src {
		tmp[i] = float64(v)
	}
	return e.Encode(dst, tmp, f, scale)
}

// Quantize divides each sample by scale and rounds it to the integer range of
// kind k, the values EncodeInt would write. G.711 and text kinds use 16-bit
// units and float kinds 32-bit full scale. It returns the number of samples
// converted.
func (e *Encoder) Quantize(dst []int, src []float64, k Kind, scale float64) int {
	if scale == 0 || k == Undefined {
		return 0
	}
	bits := k.Bits()
	if k.IsFloat() {
		bits = 32
		scale /= 2147483648
	}
	hi := math.Ldexp(1, bits-1)
	n := min(len(dst), len(src))
	inv := 1 / scale
	for i := range n {
		dst[i] = int(e.quant(src[i]*inv, -hi, hi-1))
	}
	return n
}
