// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Kind is the on-disk sample encoding.
type Kind int

const (
	Undefined Kind = iota
	Uint8          // offset-binary 8-bit PCM
	Int8
	Int16
	Int24
	Int32
	Float32
	Float64
	ALaw
	MuLaw
	MuLawR // bit-reversed mu-law
	Text   // ASCII numbers
	Text16 // UTF-16 numbers
)

var kindNames = [...]string{
	Undefined: "undefined",
	Uint8:     "uint8",
	Int8:      "int8",
	Int16:     "int16",
	Int24:     "int24",
	Int32:     "int32",
	Float32:   "float32",
	Float64:   "float64",
	ALaw:      "alaw",
	MuLaw:     "mulaw",
	MuLawR:    "mulawR",
	Text:      "text",
	Text16:    "text16",
}

var kindSynonyms = map[string]Kind{
	"a-law":     ALaw,
	"mu-law":    MuLaw,
	"ulaw":      MuLaw,
	"mulawr":    MuLawR,
	"mu-lawr":   MuLawR,
	"float":     Float32,
	"double":    Float64,
	"integer8":  Int8,
	"integer16": Int16,
	"integer24": Int24,
	"integer32": Int32,
	"unsigned8": Uint8,
	"ascii":     Text,
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a keyword such as "int16" or "mu-law" to a Kind.
func ParseKind(s string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if Kind(k) != Undefined && strings.ToLower(name) == key {
			return Kind(k), nil
		}
	}
	if k, ok := kindSynonyms[key]; ok {
		return k, nil
	}
	return Undefined, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Width is the number of bytes per sample on disk, 0 for text kinds.
func (k Kind) Width() int {
	switch k {
	case Uint8, Int8, ALaw, MuLaw, MuLawR:
		return 1
	case Int16:
		return 2
	case Int24:
		return 3
	case Int32, Float32:
		return 4
	case Float64:
		return 8
	}
	return 0
}

// Bits is the container width in bits. Text kinds report 16.
func (k Kind) Bits() int {
	if k.IsText() {
		return 16
	}
	return 8 * k.Width()
}

// FullScale is the native full-scale magnitude of the encoding. Program
// values are normalized against it.
func (k Kind) FullScale() float64 {
	switch k {
	case Uint8, Int8:
		return 128
	case Int16, ALaw, MuLaw, MuLawR, Text, Text16:
		return 32768
	case Int24:
		return 8388608
	case Int32:
		return 2147483648
	case Float32, Float64:
		return 1
	}
	return 1
}

func (k Kind) IsText() bool  { return k == Text || k == Text16 }
func (k Kind) IsFloat() bool { return k == Float32 || k == Float64 }
func (k Kind) IsG711() bool  { return k == ALaw || k == MuLaw || k == MuLawR }

// IsPCM reports integer linear encodings.
func (k Kind) IsPCM() bool {
	switch k {
	case Uint8, Int8, Int16, Int24, Int32:
		return true
	}
	return false
}

// ByteOrder of multi-byte sample data.
type ByteOrder int

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

func (o ByteOrder) String() string {
	if o == BigEndian {
		return "big-endian"
	}
	return "little-endian"
}

// Binary returns the encoding/binary view of the order.
func (o ByteOrder) Binary() binary.ByteOrder {
	if o == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Swapped returns the opposite byte order.
func (o ByteOrder) Swapped() ByteOrder {
	if o == BigEndian {
		return LittleEndian
	}
	return BigEndian
}

// ParseByteOrder accepts "big", "little", "big-endian", "little-endian", "be", "le".
func ParseByteOrder(s string) (ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "big", "big-endian", "be":
		return BigEndian, nil
	case "little", "little-endian", "le", "":
		return LittleEndian, nil
	}
	return LittleEndian, fmt.Errorf("%w: byte order %q", ErrUnknownKind, s)
}

// Format describes the sample encoding of a file.
type Format struct {
	Kind  Kind
	Order ByteOrder
}

func (f Format) String() string {
	if f.Kind.Width() > 1 {
		return f.Kind.String() + " " + f.Order.String()
	}
	return f.Kind.String()
}

// Width forwards to Kind.Width.
func (f Format) Width() int { return f.Kind.Width() }

// UnmarshalText lets a Kind be set from configuration files.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (o *ByteOrder) UnmarshalText(b []byte) error {
	v, err := ParseByteOrder(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

func (o ByteOrder) MarshalText() ([]byte, error) { return []byte(o.String()), nil }
