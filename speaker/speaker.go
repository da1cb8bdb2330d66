// SPDX-License-Identifier: EPL-2.0

// Package speaker maps audio channels to loudspeaker positions.
//
// A Config is an ordered list of positions, one per channel. It is decoded
// from a keyword list such as "FL FR FC LF1" or a group name like "5.1", and
// converted to and from the WAVE_FORMAT_EXTENSIBLE channel mask.
package speaker

import (
	"fmt"
	"strings"
)

// Position is a loudspeaker location.
type Position int

const (
	Unassigned Position = iota
	FL                  // front left
	FR                  // front right
	FC                  // front center
	LF1                 // low frequency 1
	BL                  // back left
	BR                  // back right
	FLC                 // front left of center
	FRC                 // front right of center
	BC                  // back center
	SL                  // side left
	SR                  // side right
	TC                  // top center
	TFL                 // top front left
	TFC                 // top front center
	TFR                 // top front right
	TBL                 // top back left
	TBC                 // top back center
	TBR                 // top back right
	LF2                 // low frequency 2
	numPositions
)

// MaxPositions is the largest number of entries a Config may hold.
const MaxPositions = int(numPositions) - 1

var positionNames = [...]string{
	Unassigned: "-",
	FL:         "FL",
	FR:         "FR",
	FC:         "FC",
	LF1:        "LF1",
	BL:         "BL",
	BR:         "BR",
	FLC:        "FLC",
	FRC:        "FRC",
	BC:         "BC",
	SL:         "SL",
	SR:         "SR",
	TC:         "TC",
	TFL:        "TFL",
	TFC:        "TFC",
	TFR:        "TFR",
	TBL:        "TBL",
	TBC:        "TBC",
	TBR:        "TBR",
	LF2:        "LF2",
}

func (p Position) String() string {
	if p < 0 || p >= numPositions {
		return fmt.Sprintf("Position(%d)", int(p))
	}
	return positionNames[p]
}

// maskBit is the WAVE channel-mask bit of each position, 0 when it has none.
var maskBit = [numPositions]uint32{
	FL:  0x00001,
	FR:  0x00002,
	FC:  0x00004,
	LF1: 0x00008,
	BL:  0x00010,
	BR:  0x00020,
	FLC: 0x00040,
	FRC: 0x00080,
	BC:  0x00100,
	SL:  0x00200,
	SR:  0x00400,
	TC:  0x00800,
	TFL: 0x01000,
	TFC: 0x02000,
	TFR: 0x04000,
	TBL: 0x08000,
	TBC: 0x10000,
	TBR: 0x20000,
}

// MaskBit returns the WAVE channel-mask bit of p.
func (p Position) MaskBit() uint32 {
	if p < 0 || p >= numPositions {
		return 0
	}
	return maskBit[p]
}

var synonyms = map[string][]Position{
	"left":         {FL},
	"right":        {FR},
	"center":       {FC},
	"centre":       {FC},
	"lf":           {LF1},
	"lfe":          {LF1},
	"lfe1":         {LF1},
	"lfe2":         {LF2},
	"x":            {Unassigned},
	"mono":         {FC},
	"stereo":       {FL, FR},
	"quadraphonic": {FL, FR, BL, BR},
	"quad":         {FL, FR, BL, BR},
	"5.1":          {FL, FR, FC, LF1, BR, BL},
	"7.1":          {FL, FR, FC, LF1, BR, BL, SL, SR},
}

func lookup(tok string) ([]Position, bool) {
	key := strings.ToLower(tok)
	if ps, ok := synonyms[key]; ok {
		return ps, true
	}
	for p, name := range positionNames {
		if strings.ToLower(name) == key {
			return []Position{Position(p)}, true
		}
	}
	return nil, false
}

// Config is the position of each channel in order.
type Config []Position

// Decode parses a comma or blank separated list of position keywords, group
// names and "-" for an unassigned channel. limit bounds the number of entries;
// values <= 0 mean MaxPositions. Trailing unassigned entries are dropped.
func Decode(s string, limit int) (Config, error) {
	if limit <= 0 || limit > MaxPositions {
		limit = MaxPositions
	}
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	var cfg Config
	var seen [numPositions]bool
	for _, f := range fields {
		ps, ok := lookup(f)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPosition, f)
		}
		for _, p := range ps {
			if p != Unassigned {
				if seen[p] {
					return nil, fmt.Errorf("%w: %s", ErrDuplicate, p)
				}
				seen[p] = true
			}
			if len(cfg) >= limit {
				return nil, fmt.Errorf("%w: more than %d entries", ErrTooMany, limit)
			}
			cfg = append(cfg, p)
		}
	}
	return cfg.Trim(), nil
}

// Trim drops trailing unassigned entries.
func (c Config) Trim() Config {
	n := len(c)
	for n > 0 && c[n-1] == Unassigned {
		n--
	}
	if n == 0 {
		return nil
	}
	return c[:n]
}

// Validate checks for duplicates and the entry limit.
func (c Config) Validate(limit int) error {
	if limit <= 0 || limit > MaxPositions {
		limit = MaxPositions
	}
	if len(c) > limit {
		return fmt.Errorf("%w: %d entries, limit %d", ErrTooMany, len(c), limit)
	}
	var seen [numPositions]bool
	for _, p := range c {
		if p < 0 || p >= numPositions {
			return fmt.Errorf("%w: %d", ErrUnknownPosition, int(p))
		}
		if p == Unassigned {
			continue
		}
		if seen[p] {
			return fmt.Errorf("%w: %s", ErrDuplicate, p)
		}
		seen[p] = true
	}
	return nil
}

// Mask encodes the configuration as a WAVE channel mask. Positions must be
// assigned, mappable and in ascending mask-bit order; otherwise ok is false
// and the file gets no mask.
func (c Config) Mask() (mask uint32, ok bool) {
	var last uint32
	for _, p := range c {
		bit := p.MaskBit()
		if bit == 0 || bit <= last {
			return 0, false
		}
		mask |= bit
		last = bit
	}
	return mask, len(c) > 0
}

// FromMask decodes a WAVE channel mask for nchan channels. Positions are taken
// in ascending bit order; bits with no named position are ignored and channels
// beyond the mask are unassigned.
func FromMask(mask uint32, nchan int) Config {
	var cfg Config
	for p := FL; p < numPositions && len(cfg) < nchan; p++ {
		if bit := p.MaskBit(); bit != 0 && mask&bit != 0 {
			cfg = append(cfg, p)
		}
	}
	return cfg.Trim()
}

// String lists the positions separated by blanks, the form accepted by Decode.
func (c Config) String() string {
	names := make([]string, len(c))
	for i, p := range c {
		names[i] = p.String()
	}
	return strings.Join(names, " ")
}

// Equal reports whether both configurations list the same positions.
func (c Config) Equal(o Config) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}
