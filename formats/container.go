// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"fmt"
	"strings"
)

// Container is the outer file format.
type Container int

const (
	Unknown Container = iota
	Headerless
	AU
	WAVE
	AIFF
	AIFFC
	// AIFFCSowt is AIFF-C with little-endian "sowt" data. Files of this
	// kind are detected as AIFFC; the distinction matters when writing.
	AIFFCSowt
	NIST
	ESPS
	IRCAM
	CSL
	Text
	Text16
	// Unsupported marks a recognised format that cannot be read. Detect
	// returns its name separately.
	Unsupported
)

var containerNames = [...]string{
	Unknown:     "unknown",
	Headerless:  "headerless",
	AU:          "AU",
	WAVE:        "WAVE",
	AIFF:        "AIFF",
	AIFFC:       "AIFF-C",
	AIFFCSowt:   "AIFF-C/sowt",
	NIST:        "NIST SPHERE",
	ESPS:        "ESPS",
	IRCAM:       "IRCAM",
	CSL:         "CSL NSP",
	Text:        "text audio",
	Text16:      "text16 audio",
	Unsupported: "unsupported",
}

var containerKeys = map[string]Container{
	"auto":        Unknown,
	"":            Unknown,
	"raw":         Headerless,
	"headerless":  Headerless,
	"nh":          Headerless,
	"au":          AU,
	"snd":         AU,
	"wave":        WAVE,
	"wav":         WAVE,
	"aiff":        AIFF,
	"aif":         AIFF,
	"aiff-c":      AIFFC,
	"aifc":        AIFFC,
	"aiff-c-sowt": AIFFCSowt,
	"sowt":        AIFFCSowt,
	"nist":        NIST,
	"sphere":      NIST,
	"esps":        ESPS,
	"ircam":       IRCAM,
	"sf":          IRCAM,
	"csl":         CSL,
	"nsp":         CSL,
	"text":        Text,
	"text16":      Text16,
}

func (c Container) String() string {
	if c < 0 || int(c) >= len(containerNames) {
		return fmt.Sprintf("Container(%d)", int(c))
	}
	return containerNames[c]
}

// ParseContainer maps a keyword such as "wave" or "aiff-c" to a Container.
// "auto" yields Unknown, meaning detect from the data.
func ParseContainer(s string) (Container, error) {
	if c, ok := containerKeys[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return Unknown, fmt.Errorf("%w: file type %q", ErrUnsupported, s)
}

// UnmarshalText lets a Container be set from configuration files.
func (c *Container) UnmarshalText(b []byte) error {
	v, err := ParseContainer(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Writable reports whether files of this type can be created.
func (c Container) Writable() bool {
	switch c {
	case Headerless, AU, WAVE, AIFF, AIFFC, AIFFCSowt, Text:
		return true
	}
	return false
}
