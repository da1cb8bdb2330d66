// SPDX-License-Identifier: EPL-2.0

// Package info holds the format-independent metadata of an audio file: the
// information records ("date:", "title:", ...) and the chunk layout found while
// parsing a header.
package info

import (
	"bytes"
	"fmt"
	"strings"
)

// DefaultMax is the default limit on the serialized size of a record set.
const DefaultMax = 32768

// Standard record identifiers.
const (
	Date          = "date:"
	Program       = "program:"
	Title         = "title:"
	SamplingRate  = "sampling_rate:"
	BitsPerSample = "bits_per_sample:"
	Loudspeakers  = "loudspeakers:"
	Comment       = "comment:"
	Copyright     = "copyright:"
	Author        = "author:"
	Artist        = "artist:"
	Description   = "description:"
	Product       = "product:"
	FullScale     = "full_scale:"
	StartTime     = "start_time:"
)

// Record is one information entry. ID carries its trailing colon.
type Record struct {
	ID   string
	Text string
}

func (r Record) size() int { return len(r.ID) + 1 + len(r.Text) + 1 }

func (r Record) String() string {
	if r.ID == "" {
		return r.Text
	}
	return r.ID + " " + r.Text
}

// Records is an ordered, append-only set of information records whose
// serialized size never exceeds Max.
type Records struct {
	Max  int
	recs []Record
	size int
}

// NewRecords returns an empty set bounded by max bytes (DefaultMax if max <= 0).
func NewRecords(max int) *Records {
	if max <= 0 {
		max = DefaultMax
	}
	return &Records{Max: max}
}

// NormalizeID lower-cases id, maps blanks to underscores and makes sure it
// ends with a colon.
func NormalizeID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	id = strings.TrimSuffix(id, ":")
	id = strings.Join(strings.Fields(id), "_")
	if id == "" {
		return ""
	}
	return id + ":"
}

// Add appends a record. It fails with ErrInfoFull when the set would grow
// past Max.
func (rs *Records) Add(id, text string) error {
	r := Record{ID: id, Text: text}
	if rs.size+r.size() > rs.Max {
		return fmt.Errorf("%w: adding %q (%d of %d bytes used)", ErrInfoFull, id, rs.size, rs.Max)
	}
	rs.recs = append(rs.recs, r)
	rs.size += r.size()
	return nil
}

// Get returns the text of the first record with the given id.
func (rs *Records) Get(id string) (string, bool) {
	if rs == nil {
		return "", false
	}
	for _, r := range rs.recs {
		if r.ID == id {
			return r.Text, true
		}
	}
	return "", false
}

// Take removes the first record with the given id and returns its text.
func (rs *Records) Take(id string) (string, bool) {
	for i, r := range rs.recs {
		if r.ID == id {
			rs.recs = append(rs.recs[:i], rs.recs[i+1:]...)
			rs.size -= r.size()
			return r.Text, true
		}
	}
	return "", false
}

// All returns a copy of the records in order.
func (rs *Records) All() []Record {
	if rs == nil {
		return nil
	}
	return append([]Record(nil), rs.recs...)
}

func (rs *Records) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.recs)
}

// Size is the serialized size in bytes.
func (rs *Records) Size() int {
	if rs == nil {
		return 0
	}
	return rs.size
}

// ParseRecord splits "id: text" at the first colon. Text without a colon
// yields an empty id.
func ParseRecord(s string) Record {
	s = strings.TrimRight(s, "\r\n\x00")
	i := strings.IndexByte(s, ':')
	if i < 0 || strings.ContainsAny(s[:i], " \t") {
		return Record{Text: s}
	}
	return Record{ID: s[:i+1], Text: strings.TrimPrefix(s[i+1:], " ")}
}

// AddBlob parses NUL terminated "id: text" records and appends them. Text
// may span lines. A blob without any NUL is read one record per line.
// Empty records are skipped.
func (rs *Records) AddBlob(b []byte) error {
	sep := func(r rune) bool { return r == 0 }
	if bytes.IndexByte(b, 0) < 0 {
		sep = func(r rune) bool { return r == '\n' }
	}
	for _, line := range bytes.FieldsFunc(b, sep) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		r := ParseRecord(string(line))
		if err := rs.Add(r.ID, r.Text); err != nil {
			return err
		}
	}
	return nil
}

// Blob serializes the records as NUL terminated "id text" strings.
func (rs *Records) Blob() []byte {
	var b bytes.Buffer
	for _, r := range rs.recs {
		b.WriteString(r.String())
		b.WriteByte(0)
	}
	return b.Bytes()
}

// Clone returns an independent copy.
func (rs *Records) Clone() *Records {
	c := NewRecords(rs.Max)
	c.recs = append(c.recs, rs.recs...)
	c.size = rs.size
	return c
}
