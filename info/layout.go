// SPDX-License-Identifier: EPL-2.0

package info

import (
	"fmt"
	"strings"
)

// Chunk is a byte range of the container, End exclusive.
type Chunk struct {
	ID    string
	Start int64
	End   int64
}

func (c Chunk) Len() int64 { return c.End - c.Start }

// Layout is the ordered list of chunks consumed while parsing a header.
type Layout struct {
	chunks []Chunk
}

func NewLayout() *Layout { return &Layout{} }

// Add appends a chunk.
func (l *Layout) Add(id string, start, end int64) {
	l.chunks = append(l.chunks, Chunk{ID: id, Start: start, End: end})
}

// Chunks returns a copy of the ranges in order.
func (l *Layout) Chunks() []Chunk {
	if l == nil {
		return nil
	}
	return append([]Chunk(nil), l.chunks...)
}

// Check reports overlaps and gaps between consecutive chunks. End offsets
// include any alignment padding, so a well-formed container has none.
func (l *Layout) Check() []string {
	var msgs []string
	for i := 1; i < len(l.chunks); i++ {
		prev, c := l.chunks[i-1], l.chunks[i]
		switch {
		case c.Start < prev.End:
			msgs = append(msgs, fmt.Sprintf("chunk %q at %d overlaps %q ending at %d", c.ID, c.Start, prev.ID, prev.End))
		case c.Start > prev.End:
			msgs = append(msgs, fmt.Sprintf("gap of %d bytes before chunk %q at %d", c.Start-prev.End, c.ID, c.Start))
		}
	}
	return msgs
}

// Span is the total length covered by the chunks after the first one,
// normally the container body following its preamble.
func (l *Layout) Span() int64 {
	var n int64
	for i := 1; i < len(l.chunks); i++ {
		n += l.chunks[i].Len()
	}
	return n
}

func (l *Layout) String() string {
	var b strings.Builder
	for _, c := range l.chunks {
		fmt.Fprintf(&b, "%-8s %10d %10d\n", c.ID, c.Start, c.End)
	}
	return b.String()
}
