// SPDX-License-Identifier: EPL-2.0

package text

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ik5/audfile/codec"
	"github.com/ik5/audfile/formats"
	"github.com/ik5/audfile/info"
	"github.com/ik5/audfile/internal/binio"
)

// Encode writes a text audio header. The title opens the first section,
// followed by the sampling frequency, the channel count and the remaining
// records. Description and product records get sections of their own.
func Encode(w *binio.Writer, p *formats.WriteParams, recs *info.Records) (*formats.Header, error) {
	if err := p.Check(); err != nil {
		return nil, err
	}
	if p.Format.Kind != codec.Text {
		return nil, fmt.Errorf("%w: %s data in a text audio file", formats.ErrUnsupported, p.Format.Kind)
	}
	p.Format.Order = codec.LittleEndian

	if recs == nil {
		recs = info.NewRecords(0)
	}
	recs = recs.Clone()

	var b strings.Builder
	b.WriteString(sentinel + "\n")
	if t, ok := recs.Take(info.Title); ok {
		comment(&b, "title: "+oneLine(t))
	}
	comment(&b, "Sampling frequency: "+strconv.FormatFloat(p.SampleRate, 'g', -1, 64)+" Hz")
	comment(&b, "Number of channels: "+strconv.Itoa(p.NumChannels))

	desc, hasDesc := recs.Take(info.Description)
	prod, hasProd := recs.Take(info.Product)
	for _, r := range recs.All() {
		id := r.ID
		if id == "" {
			id = info.Comment
		}
		comment(&b, id+" "+oneLine(r.Text))
	}
	if hasDesc || hasProd {
		b.WriteString(sentinel + "\n")
		for _, l := range strings.Split(desc, "\n") {
			comment(&b, l)
		}
	}
	if hasProd {
		b.WriteString(sentinel + "\n")
		for _, l := range strings.Split(prod, "\n") {
			comment(&b, l)
		}
	}

	w.Text(b.String())
	if err := w.Err(); err != nil {
		return nil, err
	}
	return &formats.Header{DataStart: w.Pos(), Declared: formats.UnknownLen}, nil
}

func comment(b *strings.Builder, s string) {
	if s = strings.TrimSpace(s); s == "" {
		return
	}
	b.WriteString("% ")
	b.WriteString(s)
	b.WriteByte('\n')
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
