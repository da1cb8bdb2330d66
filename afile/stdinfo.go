// SPDX-License-Identifier: EPL-2.0

package afile

import (
	"fmt"
	"math"
	"strconv"

	"github.com/ik5/audfile/formats"
	"github.com/ik5/audfile/info"
)

// dateLayout is the form of the date record.
const dateLayout = "2006-01-02 15:04:05 UTC"

// headerRecords merges the standard records of a new file with the records
// in o.Info. A caller record replaces the standard record with the same id.
func headerRecords(p *formats.WriteParams, o *Options) (*info.Records, error) {
	recs := info.NewRecords(o.InfoMax)
	if !o.NoStdInfo {
		for _, r := range standardRecords(p, o) {
			if _, ok := o.Info.Get(r.ID); ok {
				continue
			}
			if err := recs.Add(r.ID, r.Text); err != nil {
				return nil, err
			}
		}
	}
	for _, r := range o.Info.All() {
		if err := recs.Add(r.ID, r.Text); err != nil {
			return nil, err
		}
	}
	return recs, nil
}

// standardRecords describes a new file: the creation date, the program, a
// rate that the header may not hold exactly, the significant bits when
// fewer than the sample width, and the loudspeaker layout.
func standardRecords(p *formats.WriteParams, o *Options) []info.Record {
	recs := []info.Record{{ID: info.Date, Text: o.now().UTC().Format(dateLayout)}}
	if o.ProgramName != "" {
		recs = append(recs, info.Record{ID: info.Program, Text: o.ProgramName})
	}
	if p.SampleRate != math.Trunc(p.SampleRate) {
		recs = append(recs, info.Record{ID: info.SamplingRate, Text: strconv.FormatFloat(p.SampleRate, 'g', -1, 64)})
	}
	if w := p.Format.Kind.Bits(); p.Format.Width() > 0 && p.Res < w {
		recs = append(recs, info.Record{ID: info.BitsPerSample, Text: fmt.Sprintf("%d/%d", p.Res, w)})
	}
	if len(p.Speakers) > 0 {
		recs = append(recs, info.Record{ID: info.Loudspeakers, Text: p.Speakers.String()})
	}
	return recs
}
