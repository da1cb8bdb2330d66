// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// TextDecoder reads numeric sample values from a text stream. Values are
// separated by white space or commas; a '%' starts a comment that runs to the
// end of the line.
type TextDecoder struct {
	r   *bufio.Reader
	tok strings.Builder
}

// NewTextDecoder wraps r. Text16 streams must already be transcoded to UTF-8.
func NewTextDecoder(r io.Reader) *TextDecoder {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &TextDecoder{r: br}
}

func isSep(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ',' || c == '\f' || c == '\v'
}

func (d *TextDecoder) next() (string, error) {
	d.tok.Reset()
	for {
		c, _, err := d.r.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) && d.tok.Len() > 0 {
				return d.tok.String(), nil
			}
			return "", err
		}
		switch {
		case c == '%':
			if _, err := d.r.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
				return "", err
			}
			if d.tok.Len() > 0 {
				return d.tok.String(), nil
			}
		case isSep(c):
			if d.tok.Len() > 0 {
				return d.tok.String(), nil
			}
		default:
			d.tok.WriteRune(c)
		}
	}
}

// Decode fills dst with values multiplied by scale. It returns io.EOF only
// when no value was read.
func (d *TextDecoder) Decode(dst []float64, scale float64) (int, error) {
	for i := range dst {
		tok, err := d.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if i == 0 {
					return 0, io.EOF
				}
				return i, nil
			}
			return i, fmt.Errorf("reading text sample: %w", err)
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return i, fmt.Errorf("%w: %q", ErrBadTextValue, tok)
		}
		dst[i] = v * scale
	}
	return len(dst), nil
}

// Skip discards n values.
func (d *TextDecoder) Skip(n int64) (int64, error) {
	var done int64
	for done < n {
		if _, err := d.next(); err != nil {
			if errors.Is(err, io.EOF) {
				return done, io.EOF
			}
			return done, err
		}
		done++
	}
	return done, nil
}

// Count consumes the rest of the stream and returns the number of values.
func (d *TextDecoder) Count() (int64, error) {
	return d.Skip(math.MaxInt64)
}

// FormatText appends the text form of src divided by scale to dst, nchan
// values per line. Integral values are written without a fraction so that
// PCM-scaled data stays readable; everything else uses the shortest exact
// decimal form.
func (e *Encoder) FormatText(dst []byte, src []float64, scale float64, nchan int, col *int) []byte {
	if nchan < 1 {
		nchan = 1
	}
	inv := 1 / scale
	for _, x := range src {
		v := x * inv
		if math.IsNaN(v) || math.IsInf(v, 0) {
			e.Overloads++
			v = 0
		}
		if *col > 0 {
			dst = append(dst, ' ')
		}
		dst = strconv.AppendFloat(dst, v, 'g', -1, 64)
		*col++
		if *col == nchan {
			dst = append(dst, '\n')
			*col = 0
		}
	}
	return dst
}
