// SPDX-License-Identifier: EPL-2.0

package afile_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audfile/afile"
	"github.com/ik5/audfile/codec"
	"github.com/ik5/audfile/formats"
	"github.com/ik5/audfile/info"
	"github.com/ik5/audfile/speaker"
)

// pcmSignal holds values that every integer format represents exactly.
func pcmSignal(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = float64(i%255-127) / 128
	}
	return s
}

// expected is what reading back x written as kind k gives.
func expected(k codec.Kind, x float64) float64 {
	if k.IsG711() {
		return codec.G711Decode(k, codec.G711Encode(k, x*32768)) / 32768
	}
	return x
}

type sequential struct{ io.Reader }

type sequentialWriter struct{ io.Writer }

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		c     formats.Container
		kinds []codec.Kind
	}{
		{formats.WAVE, []codec.Kind{codec.Uint8, codec.Int16, codec.Int24, codec.Int32, codec.Float32, codec.Float64, codec.ALaw, codec.MuLaw}},
		{formats.AIFF, []codec.Kind{codec.Int8, codec.Int16, codec.Int24, codec.Int32}},
		{formats.AIFFC, []codec.Kind{codec.Uint8, codec.Int16, codec.Float32, codec.Float64, codec.ALaw, codec.MuLaw}},
		{formats.AIFFCSowt, []codec.Kind{codec.Int16, codec.Int24, codec.Int32}},
		{formats.AU, []codec.Kind{codec.Int8, codec.Int16, codec.Int24, codec.Int32, codec.Float32, codec.Float64, codec.ALaw, codec.MuLaw}},
		{formats.Text, []codec.Kind{codec.Text}},
		{formats.Headerless, []codec.Kind{codec.Int16, codec.Float64, codec.MuLawR}},
	}

	const nchan, frames = 2, 300
	for _, tt := range tests {
		for i, k := range tt.kinds {
			t.Run(tt.c.String()+"/"+k.String(), func(t *testing.T) {
				t.Parallel()

				// Alternate between announced and deferred lengths.
				nframes := formats.UnknownLen
				if i%2 == 1 {
					nframes = frames
				}
				path := filepath.Join(t.TempDir(), "out")
				wp := formats.WriteParams{
					Container:   tt.c,
					Format:      codec.Format{Kind: k, Order: codec.BigEndian},
					NumChannels: nchan,
					SampleRate:  16000,
					NumFrames:   nframes,
				}
				src := pcmSignal(nchan * frames)

				w, err := afile.Create(path, wp, afile.DefaultOptions())
				require.NoError(t, err)
				n, err := w.WriteFloat64(src)
				require.NoError(t, err)
				require.Equal(t, len(src), n)
				assert.Zero(t, w.Overloads())
				require.NoError(t, w.Close())

				opts := afile.DefaultOptions()
				if tt.c == formats.Headerless {
					opts.Container = formats.Headerless
					opts.Headerless = &formats.HeaderlessParams{Kind: k, Order: codec.BigEndian, Channels: nchan, SampleRate: 16000}
				}
				r, err := afile.Open(path, opts)
				require.NoError(t, err)
				defer r.Close()

				want := tt.c
				if want == formats.AIFFCSowt {
					want = formats.AIFFC
				}
				assert.Equal(t, want, r.Container())
				assert.Equal(t, k, r.Format().Kind)
				assert.Equal(t, nchan, r.Channels())
				assert.Equal(t, 16000.0, r.SampleRate())
				assert.Equal(t, int64(len(src)), r.NumSamples())
				assert.Equal(t, int64(frames), r.Frames())

				got := make([]float64, len(src)+6)
				n, err = r.ReadFloat64(0, got)
				require.NoError(t, err)
				require.Equal(t, len(src), n)
				for i, x := range src {
					if got[i] != expected(k, x) {
						t.Fatalf("sample %d = %g, want %g", i, got[i], expected(k, x))
					}
				}
				assert.Equal(t, make([]float64, 6), got[len(src):])
			})
		}
	}
}

func TestDeferredLength_Sequential(t *testing.T) {
	t.Parallel()

	tests := []struct {
		c    formats.Container
		kind codec.Kind
	}{
		{formats.WAVE, codec.Int16},
		{formats.AIFF, codec.Int16},
		{formats.AU, codec.MuLaw},
	}
	for _, tt := range tests {
		t.Run(tt.c.String(), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			wp := formats.WriteParams{Container: tt.c, Format: codec.Format{Kind: tt.kind}, NumChannels: 1, SampleRate: 8000, NumFrames: formats.UnknownLen}
			w, err := afile.NewWriter(sequentialWriter{&buf}, wp, afile.DefaultOptions())
			require.NoError(t, err)
			_, err = w.WriteFloat64(make([]float64, 50))
			require.NoError(t, err)
			require.NoError(t, w.Close(), "a sequential stream leaves the header as written")

			opts := afile.DefaultOptions()
			opts.Container = tt.c
			r, err := afile.OpenReader(sequential{bytes.NewReader(buf.Bytes())}, opts)
			require.NoError(t, err)
			assert.Equal(t, formats.UnknownLen, r.NumSamples())

			got := make([]float64, 80)
			n, err := r.ReadFloat64(0, got)
			require.NoError(t, err)
			assert.Equal(t, 50, n)
			assert.Equal(t, int64(50), r.NumSamples())
		})
	}
}

func TestStandardRecords(t *testing.T) {
	t.Parallel()

	clock := func() time.Time { return time.Date(2001, 2, 3, 4, 5, 6, 0, time.FixedZone("x", 3600)) }
	tests := []struct {
		name   string
		opts   func(*afile.Options)
		rate   float64
		res    int
		want   map[string]string
		absent []string
	}{
		{
			name: "all standard records",
			opts: func(o *afile.Options) { o.ProgramName = "rectest"; o.Speakers = "FL FR" },
			rate: 8000.5,
			res:  12,
			want: map[string]string{
				info.Date:          "2001-02-03 03:05:06 UTC",
				info.Program:       "rectest",
				info.SamplingRate:  "8000.5",
				info.BitsPerSample: "12/16",
				info.Loudspeakers:  "FL FR",
			},
		},
		{
			name:   "integer rate and full resolution",
			opts:   func(*afile.Options) {},
			rate:   8000,
			want:   map[string]string{info.Date: "2001-02-03 03:05:06 UTC"},
			absent: []string{info.Program, info.SamplingRate, info.BitsPerSample, info.Loudspeakers},
		},
		{
			name: "caller record replaces standard one",
			opts: func(o *afile.Options) {
				o.Info = info.NewRecords(0)
				_ = o.Info.Add(info.Date, "yesterday")
				_ = o.Info.Add(info.Title, "the title")
			},
			rate: 8000,
			want: map[string]string{info.Date: "yesterday", info.Title: "the title"},
		},
		{
			name:   "suppressed",
			opts:   func(o *afile.Options) { o.NoStdInfo = true; o.ProgramName = "rectest" },
			rate:   8000,
			absent: []string{info.Date, info.Program},
		},
	}

	for _, tt := range tests {
		for _, c := range []formats.Container{formats.WAVE, formats.AIFFC, formats.AU, formats.Text} {
			t.Run(tt.name+"/"+c.String(), func(t *testing.T) {
				t.Parallel()

				opts := afile.DefaultOptions()
				opts.Clock = clock
				tt.opts(&opts)
				kind := codec.Int16
				if c == formats.Text {
					kind = codec.Text
				}
				res := tt.res
				if c == formats.Text {
					res = 0
				}
				path := filepath.Join(t.TempDir(), "out")
				wp := formats.WriteParams{Container: c, Format: codec.Format{Kind: kind}, Res: res, NumChannels: 2, SampleRate: tt.rate, NumFrames: formats.UnknownLen}
				w, err := afile.Create(path, wp, opts)
				require.NoError(t, err)
				_, err = w.WriteFloat64([]float64{0.25, -0.25})
				require.NoError(t, err)
				require.NoError(t, w.Close())

				r, err := afile.Open(path, afile.DefaultOptions())
				require.NoError(t, err)
				defer r.Close()
				for id, want := range tt.want {
					if id == info.BitsPerSample && res == 0 {
						continue
					}
					got, ok := r.Info(id)
					assert.True(t, ok, "record %s missing", id)
					assert.Equal(t, want, got, "record %s", id)
				}
				for _, id := range tt.absent {
					_, ok := r.Info(id)
					assert.False(t, ok, "record %s present", id)
				}
				assert.Equal(t, tt.rate, r.SampleRate())
				if res > 0 {
					assert.Equal(t, res, r.Res())
				}
			})
		}
	}
}

func TestMultiLineRecords(t *testing.T) {
	t.Parallel()

	for _, c := range []formats.Container{formats.WAVE, formats.AIFFC, formats.AU} {
		t.Run(c.String(), func(t *testing.T) {
			t.Parallel()

			opts := afile.DefaultOptions()
			opts.NoStdInfo = true
			opts.Info = info.NewRecords(0)
			require.NoError(t, opts.Info.Add(info.Description, "line one\nline two"))
			require.NoError(t, opts.Info.Add(info.Product, "p"))

			path := filepath.Join(t.TempDir(), "out")
			wp := formats.WriteParams{Container: c, Format: codec.Format{Kind: codec.Int16}, NumChannels: 1, SampleRate: 8000, NumFrames: formats.UnknownLen}
			w, err := afile.Create(path, wp, opts)
			require.NoError(t, err)
			_, err = w.WriteFloat64([]float64{0.5})
			require.NoError(t, err)
			require.NoError(t, w.Close())

			r, err := afile.Open(path, afile.DefaultOptions())
			require.NoError(t, err)
			defer r.Close()
			got, ok := r.Info(info.Description)
			assert.True(t, ok)
			assert.Equal(t, "line one\nline two", got)
			got, _ = r.Info(info.Product)
			assert.Equal(t, "p", got)
			for _, rec := range r.Records().All() {
				assert.NotEmpty(t, rec.ID, "record %q has no id", rec.Text)
			}
		})
	}
}

func TestSpeakers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  string
		want string
	}{
		{"channel mask", "FL FR FC LF1 BL BR", "FL FR FC LF1 BL BR"},
		{"record only", "5.1", "FL FR FC LF1 BR BL"},
		{"unassigned channel", "FL - FR", "FL - FR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := speaker.Decode(tt.cfg, 6)
			require.NoError(t, err)
			path := filepath.Join(t.TempDir(), "out.wav")
			wp := formats.WriteParams{Container: formats.WAVE, Format: codec.Format{Kind: codec.Int16}, NumChannels: 6, SampleRate: 48000, NumFrames: 0, Speakers: cfg}
			w, err := afile.Create(path, wp, afile.DefaultOptions())
			require.NoError(t, err)
			require.NoError(t, w.Close())

			r, err := afile.Open(path, afile.DefaultOptions())
			require.NoError(t, err)
			defer r.Close()
			assert.Equal(t, tt.want, r.Speakers().String())
			assert.Equal(t, int64(0), r.NumSamples())
		})
	}
}

func TestReadFloat64_Offsets(t *testing.T) {
	t.Parallel()

	path := writeInt16(t, []float64{0.5, 0.25, -0.25, -0.5})
	r, err := afile.Open(path, afile.DefaultOptions())
	require.NoError(t, err)
	defer r.Close()

	tests := []struct {
		offset int64
		size   int
		wantN  int
		want   []float64
	}{
		{0, 4, 4, []float64{0.5, 0.25, -0.25, -0.5}},
		{-2, 4, 2, []float64{0, 0, 0.5, 0.25}},
		{2, 4, 2, []float64{-0.25, -0.5, 0, 0}},
		{4, 3, 0, []float64{0, 0, 0}},
		{-10, 3, 0, []float64{0, 0, 0}},
		{1, 1, 1, []float64{0.25}},
	}
	for _, tt := range tests {
		got := []float64{9, 9, 9, 9}[:tt.size]
		n, err := r.ReadFloat64(tt.offset, got)
		require.NoError(t, err)
		assert.Equal(t, tt.wantN, n, "offset %d", tt.offset)
		assert.Equal(t, tt.want, got, "offset %d", tt.offset)
	}
}

func writeInt16(t *testing.T, src []float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.au")
	wp := formats.WriteParams{Container: formats.AU, Format: codec.Format{Kind: codec.Int16}, NumChannels: 1, SampleRate: 8000, NumFrames: int64(len(src))}
	w, err := afile.Create(path, wp, afile.DefaultOptions())
	require.NoError(t, err)
	_, err = w.WriteFloat64(src)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return path
}

func TestReadSamples(t *testing.T) {
	t.Parallel()

	path := writeInt16(t, []float64{0.5, 0.25, -0.25, -0.5, 1.0 / 32768})
	opts := afile.DefaultOptions()
	opts.Gain = 2
	r, err := afile.Open(path, opts)
	require.NoError(t, err)
	defer r.Close()

	buf := make([]float32, 3)
	var got []float32
	for {
		n, err := r.ReadSamples(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	assert.Equal(t, []float32{1, 0.5, -0.5, -1, 2.0 / 32768}, got)

	require.NoError(t, r.SeekSample(1))
	n, err := r.ReadSamples(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []float32{0.5, -0.5, -1}, buf)
}

func TestIntBuffer(t *testing.T) {
	t.Parallel()

	for _, c := range []formats.Container{formats.AIFF, formats.WAVE, formats.Text} {
		t.Run(c.String(), func(t *testing.T) {
			t.Parallel()

			kind := codec.Int24
			if c == formats.Text {
				kind = codec.Text
			}
			path := filepath.Join(t.TempDir(), "out")
			wp := formats.WriteParams{Container: c, Format: codec.Format{Kind: kind}, NumChannels: 2, SampleRate: 44100, NumFrames: formats.UnknownLen}
			w, err := afile.Create(path, wp, afile.DefaultOptions())
			require.NoError(t, err)
			data := []int{1, -1, 300, -300, 1000, -1000}
			if kind == codec.Int24 {
				data = append(data, 8388607, -8388608)
			}
			n, err := w.WriteIntBuffer(&goaudio.IntBuffer{Data: data})
			require.NoError(t, err)
			require.Equal(t, len(data), n)
			require.NoError(t, w.Close())

			r, err := afile.Open(path, afile.DefaultOptions())
			require.NoError(t, err)
			defer r.Close()
			buf := &goaudio.IntBuffer{Data: make([]int, 16)}
			n, err = r.ReadIntBuffer(buf)
			require.NoError(t, err)
			assert.Equal(t, data, buf.Data[:n])
			assert.Equal(t, 2, buf.Format.NumChannels)
			assert.Equal(t, 44100, buf.Format.SampleRate)

			n, err = r.ReadIntBuffer(buf)
			assert.Equal(t, 0, n)
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestOverloads(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	wp := formats.WriteParams{Container: formats.Headerless, Format: codec.Format{Kind: codec.Int16}, NumChannels: 1, SampleRate: 8000, NumFrames: formats.UnknownLen}
	w, err := afile.NewWriter(&buf, wp, afile.DefaultOptions())
	require.NoError(t, err)
	_, err = w.WriteFloat32([]float32{2, -2, 0.5, 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), w.Overloads())
	require.NoError(t, w.Close())
	assert.Equal(t, []byte{0xff, 0x7f, 0x00, 0x80, 0x00, 0x40, 0xff, 0x7f}, buf.Bytes())
}

func TestProgramFullScale(t *testing.T) {
	t.Parallel()

	opts := afile.DefaultOptions()
	opts.FullScale = 32768
	var buf bytes.Buffer
	wp := formats.WriteParams{Container: formats.AU, Format: codec.Format{Kind: codec.Int8}, NumChannels: 1, SampleRate: 8000, NumFrames: 2}
	w, err := afile.NewWriter(&buf, wp, opts)
	require.NoError(t, err)
	assert.Equal(t, 256.0, w.ScaleFactor())
	_, err = w.WriteFloat64([]float64{256, -32768})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := afile.OpenReader(bytes.NewReader(buf.Bytes()), opts)
	require.NoError(t, err)
	got := make([]float64, 2)
	_, err = r.ReadFloat64(0, got)
	require.NoError(t, err)
	assert.Equal(t, []float64{256, -32768}, got)
	assert.Equal(t, 128.0, r.FullScale())
}

func TestOpen_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		seq  bool
		opts func(*afile.Options)
		want error
	}{
		{"unknown", []byte("just some bytes that match nothing at all"), false, nil, afile.ErrUnknownFormat},
		{"named unsupported", append([]byte("OggS"), make([]byte, 60)...), false, nil, formats.ErrUnsupported},
		{"detect on a stream", []byte(".snd"), true, nil, formats.ErrNotSeekable},
		{"bad header", []byte("RIFF\x04\x00\x00\x00WAVE"), false, nil, formats.ErrMissingChunk},
		{"forced type", append([]byte(".snd"), make([]byte, 20)...), false, func(o *afile.Options) { o.Container = formats.WAVE }, formats.ErrBadMagic},
	}
	for _, tt := range tests {
		opts := afile.DefaultOptions()
		if tt.opts != nil {
			tt.opts(&opts)
		}
		var r io.Reader = bytes.NewReader(tt.data)
		if tt.seq {
			r = sequential{r}
		}
		f, err := afile.OpenReader(r, opts)
		assert.ErrorIs(t, err, tt.want, tt.name)
		assert.Nil(t, f, tt.name)
	}
}

func TestOpen_Headerless(t *testing.T) {
	t.Parallel()

	opts := afile.DefaultOptions()
	opts.Headerless = formats.DefaultHeaderless()
	r, err := afile.OpenReader(bytes.NewReader([]byte{0, 0x40, 0, 0xc0, 0}), opts)
	require.NoError(t, err)
	assert.Equal(t, formats.Headerless, r.Container())
	assert.Equal(t, int64(2), r.NumSamples())
	got := make([]float64, 2)
	_, err = r.ReadFloat64(0, got)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, -0.5}, got)
}

func TestCreate_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		wp   formats.WriteParams
		want error
	}{
		{"read-only type", formats.WriteParams{Container: formats.NIST, Format: codec.Format{Kind: codec.Int16}, NumChannels: 1, SampleRate: 8000}, afile.ErrNotWritable},
		{"text16", formats.WriteParams{Container: formats.Text16, Format: codec.Format{Kind: codec.Text16}, NumChannels: 1, SampleRate: 8000}, afile.ErrNotWritable},
		{"format not in container", formats.WriteParams{Container: formats.AIFF, Format: codec.Format{Kind: codec.Float64}, NumChannels: 1, SampleRate: 8000}, formats.ErrUnsupported},
		{"no channels", formats.WriteParams{Container: formats.WAVE, Format: codec.Format{Kind: codec.Int16}, SampleRate: 8000}, formats.ErrInconsistent},
		{"too many speakers", formats.WriteParams{Container: formats.WAVE, Format: codec.Format{Kind: codec.Int16}, NumChannels: 1, SampleRate: 8000,
			Speakers: speaker.Config{speaker.FL, speaker.FR}}, speaker.ErrTooMany},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		f, err := afile.NewWriter(&buf, tt.wp, afile.DefaultOptions())
		assert.ErrorIs(t, err, tt.want, tt.name)
		assert.Nil(t, f, tt.name)
		assert.Zero(t, buf.Len(), "%s: bytes written", tt.name)
	}

	path := filepath.Join(t.TempDir(), "rejected.aif")
	_, err := afile.Create(path, tests[2].wp, afile.DefaultOptions())
	require.Error(t, err)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "rejected file left behind")
}

func TestModes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	wp := formats.WriteParams{Container: formats.AU, Format: codec.Format{Kind: codec.Int16}, NumChannels: 1, SampleRate: 8000, NumFrames: formats.UnknownLen}
	w, err := afile.NewWriter(&buf, wp, afile.DefaultOptions())
	require.NoError(t, err)
	_, err = w.ReadFloat64(0, make([]float64, 1))
	assert.ErrorIs(t, err, afile.ErrMode)
	assert.ErrorIs(t, w.SeekSample(0), afile.ErrMode)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	_, err = w.WriteFloat64([]float64{0})
	assert.ErrorIs(t, err, afile.ErrClosed)

	r, err := afile.OpenReader(bytes.NewReader(buf.Bytes()), afile.DefaultOptions())
	require.NoError(t, err)
	_, err = r.WriteFloat64([]float64{0})
	assert.ErrorIs(t, err, afile.ErrMode)
}

func TestSeek_Sequential(t *testing.T) {
	t.Parallel()

	data, err := os.ReadFile(writeInt16(t, []float64{0.5, 0.25, -0.25, -0.5}))
	require.NoError(t, err)
	opts := afile.DefaultOptions()
	opts.Container = formats.AU
	r, err := afile.OpenReader(sequential{bytes.NewReader(data)}, opts)
	require.NoError(t, err)

	require.NoError(t, r.SeekSample(2))
	got := make([]float64, 1)
	_, err = r.ReadFloat64(2, got)
	require.NoError(t, err)
	assert.Equal(t, -0.25, got[0])
	assert.ErrorIs(t, r.SeekSample(0), formats.ErrNotSeekable)
}

func TestSeekSample_NotByteSeeker(t *testing.T) {
	t.Parallel()

	r, err := afile.Open(writeInt16(t, []float64{0.5, 0.25}), afile.DefaultOptions())
	require.NoError(t, err)
	defer r.Close()

	_, ok := any(r).(io.Seeker)
	assert.False(t, ok, "File positions by sample, not by byte")
	require.NoError(t, r.SeekSample(1))
	got := make([]float32, 2)
	n, err := r.ReadSamples(got)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.25}, got[:n])
}

func TestOpen_SearchPath(t *testing.T) {
	t.Parallel()

	path := writeInt16(t, []float64{0.5})
	opts := afile.DefaultOptions()
	opts.SearchPath = []string{t.TempDir(), filepath.Dir(path)}
	r, err := afile.Open(filepath.Base(path), opts)
	require.NoError(t, err)
	assert.Equal(t, int64(1), r.NumSamples())
	require.NoError(t, r.Close())

	_, err = afile.Open("no-such-file.wav", opts)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLayout(t *testing.T) {
	t.Parallel()

	path := writeInt16(t, []float64{0.5, 0.25})
	r, err := afile.Open(path, afile.DefaultOptions())
	require.NoError(t, err)
	defer r.Close()
	chunks := r.Layout().Chunks()
	require.NotEmpty(t, chunks)
	assert.Equal(t, int64(0), chunks[0].Start)
	assert.Equal(t, r.DataStart()+4, chunks[len(chunks)-1].End)
	assert.Empty(t, r.Layout().Check())
}
