// SPDX-License-Identifier: EPL-2.0

package main

import (
	"path/filepath"
	"testing"

	"github.com/ik5/audfile/afile"
	"github.com/ik5/audfile/codec"
	"github.com/ik5/audfile/formats"
	"github.com/ik5/audfile/info"
)

func resetFlags() {
	configPath, inputType, outputType, dataFormat, speakers = "", "", "", "", ""
	rate, gain = 0, 0
	mono, noStdInfo = false, false
	records = nil
}

func writeInput(t *testing.T, name string) {
	t.Helper()
	f, err := afile.Create(name, formats.WriteParams{
		Container:   formats.WAVE,
		Format:      codec.Format{Kind: codec.Int16},
		NumChannels: 2,
		SampleRate:  16000,
		NumFrames:   formats.UnknownLen,
	}, afile.DefaultOptions())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	buf := make([]float64, 2*1600)
	for i := range buf {
		buf[i] = 0.25
	}
	if _, err := f.WriteFloat64(buf); err != nil {
		t.Fatalf("WriteFloat64() error = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name      string
		set       func()
		container formats.Container
		kind      codec.Kind
		channels  int
		rate      float64
		frames    int64
	}{
		{"copy", func() {}, formats.WAVE, codec.Int16, 2, 16000, 1600},
		{"to AU mu-law", func() { outputType, dataFormat = "au", "mulaw" }, formats.AU, codec.MuLaw, 2, 16000, 1600},
		{"mono", func() { mono = true }, formats.WAVE, codec.Int16, 1, 16000, 1600},
		{"resample", func() { outputType, rate = "aiff-c", 8000 }, formats.AIFFC, codec.Int16, 2, 8000, 800},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			t.Cleanup(resetFlags)
			tt.set()

			dir := t.TempDir()
			in, out := filepath.Join(dir, "in.wav"), filepath.Join(dir, "out")
			writeInput(t, in)

			n, err := run(in, out)
			if err != nil {
				t.Fatalf("run() error = %v", err)
			}
			if want := tt.frames * int64(tt.channels); n != want {
				t.Errorf("run() = %d samples, want %d", n, want)
			}

			f, err := afile.Open(out, afile.DefaultOptions())
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer f.Close()
			if f.Container() != tt.container || f.Format().Kind != tt.kind {
				t.Errorf("output = %s %s, want %s %s", f.Container(), f.Format().Kind, tt.container, tt.kind)
			}
			if f.Channels() != tt.channels || f.SampleRate() != tt.rate || f.Frames() != tt.frames {
				t.Errorf("output = %d channels at %g Hz, %d frames; want %d at %g Hz, %d frames",
					f.Channels(), f.SampleRate(), f.Frames(), tt.channels, tt.rate, tt.frames)
			}
			if s, _ := f.Info(info.Program); s != "copyaudio" {
				t.Errorf("Info(program) = %q, want copyaudio", s)
			}
		})
	}
}

func TestSettings(t *testing.T) {
	resetFlags()
	t.Cleanup(resetFlags)
	gain, speakers = 2, "FL FR"
	records = []string{"title: Test", "comment: two words"}

	opts, cp, err := settings()
	if err != nil {
		t.Fatalf("settings() error = %v", err)
	}
	if opts.Gain != 2 || opts.Speakers != "FL FR" {
		t.Errorf("settings() gain %g speakers %q, want 2 and \"FL FR\"", opts.Gain, opts.Speakers)
	}
	if s, _ := opts.Info.Get(info.Title); s != "Test" {
		t.Errorf("Info(title) = %q, want Test", s)
	}
	if cp.Container != formats.Unknown || cp.Format.Kind != codec.Undefined {
		t.Errorf("settings() = %+v, want the input type and format kept", cp)
	}
}

func TestSettings_Errors(t *testing.T) {
	tests := []struct {
		name string
		set  func()
	}{
		{"output type", func() { outputType = "mp4" }},
		{"input type", func() { inputType = "nope" }},
		{"data format", func() { dataFormat = "int13" }},
		{"config", func() { configPath = filepath.Join(t.TempDir(), "missing.yaml") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			t.Cleanup(resetFlags)
			tt.set()
			if _, _, err := settings(); err == nil {
				t.Error("settings() error = nil, want an error")
			}
		})
	}
}
