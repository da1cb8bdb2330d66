// SPDX-License-Identifier: EPL-2.0

// Command infoaudio prints the header information of audio files.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ik5/audfile/afile"
	"github.com/ik5/audfile/formats"
)

var (
	configPath string
	inputType  string
	showInfo   bool
	showLayout bool
	version    bool
)

func init() {
	flag.StringVar(&configPath, "c", "", "YAML options file")
	flag.StringVar(&inputType, "t", "", "Input file type (defaults to detection)")
	flag.BoolVar(&showInfo, "i", true, "Print information records")
	flag.BoolVar(&showLayout, "l", false, "Print the chunk layout of the header")
	flag.BoolVar(&version, "version", false, "Display version information")
}

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if version {
		fmt.Printf("infoaudio version %s\n", VERSION)
		os.Exit(0)
	}
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: infoaudio [options] file...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	opts, err := options()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	failed := false
	for _, name := range flag.Args() {
		if err := describe(os.Stdout, name, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", name, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func options() (afile.Options, error) {
	opts, err := afile.LoadOptions(configPath)
	if err != nil {
		return opts, err
	}
	if inputType != "" {
		if opts.Container, err = formats.ParseContainer(inputType); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// describe prints the parameters of one file.
func describe(w io.Writer, name string, opts afile.Options) error {
	f, err := afile.Open(name, opts)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(w, " File name: %s\n", name)
	fmt.Fprintf(w, " Header length: %d\n", f.DataStart())
	fmt.Fprintf(w, " File type: %s\n", f.Container())
	fmt.Fprintf(w, " Data format: %s\n", f.Format())
	if f.Res() > 0 && f.Res() != f.Format().Kind.Bits() {
		fmt.Fprintf(w, " Resolution: %d bits\n", f.Res())
	}
	fmt.Fprintf(w, " Sampling frequency: %g Hz\n", f.SampleRate())
	fmt.Fprintf(w, " Number of channels: %d\n", f.Channels())
	if len(f.Speakers()) > 0 {
		fmt.Fprintf(w, " Loudspeakers: %s\n", f.Speakers())
	}
	if frames := f.Frames(); frames >= 0 {
		d := time.Duration(float64(frames) / f.SampleRate() * float64(time.Second))
		fmt.Fprintf(w, " Number of frames: %d (%s)\n", frames, d.Round(time.Millisecond))
	} else {
		fmt.Fprintln(w, " Number of frames: unknown")
	}

	if showInfo && f.Records().Len() > 0 {
		fmt.Fprintln(w, " Information records:")
		for _, r := range f.Records().All() {
			fmt.Fprintf(w, "   %s\n", r)
		}
	}
	if showLayout && f.Layout() != nil {
		fmt.Fprintln(w, " Header layout:")
		fmt.Fprint(w, f.Layout())
	}
	return nil
}
