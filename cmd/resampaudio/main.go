// SPDX-License-Identifier: EPL-2.0

// Command resampaudio resamples an audio file of any supported type to mono
// 16-bit samples, 8 kHz by default.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ik5/audfile"
	"github.com/ik5/audfile/afile"
	"github.com/ik5/audfile/codec"
	"github.com/ik5/audfile/formats"
)

var (
	configPath string
	outputType string
	rate       float64
	version    bool
)

func init() {
	flag.StringVar(&configPath, "c", "", "YAML options file")
	flag.StringVar(&outputType, "F", "wave", "Output file type")
	flag.Float64Var(&rate, "s", 8000, "Output sampling rate in Hz")
	flag.BoolVar(&version, "version", false, "Display version information")
}

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if version {
		fmt.Printf("resampaudio version %s\n", VERSION)
		os.Exit(0)
	}
	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Usage: resampaudio [options] infile outfile")
		flag.PrintDefaults()
		os.Exit(2)
	}

	n, err := run(flag.Arg(0), flag.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d samples at %g Hz to %s\n", n, rate, flag.Arg(1))
}

func run(in, out string) (int, error) {
	opts, err := afile.LoadOptions(configPath)
	if err != nil {
		return 0, err
	}
	opts.ProgramName = "resampaudio"
	c, err := formats.ParseContainer(outputType)
	if err != nil {
		return 0, err
	}

	src, err := afile.Open(in, opts)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	pcm, err := audfile.ResampleToMono16(src, rate)
	if err != nil {
		return 0, err
	}

	dst, err := afile.Create(out, formats.WriteParams{
		Container:   c,
		Format:      codec.Format{Kind: codec.Int16},
		NumChannels: 1,
		SampleRate:  rate,
		NumFrames:   int64(len(pcm.Data)),
	}, opts)
	if err != nil {
		return 0, err
	}
	n, err := dst.WriteIntBuffer(pcm)
	if err != nil {
		_ = dst.Close()
		return n, err
	}
	return n, dst.Close()
}
