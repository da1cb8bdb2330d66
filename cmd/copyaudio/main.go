// SPDX-License-Identifier: EPL-2.0

// Command copyaudio copies an audio file, optionally changing its file type,
// data format, sampling rate or channel count.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ik5/audfile"
	"github.com/ik5/audfile/afile"
	"github.com/ik5/audfile/codec"
	"github.com/ik5/audfile/formats"
	"github.com/ik5/audfile/info"
)

var (
	configPath string
	inputType  string
	outputType string
	dataFormat string
	rate       float64
	mono       bool
	gain       float64
	speakers   string
	noStdInfo  bool
	records    []string
	version    bool
)

func init() {
	flag.StringVar(&configPath, "c", "", "YAML options file")
	flag.StringVar(&inputType, "t", "", "Input file type (defaults to detection)")
	flag.StringVar(&outputType, "F", "", "Output file type (defaults to the input type)")
	flag.StringVar(&dataFormat, "D", "", "Output data format, e.g. int16, mulaw, float32 (defaults to the input format)")
	flag.Float64Var(&rate, "s", 0, "Output sampling rate in Hz (defaults to the input rate)")
	flag.BoolVar(&mono, "m", false, "Mix all channels down to one")
	flag.Float64Var(&gain, "g", 0, "Gain applied to the input samples")
	flag.StringVar(&speakers, "S", "", "Loudspeaker configuration for the output, e.g. \"FL FR\" or 5.1")
	flag.BoolVar(&noStdInfo, "no-std-info", false, "Do not write standard information records")
	flag.Func("I", "Information record \"id: text\" for the output (repeatable)", func(s string) error {
		records = append(records, s)
		return nil
	})
	flag.BoolVar(&version, "version", false, "Display version information")
}

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if version {
		fmt.Printf("copyaudio version %s\n", VERSION)
		os.Exit(0)
	}
	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Usage: copyaudio [options] infile outfile")
		flag.PrintDefaults()
		os.Exit(2)
	}

	n, err := run(flag.Arg(0), flag.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Copied %d samples to %s\n", n, flag.Arg(1))
}

func run(in, out string) (int64, error) {
	opts, cp, err := settings()
	if err != nil {
		return 0, err
	}
	return audfile.Convert(in, out, cp, opts)
}

// settings combines the options file with the command line.
func settings() (afile.Options, audfile.ConvertParams, error) {
	var cp audfile.ConvertParams
	opts, err := afile.LoadOptions(configPath)
	if err != nil {
		return opts, cp, err
	}
	opts.ProgramName = "copyaudio"
	if inputType != "" {
		if opts.Container, err = formats.ParseContainer(inputType); err != nil {
			return opts, cp, err
		}
	}
	if outputType != "" {
		if cp.Container, err = formats.ParseContainer(outputType); err != nil {
			return opts, cp, err
		}
	}
	if dataFormat != "" {
		if cp.Format.Kind, err = codec.ParseKind(dataFormat); err != nil {
			return opts, cp, err
		}
	}
	if gain != 0 {
		opts.Gain = gain
	}
	if speakers != "" {
		opts.Speakers = speakers
	}
	if noStdInfo {
		opts.NoStdInfo = true
	}
	if len(records) > 0 {
		if opts.Info == nil {
			opts.Info = info.NewRecords(opts.InfoMax)
		}
		for _, s := range records {
			r := info.ParseRecord(s)
			if err := opts.Info.Add(r.ID, r.Text); err != nil {
				return opts, cp, err
			}
		}
	}
	cp.Rate = rate
	cp.Mono = mono
	return opts, cp, nil
}
