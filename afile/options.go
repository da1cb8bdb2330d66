// SPDX-License-Identifier: EPL-2.0

package afile

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ik5/audfile/formats"
	"github.com/ik5/audfile/info"
	"github.com/ik5/audfile/logger"
)

// Options configure opening files. One value is normally built at start-up
// and passed to every Open and Create call.
type Options struct {
	// HaltOnError logs any error and exits the process instead of returning it.
	HaltOnError bool `yaml:"halt_on_error"`
	// Log receives warnings about corrected headers. Nil is silent.
	Log      *logger.Logger `yaml:"-"`
	LogLevel string         `yaml:"log_level"`

	// Container forces the input file type. Unknown detects it.
	Container formats.Container `yaml:"input_type"`
	// Headerless describes input that matches no file type. Nil makes such
	// input an error.
	Headerless *formats.HeaderlessParams `yaml:"headerless"`

	// FullScale is the program value of a full-scale sample, 1 if zero.
	FullScale float64 `yaml:"full_scale"`
	// Gain multiplies samples read, 1 if zero.
	Gain float64 `yaml:"gain"`

	// NoStdInfo suppresses the standard records of new files.
	NoStdInfo   bool          `yaml:"no_std_info"`
	InfoMax     int           `yaml:"info_max"`
	ProgramName string        `yaml:"program"`
	Info        *info.Records `yaml:"-"`

	// Speakers is the default loudspeaker configuration, such as "5.1".
	Speakers string `yaml:"speakers"`
	// Res is the default number of significant bits for new files.
	Res int `yaml:"res"`

	// SearchPath lists directories tried for relative input file names.
	SearchPath []string `yaml:"search_path"`

	Clock func() time.Time `yaml:"-"`
}

// DefaultOptions returns options with unit full scale and gain, automatic
// file type detection and no headerless fallback.
func DefaultOptions() Options {
	return Options{
		FullScale: 1,
		Gain:      1,
		InfoMax:   info.DefaultMax,
	}
}

// LoadOptions reads options from a YAML file on top of the defaults and
// appends the directories of the AUDIOPATH environment variable to the search
// path. An empty path skips the file.
func LoadOptions(path string) (Options, error) {
	cfg := struct {
		Options `yaml:",inline"`
		Info    []string `yaml:"info"`
	}{Options: DefaultOptions()}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Options{}, fmt.Errorf("failed to read options %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Options{}, fmt.Errorf("failed to parse options %s: %w", path, err)
		}
	}
	o := cfg.Options

	if dirs := getEnv("AUDIOPATH", ""); dirs != "" {
		o.SearchPath = append(o.SearchPath, filepath.SplitList(dirs)...)
	}
	if o.LogLevel != "" {
		o.Log = logger.Stderr(o.LogLevel)
	}
	if len(cfg.Info) > 0 {
		o.Info = info.NewRecords(o.InfoMax)
		for _, line := range cfg.Info {
			r := info.ParseRecord(line)
			if err := o.Info.Add(r.ID, r.Text); err != nil {
				return Options{}, err
			}
		}
	}
	return o, nil
}

// getEnv returns the value of the environment variable key, or defaultValue if unset.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (o *Options) programScale() float64 {
	if o.FullScale == 0 {
		return 1
	}
	return o.FullScale
}

func (o *Options) gain() float64 {
	if o.Gain == 0 {
		return 1
	}
	return o.Gain
}

func (o *Options) now() time.Time {
	if o.Clock != nil {
		return o.Clock()
	}
	return time.Now()
}

func (o *Options) decodeOptions() formats.DecodeOptions {
	return formats.DecodeOptions{Log: o.Log, InfoMax: o.InfoMax, Headerless: o.Headerless}
}

// resolve finds a relative input name in the search path. Names that exist
// as given, absolute names and "-" are returned unchanged.
func (o *Options) resolve(name string) string {
	if name == "-" || filepath.IsAbs(name) || len(o.SearchPath) == 0 {
		return name
	}
	if _, err := os.Stat(name); err == nil {
		return name
	}
	for _, dir := range o.SearchPath {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return name
}
