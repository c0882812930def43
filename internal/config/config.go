// Package config loads and validates the optional taikocss.yaml project
// file. Command-line flags override anything set here; a missing file is not
// an error and yields the defaults.
package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	taikoerrors "github.com/taikocss/taikocss/pkg/errors"
)

// DefaultFilename is the project file looked up in the working directory.
const DefaultFilename = "taikocss.yaml"

// Config represents the full taikocss project document.
type Config struct {
	Version    string   `yaml:"version" validate:"omitempty,oneof=1"`
	Theme      string   `yaml:"theme,omitempty"`
	Direction  string   `yaml:"direction,omitempty" validate:"omitempty,oneof=ltr rtl"`
	Out        string   `yaml:"out,omitempty"`
	SourceMaps bool     `yaml:"source_maps,omitempty"`
	Include    []string `yaml:"include,omitempty" validate:"omitempty,min=1,dive,glob"`
	Exclude    []string `yaml:"exclude,omitempty" validate:"omitempty,dive,glob"`
}

// Default returns the configuration used when no project file exists.
func Default() *Config {
	return &Config{
		Version:   "1",
		Direction: "ltr",
		Out:       "dist/taiko",
	}
}

// Load reads, decodes, and validates a project file. When path is empty the
// default filename is tried; its absence yields the defaults.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFilename
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, taikoerrors.NewParseError(path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, taikoerrors.NewParseError(path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
