package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// fileConfiguration mirrors the subset of chokidar.Options that makes sense
// to express in a static configuration file, plus the initial set of watched
// paths. Durations are expressed in milliseconds to avoid pulling in a
// custom YAML duration type, matching the plain-struct-plus-yaml.v3 style
// the rest of the pack favors over bespoke (Un)MarshalYAML methods.
type fileConfiguration struct {
	Paths                []string `yaml:"paths"`
	Poll                 bool     `yaml:"poll"`
	IntervalMilliseconds int      `yaml:"intervalMilliseconds"`
	BinaryIntervalMs     int      `yaml:"binaryIntervalMilliseconds"`
	EnableBinaryInterval bool     `yaml:"enableBinaryInterval"`
	FollowSymlinks       *bool    `yaml:"followSymlinks"`
	IgnoreInitial        bool     `yaml:"ignoreInitial"`
	Depth                *int     `yaml:"depth"`
	Cwd                  string   `yaml:"cwd"`
	Ignore               []string `yaml:"ignore"`
}

// loadFileConfiguration reads and parses a YAML configuration file. A
// missing path is not an error if explicit is false (the default config
// path is optional); it's an error if the user explicitly requested a
// config file with --config and it doesn't exist.
func loadFileConfiguration(path string, explicit bool) (*fileConfiguration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &fileConfiguration{}, nil
		}
		return nil, errors.Wrap(err, "unable to read configuration file")
	}

	config := &fileConfiguration{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "unable to parse configuration file")
	}

	return config, nil
}
