package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// runConfig is the run-time configuration for one ookcat invocation,
// loadable from a YAML file found by searching a short list of candidate
// paths; the caller gets the defaults (log level "info", no table dump) if
// none of the search paths exists. An explicit path that cannot be read is
// an error.
type runConfig struct {
	// LogLevel names a charmbracelet/log level: "debug", "info", "warn"
	// or "error".
	LogLevel string `yaml:"log_level"`

	// DumpCategoryTable writes the index-to-center lookup table for
	// each polarity to stderr after categorization.
	DumpCategoryTable bool `yaml:"dump_category_table"`
}

var configSearchLocations = []string{
	"ookcat.yaml",
	"config/ookcat.yaml",
	"../config/ookcat.yaml",
}

func loadRunConfig(explicitPath string) (runConfig, error) {
	cfg := runConfig{LogLevel: "info"}

	locations := configSearchLocations
	if explicitPath != "" {
		locations = []string{explicitPath}
	}

	var data []byte
	var found string
	for _, loc := range locations {
		b, err := os.ReadFile(loc)
		if err == nil {
			data = b
			found = loc
			break
		}
	}

	if found == "" {
		if explicitPath != "" {
			return cfg, fmt.Errorf("ookcat: could not read config file %s", explicitPath)
		}
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("ookcat: parsing config file %s: %w", found, err)
	}

	return cfg, nil
}
