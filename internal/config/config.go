// Package config loads the optional .ergen.yaml project file. Every field
// has a flag counterpart on the CLI; flags win over file values.
package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// DefaultPath is the config file looked up when no --config flag is given.
const DefaultPath = ".ergen.yaml"

// Config mirrors the .ergen.yaml layout.
type Config struct {
	// Namespace is the C# namespace for generated code.
	Namespace string `yaml:"namespace"`
	// Context is the DbContext class name.
	Context string `yaml:"context"`
	// EntitiesOut is the output path for the entity classes file.
	EntitiesOut string `yaml:"entities_out"`
	// MappingOut is the output path for the DbContext file.
	MappingOut string `yaml:"mapping_out"`
	// Exclude lists entities dropped before generation.
	Exclude []string `yaml:"exclude"`
}

// Load reads a config file. A missing file at the default path is not an
// error (the file is optional); a missing file at an explicitly requested
// path is.
func Load(path string, explicit bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cfg, nil
}
