// Package config loads the YAML configuration of the scanner CLI.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the scanner configuration file.
type Config struct {
	// Roots are the directories to walk for .flac files.
	Roots []string `yaml:"roots"`
	// IndexPath is the directory of the badger index.
	IndexPath string `yaml:"indexPath"`
	// MinimumFreeGB gates opening the index on available disk space.
	MinimumFreeGB int `yaml:"minimumFreeGB"`
	// DumpPath, when set, receives an xz-compressed dump of the index
	// after each scan.
	DumpPath string `yaml:"dumpPath"`
	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose"`
}

// Load reads the YAML file at path and fills in defaults for unset fields.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if config.IndexPath == "" {
		config.IndexPath = "flacscan-index"
	}
	if config.MinimumFreeGB == 0 {
		config.MinimumFreeGB = 1
	}

	return config, nil
}
