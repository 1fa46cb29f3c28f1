package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/lightfs"
)

// config is the YAML configuration of the lightfs command. Geometry fields
// left zero fall back to the reference sizing.
type config struct {
	Volume   string `yaml:"volume"`
	Geometry struct {
		TotalSize  int64 `yaml:"total_size"`
		SystemSize int64 `yaml:"system_size"`
		BlockSize  int64 `yaml:"block_size"`
		MaxFiles   int   `yaml:"max_files"`
	} `yaml:"geometry"`
}

func defaultConfig() config {
	return config{Volume: "light.fs"}
}

func loadConfig(path string) (config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// geometry merges the configured overrides onto the default geometry.
func (c config) geometry() lightfs.Geometry {
	g := lightfs.DefaultGeometry()
	if c.Geometry.TotalSize > 0 {
		g.TotalSize = c.Geometry.TotalSize
	}
	if c.Geometry.SystemSize > 0 {
		g.SystemSize = c.Geometry.SystemSize
	}
	if c.Geometry.BlockSize > 0 {
		g.BlockSize = c.Geometry.BlockSize
	}
	if c.Geometry.MaxFiles > 0 {
		g.MaxFiles = c.Geometry.MaxFiles
	}
	return g
}
