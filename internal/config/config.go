// Package config loads optional YAML defaults for the CLI. Flags given on
// the command line always win over the file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config mirrors the command-line surface of the tool.
type Config struct {
	// Output is the record format: text, csv, or json.
	Output string `yaml:"output"`
	// OnChecksumError is "print" or "skip".
	OnChecksumError string `yaml:"on_checksum_error"`
	// Demux is auto, native, ffmpeg, or raw.
	Demux string `yaml:"demux"`
	// Map is the ffmpeg stream specifier to use instead of probing.
	Map string `yaml:"map"`
	// MaxResyncBytes bounds the garbage tolerated between packets.
	MaxResyncBytes int64 `yaml:"max_resync_bytes"`
}

// Load parses the YAML file at path.
func Load(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
