package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the optional oxj configuration file. Flags given on the
// command line take precedence over it.
type Config struct {
	Format         string `yaml:"format"`
	Verbosity      *int   `yaml:"verbosity"`
	LogFile        string `yaml:"log_file"`
	Workers        int    `yaml:"workers"`
	ServerAddress  string `yaml:"server_address"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "oxj", "config.yaml")
}

// LoadConfig reads path. A missing file yields a zero Config unless the
// path was given explicitly.
func LoadConfig(path string, explicit bool) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return Config{}, nil
		}
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Workers < 0 {
		return Config{}, fmt.Errorf("parse %s: workers must not be negative", path)
	}
	return cfg, nil
}
