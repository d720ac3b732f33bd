package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("full", func(t *testing.T) {
		path := writeConfig(t, `
format: json
verbosity: 2
log_file: /tmp/oxj.log
workers: 3
server_address: 0.0.0.0:9000
max_upload_bytes: 1024
`)
		cfg, err := LoadConfig(path, true)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Format != "json" || cfg.LogFile != "/tmp/oxj.log" || cfg.Workers != 3 {
			t.Errorf("cfg = %+v", cfg)
		}
		if cfg.Verbosity == nil || *cfg.Verbosity != 2 {
			t.Errorf("Verbosity = %v, want 2", cfg.Verbosity)
		}
		if cfg.ServerAddress != "0.0.0.0:9000" || cfg.MaxUploadBytes != 1024 {
			t.Errorf("server settings = %q, %d", cfg.ServerAddress, cfg.MaxUploadBytes)
		}
	})

	t.Run("verbosity unset", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, "format: line\n"), true)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Verbosity != nil {
			t.Errorf("Verbosity = %d, want unset", *cfg.Verbosity)
		}
	})

	t.Run("missing default file", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), false)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg != (Config{}) {
			t.Errorf("cfg = %+v, want zero", cfg)
		}
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), true)
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("LoadConfig() error = %v, want fs.ErrNotExist", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		if _, err := LoadConfig(writeConfig(t, "workers: [1, 2\n"), true); err == nil {
			t.Error("LoadConfig() error = nil, want a parse error")
		}
	})

	t.Run("negative workers", func(t *testing.T) {
		if _, err := LoadConfig(writeConfig(t, "workers: -1\n"), true); err == nil {
			t.Error("LoadConfig() error = nil, want an error")
		}
	})
}
