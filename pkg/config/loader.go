package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Common errors for configuration loading.
var (
	ErrFileNotFound     = errors.New("configuration file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidJSON      = errors.New("invalid JSON syntax")
	ErrInvalidYAML      = errors.New("invalid YAML syntax")
	ErrEmptyFile        = errors.New("configuration file is empty")
)

// Load builds the effective configuration from defaults, the optional file
// at path and the environment. An empty path falls back to BLOGD_CONFIG.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		if v := os.Getenv(EnvConfig); v != "" {
			path = v
			cfg.Set("configFile", SourceEnv)
		}
	}
	if path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	ApplyEnv(cfg)
	return cfg, nil
}

// LoadFile overlays the JSON or YAML file at path onto cfg. The format is
// chosen by extension (.yaml, .yml for YAML, otherwise JSON). Only keys
// present in the file are changed.
func LoadFile(path string, cfg *Config) error {
	data, err := readFile(path)
	if err != nil {
		return err
	}

	var keys map[string]any
	if isYAML(path) {
		if err := yaml.Unmarshal(data, &keys); err != nil {
			return fmt.Errorf("%w in file %s: %v", ErrInvalidYAML, path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("%w in file %s: %v", ErrInvalidYAML, path, err)
		}
	} else {
		if !json.Valid(data) {
			return fmt.Errorf("%w in file: %s", ErrInvalidJSON, path)
		}
		if err := json.Unmarshal(data, &keys); err != nil {
			return fmt.Errorf("%w in file %s: %v", ErrInvalidJSON, path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decoding %s: %w", path, err)
		}
	}

	for k := range keys {
		cfg.Set(k, SourceFile)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	cfg.ConfigFile = path
	return nil
}

// BaseDir returns the directory relative seed patterns resolve against: the
// config file's directory, or the working directory without one.
func (c *Config) BaseDir() string {
	if c.ConfigFile == "" {
		if cwd, err := os.Getwd(); err == nil {
			return cwd
		}
		return "."
	}
	return filepath.Dir(c.ConfigFile)
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	return data, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
