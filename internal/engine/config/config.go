// Package config handles parsing and validation of mergescout configuration files.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/irahardianto/mergescout/internal/platform/logger"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the project configuration location relative to the
// repository root.
const DefaultPath = ".mergescout/config.yaml"

// ProjectConfig is the top-level project configuration. Every field is
// optional; a repository without a config file runs on defaults.
type ProjectConfig struct {
	Version  int        `yaml:"version"`
	OtherRef string     `yaml:"other_ref,omitempty"`
	Fetch    bool       `yaml:"fetch,omitempty"`
	Scan     ScanConfig `yaml:"scan"`
}

// ScanConfig tunes the structural report parser's lookahead windows.
// Zero means the built-in default.
type ScanConfig struct {
	MetadataWindow int `yaml:"metadata_window,omitempty"`
	MarkerWindow   int `yaml:"marker_window,omitempty"`
}

// Loader handles loading configuration from the file system.
type Loader struct {
	fs     FileSystem
	getenv func(string) string
}

// NewLoader creates a new Loader with the given file system.
// Uses os.Getenv for environment variable lookups by default.
func NewLoader(fs FileSystem) *Loader {
	return &Loader{fs: fs, getenv: os.Getenv}
}

// NewLoaderWithEnv creates a Loader with a custom getenv function for testability.
func NewLoaderWithEnv(fs FileSystem, getenv func(string) string) *Loader {
	return &Loader{fs: fs, getenv: getenv}
}

// Load reads and parses a project configuration file from the given path.
// A missing file is not an error; defaults are returned instead, since
// the tool is expected to work in repositories that never opted in.
func (l *Loader) Load(ctx context.Context, path string) (*ProjectConfig, error) {
	logger.FromContext(ctx).Debug("loading config file", "path", path)
	// [SEC] Prevent path traversal
	path = filepath.Clean(path)

	cfg := &ProjectConfig{}

	data, err := l.fs.ReadFile(path)
	if err != nil {
		if l.fs.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", DefaultPath, err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load reads and parses a project configuration file from the given path using the real file system.
func Load(ctx context.Context, path string) (*ProjectConfig, error) {
	return NewLoader(&RealFileSystem{}).Load(ctx, path)
}

// validate rejects values the engine cannot honor. Multiple problems
// are joined so users can fix all at once.
func validate(cfg *ProjectConfig) error {
	var errs []error

	if cfg.Scan.MetadataWindow < 0 {
		errs = append(errs, fmt.Errorf("scan.metadata_window must not be negative, got %d", cfg.Scan.MetadataWindow))
	}
	if cfg.Scan.MarkerWindow < 0 {
		errs = append(errs, fmt.Errorf("scan.marker_window must not be negative, got %d", cfg.Scan.MarkerWindow))
	}

	return errors.Join(errs...)
}
