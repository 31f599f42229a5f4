package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the content of a repogen configuration file. Command-line flags
// override the values it sets.
type Config struct {
	Log LogConfig `yaml:"log" toml:"log"`
	// Target is the output directory.
	Target string `yaml:"target" toml:"target"`
	// Package is the import path of the target package.
	Package string `yaml:"package" toml:"package"`
	Header  string `yaml:"header" toml:"header"`
	Profile string `yaml:"profile" toml:"profile" validate:"omitempty,oneof=blocking sync suspending async"`
	Workers int    `yaml:"workers" toml:"workers" validate:"gte=0"`
	// Patterns are the Go packages holding directive-annotated entities.
	Patterns []string `yaml:"patterns" toml:"patterns" validate:"dive,required"`
	// Declarations are YAML declaration files, relative to the
	// configuration file.
	Declarations []string `yaml:"declarations" toml:"declarations" validate:"dive,required"`
	Tags         []string `yaml:"tags" toml:"tags" validate:"dive,required"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" toml:"format" validate:"omitempty,oneof=text json"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadConfig reads the configuration file at path. The format follows the
// extension: .yaml and .yml are YAML, .toml is TOML.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := &Config{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("decoding %s: unknown key %q", path, undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("config %s: unsupported format %q", path, ext)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i, decl := range cfg.Declarations {
		if !filepath.IsAbs(decl) {
			cfg.Declarations[i] = filepath.Join(dir, decl)
		}
	}
	return cfg, nil
}

// NewLogger returns a logger writing to w at the configured level and
// format. Empty values select info and text.
func NewLogger(w io.Writer, c LogConfig) (*slog.Logger, error) {
	if err := validate.Struct(c); err != nil {
		return nil, fmt.Errorf("invalid log config: %w", err)
	}
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch strings.ToLower(c.Format) {
	case "", "text":
		h = slog.NewTextHandler(w, opts)
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unsupported log format: %s", c.Format)
	}
	return slog.New(h), nil
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", level)
	}
}
