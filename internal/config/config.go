// Package config loads the optional .tickfsm.yaml project file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/tickfsm/internal/compiler"
	"github.com/aretw0/tickfsm/internal/logging"
	"github.com/aretw0/tickfsm/pkg/domain"
	"gopkg.in/yaml.v3"
)

// FileName is the project file looked up in the working directory.
const FileName = ".tickfsm.yaml"

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds the settings shared by every command.
type Config struct {
	Suffix           string `yaml:"suffix"`
	Package          string `yaml:"package"`
	Output           string `yaml:"output"`
	LogLevel         string `yaml:"log_level"`
	LogFormat        string `yaml:"log_format"`
	MetricsFile      string `yaml:"metrics_file"`
	WarningsAsErrors bool   `yaml:"warnings_as_errors"`
	Color            string `yaml:"color"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Suffix:    compiler.DefaultSuffix,
		LogLevel:  "info",
		LogFormat: "text",
		Color:     ColorAuto,
	}
}

// Load reads path over the defaults. A missing file is not an error unless
// required is set, which the CLI does when --config was given explicitly.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := Decode(bytes.NewReader(data), &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Decode decodes a YAML document into cfg, rejecting unknown keys.
// An empty document leaves cfg untouched.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks the values a file or the flags may have set.
func (c Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q: must be text or json", c.LogFormat))
	}
	switch c.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		errs = append(errs, fmt.Errorf("invalid color %q: must be auto, always or never", c.Color))
	}
	if !strings.HasSuffix(c.Suffix, ".go") || c.Suffix == ".go" {
		errs = append(errs, fmt.Errorf("invalid suffix %q: must end in .go and add a name part", c.Suffix))
	}
	if c.Package != "" && !domain.IsIdentifier(c.Package) {
		errs = append(errs, fmt.Errorf("invalid package %q: not a Go identifier", c.Package))
	}
	return errors.Join(errs...)
}

// CompilerOptions translates the configuration into pipeline options.
func (c Config) CompilerOptions() []compiler.Option {
	opts := []compiler.Option{
		compiler.WithSuffix(c.Suffix),
		compiler.WithWarningsAsErrors(c.WarningsAsErrors),
	}
	if c.Package != "" {
		opts = append(opts, compiler.WithDefaultPackage(c.Package))
	}
	if c.Output != "" {
		opts = append(opts, compiler.WithOutputDir(c.Output))
	}
	return opts
}
