// Package config loads project settings for the kite command.
//
// A project is configured by a kite.toml, kite.yaml or kite.yml file. The
// file is looked up from the directory of the checked source upwards, and the
// first one found wins. Command line flags override whatever it sets.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	semver "github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// FileNames lists the recognized configuration files in lookup order.
var FileNames = []string{"kite.toml", "kite.yaml", "kite.yml"}

// Accepted values for the enumerated settings.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"

	EmitNone   = "none"
	EmitAST    = "ast"
	EmitTokens = "tokens"

	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config holds the settings of one project.
type Config struct {
	// Requires is a semver constraint the kite version must satisfy.
	Requires string `toml:"requires" yaml:"requires"`
	// Color selects colored diagnostics: auto, always or never.
	Color string `toml:"color" yaml:"color"`
	// Emit selects what check prints for a file that parses: none, ast or tokens.
	Emit string `toml:"emit" yaml:"emit"`
	// Format is the encoding of emitted trees: text, json or yaml.
	Format string `toml:"format" yaml:"format"`
	// MaxErrors caps the diagnostics printed per file; 0 means no cap.
	MaxErrors int `toml:"max_errors" yaml:"max_errors"`

	// Path is the file the settings came from, empty for the defaults.
	Path string `toml:"-" yaml:"-"`
}

// Default returns the settings used when no file is found.
func Default() *Config {
	return &Config{
		Color:  ColorAuto,
		Emit:   EmitNone,
		Format: FormatText,
	}
}

// Load reads a configuration file. The format is chosen by extension and
// unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported config format %q", path, ext)
	}

	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover returns the first configuration file found in dir or one of its
// parents, or "" when there is none.
func Discover(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			info, err := os.Stat(candidate)
			if err == nil && !info.IsDir() {
				return candidate, nil
			}
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("failed to stat %s: %w", candidate, err)
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadFor discovers and loads the configuration governing dir, falling
// back to Default.
func LoadFor(dir string) (*Config, error) {
	path, err := Discover(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks the enumerated settings and the version constraint.
func (c *Config) Validate() error {
	if err := oneOf("color", c.Color, ColorAuto, ColorAlways, ColorNever); err != nil {
		return err
	}
	if err := oneOf("emit", c.Emit, EmitNone, EmitAST, EmitTokens); err != nil {
		return err
	}
	if err := oneOf("format", c.Format, FormatText, FormatJSON, FormatYAML); err != nil {
		return err
	}
	if c.MaxErrors < 0 {
		return fmt.Errorf("max_errors must not be negative, got %d", c.MaxErrors)
	}
	if c.Requires != "" {
		if _, err := semver.NewConstraint(c.Requires); err != nil {
			return fmt.Errorf("invalid requires constraint %q: %w", c.Requires, err)
		}
	}
	return nil
}

// CheckVersion reports an error when version does not satisfy Requires.
func (c *Config) CheckVersion(version string) error {
	if c.Requires == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(c.Requires)
	if err != nil {
		return fmt.Errorf("invalid requires constraint %q: %w", c.Requires, err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid kite version %q: %w", version, err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("kite %s does not satisfy requires %q from %s", v, c.Requires, c.source())
	}
	return nil
}

func (c *Config) source() string {
	if c.Path == "" {
		return "defaults"
	}
	return c.Path
}

func oneOf(key, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("invalid %s %q (want one of %s)", key, value, strings.Join(allowed, ", "))
}
