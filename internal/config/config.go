// Package config loads the crepr-generator configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"
)

// Default values.
const (
	DefaultRuntime    = "crepr-generator/crepr"
	DefaultOutput     = "crepr_gen.go"
	DefaultCharMarker = "char"
)

// Config controls code generation.
type Config struct {
	// Runtime is the import path of the runtime support package called by
	// generated code.
	Runtime string `yaml:"runtime,omitempty"`

	// Output is the name of the file generated in each package.
	Output string `yaml:"output,omitempty"`

	// CharMarker is the suffix that identifies a C character element type:
	// a pointer whose pointee name ends with it (case-sensitively) is a C
	// string. "char" matches C.char, C.uchar and c_char.
	CharMarker string `yaml:"char_marker,omitempty"`

	// Comments enables doc comments on generated methods.
	Comments *bool `yaml:"comments,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	applyDefaults(c)

	return c
}

// LoadFile loads and parses a YAML config file from the given path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a Config.
func Parse(data []byte) (*Config, error) {
	var c Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	// An empty document yields the defaults.
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Marshal serializes a Config to YAML.
func Marshal(c *Config) ([]byte, error) {
	return yaml.Marshal(c)
}

// GenerateComments reports whether doc comments are enabled.
func (c *Config) GenerateComments() bool {
	return c.Comments == nil || *c.Comments
}

// Validate checks the configuration for values the generator cannot use.
func (c *Config) Validate() error {
	if c.CharMarker == "" {
		return errors.New("config: char_marker must not be empty")
	}

	if err := module.CheckImportPath(c.Runtime); err != nil {
		return fmt.Errorf("config: runtime: %w", err)
	}

	if len(c.Output) <= len(".go") || !strings.HasSuffix(c.Output, ".go") {
		return fmt.Errorf("config: output %q must be a .go file name", c.Output)
	}

	return nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(c *Config) {
	if c.Runtime == "" {
		c.Runtime = DefaultRuntime
	}

	if c.Output == "" {
		c.Output = DefaultOutput
	}

	if c.CharMarker == "" {
		c.CharMarker = DefaultCharMarker
	}
}
