// Package config holds the settings of a subenum run, read from a YAML
// file and overridden on the command line.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/signadot/subenum/naming"
	"github.com/signadot/subenum/subenum"
)

// FileName is looked up in the scanned directory when no file is given.
const FileName = ".subenum.yaml"

const (
	DefaultTag    = "subenum"
	DefaultSuffix = "_gen.go"
)

type Config struct {
	// Tag is the build tag marking input files.
	Tag string `yaml:"tag,omitempty"`

	// Suffix replaces ".go" in input file names to name outputs.
	Suffix string `yaml:"suffix,omitempty"`

	// Jobs bounds the number of files processed at once.
	Jobs int `yaml:"jobs,omitempty"`

	Naming naming.Config `yaml:"naming,omitempty"`

	Emit Emit `yaml:"emit,omitempty"`
}

// Emit selects optional generated declarations.
type Emit struct {
	Stringer bool `yaml:"stringer,omitempty"`
	Member   bool `yaml:"member,omitempty"`
	Values   bool `yaml:"values,omitempty"`
}

// Default returns a configuration with every default filled in.
func Default() *Config {
	c := &Config{}
	c.fill()
	return c
}

func (c *Config) fill() {
	if c.Tag == "" {
		c.Tag = DefaultTag
	}
	if c.Suffix == "" {
		c.Suffix = DefaultSuffix
	}
	if c.Jobs == 0 {
		c.Jobs = runtime.GOMAXPROCS(0)
	}
	def := naming.DefaultConfig()
	for _, f := range []struct {
		dst *string
		def string
	}{
		{&c.Naming.Variant, def.Variant},
		{&c.Naming.ToOriginal, def.ToOriginal},
		{&c.Naming.FromOriginal, def.FromOriginal},
		{&c.Naming.EqualSubset, def.EqualSubset},
		{&c.Naming.EqualOriginal, def.EqualOriginal},
		{&c.Naming.Member, def.Member},
		{&c.Naming.Values, def.Values},
	} {
		if *f.dst == "" {
			*f.dst = f.def
		}
	}
}

// Parse decodes a configuration. Unknown keys are an error.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.UnmarshalWithOptions(data, c, yaml.DisallowUnknownField()); err != nil {
		return nil, err
	}
	c.fill()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %q: %w", path, err)
	}
	return c, nil
}

// Find loads FileName from dir, or returns the defaults when there is
// none.
func Find(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	c, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return c, err
}

// Validate checks the fields that Parse and command line overrides can
// set to unusable values.
func (c *Config) Validate() error {
	if !validTag(c.Tag) {
		return fmt.Errorf("invalid build tag %q", c.Tag)
	}
	if !strings.HasSuffix(c.Suffix, ".go") || strings.HasSuffix(c.Suffix, "_test.go") || c.Suffix == ".go" {
		return fmt.Errorf("invalid output suffix %q: must end in .go and not name a test file", c.Suffix)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	return nil
}

func validTag(tag string) bool {
	if tag == "" {
		return false
	}
	for _, r := range tag {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}

// Rules compiles the naming rules.
func (c *Config) Rules() (*naming.Rules, error) {
	return naming.Compile(c.Naming)
}

// Options returns the expansion options for rules compiled from c.
func (c *Config) Options(rules *naming.Rules) subenum.Options {
	return subenum.Options{
		Rules:    rules,
		Stringer: c.Emit.Stringer,
		Member:   c.Emit.Member,
		Values:   c.Emit.Values,
	}
}

// Output returns the name of the file generated from input.
func (c *Config) Output(input string) string {
	return strings.TrimSuffix(input, ".go") + c.Suffix
}
