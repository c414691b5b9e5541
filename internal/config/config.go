// Package config resolves the effective options for a lint run: preset
// defaults, an optional collint.yml discovered from the target directory
// upward, and vocabulary overrides merged over the built-in lists.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"collint/internal/vocab"
)

// Names are the config file names searched for, in order
var Names = []string{"collint.yml", "collint.yaml", ".collint.yml"}

// Config holds the options consulted while classifying and reporting
type Config struct {
	// Per-kind toggles
	CheckArrays    bool `yaml:"check_arrays"`
	CheckObjects   bool `yaml:"check_objects"`
	CheckArrayLike bool `yaml:"check_arraylike"`

	// AllowExplicitBoolean keeps Boolean(x) and !!x wrappers quiet
	AllowExplicitBoolean bool `yaml:"allow_explicit_boolean"`

	// StrictNaming enables the naming-pattern tier of the classifier
	StrictNaming bool `yaml:"strict_naming"`

	// Cache enables the on-disk result cache
	Cache bool `yaml:"cache"`

	// Skip lists extra path segments to exclude from discovery
	Skip []string `yaml:"skip"`

	// Vocabulary overrides the built-in name lists
	Vocabulary VocabularyConfig `yaml:"vocabulary"`
}

// VocabularyConfig is a vocabulary override block. With Replace set,
// non-empty lists replace the built-in ones instead of extending them.
type VocabularyConfig struct {
	vocab.Definition `yaml:",inline"`
	Replace          bool `yaml:"replace"`
}

// Default returns the recommended configuration
func Default() *Config {
	return &Config{
		CheckArrays:          true,
		CheckObjects:         true,
		CheckArrayLike:       true,
		AllowExplicitBoolean: true,
		Cache:                true,
	}
}

// Preset returns a named option bundle
func Preset(name string) (*Config, error) {
	switch name {
	case "", "recommended":
		return Default(), nil
	case "strict":
		cfg := Default()
		cfg.StrictNaming = true
		cfg.AllowExplicitBoolean = false
		return cfg, nil
	default:
		return nil, fmt.Errorf("unknown preset %q (valid: recommended, strict)", name)
	}
}

// Resolve produces the effective configuration: preset defaults overlaid
// with the config file at explicit, or discovered from dir when explicit
// is empty. Returns the config file path actually used, if any.
func Resolve(explicit, preset, dir string) (*Config, string, error) {
	// Pick up ANTHROPIC_API_KEY and friends from a local .env
	_ = godotenv.Load()

	base, err := Preset(preset)
	if err != nil {
		return nil, "", err
	}

	path := explicit
	if path == "" {
		path = Discover(dir)
	}
	if path == "" {
		return base, "", nil
	}

	cfg, err := Load(path, base)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// Load reads a config file over a copy of base. Fields absent from the
// file keep their base values.
func Load(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Discover walks from dir toward the filesystem root looking for a
// config file. Returns the empty string when none exists.
func Discover(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		for _, name := range Names {
			p := filepath.Join(dir, name)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Enabled reports whether diagnostics for a collection kind are on
func (c *Config) Enabled(kind string) bool {
	switch kind {
	case "array":
		return c.CheckArrays
	case "object":
		return c.CheckObjects
	case "arraylike":
		return c.CheckArrayLike
	}
	return false
}

// Vocab compiles the effective vocabulary: the built-in lists merged
// with any overrides from the config file
func (c *Config) Vocab() (*vocab.Vocabulary, error) {
	def, err := vocab.DefaultDefinition()
	if err != nil {
		return nil, err
	}
	def = def.Merge(c.Vocabulary.Definition, c.Vocabulary.Replace)
	return vocab.Compile(def)
}

// Fingerprint hashes the effective options, for cache keying
func (c *Config) Fingerprint() string {
	b, _ := yaml.Marshal(c)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:8])
}
